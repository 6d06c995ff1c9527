package statusapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client toggles the downstream service flag controlled by a managed
// account. The call is synchronous and never retried; failures surface
// to the caller's error boundary.
type Client struct {
	url  string
	http *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

type toggleRequest struct {
	Username string `json:"username"`
	Status   string `json:"status"`
}

func (c *Client) SetStatus(ctx context.Context, username, status string) error {
	payload, err := json.Marshal(toggleRequest{Username: username, Status: status})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("status toggle request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("status toggle for %s returned %d: %s", username, res.StatusCode, string(body))
	}
	return nil
}

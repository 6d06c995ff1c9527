package slipok

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrMissingAmount marks a verification response without a usable
// amount. This is a hard verification failure, not a transport error:
// the call succeeded but the slip cannot be credited.
var ErrMissingAmount = errors.New("verification response has no usable amount")

// RejectError is returned when the verification service explicitly
// rejects the slip.
type RejectError struct {
	Code    int
	Message string
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("slip rejected by verifier (code %d): %s", e.Code, e.Message)
}

// Result is the structured payment record extracted from a verified
// slip. TransTimestamp is the claimed time of the underlying bank
// transfer, not the processing time.
type Result struct {
	TransRef       string
	Amount         float64
	SendingBank    string
	ReceivingBank  string
	TransTimestamp time.Time
	Raw            json.RawMessage
}

type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

func NewClient(endpoint, apiKey string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: timeout},
	}
}

type verifyRequest struct {
	URL string `json:"url"`
}

type verifyResponse struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		TransRef       string   `json:"transRef"`
		Amount         *float64 `json:"amount"`
		SendingBank    string   `json:"sendingBank"`
		ReceivingBank  string   `json:"receivingBank"`
		TransTimestamp string   `json:"transTimestamp"`
	} `json:"data"`
}

// Verify submits the public image URL to the verification service and
// returns the structured record, a RejectError, ErrMissingAmount, or a
// transport error.
func (c *Client) Verify(ctx context.Context, imageURL string) (*Result, error) {
	payload, err := json.Marshal(verifyRequest{URL: imageURL})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-authorization", c.apiKey)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verification request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read verification response: %w", err)
	}

	var decoded verifyResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode verification response: %w", err)
	}

	if res.StatusCode != http.StatusOK || !decoded.Success {
		return nil, &RejectError{Code: decoded.Code, Message: decoded.Message}
	}

	if decoded.Data.Amount == nil || *decoded.Data.Amount <= 0 {
		return nil, ErrMissingAmount
	}

	transTimestamp, err := time.Parse(time.RFC3339, decoded.Data.TransTimestamp)
	if err != nil {
		return nil, fmt.Errorf("parse trans timestamp %q: %w", decoded.Data.TransTimestamp, err)
	}

	return &Result{
		TransRef:       decoded.Data.TransRef,
		Amount:         *decoded.Data.Amount,
		SendingBank:    decoded.Data.SendingBank,
		ReceivingBank:  decoded.Data.ReceivingBank,
		TransTimestamp: transTimestamp,
		Raw:            body,
	}, nil
}

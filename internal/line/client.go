package line

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// Profile is the subset of a LINE profile the core keeps.
type Profile struct {
	UserID        string
	DisplayName   string
	PictureURL    string
	StatusMessage string
	Language      string
}

// Client wraps the LINE Messaging API for the reconciliation engine
// and the billing scheduler: profile lookup, content fetch, reply and
// push. Webhook parsing (including signature validation) also lives
// here so the channel secret has a single owner.
type Client struct {
	bot *linebot.Client
}

func New(channelSecret, channelAccessToken string) (*Client, error) {
	bot, err := linebot.New(channelSecret, channelAccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create LINE client: %w", err)
	}
	return &Client{bot: bot}, nil
}

// ParseRequest validates the webhook signature and decodes the event
// batch. Returns linebot.ErrInvalidSignature on a bad signature.
func (c *Client) ParseRequest(r *http.Request) ([]*linebot.Event, error) {
	return c.bot.ParseRequest(r)
}

func (c *Client) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	res, err := c.bot.GetProfile(userID).WithContext(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get profile for %s: %w", userID, err)
	}
	return &Profile{
		UserID:        res.UserID,
		DisplayName:   res.DisplayName,
		PictureURL:    res.PictureURL,
		StatusMessage: res.StatusMessage,
		Language:      res.Language,
	}, nil
}

// GetContent streams the raw bytes of a message attachment. The caller
// owns the returned reader.
func (c *Client) GetContent(ctx context.Context, messageID string) (io.ReadCloser, string, error) {
	res, err := c.bot.GetMessageContent(messageID).WithContext(ctx).Do()
	if err != nil {
		return nil, "", fmt.Errorf("get content for message %s: %w", messageID, err)
	}
	return res.Content, res.ContentType, nil
}

func (c *Client) Reply(ctx context.Context, replyToken, text string) error {
	_, err := c.bot.ReplyMessage(replyToken, linebot.NewTextMessage(text)).WithContext(ctx).Do()
	if err != nil {
		return fmt.Errorf("reply message: %w", err)
	}
	return nil
}

func (c *Client) Push(ctx context.Context, userID, text string) error {
	_, err := c.bot.PushMessage(userID, linebot.NewTextMessage(text)).WithContext(ctx).Do()
	if err != nil {
		return fmt.Errorf("push message to %s: %w", userID, err)
	}
	return nil
}

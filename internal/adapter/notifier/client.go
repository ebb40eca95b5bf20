package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/polkiloo/giftpromo/internal/domain/model"
)

// ErrDisabled is returned when no webhook is configured.
var ErrDisabled = errors.New("gift link notifications are disabled")

const defaultRetryAfter = 5 * time.Second

// TooManyRequestsError represents a rate limiting signal from the webhook receiver.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Notifier delivers gift links to participants.
type Notifier interface {
	Send(ctx context.Context, n model.GiftNotification) error
}

// HTTPClient implements Notifier by POSTing JSON to a webhook.
type HTTPClient struct {
	endpoint   *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// payload mirrors the JSON body accepted by the webhook.
type payload struct {
	ParticipantID string  `json:"participantId"`
	FullName      string  `json:"fullName"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Code          string  `json:"code"`
	GiftURL       string  `json:"giftUrl"`
}

// NewHTTPClient creates webhook client with default timeout.
func NewHTTPClient(webhookURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(webhookURL)
	if err != nil {
		return nil, fmt.Errorf("parse webhook url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("webhook url must be absolute")
	}
	return &HTTPClient{
		endpoint: parsed,
		logger:   logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Send posts the notification to the webhook.
func (c *HTTPClient) Send(ctx context.Context, n model.GiftNotification) error {
	body, err := json.Marshal(payload{
		ParticipantID: n.ParticipantID,
		FullName:      n.FullName,
		Email:         n.Email,
		Phone:         n.Phone,
		Code:          n.Code,
		GiftURL:       n.GiftURL,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", n.ParticipantID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("webhook request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(respBody)))
		return fmt.Errorf("webhook error: %s", resp.Status)
	}
}

// disabled is used when no webhook is configured.
type disabled struct{}

func (disabled) Send(context.Context, model.GiftNotification) error {
	return ErrDisabled
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return defaultRetryAfter
	}
	if seconds, err := strconv.Atoi(header); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
		return 0
	}
	return defaultRetryAfter
}

// Package webhook delivers order status changes to an HTTP endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/polkiloo/restock/internal/domain/model"
)

const defaultRetryAfter = 5 * time.Second

// TooManyRequestsError represents a rate limiting signal from the receiver.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// HTTPNotifier posts status events as JSON.
type HTTPNotifier struct {
	endpoint   *url.URL
	httpClient *http.Client
	logger     *zap.Logger
}

// payload mirrors the JSON body sent to the receiver.
type payload struct {
	EventID    int64     `json:"event_id"`
	OrderID    int64     `json:"order_id"`
	SKC        string    `json:"skc"`
	Shop       string    `json:"shop"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Operation  string    `json:"operation"`
	ActorID    string    `json:"actor_id"`
	ActorRole  string    `json:"actor_role"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewHTTPNotifier creates a notifier with default timeout.
func NewHTTPNotifier(endpoint string, logger *zap.Logger) (*HTTPNotifier, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse webhook url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("webhook url must be absolute")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPNotifier{
		endpoint: parsed,
		logger:   logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Notify delivers one event. Any 2xx answer counts as delivered.
func (n *HTTPNotifier) Notify(ctx context.Context, event model.StatusEvent) error {
	body, err := json.Marshal(payload{
		EventID:    event.ID,
		OrderID:    event.OrderID,
		SKC:        event.SKC,
		Shop:       event.ShopRef,
		From:       string(event.From),
		To:         string(event.To),
		Operation:  event.Operation,
		ActorID:    event.ActorID,
		ActorRole:  string(event.ActorRole),
		OccurredAt: event.OccurredAt,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", "status-event-"+strconv.FormatInt(event.ID, 10))

	resp, err := n.httpClient.Do(req)
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
		reply, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		n.logger.Error("webhook delivery failed",
			zap.Int64("event_id", event.ID),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(reply)),
		)
		return fmt.Errorf("webhook error: %s", resp.Status)
	}
}

// Name identifies the notifier in logs.
func (n *HTTPNotifier) Name() string {
	return "webhook"
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

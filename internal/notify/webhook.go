// Package notify announces persisted evaluations on an external messaging
// webhook. Delivery is best-effort: failures are logged and never surfaced
// to the submitting caller, and nothing is retried.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"guardpost/internal/platform/metrics"
	"guardpost/internal/platform/middleware"
	"guardpost/internal/review/models"
)

// Dispatcher posts evaluation summaries to a single configured webhook.
type Dispatcher struct {
	webhookURL string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// Option configures the Dispatcher.
type Option func(*Dispatcher)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(client *http.Client) Option {
	return func(d *Dispatcher) {
		d.httpClient = client
	}
}

// WithMetrics records notification outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// New creates a webhook dispatcher. An empty webhookURL is allowed;
// notifications are then skipped.
func New(webhookURL string, timeout time.Duration, logger *slog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		webhookURL: webhookURL,
		timeout:    timeout,
		logger:     logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Notify renders and posts a summary of the record. Errors are logged at
// WARN and swallowed; the outcome is observable only through logs and
// metrics.
func (d *Dispatcher) Notify(ctx context.Context, e *models.Evaluation) {
	if d.webhookURL == "" {
		d.countNotification("skipped")
		return
	}

	if err := d.send(ctx, e); err != nil {
		d.countNotification("error")
		d.logger.WarnContext(ctx, "webhook notification failed",
			"evaluation_id", e.ID.String(),
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		return
	}
	d.countNotification("ok")
}

func (d *Dispatcher) send(ctx context.Context, e *models.Evaluation) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	payload, err := json.Marshal(webhookPayload{Embeds: []embed{renderEmbed(e)}})
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func (d *Dispatcher) countNotification(outcome string) {
	if d.metrics != nil {
		d.metrics.Notifications.WithLabelValues(outcome).Inc()
	}
}

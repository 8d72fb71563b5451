package orders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	resty "github.com/go-resty/resty/v2"

	"github.com/pasofino/ventabot/core/logger"
)

// FeedRecorder POSTs finalized sales to the order feed. Responses are logged
// and never retried; the dialogue treats recording as fire-and-forget.
type FeedRecorder struct {
	url    string
	client *resty.Client
}

// NewFeedRecorder builds a Recorder against the configured order feed URL.
func NewFeedRecorder(url string) *FeedRecorder {
	client := resty.New().
		SetHeader("User-Agent", "ventabot/1.0").
		SetTimeout(15 * time.Second).
		SetRetryCount(0)
	return &FeedRecorder{url: url, client: client}
}

// Record sends the fixed-shape sale payload. The response status and body are
// logged regardless of outcome.
func (r *FeedRecorder) Record(ctx context.Context, sale Sale) error {
	start := time.Now()
	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(sale).
		Post(r.url)
	if err != nil {
		logger.SVCOrders.LogAttrs(ctx, slog.LevelError, "order.feed.post",
			slog.String("status", "error"),
			slog.String("sale_id", sale.SaleID),
			slog.String("err", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("orders: feed post: %w", err)
	}

	status := "ok"
	if !resp.IsSuccess() {
		status = "error"
	}
	logger.SVCOrders.LogAttrs(ctx, slog.LevelInfo, "order.feed.post",
		slog.String("status", status),
		slog.String("sale_id", sale.SaleID),
		slog.String("payment", sale.Payment),
		slog.Int("http_status", resp.StatusCode()),
		slog.String("payload", logger.SanitizeLimit(string(resp.Body()), 256)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	if !resp.IsSuccess() {
		return fmt.Errorf("orders: feed post status %d", resp.StatusCode())
	}
	return nil
}

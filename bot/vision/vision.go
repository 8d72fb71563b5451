// Package vision wraps the image-model matcher. A match is an
// underscore-joined brand_model_color identifier; anything else is reported
// as no match.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	resty "github.com/go-resty/resty/v2"
	"github.com/pasofino/ventabot/core/logger"
)

// Matcher identifies a stocked product from a customer photo.
type Matcher interface {
	Match(ctx context.Context, image []byte) (string, bool)
}

// Client calls the configured matcher endpoint.
type Client struct {
	url    string
	client *resty.Client
}

// NewClient builds a Matcher against the given service URL.
func NewClient(url string) *Client {
	client := resty.New().
		SetHeader("User-Agent", "ventabot/1.0").
		SetTimeout(30 * time.Second).
		SetRetryCount(0)
	return &Client{url: url, client: client}
}

// Match uploads the image and returns the brand_model_color identifier, or
// false when the service fails or finds nothing.
func (c *Client) Match(ctx context.Context, image []byte) (string, bool) {
	if c.url == "" || len(image) == 0 {
		return "", false
	}
	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetFileReader("file", "image", bytes.NewReader(image)).
		Post(c.url)
	if err != nil || !resp.IsSuccess() {
		attrs := []slog.Attr{
			slog.String("status", "error"),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		}
		if err != nil {
			attrs = append(attrs, slog.String("err", err.Error()))
		} else {
			attrs = append(attrs, slog.Int("http_status", resp.StatusCode()))
		}
		logger.SVCVision.LogAttrs(ctx, slog.LevelWarn, "vision.match", attrs...)
		return "", false
	}

	var out struct {
		Match string `json:"match"`
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", false
	}
	id := strings.TrimSpace(out.Match)
	if id == "" || strings.Count(id, "_") < 2 {
		logger.SVCVision.LogAttrs(ctx, slog.LevelDebug, "vision.match",
			slog.String("status", "ok"),
			slog.String("outcome", "no_match"),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return "", false
	}

	logger.SVCVision.LogAttrs(ctx, slog.LevelInfo, "vision.match",
		slog.String("status", "ok"),
		slog.String("payload", id),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return id, true
}

// SplitID breaks a brand_model_color identifier into its three parts. Models
// may themselves contain underscores, so the first and last segments bound
// the model in between.
func SplitID(id string) (brand, model, color string, ok bool) {
	parts := strings.Split(id, "_")
	if len(parts) < 3 {
		return "", "", "", false
	}
	brand = parts[0]
	color = parts[len(parts)-1]
	model = strings.Join(parts[1:len(parts)-1], " ")
	if brand == "" || model == "" || color == "" {
		return "", "", "", false
	}
	return brand, model, color, true
}

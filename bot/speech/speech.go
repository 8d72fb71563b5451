// Package speech wraps the speech-to-text service. Transcription failures are
// reported as a missing result, not an error: the dialogue apologizes and
// keeps the phase unchanged.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"time"

	resty "github.com/go-resty/resty/v2"
	"github.com/pasofino/ventabot/core/logger"
)

// Transcriber converts customer voice notes to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mime string) (string, bool)
}

// Client calls the configured transcription endpoint.
type Client struct {
	url    string
	token  string
	client *resty.Client
}

// NewClient builds a Transcriber against the given service URL.
func NewClient(url, token string) *Client {
	client := resty.New().
		SetHeader("User-Agent", "ventabot/1.0").
		SetTimeout(30 * time.Second).
		SetRetryCount(0)
	return &Client{url: url, token: token, client: client}
}

// Transcribe uploads the audio and returns the transcription, or false on any
// failure. Failures are logged and never propagated.
func (c *Client) Transcribe(ctx context.Context, audio []byte, mime string) (string, bool) {
	if c.url == "" || len(audio) == 0 {
		return "", false
	}
	start := time.Now()
	req := c.client.R().
		SetContext(ctx).
		SetFileReader("file", "audio", bytes.NewReader(audio)).
		SetFormData(map[string]string{"mimetype": mime})
	if c.token != "" {
		req.SetAuthToken(c.token)
	}
	resp, err := req.Post(c.url)
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
		logger.SVCSpeech.LogAttrs(ctx, slog.LevelWarn, "speech.transcribe", attrs...)
		return "", false
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil || out.Text == "" {
		logger.SVCSpeech.LogAttrs(ctx, slog.LevelWarn, "speech.transcribe",
			slog.String("status", "error"),
			slog.String("err", "empty or malformed transcription"),
		)
		return "", false
	}

	logger.SVCSpeech.LogAttrs(ctx, slog.LevelDebug, "speech.transcribe",
		slog.String("status", "ok"),
		slog.String("payload", logger.SanitizeLimit(out.Text, 128)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return out.Text, true
}

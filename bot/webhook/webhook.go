// Package webhook exposes the WhatsApp-style HTTP transport: a bridge POSTs
// inbound messages as JSON and renders the JSON reply back to the customer.
package webhook

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pasofino/ventabot/bot/dialog"
	"github.com/pasofino/ventabot/core/logger"
)

var (
	turnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ventabot_webhook_turns_total",
		Help: "Webhook turns processed, by outcome.",
	}, []string{"status"})
	turnDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ventabot_webhook_turn_duration_seconds",
		Help:    "Webhook turn latency.",
		Buckets: prometheus.DefBuckets,
	})
)

// inbound is the bridge payload. body carries text, or base64 bytes for
// image and audio types.
type inbound struct {
	From     string `json:"from"`
	Body     string `json:"body"`
	Type     string `json:"type"`
	Mimetype string `json:"mimetype"`
}

type outbound struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Server is the gin-backed webhook transport.
type Server struct {
	engine *dialog.Engine
	router *gin.Engine
}

// NewServer builds the webhook server around the dialogue engine.
func NewServer(engine *dialog.Engine) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{engine: engine, router: gin.New()}
	s.router.Use(gin.Recovery())
	s.router.POST("/webhook", s.handleWebhook)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return s
}

// Handler exposes the underlying router, used by tests and Run.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	logger.WA.Info("webhook listening",
		slog.String("event", "mode"),
		slog.String("listen", addr),
	)

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("webhook: serve: %w", err)
	}
}

// conversationID normalizes the bridge sender into the shared conversation
// key: digits only, device and server suffixes stripped.
func conversationID(from string) string {
	from = strings.TrimSpace(from)
	if i := strings.IndexAny(from, "@:"); i >= 0 {
		from = from[:i]
	}
	var b strings.Builder
	for _, r := range from {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (s *Server) handleWebhook(c *gin.Context) {
	start := time.Now()

	var in inbound
	if err := c.ShouldBindJSON(&in); err != nil {
		turnsTotal.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, outbound{Type: "text", Text: "payload inválido"})
		return
	}

	convID := conversationID(in.From)
	if convID == "" {
		turnsTotal.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, outbound{Type: "text", Text: "remitente inválido"})
		return
	}

	rid := uuid.NewString()
	ctx := logger.WithRID(c.Request.Context(), rid)
	ctx = logger.WithConversation(ctx, "wa", convID)
	ctx = logger.WithLogger(ctx, logger.WA)

	input, err := decodeInput(in)
	if err != nil {
		turnsTotal.WithLabelValues("bad_request").Inc()
		logger.WA.LogAttrs(ctx, slog.LevelWarn, "webhook.decode",
			slog.String("status", "error"),
			slog.String("rid", rid),
			slog.String("conv_id", convID),
			slog.String("err", err.Error()),
		)
		c.JSON(http.StatusBadRequest, outbound{Type: "text", Text: "payload inválido"})
		return
	}

	sink := &collectSink{}
	stepErr := s.engine.Step(ctx, convID, input, sink)
	turnDuration.Observe(time.Since(start).Seconds())

	if stepErr != nil {
		turnsTotal.WithLabelValues("error").Inc()
		logger.WA.LogAttrs(ctx, slog.LevelError, "webhook.turn",
			slog.String("status", "error"),
			slog.String("rid", rid),
			slog.String("conv_id", convID),
			slog.String("err", logger.SanitizeLimit(stepErr.Error(), 256)),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		c.JSON(http.StatusInternalServerError, outbound{Type: "text", Text: "Ocurrió un error, inténtalo de nuevo."})
		return
	}

	turnsTotal.WithLabelValues("ok").Inc()
	logger.WA.LogAttrs(ctx, slog.LevelInfo, "webhook.turn",
		slog.String("status", "ok"),
		slog.String("rid", rid),
		slog.String("conv_id", convID),
		slog.Int("messages", len(sink.replies)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	c.JSON(http.StatusOK, outbound{Type: "text", Text: sink.rendered()})
}

func decodeInput(in inbound) (dialog.Input, error) {
	switch strings.ToLower(strings.TrimSpace(in.Type)) {
	case "", "text", "chat":
		return dialog.Input{Text: in.Body}, nil
	case "image":
		data, err := base64.StdEncoding.DecodeString(in.Body)
		if err != nil {
			return dialog.Input{}, fmt.Errorf("webhook: image body: %w", err)
		}
		return dialog.Input{Photo: data}, nil
	case "audio", "ptt":
		data, err := base64.StdEncoding.DecodeString(in.Body)
		if err != nil {
			return dialog.Input{}, fmt.Errorf("webhook: audio body: %w", err)
		}
		return dialog.Input{Audio: data, AudioMIME: in.Mimetype}, nil
	default:
		return dialog.Input{}, fmt.Errorf("webhook: unsupported type %q", in.Type)
	}
}

package telegrambot

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pasofino/ventabot/bot/dialog"
	"github.com/pasofino/ventabot/core/logger"
	tghelpers "github.com/pasofino/ventabot/core/telegram/helpers"
	"github.com/pasofino/ventabot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// step runs one engine turn for the update and logs a handler summary line.
func (s *Service) step(c tele.Context, handlerName string, in dialog.Input) error {
	start := time.Now()
	ctx := tghelpers.WithHandler(c, handlerName)

	err := s.engine.Step(ctx, tghelpers.ConversationID(c), in, teleSink{c: c})

	msgs, kb := middleware.GetCounters(c)
	status := "ok"
	if err != nil {
		status = "fail"
	}
	attrs := []slog.Attr{
		slog.String("status", status),
		slog.String("handler", handlerName),
		slog.Int("messages", msgs),
		slog.Bool("kb", kb),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	}
	if err != nil {
		attrs = append(attrs, slog.String("err", logger.SanitizeLimit(err.Error(), 256)))
	}
	logger.LogEvent(ctx, logger.Component("tg"), slog.LevelInfo, "handler.handled", attrs...)
	return err
}

func (s *Service) onPhoto(c tele.Context) error {
	photo := c.Message().Photo
	if photo == nil {
		return s.step(c, "photo", dialog.Input{Text: c.Text()})
	}
	data, err := s.download(c, photo.FileID)
	if err != nil {
		logDownloadError(c, "photo", err)
		return tghelpers.SendText(c, "No pude descargar la imagen 😔. Inténtalo otra vez.")
	}
	return s.step(c, "photo", dialog.Input{Photo: data, Text: c.Message().Caption})
}

func (s *Service) onVoice(c tele.Context) error {
	voice := c.Message().Voice
	if voice == nil {
		return s.step(c, "voice", dialog.Input{Text: c.Text()})
	}
	data, err := s.download(c, voice.FileID)
	if err != nil {
		logDownloadError(c, "voice", err)
		return tghelpers.SendText(c, "No pude descargar tu nota de voz 😔. ¿Me lo escribes?")
	}
	mime := voice.MIME
	if mime == "" {
		mime = "audio/ogg"
	}
	return s.step(c, "voice", dialog.Input{Audio: data, AudioMIME: mime})
}

func (s *Service) onAudio(c tele.Context) error {
	audio := c.Message().Audio
	if audio == nil {
		return s.step(c, "audio", dialog.Input{Text: c.Text()})
	}
	data, err := s.download(c, audio.FileID)
	if err != nil {
		logDownloadError(c, "audio", err)
		return tghelpers.SendText(c, "No pude descargar el audio 😔. ¿Me lo escribes?")
	}
	return s.step(c, "audio", dialog.Input{Audio: data, AudioMIME: audio.MIME})
}

// download fetches file bytes through the bot API.
func (s *Service) download(c tele.Context, fileID string) ([]byte, error) {
	rc, err := c.Bot().File(&tele.File{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("telegrambot: file download: %w", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("telegrambot: file read: %w", err)
	}
	return data, nil
}

func logDownloadError(c tele.Context, kind string, err error) {
	ctx := tghelpers.BuildContext(c)
	logger.LogEvent(ctx, logger.Component("tg"), slog.LevelWarn, "file.download",
		slog.String("status", "error"),
		slog.String("payload", kind),
		slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
	)
}

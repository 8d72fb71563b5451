package dialog

import (
	"context"
	"log/slog"
	"time"

	"github.com/pasofino/ventabot/bot/conversation"
	"github.com/pasofino/ventabot/bot/nlp"
	"github.com/pasofino/ventabot/core/logger"
)

// Step processes one inbound message for a conversation. The priority order
// is fixed: audio transcription, reset keywords, image intent (unless already
// waiting for a photo), then the phase handler. A first message in phase
// inicio gets the welcome and is then re-processed against the new phase in
// the same turn.
func (e *Engine) Step(ctx context.Context, convID string, in Input, sink Sink) error {
	start := time.Now()

	text := in.Text
	if len(in.Audio) > 0 {
		transcript, ok := e.speech.Transcribe(ctx, in.Audio, in.AudioMIME)
		if !ok {
			sink.SendText(msgTranscribeFail)
			return nil
		}
		text = transcript
	}
	norm := nlp.Normalize(text)

	st := e.store.Get(convID)
	fromPhase := st.Phase

	err := e.dispatch(ctx, convID, st, text, norm, in, sink)

	next := e.store.Get(convID).Phase
	logger.SVCDialog.LogAttrs(ctx, slog.LevelInfo, "dialog.turn",
		slog.String("status", statusOf(err)),
		slog.String("conv_id", convID),
		slog.String("phase", string(fromPhase)),
		slog.String("next_phase", string(next)),
		slog.String("payload", logger.SanitizeLimit(text, 128)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return err
}

func (e *Engine) dispatch(ctx context.Context, convID string, st *conversation.State, text, norm string, in Input, sink Sink) error {
	if norm != "" && isResetKeyword(norm) {
		e.store.Reset(convID)
		return e.sendWelcome(ctx, sink)
	}

	if st.Phase != conversation.PhaseImagen && nlp.MentionsImage(text) {
		st.Phase = conversation.PhaseImagen
		e.store.Put(convID, st)
		sink.SendText(msgAskPhoto)
		return nil
	}

	if st.Phase == conversation.PhaseInicio {
		st = e.store.Reset(convID)
		if err := e.sendWelcome(ctx, sink); err != nil {
			return err
		}
		// Re-process the same message against the fresh phase so a first
		// contact like "quiero unos Nike" is both greeted and understood.
		if norm == "" && len(in.Photo) == 0 {
			return nil
		}
	}

	handler, ok := e.handlers[st.Phase]
	if !ok {
		sink.SendText(msgFallback)
		return nil
	}
	return handler(ctx, e, convID, st, text, norm, in, sink)
}

// sendWelcome greets and lists the stocked brands as quick options. A feed
// failure degrades to the plain greeting.
func (e *Engine) sendWelcome(ctx context.Context, sink Sink) error {
	brands, err := e.catalog.Brands(ctx)
	if err != nil || len(brands) == 0 {
		sink.SendText(msgWelcome)
		return nil
	}
	sink.SendOptions(msgWelcome, brands)
	return nil
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

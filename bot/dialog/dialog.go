// Package dialog implements the per-turn decision function of the order
// assistant. Step reads the conversation state, normalizes the input,
// consults the inventory snapshot, computes the next phase and emits the
// reply through an injected Sink. Handlers are dispatched from a phase table;
// reset keywords and image intent are evaluated once per turn, ahead of any
// phase handler.
package dialog

import (
	"context"

	"github.com/pasofino/ventabot/bot/catalog"
	"github.com/pasofino/ventabot/bot/conversation"
	"github.com/pasofino/ventabot/bot/notify"
	"github.com/pasofino/ventabot/bot/orders"
	"github.com/pasofino/ventabot/bot/speech"
	"github.com/pasofino/ventabot/bot/vision"
)

// Sink renders replies back to the customer. Each transport implements it
// once; tests use an in-memory fake.
type Sink interface {
	SendText(text string)
	SendOptions(text string, options []string)
}

// Input is one inbound customer message. Exactly one of Text, Photo or Audio
// is expected to be meaningful.
type Input struct {
	Text      string
	Photo     []byte
	Audio     []byte
	AudioMIME string
}

// Config carries the fixed links and addresses the dialogue quotes.
type Config struct {
	CatalogPageURL string
	TrackingURL    string
	ReturnsDesk    string
	Operator       string
}

// Engine is the dialogue state machine. All collaborators are injected; the
// engine holds no global state.
type Engine struct {
	store    conversation.Store
	catalog  catalog.Provider
	recorder orders.Recorder
	notifier notify.Notifier
	speech   speech.Transcriber
	vision   vision.Matcher
	cfg      Config

	handlers map[conversation.Phase]handlerFunc
}

// handlerFunc processes one turn for a single phase. text is the raw input
// (post transcription), norm its normalized form.
type handlerFunc func(ctx context.Context, e *Engine, convID string, st *conversation.State, text, norm string, in Input, sink Sink) error

// New builds an Engine from its collaborators.
func New(store conversation.Store, cat catalog.Provider, rec orders.Recorder, not notify.Notifier, tr speech.Transcriber, vm vision.Matcher, cfg Config) *Engine {
	e := &Engine{
		store:    store,
		catalog:  cat,
		recorder: rec,
		notifier: not,
		speech:   tr,
		vision:   vm,
		cfg:      cfg,
	}
	e.handlers = map[conversation.Phase]handlerFunc{
		conversation.PhaseComando:         handleComando,
		conversation.PhaseImagen:          handleImagen,
		conversation.PhaseImagenDetectada: handleImagenDetectada,
		conversation.PhaseModelo:          handleModelo,
		conversation.PhaseColor:           handleColor,
		conversation.PhaseTalla:           handleTalla,
		conversation.PhaseNombre:          handleNombre,
		conversation.PhaseEmail:           handleEmail,
		conversation.PhaseTelefono:        handleTelefono,
		conversation.PhaseCiudad:          handleCiudad,
		conversation.PhaseRegion:          handleRegion,
		conversation.PhaseDireccion:       handleDireccion,
		conversation.PhasePago:            handlePago,
		conversation.PhaseComprobante:     handleComprobante,
		conversation.PhaseNumeroRastreo:   handleNumeroRastreo,
		conversation.PhaseNumeroDev:       handleNumeroDevolucion,
		conversation.PhaseMotivoDev:       handleMotivoDevolucion,
	}
	return e
}

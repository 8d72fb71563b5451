// Package conversation owns the per-conversation dialogue state. A Store maps
// conversation ids (Telegram chat id rendered as decimal, or a normalized
// phone number for the webhook transport) to mutable State records.
package conversation

import "github.com/pasofino/ventabot/bot/orders"

// Phase is the discrete state of a single checkout dialogue.
type Phase string

const (
	PhaseInicio          Phase = "inicio"
	PhaseComando         Phase = "esperando_comando"
	PhaseImagen          Phase = "esperando_imagen"
	PhaseImagenDetectada Phase = "imagen_detectada"
	PhaseModelo          Phase = "esperando_modelo"
	PhaseColor           Phase = "esperando_color"
	PhaseTalla           Phase = "esperando_talla"
	PhaseNombre          Phase = "esperando_nombre"
	PhaseEmail           Phase = "esperando_email"
	PhaseTelefono        Phase = "esperando_telefono"
	PhaseCiudad          Phase = "esperando_ciudad"
	PhaseRegion          Phase = "esperando_region"
	PhaseDireccion       Phase = "esperando_direccion"
	PhasePago            Phase = "esperando_pago"
	PhaseComprobante     Phase = "esperando_comprobante"
	PhaseNumeroRastreo   Phase = "esperando_numero_rastreo"
	PhaseNumeroDev       Phase = "esperando_numero_devolucion"
	PhaseMotivoDev       Phase = "esperando_motivo_devolucion"
)

// State is one conversation's progress through the order dialogue. The phase
// decides which fields have been collected; handlers never read a field set
// by a later phase.
type State struct {
	Phase Phase

	Brand string
	Model string
	Color string
	Size  string

	CustomerName string
	Email        string
	Phone        string
	City         string
	Region       string
	Address      string

	PendingReturnRef string

	SaleID  string
	Summary *orders.Sale
}

// Store maps conversation ids to dialogue state.
type Store interface {
	// Get returns the state for a conversation, creating a fresh record in
	// phase inicio on first contact.
	Get(id string) *State
	// Put stores the state for a conversation.
	Put(id string, st *State)
	// Reset clears every collected field and moves the conversation to
	// esperando_comando, returning the fresh state.
	Reset(id string) *State
}

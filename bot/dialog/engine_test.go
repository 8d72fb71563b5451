package dialog

import (
	"context"
	"testing"

	"github.com/pasofino/ventabot/bot/conversation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const conv = "573001234567"

// walkToPhase drives a conversation through the happy path up to the named
// phase.
func walkToPhase(t *testing.T, h *harness, target conversation.Phase) {
	t.Helper()
	steps := []struct {
		phase conversation.Phase
		text  string
	}{
		{conversation.PhaseComando, "hola"},
		{conversation.PhaseModelo, "quiero unos Nike"},
		{conversation.PhaseColor, "Air Max"},
		{conversation.PhaseTalla, "negro"},
		{conversation.PhaseNombre, "la 41"},
		{conversation.PhaseEmail, "Ana Pérez"},
		{conversation.PhaseTelefono, "ana@example.com"},
		{conversation.PhaseCiudad, "+573001234567"},
		{conversation.PhaseRegion, "Bogotá"},
		{conversation.PhaseDireccion, "Cundinamarca"},
		{conversation.PhasePago, "Calle 1 # 2-3"},
	}
	for _, s := range steps {
		if h.state(conv).Phase == target {
			return
		}
		h.say(conv, s.text)
		require.Equal(t, s.phase, h.state(conv).Phase, "after %q", s.text)
	}
	require.Equal(t, target, h.state(conv).Phase)
}

func TestFirstContactSendsWelcomeAndProcessesIntent(t *testing.T) {
	h := newHarness()

	sink := h.say(conv, "quiero unos Nike")

	// welcome first, then the model list from the recognized brand
	require.Len(t, sink.replies, 2)
	assert.Contains(t, sink.replies[0].Text, "Hola")
	assert.Equal(t, []string{"Air Max"}, sink.replies[1].Options)

	st := h.state(conv)
	assert.Equal(t, conversation.PhaseModelo, st.Phase)
	assert.Equal(t, "Nike", st.Brand)
}

func TestResetFromAnyPhaseClearsState(t *testing.T) {
	for _, keyword := range []string{"reset", "reiniciar", "/start"} {
		h := newHarness()
		walkToPhase(t, h, conversation.PhasePago)
		require.NotEmpty(t, h.state(conv).Brand)

		h.say(conv, keyword)

		st := h.state(conv)
		assert.Equal(t, conversation.PhaseComando, st.Phase, keyword)
		assert.Empty(t, st.Brand)
		assert.Empty(t, st.CustomerName)
		assert.Nil(t, st.Summary)
	}
}

func TestImageIntentFromAnyPhase(t *testing.T) {
	h := newHarness()
	walkToPhase(t, h, conversation.PhaseColor)

	sink := h.say(conv, "mejor te mando una foto")
	assert.Equal(t, conversation.PhaseImagen, h.state(conv).Phase)
	assert.Contains(t, sink.last().Text, "foto")

	// already waiting: intent phrases no longer re-trigger, the photo prompt
	// simply repeats
	h.say(conv, "te mando una foto")
	assert.Equal(t, conversation.PhaseImagen, h.state(conv).Phase)
}

func TestPhotoFlowConfirmAndPickSize(t *testing.T) {
	h := newHarness()
	h.vision.id, h.vision.ok = "nike_air_max_negro", true

	h.say(conv, "te mando una foto")
	require.Equal(t, conversation.PhaseImagen, h.state(conv).Phase)

	sink := h.sendPhoto(conv, []byte{1, 2, 3})
	st := h.state(conv)
	require.Equal(t, conversation.PhaseImagenDetectada, st.Phase)
	assert.Equal(t, "nike", st.Brand)
	assert.Equal(t, "air max", st.Model)
	assert.Equal(t, "negro", st.Color)
	assert.Contains(t, sink.last().Text, "¿Es ese?")

	sink = h.say(conv, "si")
	assert.Equal(t, conversation.PhaseTalla, h.state(conv).Phase)
	assert.ElementsMatch(t, []string{"41", "10.5"}, sink.last().Options)
}

func TestPhotoFlowRejectionResets(t *testing.T) {
	h := newHarness()
	h.vision.id, h.vision.ok = "nike_air_max_negro", true
	h.say(conv, "te mando una foto")
	h.sendPhoto(conv, []byte{1})

	h.say(conv, "no")
	st := h.state(conv)
	assert.Equal(t, conversation.PhaseComando, st.Phase)
	assert.Empty(t, st.Brand)
}

func TestPhotoNoMatchResets(t *testing.T) {
	h := newHarness()
	h.vision.ok = false
	h.say(conv, "te mando una foto")

	sink := h.sendPhoto(conv, []byte{1})
	assert.Equal(t, conversation.PhaseComando, h.state(conv).Phase)
	assert.Contains(t, sink.last().Text, "No logré reconocer")
}

func TestTrackingFlow(t *testing.T) {
	h := newHarness()
	h.say(conv, "hola")

	h.say(conv, "quiero rastrear mi pedido")
	require.Equal(t, conversation.PhaseNumeroRastreo, h.state(conv).Phase)

	sink := h.say(conv, "VEN-1700000000-AB12")
	assert.Contains(t, sink.last().Text, "https://tienda.example.com/rastreo")
	assert.Equal(t, conversation.PhaseInicio, h.state(conv).Phase)
}

func TestReturnFlowEmailsReturnsDesk(t *testing.T) {
	h := newHarness()
	h.say(conv, "hola")

	h.say(conv, "necesito una devolucion")
	require.Equal(t, conversation.PhaseNumeroDev, h.state(conv).Phase)

	h.say(conv, "VEN-1700000000-AB12")
	require.Equal(t, conversation.PhaseMotivoDev, h.state(conv).Phase)
	assert.Equal(t, "VEN-1700000000-AB12", h.state(conv).PendingReturnRef)

	sink := h.say(conv, "me quedaron pequeños")
	require.Len(t, h.notifier.mails, 1)
	mail := h.notifier.mails[0]
	assert.Equal(t, "devoluciones@tienda.example.com", mail.To)
	assert.Contains(t, mail.Body, "VEN-1700000000-AB12")
	assert.Contains(t, mail.Body, "me quedaron pequeños")
	assert.Contains(t, sink.last().Text, "devoluciones")
	assert.Equal(t, conversation.PhaseComando, h.state(conv).Phase)
}

func TestCatalogLink(t *testing.T) {
	h := newHarness()
	h.say(conv, "hola")

	sink := h.say(conv, "muéstrame el catálogo")
	assert.Contains(t, sink.last().Text, "https://tienda.example.com/catalogo")
	assert.Equal(t, conversation.PhaseComando, h.state(conv).Phase)
}

func TestHappyPathContraEntrega(t *testing.T) {
	h := newHarness()
	walkToPhase(t, h, conversation.PhasePago)

	st := h.state(conv)
	require.NotNil(t, st.Summary)
	assert.Equal(t, "Nike Air Max", st.Summary.Product)
	assert.Equal(t, "41", st.Summary.Size)
	assert.Equal(t, "350000", st.Summary.Price)
	assert.Regexp(t, `^VEN-\d+-[A-Z0-9]{4}$`, st.SaleID)

	sink := h.say(conv, "CONTRA ENTREGA")

	// exactly one order POST with the agreed payment and status
	require.Len(t, h.recorder.sales, 1)
	sale := h.recorder.sales[0]
	assert.Equal(t, "Contra entrega", sale.Payment)
	assert.Equal(t, "PENDIENTE", sale.Status)
	assert.Equal(t, "Ana Pérez", sale.Customer)
	assert.Equal(t, "ana@example.com", sale.Email)

	// customer confirmation mail went out
	require.NotEmpty(t, h.notifier.mails)
	assert.Equal(t, "ana@example.com", h.notifier.mails[0].To)

	assert.Contains(t, sink.last().Text, sale.SaleID)
	assert.Equal(t, conversation.PhaseComando, h.state(conv).Phase)
}

func TestTransferenciaRequiresProof(t *testing.T) {
	h := newHarness()
	walkToPhase(t, h, conversation.PhasePago)

	h.say(conv, "transferencia")
	require.Equal(t, conversation.PhaseComprobante, h.state(conv).Phase)
	assert.Empty(t, h.recorder.sales)

	// text instead of the proof photo re-prompts without finalizing
	h.say(conv, "ya pagué")
	require.Equal(t, conversation.PhaseComprobante, h.state(conv).Phase)
	assert.Empty(t, h.recorder.sales)

	h.sendPhoto(conv, []byte{0xff, 0xd8})
	require.Len(t, h.recorder.sales, 1)
	sale := h.recorder.sales[0]
	assert.Equal(t, "Transferencia", sale.Payment)
	assert.Equal(t, "PAGADO", sale.Status)

	// operator got the attachment
	var operatorMail *sentMail
	for i := range h.notifier.mails {
		if h.notifier.mails[i].To == "operador@tienda.example.com" {
			operatorMail = &h.notifier.mails[i]
		}
	}
	require.NotNil(t, operatorMail)
	assert.Equal(t, "comprobante.jpg", operatorMail.Filename)
	assert.Equal(t, conversation.PhaseComando, h.state(conv).Phase)
}

func TestInvalidInputNeverAdvancesNorMutates(t *testing.T) {
	h := newHarness()
	h.say(conv, "hola")
	h.say(conv, "quiero unos Nike")
	require.Equal(t, conversation.PhaseModelo, h.state(conv).Phase)

	for i := 0; i < 3; i++ {
		h.say(conv, "un modelo inventado")
		st := h.state(conv)
		assert.Equal(t, conversation.PhaseModelo, st.Phase)
		assert.Equal(t, "Nike", st.Brand)
		assert.Empty(t, st.Model)
	}

	h.say(conv, "air max")
	h.say(conv, "negro")
	require.Equal(t, conversation.PhaseTalla, h.state(conv).Phase)

	h.say(conv, "talla 99")
	st := h.state(conv)
	assert.Equal(t, conversation.PhaseTalla, st.Phase)
	assert.Equal(t, "Negro", st.Color)
	assert.Empty(t, st.Size)
}

func TestEmailAndPhoneValidationReprompt(t *testing.T) {
	h := newHarness()
	walkToPhase(t, h, conversation.PhaseEmail)

	sink := h.say(conv, "a-b.co")
	assert.Equal(t, conversation.PhaseEmail, h.state(conv).Phase)
	assert.Contains(t, sink.last().Text, "correo")

	h.say(conv, "a@b.co")
	require.Equal(t, conversation.PhaseTelefono, h.state(conv).Phase)

	sink = h.say(conv, "abc123")
	assert.Equal(t, conversation.PhaseTelefono, h.state(conv).Phase)
	assert.Contains(t, sink.last().Text, "número")
	assert.Equal(t, "a@b.co", h.state(conv).Email)
}

func TestVoiceTranscriptionDrivesTheTurn(t *testing.T) {
	h := newHarness()
	h.say(conv, "hola")
	h.speech.text, h.speech.ok = "quiero unos nike", true

	sink := &fakeSink{}
	err := h.engine.Step(context.Background(), conv, Input{Audio: []byte{1, 2}, AudioMIME: "audio/ogg"}, sink)
	require.NoError(t, err)
	assert.Equal(t, conversation.PhaseModelo, h.state(conv).Phase)
}

func TestVoiceTranscriptionFailureApologizes(t *testing.T) {
	h := newHarness()
	h.say(conv, "hola")
	h.say(conv, "quiero unos Nike")
	h.speech.ok = false

	sink := &fakeSink{}
	err := h.engine.Step(context.Background(), conv, Input{Audio: []byte{1}}, sink)
	require.NoError(t, err)
	assert.Equal(t, msgTranscribeFail, sink.last().Text)
	// phase untouched
	assert.Equal(t, conversation.PhaseModelo, h.state(conv).Phase)
}

func TestCatalogFailureDegradesToApology(t *testing.T) {
	h := newHarness()
	h.say(conv, "hola")
	h.catalog.err = errFeedDown

	sink := h.say(conv, "quiero unos Nike")
	assert.Equal(t, msgCatalogDown, sink.last().Text)
	assert.Equal(t, conversation.PhaseComando, h.state(conv).Phase)
}

func TestRecorderFailureStillConfirms(t *testing.T) {
	h := newHarness()
	walkToPhase(t, h, conversation.PhasePago)
	h.recorder.err = errFeedDown

	sink := h.say(conv, "contraentrega")
	require.Len(t, h.recorder.sales, 1)
	assert.Contains(t, sink.last().Text, "Pedido confirmado")
	assert.Equal(t, conversation.PhaseComando, h.state(conv).Phase)
}

func TestConversationsAreIndependent(t *testing.T) {
	h := newHarness()
	h.say("a", "quiero unos Nike")
	h.say("b", "hola")

	assert.Equal(t, conversation.PhaseModelo, h.state("a").Phase)
	assert.Equal(t, conversation.PhaseComando, h.state("b").Phase)
}

func TestFallbackDoesNotMutateState(t *testing.T) {
	h := newHarness()
	h.say(conv, "hola")

	sink := h.say(conv, "blah blah nada")
	assert.Equal(t, msgFallback, sink.last().Text)
	assert.Equal(t, conversation.PhaseComando, h.state(conv).Phase)
}

package dialog

const (
	msgWelcome = "¡Hola! 👋 Soy el asistente de la tienda. Dime qué marca buscas, " +
		"escribe \"catálogo\" para ver todo, \"rastrear\" para seguir un pedido " +
		"o \"devolución\" si necesitas un cambio."
	msgFallback       = "No te entendí 😅. Escribe /start para volver al menú."
	msgTranscribeFail = "No pude escuchar bien tu nota de voz 🙉. ¿Me lo escribes?"
	msgCatalogDown    = "En este momento no puedo consultar el inventario 😔. Inténtalo en unos minutos."
	msgAskPhoto       = "Envíame la foto del modelo que viste 📷 (sin recortes y bien iluminada)."
	msgPhotoNoMatch   = "No logré reconocer el modelo de la foto 😔. Escribe /start y busquemos por marca."
	msgPhotoCancel    = "Listo, cancelamos la búsqueda por foto. Escribe /start para empezar de nuevo."
	msgAskName        = "¡Perfecto! Para el envío necesito tus datos. ¿Cuál es tu nombre completo?"
	msgAskEmail       = "¿Cuál es tu correo electrónico?"
	msgBadEmail       = "Ese correo no parece válido 🤔. Escríbelo como nombre@dominio.com"
	msgAskPhone       = "¿Tu número de teléfono? (ej: +573001234567)"
	msgBadPhone       = "Ese número no parece válido 🤔. Usa solo dígitos, entre 7 y 15."
	msgAskCity        = "¿En qué ciudad recibes el pedido?"
	msgAskRegion      = "¿Departamento o región?"
	msgAskAddress     = "¿Dirección exacta de entrega?"
	msgAskPayment     = "¿Cómo quieres pagar?"
	msgBadPayment     = "No reconocí ese método de pago. Elige Transferencia, QR o Contra entrega."
	msgAskProof       = "Envíame la foto del comprobante de pago 📎 para confirmar tu pedido."
	msgAskTracking    = "Indícame el número de tu venta (VEN-...) para rastrearla."
	msgAskReturnRef   = "Indícame el número de la venta (VEN-...) que quieres cambiar o devolver."
	msgAskReturnWhy   = "Cuéntame el motivo del cambio o devolución."
	msgReturnDone     = "Recibido ✅. El equipo de devoluciones te contactará pronto."
)

var paymentOptions = []string{"Transferencia", "QR", "Contra entrega"}

// resetKeywords restart the conversation from any phase. Matching is against
// the whole normalized message.
var resetKeywords = map[string]struct{}{
	"reset":     {},
	"reiniciar": {},
	"/start":    {},
	"inicio":    {},
	"menu":      {},
	"empezar":   {},
	"volver":    {},
	"cancelar":  {},
}

func isResetKeyword(norm string) bool {
	_, ok := resetKeywords[norm]
	return ok
}

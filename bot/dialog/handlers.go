package dialog

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/pasofino/ventabot/bot/conversation"
	"github.com/pasofino/ventabot/bot/nlp"
	"github.com/pasofino/ventabot/bot/orders"
	"github.com/pasofino/ventabot/bot/vision"
	"github.com/pasofino/ventabot/core/logger"
)

var catalogWordRe = regexp.MustCompile(`\bcatalogo\b`)

func handleComando(ctx context.Context, e *Engine, convID string, st *conversation.State, text, norm string, in Input, sink Sink) error {
	switch {
	case strings.Contains(norm, "rastrear"):
		st.Phase = conversation.PhaseNumeroRastreo
		e.store.Put(convID, st)
		sink.SendText(msgAskTracking)
		return nil

	case strings.Contains(norm, "cambio") || strings.Contains(norm, "reembol") || strings.Contains(norm, "devolucion"):
		st.Phase = conversation.PhaseNumeroDev
		e.store.Put(convID, st)
		sink.SendText(msgAskReturnRef)
		return nil

	case catalogWordRe.MatchString(norm):
		e.store.Reset(convID)
		sink.SendText(fmt.Sprintf("Aquí puedes ver todo el catálogo 👟:\n%s", e.cfg.CatalogPageURL))
		return nil
	}

	brands, err := e.catalog.Brands(ctx)
	if err != nil {
		sink.SendText(msgCatalogDown)
		return nil
	}
	brand, ok := nlp.MatchBrand(text, brands)
	if !ok {
		sink.SendText(msgFallback)
		return nil
	}

	models, err := e.catalog.Models(ctx, brand)
	if err != nil {
		sink.SendText(msgCatalogDown)
		return nil
	}
	if len(models) == 0 {
		sink.SendText(fmt.Sprintf("Por ahora no tenemos %s disponibles 😔. Mira otra marca del menú.", brand))
		return nil
	}

	st.Brand = brand
	st.Phase = conversation.PhaseModelo
	e.store.Put(convID, st)
	sink.SendOptions(fmt.Sprintf("¡Buena elección! Estos son los modelos %s disponibles:", brand), models)
	return nil
}

func handleNumeroRastreo(ctx context.Context, e *Engine, convID string, st *conversation.State, text, norm string, in Input, sink Sink) error {
	sink.SendText(fmt.Sprintf("Puedes seguir tu pedido %s aquí 🚚:\n%s", strings.TrimSpace(text), e.cfg.TrackingURL))
	e.store.Put(convID, &conversation.State{Phase: conversation.PhaseInicio})
	return nil
}

func handleNumeroDevolucion(ctx context.Context, e *Engine, convID string, st *conversation.State, text, norm string, in Input, sink Sink) error {
	st.PendingReturnRef = strings.TrimSpace(text)
	st.Phase = conversation.PhaseMotivoDev
	e.store.Put(convID, st)
	sink.SendText(msgAskReturnWhy)
	return nil
}

func handleMotivoDevolucion(ctx context.Context, e *Engine, convID string, st *conversation.State, text, norm string, in Input, sink Sink) error {
	body := fmt.Sprintf("Solicitud de devolución\n\nVenta: %s\nConversación: %s\nMotivo: %s\n",
		st.PendingReturnRef, convID, strings.TrimSpace(text))
	if err := e.notifier.Send(ctx, e.cfg.ReturnsDesk, "Solicitud de devolución "+st.PendingReturnRef, body); err != nil {
		logger.SVCDialog.LogAttrs(ctx, slog.LevelWarn, "dialog.return_request",
			slog.String("status", "error"),
			slog.String("conv_id", convID),
			slog.String("err", err.Error()),
		)
	}
	e.store.Reset(convID)
	sink.SendText(msgReturnDone)
	return nil
}

func handleImagen(ctx context.Context, e *Engine, convID string, st *conversation.State, text, norm string, in Input, sink Sink) error {
	if len(in.Photo) == 0 {
		sink.SendText(msgAskPhoto)
		return nil
	}

	id, ok := e.vision.Match(ctx, in.Photo)
	if !ok {
		e.store.Reset(convID)
		sink.SendText(msgPhotoNoMatch)
		return nil
	}
	brand, model, color, ok := vision.SplitID(id)
	if !ok {
		e.store.Reset(convID)
		sink.SendText(msgPhotoNoMatch)
		return nil
	}

	st.Brand = brand
	st.Model = model
	st.Color = color
	st.Phase = conversation.PhaseImagenDetectada
	e.store.Put(convID, st)
	sink.SendOptions(fmt.Sprintf("¡Lo encontré! Parece un %s %s color %s. ¿Es ese? (si/no)", brand, model, color),
		[]string{"Si", "No"})
	return nil
}

func handleImagenDetectada(ctx context.Context, e *Engine, convID string, st *conversation.State, text, norm string, in Input, sink Sink) error {
	if norm != "si" && norm != "s" {
		e.store.Reset(convID)
		sink.SendText(msgPhotoCancel)
		return nil
	}

	sizes, err := e.catalog.Sizes(ctx, st.Brand, st.Model, st.Color)
	if err != nil {
		sink.SendText(msgCatalogDown)
		return nil
	}
	if len(sizes) == 0 {
		e.store.Reset(convID)
		sink.SendText(msgPhotoNoMatch)
		return nil
	}

	st.Phase = conversation.PhaseTalla
	e.store.Put(convID, st)
	sink.SendOptions("¡Genial! ¿Qué talla calzas? Tenemos:", sizes)
	return nil
}

func handleModelo(ctx context.Context, e *Engine, convID string, st *conversation.State, text, norm string, in Input, sink Sink) error {
	models, err := e.catalog.Models(ctx, st.Brand)
	if err != nil {
		sink.SendText(msgCatalogDown)
		return nil
	}

	for _, m := range models {
		nm := nlp.Normalize(m)
		if nm == norm || (nm != "" && strings.Contains(norm, nm)) {
			colors, err := e.catalog.Colors(ctx, st.Brand, m)
			if err != nil {
				sink.SendText(msgCatalogDown)
				return nil
			}
			st.Model = m
			st.Phase = conversation.PhaseColor
			e.store.Put(convID, st)
			sink.SendOptions(fmt.Sprintf("%s %s 👟 ¿En qué color?", st.Brand, m), colors)
			return nil
		}
	}

	sink.SendOptions("No encontré ese modelo. Elige uno de la lista:", models)
	return nil
}

func handleColor(ctx context.Context, e *Engine, convID string, st *conversation.State, text, norm string, in Input, sink Sink) error {
	colors, err := e.catalog.Colors(ctx, st.Brand, st.Model)
	if err != nil {
		sink.SendText(msgCatalogDown)
		return nil
	}

	for _, c := range colors {
		nc := nlp.Normalize(c)
		if nc == norm || (nc != "" && strings.Contains(norm, nc)) {
			sizes, err := e.catalog.Sizes(ctx, st.Brand, st.Model, c)
			if err != nil {
				sink.SendText(msgCatalogDown)
				return nil
			}
			st.Color = c
			st.Phase = conversation.PhaseTalla
			e.store.Put(convID, st)
			sink.SendOptions("¿Qué talla calzas? Tenemos:", sizes)
			return nil
		}
	}

	sink.SendOptions("No tenemos ese color 😔. Elige uno de estos:", colors)
	return nil
}

func handleTalla(ctx context.Context, e *Engine, convID string, st *conversation.State, text, norm string, in Input, sink Sink) error {
	sizes, err := e.catalog.Sizes(ctx, st.Brand, st.Model, st.Color)
	if err != nil {
		sink.SendText(msgCatalogDown)
		return nil
	}

	size, ok := nlp.DetectSize(text, sizes)
	if !ok {
		sink.SendOptions("No tengo esa talla disponible. Estas son las que hay:", sizes)
		return nil
	}

	st.Size = size
	st.Phase = conversation.PhaseNombre
	e.store.Put(convID, st)
	sink.SendText(msgAskName)
	return nil
}

func handleNombre(ctx context.Context, e *Engine, convID string, st *conversation.State, text, norm string, in Input, sink Sink) error {
	name := strings.TrimSpace(text)
	if name == "" {
		sink.SendText(msgAskName)
		return nil
	}
	st.CustomerName = name
	st.Phase = conversation.PhaseEmail
	e.store.Put(convID, st)
	sink.SendText(msgAskEmail)
	return nil
}

func handleEmail(ctx context.Context, e *Engine, convID string, st *conversation.State, text, norm string, in Input, sink Sink) error {
	email := strings.TrimSpace(text)
	if !nlp.ValidEmail(email) {
		sink.SendText(msgBadEmail)
		return nil
	}
	st.Email = email
	st.Phase = conversation.PhaseTelefono
	e.store.Put(convID, st)
	sink.SendText(msgAskPhone)
	return nil
}

func handleTelefono(ctx context.Context, e *Engine, convID string, st *conversation.State, text, norm string, in Input, sink Sink) error {
	phone := strings.TrimSpace(text)
	if !nlp.ValidPhone(phone) {
		sink.SendText(msgBadPhone)
		return nil
	}
	st.Phone = phone
	st.Phase = conversation.PhaseCiudad
	e.store.Put(convID, st)
	sink.SendText(msgAskCity)
	return nil
}

func handleCiudad(ctx context.Context, e *Engine, convID string, st *conversation.State, text, norm string, in Input, sink Sink) error {
	city := strings.TrimSpace(text)
	if city == "" {
		sink.SendText(msgAskCity)
		return nil
	}
	st.City = city
	st.Phase = conversation.PhaseRegion
	e.store.Put(convID, st)
	sink.SendText(msgAskRegion)
	return nil
}

func handleRegion(ctx context.Context, e *Engine, convID string, st *conversation.State, text, norm string, in Input, sink Sink) error {
	region := strings.TrimSpace(text)
	if region == "" {
		sink.SendText(msgAskRegion)
		return nil
	}
	st.Region = region
	st.Phase = conversation.PhaseDireccion
	e.store.Put(convID, st)
	sink.SendText(msgAskAddress)
	return nil
}

func handleDireccion(ctx context.Context, e *Engine, convID string, st *conversation.State, text, norm string, in Input, sink Sink) error {
	address := strings.TrimSpace(text)
	if address == "" {
		sink.SendText(msgAskAddress)
		return nil
	}

	price, _ := e.catalog.Price(ctx, st.Brand, st.Model, st.Color, st.Size)

	st.Address = address
	st.SaleID = orders.NewSaleID()
	st.Summary = &orders.Sale{
		SaleID:   st.SaleID,
		Date:     time.Now(),
		Customer: st.CustomerName,
		Phone:    st.Phone,
		Product:  strings.TrimSpace(st.Brand + " " + st.Model),
		Color:    st.Color,
		Size:     st.Size,
		Email:    st.Email,
		Price:    price,
		City:     st.City,
		Region:   st.Region,
		Address:  st.Address,
	}
	st.Phase = conversation.PhasePago
	e.store.Put(convID, st)

	summary := fmt.Sprintf("Tu pedido %s:\n%s %s, color %s, talla %s",
		st.SaleID, st.Brand, st.Model, st.Color, st.Size)
	if price != "" {
		summary += fmt.Sprintf("\nPrecio: $%s", price)
	}
	summary += "\n\n" + msgAskPayment
	sink.SendOptions(summary, paymentOptions)
	return nil
}

func handlePago(ctx context.Context, e *Engine, convID string, st *conversation.State, text, norm string, in Input, sink Sink) error {
	compact := strings.ReplaceAll(norm, " ", "")
	switch {
	case strings.Contains(compact, "contraentrega"):
		st.Summary.Payment = orders.PaymentContraEntrega
		st.Summary.Status = orders.StatusPendiente
		return e.finalize(ctx, convID, st, sink, nil)

	case strings.Contains(norm, "transferencia"):
		st.Summary.Payment = orders.PaymentTransferencia
		st.Phase = conversation.PhaseComprobante
		e.store.Put(convID, st)
		sink.SendText(msgAskProof)
		return nil

	case strings.Contains(norm, "qr"):
		st.Summary.Payment = orders.PaymentQR
		st.Phase = conversation.PhaseComprobante
		e.store.Put(convID, st)
		sink.SendText(msgAskProof)
		return nil
	}

	sink.SendOptions(msgBadPayment, paymentOptions)
	return nil
}

func handleComprobante(ctx context.Context, e *Engine, convID string, st *conversation.State, text, norm string, in Input, sink Sink) error {
	if len(in.Photo) == 0 {
		sink.SendText(msgAskProof)
		return nil
	}
	st.Summary.Status = orders.StatusPagado
	return e.finalize(ctx, convID, st, sink, in.Photo)
}

// finalize records the sale, notifies downstream and resets the
// conversation. Recording and notification failures degrade to log lines;
// the customer always gets a closing reply.
func (e *Engine) finalize(ctx context.Context, convID string, st *conversation.State, sink Sink, proof []byte) error {
	sale := *st.Summary

	if err := e.recorder.Record(ctx, sale); err != nil {
		logger.SVCDialog.LogAttrs(ctx, slog.LevelError, "dialog.finalize",
			slog.String("status", "error"),
			slog.String("conv_id", convID),
			slog.String("sale_id", sale.SaleID),
			slog.String("err", err.Error()),
		)
	}

	if sale.Email != "" {
		body := fmt.Sprintf("¡Gracias por tu compra, %s!\n\nVenta: %s\nProducto: %s color %s talla %s\nPago: %s\nEstado: %s\n",
			sale.Customer, sale.SaleID, sale.Product, sale.Color, sale.Size, sale.Payment, sale.Status)
		if err := e.notifier.Send(ctx, sale.Email, "Confirmación de pedido "+sale.SaleID, body); err != nil {
			logger.SVCDialog.LogAttrs(ctx, slog.LevelWarn, "dialog.finalize",
				slog.String("status", "error"),
				slog.String("conv_id", convID),
				slog.String("sale_id", sale.SaleID),
				slog.String("err", err.Error()),
			)
		}
	}

	if len(proof) > 0 && e.cfg.Operator != "" {
		body := fmt.Sprintf("Comprobante de pago recibido.\n\nVenta: %s\nCliente: %s (%s)\nPago: %s\n",
			sale.SaleID, sale.Customer, sale.Phone, sale.Payment)
		if err := e.notifier.SendWithAttachment(ctx, e.cfg.Operator, "Comprobante "+sale.SaleID, body, "comprobante.jpg", proof); err != nil {
			logger.SVCDialog.LogAttrs(ctx, slog.LevelWarn, "dialog.finalize",
				slog.String("status", "error"),
				slog.String("conv_id", convID),
				slog.String("sale_id", sale.SaleID),
				slog.String("err", err.Error()),
			)
		}
	}

	e.store.Reset(convID)
	sink.SendText(fmt.Sprintf("¡Pedido confirmado! 🎉 Tu número de venta es %s. Te llegará un correo con el detalle. Escribe \"rastrear\" cuando quieras seguir el envío.", sale.SaleID))
	return nil
}

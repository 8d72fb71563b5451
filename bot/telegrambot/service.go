// Package telegrambot adapts the dialogue engine to the Telegram transport:
// text, voice and photo updates become engine turns, replies render as plain
// text or one-column reply keyboards.
package telegrambot

import (
	"fmt"

	"github.com/pasofino/ventabot/bot/catalog"
	"github.com/pasofino/ventabot/bot/dialog"
	coreconfig "github.com/pasofino/ventabot/core/config"
	"github.com/pasofino/ventabot/core/telegram"
	"github.com/pasofino/ventabot/core/telegram/commands"
	tghelpers "github.com/pasofino/ventabot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// Service wires the dialogue engine into the bot runtime.
type Service struct {
	engine *dialog.Engine
	feed   *catalog.FeedProvider
	cfg    *coreconfig.Config
}

// NewService builds the Telegram adapter. feed may be nil when the catalog
// provider does not support manual refresh.
func NewService(engine *dialog.Engine, feed *catalog.FeedProvider, cfg *coreconfig.Config) *Service {
	return &Service{engine: engine, feed: feed, cfg: cfg}
}

// Register binds commands and the text fallback onto the registry.
func (s *Service) Register(reg *telegram.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Description: "Reiniciar la conversación",
		Handler:     s.onStart,
	})
	reg.RegisterCommand("/ayuda", commands.Command{
		Description: "Qué puedo hacer",
		Aliases:     []string{"help"},
		Handler:     s.onHelp,
	})
	reg.RegisterCommand("/recargar", commands.Command{
		Description: "Recargar el inventario",
		AdminOnly:   true,
		Hidden:      true,
		Handler:     s.onReload,
	})
	reg.SetTextFallback(s.onText)
}

// Routes returns the non-command update routes.
func (s *Service) Routes() []telegram.Route {
	return []telegram.Route{
		{Endpoint: tele.OnPhoto, Handler: s.onPhoto},
		{Endpoint: tele.OnVoice, Handler: s.onVoice},
		{Endpoint: tele.OnAudio, Handler: s.onAudio},
	}
}

func (s *Service) onStart(c tele.Context) error {
	return s.step(c, "start", dialog.Input{Text: "/start"})
}

func (s *Service) onHelp(c tele.Context) error {
	return tghelpers.SendText(c, "Puedo mostrarte el catálogo, ayudarte a comprar "+
		"(dime la marca o envíame una foto del zapato), rastrear tu pedido o "+
		"gestionar una devolución. Escribe /start para empezar de nuevo.")
}

// onReload refetches the inventory feed. Admin only.
func (s *Service) onReload(c tele.Context) error {
	if s.feed == nil {
		return tghelpers.SendText(c, "El inventario no admite recarga manual.")
	}
	ctx := tghelpers.BuildContext(c)
	n, err := s.feed.Refresh(ctx)
	if err != nil {
		return tghelpers.SendText(c, "No pude recargar el inventario: "+err.Error())
	}
	return tghelpers.SendText(c, fmt.Sprintf("Inventario recargado: %d referencias.", n))
}

func (s *Service) onText(c tele.Context) error {
	return s.step(c, "text", dialog.Input{Text: c.Text()})
}

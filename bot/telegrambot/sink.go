package telegrambot

import (
	tghelpers "github.com/pasofino/ventabot/core/telegram/helpers"
	"github.com/pasofino/ventabot/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// optionsPerRow keeps size lists compact while longer labels get a row each.
const optionsPerRow = 3

// teleSink renders engine replies onto a Telegram chat. Options become a
// one-time reply keyboard.
type teleSink struct {
	c tele.Context
}

func (s teleSink) SendText(text string) {
	_ = tghelpers.SendText(s.c, text)
}

func (s teleSink) SendOptions(text string, options []string) {
	perRow := optionsPerRow
	for _, o := range options {
		if len(o) > 12 {
			perRow = 1
			break
		}
	}
	_ = tghelpers.SendKeyboard(s.c, text, keyboard.ReplyButtonsNPerRow(options, perRow))
}

package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplyButtonsNPerRow(t *testing.T) {
	labels := []string{"Nike", "Adidas", "Puma", "Reebok", "Vans"}

	m := ReplyButtonsNPerRow(labels, 3)
	require.Len(t, m.ReplyKeyboard, 2)
	assert.Len(t, m.ReplyKeyboard[0], 3)
	assert.Len(t, m.ReplyKeyboard[1], 2)
	assert.Equal(t, "Nike", m.ReplyKeyboard[0][0].Text)
	assert.Equal(t, "Vans", m.ReplyKeyboard[1][1].Text)
	assert.True(t, m.ResizeKeyboard)
	assert.True(t, m.OneTimeKeyboard)
}

func TestReplyButtonsOnePerRow(t *testing.T) {
	m := ReplyButtonsNPerRow([]string{"Transferencia", "QR", "Contra entrega"}, 1)
	require.Len(t, m.ReplyKeyboard, 3)
	for _, row := range m.ReplyKeyboard {
		assert.Len(t, row, 1)
	}
}

func TestReplyButtonsEmpty(t *testing.T) {
	m := ReplyButtonsNPerRow(nil, 3)
	assert.Empty(t, m.ReplyKeyboard)
}

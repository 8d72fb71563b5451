package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitID(t *testing.T) {
	brand, model, color, ok := SplitID("nike_air_max_negro")
	assert.True(t, ok)
	assert.Equal(t, "nike", brand)
	assert.Equal(t, "air max", model)
	assert.Equal(t, "negro", color)

	brand, model, color, ok = SplitID("adidas_samba_blanco")
	assert.True(t, ok)
	assert.Equal(t, "adidas", brand)
	assert.Equal(t, "samba", model)
	assert.Equal(t, "blanco", color)

	_, _, _, ok = SplitID("nike_negro")
	assert.False(t, ok)
	_, _, _, ok = SplitID("")
	assert.False(t, ok)
}

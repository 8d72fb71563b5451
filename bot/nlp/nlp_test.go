package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "oscar", Normalize("Óscar"))
	assert.Equal(t, "nino con nike", Normalize("  NIÑO con NIKÉ "))
	assert.Equal(t, "", Normalize("   "))
}

func TestDetectSizeHalfSizes(t *testing.T) {
	got, ok := DetectSize("10 y medio", []string{"10.5", "11"})
	assert.True(t, ok)
	assert.Equal(t, "10.5", got)

	got, ok = DetectSize("quiero seis y medio por favor", []string{"6.5", "7"})
	assert.True(t, ok)
	assert.Equal(t, "6.5", got)
}

func TestDetectSizePlainNumeral(t *testing.T) {
	got, ok := DetectSize("talla 41", []string{"41", "42"})
	assert.True(t, ok)
	assert.Equal(t, "41", got)

	_, ok = DetectSize("talla 99", []string{"41", "42"})
	assert.False(t, ok)
}

func TestDetectSizeSystemMarkers(t *testing.T) {
	// 9 USA converts to 41 before the availability check
	got, ok := DetectSize("la 9 usa", []string{"41", "42"})
	assert.True(t, ok)
	assert.Equal(t, "41", got)

	// marker present but the numeral has no table entry
	_, ok = DetectSize("la 99 usa", []string{"41", "42"})
	assert.False(t, ok)

	got, ok = DetectSize("42 europea", []string{"42"})
	assert.True(t, ok)
	assert.Equal(t, "42", got)
}

func TestDetectSizeFirstMatchWins(t *testing.T) {
	got, ok := DetectSize("la 38 o la 40", []string{"40", "38"})
	assert.True(t, ok)
	assert.Equal(t, "38", got)
}

func TestDetectSizeEmptyInputs(t *testing.T) {
	_, ok := DetectSize("", []string{"40"})
	assert.False(t, ok)
	_, ok = DetectSize("talla 40", nil)
	assert.False(t, ok)
}

func TestMentionsImage(t *testing.T) {
	assert.True(t, MentionsImage("te mando una FOTO"))
	assert.True(t, MentionsImage("tengo un pantallazo del modelo"))
	assert.False(t, MentionsImage("quiero unos nike"))
	assert.False(t, MentionsImage(""))
}

func TestMatchBrandExact(t *testing.T) {
	brands := []string{"Nike", "Adidas", "New Balance"}

	got, ok := MatchBrand("quiero unos Nike", brands)
	assert.True(t, ok)
	assert.Equal(t, "Nike", got)

	got, ok = MatchBrand("tienen new balance?", brands)
	assert.True(t, ok)
	assert.Equal(t, "New Balance", got)
}

func TestMatchBrandFuzzy(t *testing.T) {
	brands := []string{"Nike", "Adidas"}

	// misspelling within the 0.6 similarity threshold
	got, ok := MatchBrand("quiero unos adidaz", brands)
	assert.True(t, ok)
	assert.Equal(t, "Adidas", got)

	_, ok = MatchBrand("quiero una pizza", brands)
	assert.False(t, ok)
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("a@b.co"))
	assert.False(t, ValidEmail("a-b.co"))
	assert.False(t, ValidEmail(""))
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("+573001234567"))
	assert.True(t, ValidPhone("3001234567"))
	assert.False(t, ValidPhone("abc123"))
	assert.False(t, ValidPhone("12345"))
}

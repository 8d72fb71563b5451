// Package nlp canonicalizes free-form customer text and performs the
// approximate matching the order dialogue relies on: size phrase detection,
// image-intent detection, fuzzy brand matching and contact validation.
package nlp

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases, trims and removes diacritics. It is total: any input,
// including the empty string, yields a usable result.
func Normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return ""
	}
	if out, _, err := transform.String(stripMarks, text); err == nil {
		return out
	}
	return text
}

var (
	emailRe = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)
	phoneRe = regexp.MustCompile(`^\+?\d{7,15}$`)
)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailRe.MatchString(strings.TrimSpace(s))
}

// ValidPhone reports whether s looks like a phone number
// (optional leading +, 7 to 15 digits).
func ValidPhone(s string) bool {
	return phoneRe.MatchString(strings.TrimSpace(s))
}

// imageIntentPhrases trigger the photo upload flow from any phase.
var imageIntentPhrases = []string{
	"foto",
	"imagen",
	"captura",
	"pantallazo",
	"screenshot",
	"te muestro",
	"te envio",
	"te mando",
}

// MentionsImage reports whether the normalized text contains any
// image-intent phrase.
func MentionsImage(text string) bool {
	n := Normalize(text)
	if n == "" {
		return false
	}
	for _, p := range imageIntentPhrases {
		if strings.Contains(n, p) {
			return true
		}
	}
	return false
}

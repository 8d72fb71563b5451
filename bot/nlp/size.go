package nlp

import (
	"regexp"
	"strings"
)

// spokenSizes maps spelled-out Spanish size phrases to their numeric form.
// Half sizes come first so "seis y medio" wins over "seis".
var spokenSizes = []struct{ phrase, value string }{
	{"cinco y medio", "5.5"},
	{"seis y medio", "6.5"},
	{"siete y medio", "7.5"},
	{"ocho y medio", "8.5"},
	{"nueve y medio", "9.5"},
	{"diez y medio", "10.5"},
	{"once y medio", "11.5"},
	{"doce y medio", "12.5"},
	{"cinco", "5"},
	{"seis", "6"},
	{"siete", "7"},
	{"ocho", "8"},
	{"nueve", "9"},
	{"diez", "10"},
	{"once", "11"},
	{"doce", "12"},
	{"trece", "13"},
}

// sizing-system markers the customer may use to qualify a numeral.
var (
	usaMarkerRe = regexp.MustCompile(`\b(usa|us|americana?o?)\b`)
	euMarkerRe  = regexp.MustCompile(`\b(eu|eur|europea?o?)\b`)
	colMarkerRe = regexp.MustCompile(`\b(col|colombiana?o?|nacional)\b`)
)

// Conversion tables into the sizes the stock feed carries (Colombian).
var usaToCol = map[string]string{
	"6":    "38",
	"6.5":  "38.5",
	"7":    "39",
	"7.5":  "39.5",
	"8":    "40",
	"8.5":  "40.5",
	"9":    "41",
	"9.5":  "41.5",
	"10":   "42",
	"10.5": "42.5",
	"11":   "43",
	"11.5": "43.5",
	"12":   "44",
	"13":   "45",
}

var euToCol = map[string]string{
	"38":   "38",
	"38.5": "38.5",
	"39":   "39",
	"39.5": "39.5",
	"40":   "40",
	"40.5": "40.5",
	"41":   "41",
	"41.5": "41.5",
	"42":   "42",
	"42.5": "42.5",
	"43":   "43",
	"43.5": "43.5",
	"44":   "44",
	"45":   "45",
}

var (
	halfSizeRe = regexp.MustCompile(`(\d+)\s+y\s+medio`)
	numberRe   = regexp.MustCompile(`\d+(?:\.\d)?`)
)

// DetectSize extracts a shoe size from free text and checks it against the
// sizes currently in stock. Spoken phrases are rewritten to numerals first,
// then an explicit sizing-system marker (USA/EU/Colombia) selects a
// conversion table; without a marker numerals are checked as written. The
// first numeral that resolves to an available size wins.
func DetectSize(freeText string, available []string) (string, bool) {
	text := Normalize(freeText)
	if text == "" || len(available) == 0 {
		return "", false
	}
	text = strings.ReplaceAll(text, ",", ".")
	text = halfSizeRe.ReplaceAllString(text, "$1.5")
	for _, s := range spokenSizes {
		text = strings.ReplaceAll(text, s.phrase, s.value)
	}

	avail := make(map[string]string, len(available))
	for _, a := range available {
		avail[Normalize(a)] = a
	}

	var convert map[string]string
	switch {
	case usaMarkerRe.MatchString(text):
		convert = usaToCol
	case euMarkerRe.MatchString(text):
		convert = euToCol
	case colMarkerRe.MatchString(text):
		// Colombian sizing matches the feed, no conversion needed.
	}

	for _, tok := range numberRe.FindAllString(text, -1) {
		candidate := tok
		if convert != nil {
			mapped, ok := convert[tok]
			if !ok {
				continue
			}
			candidate = mapped
		}
		if orig, ok := avail[Normalize(candidate)]; ok {
			return orig, true
		}
	}
	return "", false
}

package triage

import (
	"strings"
	"unicode"
)

// Spanish diacritics are folded so the ASCII tables match text written with
// or without accents. Referral emails mix both freely.
var diacriticFolder = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
)

// Characters outside letters and digits that survive normalization. They are
// needed by the clinical notations the extractor reads (120/80, 38.5, 95%,
// spo2, tel (+57)...).
const safePunct = "-+%/()."

// normalize produces the canonical form every table and extractor pattern is
// written against: lowercase, diacritics folded, unsafe characters replaced
// by spaces, whitespace collapsed, abbreviations expanded as whole tokens.
// The function is total; blank input normalizes to the empty string.
func (l *lexicon) normalize(raw string) string {
	text := diacriticFolder.Replace(strings.ToLower(raw))

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case strings.ContainsRune(safePunct, r):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	text = strings.Join(strings.Fields(b.String()), " ")

	// Whole-token expansion only: "fc" expands, "fcx" and "tarifa" do not.
	for _, a := range l.abbreviations {
		text = a.re.ReplaceAllString(text, a.expansion)
	}
	return text
}

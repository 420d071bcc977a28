package formatter

import (
	"strings"
	"unicode"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// PipeSeparator separates list items in flat form and CSV input.
const PipeSeparator = "|"

// FormatPhone returns the E164 form of phone. countryCode is the region
// for numbers without a leading "+" and may be empty for numbers that have
// one.
func FormatPhone(phone, countryCode string) (string, error) {
	num, err := phonenumbers.Parse(phone, strings.ToUpper(countryCode))
	if err != nil {
		return "", err
	}
	if !phonenumbers.IsPossibleNumber(num) {
		return "", phonenumbers.ErrNotANumber
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// Slugify turns a display name into a url slug: "Côte d'Ivoire" becomes
// "cote-d-ivoire".
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// SplitPipe splits a pipe delimited value, trimming items and dropping empties.
func SplitPipe(s string) []string {
	parts := strings.Split(s, PipeSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

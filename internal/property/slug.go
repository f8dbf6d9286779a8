package property

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/elenayuscula/aprendenotion/internal/domain"
)

// Slugify lowercases s, strips diacritics and collapses every run of
// characters outside [a-z0-9] into a single hyphen.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	pending := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pending = false
		default:
			pending = true
		}
	}
	return b.String()
}

// Slug derives the item key of a record: the explicit slug property when set,
// otherwise the slugified title. A record whose slug and title both reduce to
// nothing falls back to its id.
func Slug(r domain.Record, slugNames []string, titleNames []string) string {
	if s := Slugify(Text(r, slugNames...)); s != "" {
		return s
	}
	if s := Slugify(Text(r, titleNames...)); s != "" {
		return s
	}
	return Slugify(strings.ReplaceAll(r.ID, "-", ""))
}

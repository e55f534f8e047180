package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify converts a title into a URL slug: accents are folded to ASCII,
// anything that is not a letter, digit, underscore or hyphen is dropped, and
// runs of whitespace or hyphens collapse into a single hyphen. Slugs longer
// than 120 bytes are cut at a hyphen.
// "Café Polo Shirt!" becomes "cafe-polo-shirt".
func Slugify(title string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, title)
	if err != nil {
		folded = title
	}
	folded = cases.Lower(language.Und).String(folded)

	var b strings.Builder
	pendingDash := false
	for _, r := range folded {
		switch {
		case r > unicode.MaxASCII:
			continue
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			pendingDash = true
		}
	}

	return truncateSlug(strings.Trim(b.String(), "-_"), maxSlugLength)
}

// truncateSlug cuts slug to at most n bytes, at the last hyphen when there is one
func truncateSlug(slug string, n int) string {
	if len(slug) <= n {
		return slug
	}
	cut := slug[:n]
	if i := strings.LastIndexByte(cut, '-'); i > 0 {
		cut = cut[:i]
	}
	return strings.Trim(cut, "-_")
}

// FoldTitle returns the caseless form of a title used for search matching.
// Titles and queries are folded the same way so matching does not depend on
// the database's own case mapping.
func FoldTitle(title string) string {
	return norm.NFC.String(cases.Fold().String(norm.NFC.String(title)))
}

package application

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"

	"labelbot/internal/domain"
	"labelbot/internal/domain/entities"
)

// Key derivation turns (namespace, category, default text) into a stable
// identifier. It is pure: identical inputs always yield identical keys, and
// no store access happens here.
//
// Normalization strips pattern placeholders and raw digit runs before
// slugging, so texts differing only in interpolated values collapse to the
// same key. That is intentional: substitution must go through pattern
// placeholders, never through host-language interpolation. Text built by
// interpolation cannot be keyed safely and belongs to the Raw path.

const (
	// maxSlugLen bounds each slug segment; longer segments are truncated
	// and suffixed with a short hash so truncation cannot cause collisions.
	maxSlugLen = 48
)

// DeriveKey computes the identifier for a label. When explicitKey is
// non-empty it is used verbatim and the caller asserts its uniqueness within
// the namespace.
func DeriveKey(namespace, category, defaultText, explicitKey string) (entities.Identifier, error) {
	if strings.TrimSpace(namespace) == "" {
		return entities.Identifier{}, domain.ErrEmptyNamespace
	}
	if explicitKey != "" {
		return entities.Identifier{Namespace: namespace, Key: explicitKey}, nil
	}
	if strings.TrimSpace(defaultText) == "" {
		return entities.Identifier{}, domain.ErrEmptyDefaultText
	}

	segments := make([]string, 0, 3)
	for _, s := range []string{slug(namespace), slug(category), slug(normalizeText(defaultText))} {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return entities.Identifier{Namespace: namespace, Key: strings.Join(segments, "_")}, nil
}

// normalizeText removes {...} placeholder bodies and bare digit runs, then
// collapses whitespace.
func normalizeText(text string) string {
	var b strings.Builder
	depth := 0
	for _, r := range text {
		switch {
		case r == '{':
			depth++
		case r == '}':
			if depth > 0 {
				depth--
			}
		case depth == 0 && !unicode.IsDigit(r):
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// slug lower-cases s and collapses non-alphanumeric runs to single
// underscores. Segments longer than maxSlugLen are truncated with an 8-hex
// FNV-1a suffix of the full slug.
func slug(s string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
		} else {
			pending = true
		}
	}

	out := b.String()
	runes := []rune(out)
	if len(runes) <= maxSlugLen {
		return out
	}

	h := fnv.New32a()
	h.Write([]byte(out))
	cut := strings.TrimRight(string(runes[:maxSlugLen-9]), "_")
	return fmt.Sprintf("%s_%08x", cut, h.Sum32())
}

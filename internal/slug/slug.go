// Package slug derives URL-safe identifiers from display names.
package slug

import "strings"

// Make converts free-form text to a URL-safe slug: lowercase, every run
// of characters outside [a-z0-9] collapsed to a single hyphen, leading
// and trailing hyphens trimmed. Deterministic and idempotent; may return
// the empty string when the input contains no usable characters.
func Make(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	pendingHyphen := false
	for _, r := range text {
		switch {
		case r >= 'A' && r <= 'Z':
			r += 'a' - 'A'
			fallthrough
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}

	return b.String()
}

package taxi

import (
	"strings"
	"unicode"
)

// SanitizeRegistration removes control characters and zero-width runes that
// sneak in through copy/paste, and trims surrounding whitespace. It reports
// whether anything was changed.
func SanitizeRegistration(reg string) (string, bool) {
	if reg == "" {
		return reg, false
	}
	out := make([]rune, 0, len(reg))
	changed := false
	for _, r := range reg {
		if unicode.IsControl(r) {
			changed = true
			continue
		}
		switch r {
		case '\u200B', '\u200C', '\u200D', '\uFEFF':
			changed = true
			continue
		}
		out = append(out, r)
	}
	res := strings.TrimSpace(string(out))
	if res != reg {
		changed = true
	}
	return res, changed
}

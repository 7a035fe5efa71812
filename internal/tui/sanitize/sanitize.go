// Package sanitize strips terminal control sequences from text received from
// the taxi service before it is drawn. Registrations, seat numbers, extra
// field values and error messages all come from the server and must not be
// able to move the cursor, switch screens or set the window title.
package sanitize

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Precompiled regexps used by Text.
var (
	oscRe = regexp.MustCompile(`\x1b\][^\x07\x1b]*(\x07|\x1b\\)`)
	csiRe = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)
)

// Text returns s with OSC and CSI sequences removed and every remaining
// control character dropped. Line breaks and tabs become single spaces so a
// value always renders on one line. Cursor-forward sequences are kept as
// spaces so aligned text stays readable.
func Text(s string) string {
	out := oscRe.ReplaceAllString(s, "")
	out = csiRe.ReplaceAllStringFunc(out, replaceCsi)

	var b strings.Builder
	b.Grow(len(out))
	for _, r := range out {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			b.WriteByte(' ')
		case unicode.IsControl(r):
			// lone ESC and friends
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func replaceCsi(s string) string {
	if s[len(s)-1] == 'C' {
		// Cursor Forward: \x1b[<n>C → n spaces (default 1)
		return strings.Repeat(" ", csiParam(s, 1))
	}
	return ""
}

// csiParam extracts the first numeric parameter from a CSI sequence like
// \x1b[<n><letter>. Returns def if the parameter is absent or invalid.
func csiParam(s string, def int) int {
	body := strings.TrimLeft(s[2:len(s)-1], "?")
	if idx := strings.IndexByte(body, ';'); idx >= 0 {
		body = body[:idx]
	}
	if n, err := strconv.Atoi(body); err == nil && n > 0 && n <= 64 {
		return n
	}
	return def
}

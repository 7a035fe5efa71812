// Package listing derives the alphabetical taxi list shown to users and
// keeps it in sync with the search box and the shared collection.
package listing

import (
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/VoxDroid/taxis/internal/taxi"
)

// UnknownHeading groups taxis whose registration is empty.
const UnknownHeading = "#"

// Headings maps the uppercased first character of a registration to the
// taxis whose registration starts with it, in input order.
type Headings map[string][]taxi.Taxi

// Group builds Headings from taxis. It never mutates its input and always
// returns a fresh, non-nil map.
func Group(taxis []taxi.Taxi) Headings {
	h := make(Headings)
	for _, t := range taxis {
		key := headingKey(t.Registration)
		h[key] = append(h[key], t)
	}
	return h
}

func headingKey(reg string) string {
	r, size := utf8.DecodeRuneInString(reg)
	if size == 0 {
		return UnknownHeading
	}
	if r == utf8.RuneError && size == 1 {
		// invalid UTF-8: keep the raw byte as the key
		return reg[:1]
	}
	return string(unicode.ToUpper(r))
}

// Keys returns the heading keys in sorted order for display.
func (h Headings) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Count returns the number of taxis across every heading.
func (h Headings) Count() int {
	n := 0
	for _, ts := range h {
		n += len(ts)
	}
	return n
}

// Clone returns a copy whose slices are not shared with h.
func (h Headings) Clone() Headings {
	out := make(Headings, len(h))
	for k, ts := range h {
		cp := make([]taxi.Taxi, len(ts))
		copy(cp, ts)
		out[k] = cp
	}
	return out
}

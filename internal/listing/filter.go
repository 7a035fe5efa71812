package listing

import (
	"strings"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/cases"

	"github.com/VoxDroid/taxis/internal/taxi"
)

// Matcher reports whether t should be shown for the search string.
type Matcher func(t taxi.Taxi, search string) bool

// Filter returns the taxis accepted by match, in input order. An empty
// search accepts everything.
func Filter(taxis []taxi.Taxi, search string, match Matcher) []taxi.Taxi {
	if match == nil {
		match = MatchSubstring
	}
	out := make([]taxi.Taxi, 0, len(taxis))
	for _, t := range taxis {
		if search == "" || match(t, search) {
			out = append(out, t)
		}
	}
	return out
}

// MatchSubstring accepts t when any of its fields contains search, compared
// with Unicode case folding.
func MatchSubstring(t taxi.Taxi, search string) bool {
	if search == "" {
		return true
	}
	fold := cases.Fold()
	needle := fold.String(search)
	for _, f := range t.Fields() {
		if strings.Contains(fold.String(f), needle) {
			return true
		}
	}
	return false
}

// MatchFuzzy accepts t when the search characters appear, in order, in any
// of its fields.
func MatchFuzzy(t taxi.Taxi, search string) bool {
	if search == "" {
		return true
	}
	return len(fuzzy.Find(search, t.Fields())) > 0
}

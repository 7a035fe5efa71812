package taxi

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Fields returns the textual representation of every field of t, in a
// stable order: id (when assigned), registration, seat, then Extra values
// by key. Nested maps and slices are flattened. Keys starting with '$' are
// treated as private and skipped, as are null values.
func (t Taxi) Fields() []string {
	out := make([]string, 0, 3+len(t.Extra))
	if t.ID != 0 {
		out = append(out, t.ID.String())
	}
	out = append(out, t.Registration, t.Seat)
	for _, k := range t.ExtraKeys() {
		if strings.HasPrefix(k, "$") {
			continue
		}
		out = appendText(out, t.Extra[k])
	}
	return out
}

func appendText(out []string, v any) []string {
	switch x := v.(type) {
	case nil:
		return out
	case string:
		return append(out, x)
	case json.Number:
		return append(out, x.String())
	case bool:
		return append(out, strconv.FormatBool(x))
	case float64:
		return append(out, strconv.FormatFloat(x, 'f', -1, 64))
	case int:
		return append(out, strconv.Itoa(x))
	case int64:
		return append(out, strconv.FormatInt(x, 10))
	case []any:
		for _, e := range x {
			out = appendText(out, e)
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			if strings.HasPrefix(k, "$") {
				continue
			}
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out = appendText(out, x[k])
		}
		return out
	default:
		return append(out, fmt.Sprint(x))
	}
}

package resource

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorList is the single failure kind reported by the resource: an ordered
// list of human-readable messages. Status is the HTTP status of the response,
// or 0 when no response was received.
type ErrorList struct {
	Status  int
	Entries []string
}

func (e *ErrorList) Error() string {
	if len(e.Entries) == 0 {
		return "taxi resource: request failed"
	}
	return "taxi resource: " + strings.Join(e.Entries, "; ")
}

// AsErrorList returns err as an *ErrorList, wrapping foreign errors into a
// single-entry list.
func AsErrorList(err error) *ErrorList {
	if err == nil {
		return nil
	}
	var el *ErrorList
	if errors.As(err, &el) {
		return el
	}
	return &ErrorList{Entries: []string{err.Error()}}
}

// decodeErrorList turns an error response body into an ErrorList. Object
// values are taken in document order, array elements in order, and a bare
// string as one entry. Anything else falls back to the body text or the
// status text.
func decodeErrorList(status int, body []byte) *ErrorList {
	el := &ErrorList{Status: status}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 {
		if entries, ok := decodeEntries(trimmed); ok {
			el.Entries = entries
		} else {
			el.Entries = []string{string(trimmed)}
		}
	}
	if len(el.Entries) == 0 {
		text := http.StatusText(status)
		if text == "" {
			text = "request failed"
		}
		el.Entries = []string{text}
	}
	return el
}

func decodeEntries(body []byte) ([]string, bool) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, false
	}
	var out []string
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			for dec.More() {
				if _, err := dec.Token(); err != nil {
					return nil, false
				}
				var v any
				if err := dec.Decode(&v); err != nil {
					return nil, false
				}
				out = appendEntry(out, v)
			}
		case '[':
			for dec.More() {
				var v any
				if err := dec.Decode(&v); err != nil {
					return nil, false
				}
				out = appendEntry(out, v)
			}
		default:
			return nil, false
		}
	case string:
		out = appendEntry(out, t)
	default:
		return nil, false
	}
	return out, true
}

// appendEntry adds exactly one entry for v. null becomes an empty entry so
// the entry count always matches the payload.
func appendEntry(out []string, v any) []string {
	switch x := v.(type) {
	case nil:
		return append(out, "")
	case string:
		return append(out, x)
	case json.Number:
		return append(out, x.String())
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return append(out, fmt.Sprint(x))
		}
		return append(out, string(b))
	}
}

// Package taxi defines the taxi record exchanged with the rest/taxis endpoint.
package taxi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// ID is the server-assigned identifier of a taxi. Zero means unassigned.
type ID int64

// String returns the decimal form used in resource URLs.
func (id ID) String() string { return strconv.FormatInt(int64(id), 10) }

// ParseID parses a decimal taxi id.
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid taxi id %q: %w", s, err)
	}
	return ID(n), nil
}

// Taxi is a single taxi record. Fields the client does not know about are
// kept in Extra and written back unchanged.
type Taxi struct {
	ID           ID     `json:"id,omitempty"`
	Registration string `json:"registration" validate:"required,alphanum,len=7"`
	Seat         string `json:"seat" validate:"required,seat"`

	Extra map[string]any `json:"-"`
}

var knownFields = map[string]bool{"id": true, "registration": true, "seat": true}

// UnmarshalJSON decodes the known fields and collects the rest into Extra.
func (t *Taxi) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = Taxi{}
	if v, ok := raw["id"]; ok && !isNull(v) {
		var n json.Number
		if err := json.Unmarshal(v, &n); err != nil {
			// some servers send ids as strings
			var s string
			if err2 := json.Unmarshal(v, &s); err2 != nil {
				return fmt.Errorf("decode id: %w", err)
			}
			n = json.Number(s)
		}
		id, err := strconv.ParseInt(n.String(), 10, 64)
		if err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		t.ID = ID(id)
	}
	if v, ok := raw["registration"]; ok && !isNull(v) {
		if err := json.Unmarshal(v, &t.Registration); err != nil {
			return fmt.Errorf("decode registration: %w", err)
		}
	}
	if v, ok := raw["seat"]; ok && !isNull(v) {
		if err := decodeLoose(v, &t.Seat); err != nil {
			return fmt.Errorf("decode seat: %w", err)
		}
	}
	for k, v := range raw {
		if knownFields[k] {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(v))
		dec.UseNumber()
		var val any
		if err := dec.Decode(&val); err != nil {
			return fmt.Errorf("decode %s: %w", k, err)
		}
		if t.Extra == nil {
			t.Extra = make(map[string]any)
		}
		t.Extra[k] = val
	}
	return nil
}

// MarshalJSON writes the known fields followed by Extra.
func (t Taxi) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(t.Extra)+3)
	for k, v := range t.Extra {
		out[k] = v
	}
	if t.ID != 0 {
		out["id"] = int64(t.ID)
	}
	out["registration"] = t.Registration
	out["seat"] = t.Seat
	return json.Marshal(out)
}

// Clone returns a copy that shares nothing mutable with t.
func (t Taxi) Clone() Taxi {
	c := t
	if t.Extra != nil {
		c.Extra = make(map[string]any, len(t.Extra))
		for k, v := range t.Extra {
			c.Extra[k] = v
		}
	}
	return c
}

// ExtraKeys returns the keys of Extra in sorted order.
func (t Taxi) ExtraKeys() []string {
	keys := make([]string, 0, len(t.Extra))
	for k := range t.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// decodeLoose accepts either a JSON string or a JSON number for a string field.
func decodeLoose(v json.RawMessage, dst *string) error {
	if err := json.Unmarshal(v, dst); err == nil {
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		return err
	}
	*dst = n.String()
	return nil
}

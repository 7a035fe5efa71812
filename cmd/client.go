package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/taxis/internal/messages"
	"github.com/VoxDroid/taxis/internal/resource"
	"github.com/VoxDroid/taxis/internal/taxi"
	"github.com/VoxDroid/taxis/internal/tui/sanitize"
)

// errReported marks a failure whose messages were already written to stderr.
var errReported = errors.New("taxis: failure reported")

func newResource() (*resource.Resource, error) {
	return resource.New(appConfig.BaseURL,
		resource.WithTimeout(appConfig.HTTPTimeout),
		resource.WithLogger(logger),
	)
}

// reportFailure writes one danger line per error entry.
func reportFailure(cmd *cobra.Command, err error) error {
	el := resource.AsErrorList(err)
	for _, e := range el.Entries {
		fmt.Fprintln(cmd.ErrOrStderr(), "danger: "+sanitize.Text(e))
	}
	return errReported
}

func reportMessages(cmd *cobra.Command, bag *messages.Bag) error {
	for _, m := range bag.All() {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", m.Severity, sanitize.Text(m.Text))
	}
	return errReported
}

func parseID(arg string) (taxi.ID, error) {
	id, err := taxi.ParseID(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid taxi id %q", arg)
	}
	return id, nil
}

// applyFields sets k=v pairs as extra fields. Values that parse as JSON keep
// their type; anything else is a string. An empty value removes the field.
func applyFields(t *taxi.Taxi, pairs []string) error {
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return fmt.Errorf("invalid field %q, expected key=value", p)
		}
		switch k {
		case "id", "registration", "seat":
			return fmt.Errorf("field %q has its own flag", k)
		}
		if t.Extra == nil {
			t.Extra = map[string]any{}
		}
		if v == "" {
			delete(t.Extra, k)
			continue
		}
		var val any
		if err := json.Unmarshal([]byte(v), &val); err != nil {
			val = v
		}
		t.Extra[k] = val
	}
	return nil
}

func cleanRegistration(cmd *cobra.Command, reg string) string {
	clean, changed := taxi.SanitizeRegistration(reg)
	if changed {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: registration sanitized to %q\n", clean)
	}
	return clean
}

// printTaxi writes one field per line.
func printTaxi(cmd *cobra.Command, t taxi.Taxi) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "id: %s\n", t.ID)
	fmt.Fprintf(out, "registration: %s\n", sanitize.Text(t.Registration))
	fmt.Fprintf(out, "seat: %s\n", sanitize.Text(t.Seat))
	for _, k := range t.ExtraKeys() {
		v := t.Extra[k]
		s, ok := v.(string)
		if !ok {
			b, _ := json.Marshal(v)
			s = string(b)
		}
		fmt.Fprintf(out, "%s: %s\n", sanitize.Text(k), sanitize.Text(s))
	}
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

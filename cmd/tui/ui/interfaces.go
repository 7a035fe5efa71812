package ui

import (
	"context"

	"github.com/VoxDroid/taxis/internal/listing"
	"github.com/VoxDroid/taxis/internal/messages"
)

// Controller is the subset of listing.Controller the TUI drives. Tests may
// provide their own implementation.
type Controller interface {
	Load(ctx context.Context)
	Refresh(ctx context.Context)
	SetSearch(s string)
	Search() string
	SetFuzzy(on bool)
	TaxisList() listing.Headings
	Details() bool
	ToggleDetails() bool
	Messages() *messages.Bag
	Close()
}

var _ Controller = (*listing.Controller)(nil)

// Package messages holds the application-wide list of user-facing
// notifications.
package messages

import "sync"

// Severity classifies a message for display.
type Severity string

// Severities understood by the presentation layers.
const (
	Success Severity = "success"
	Info    Severity = "info"
	Warning Severity = "warning"
	Danger  Severity = "danger"
)

// Message is one notification.
type Message struct {
	Severity Severity `json:"severity"`
	Text     string   `json:"text"`
}

// Bag is an append-only list of messages shared between components. The
// zero value is ready to use.
type Bag struct {
	mu   sync.Mutex
	msgs []Message
}

// NewBag returns an empty bag.
func NewBag() *Bag { return &Bag{} }

// Push appends a message.
func (b *Bag) Push(sev Severity, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = append(b.msgs, Message{Severity: sev, Text: text})
}

// All returns a copy of every message in the order pushed.
func (b *Bag) All() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Message, len(b.msgs))
	copy(out, b.msgs)
	return out
}

// Len returns the number of messages.
func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.msgs)
}

// Clear drops every message. Display code calls it once messages have been
// acknowledged.
func (b *Bag) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = nil
}

// Package events publishes governance lifecycle events to an external bus.
package events

import (
	"context"
	"encoding/json"
	"time"
)

const (
	TypeProposalCreated = "proposal.created"
	TypeProposalVoted   = "proposal.voted"
	TypeProposalClosed  = "proposal.closed"
	TypeOrderCreated    = "order.created"
)

// Event is the wire payload published for every successful mutation.
type Event struct {
	Type       string    `json:"type"`
	Subject    string    `json:"subject"`
	Actor      string    `json:"actor,omitempty"`
	Vote       *bool     `json:"vote,omitempty"`
	Status     string    `json:"status,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

func encode(ev Event) ([]byte, error) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	return json.Marshal(ev)
}

// Nop discards every event. Used when no bus is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

package search

import (
	"context"
	"time"

	"tripdesk/internal/normalize"
)

// Status is the session lifecycle position
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// State is a snapshot of a surface's session
type State struct {
	Status Status            `json:"status"`
	Query  Query             `json:"query,omitempty"`
	Offers []normalize.Offer `json:"offers"`
	Error  string            `json:"error,omitempty"`
	Token  uint64            `json:"token"`
}

func (s State) clone() State {
	out := s
	if s.Offers != nil {
		out.Offers = append([]normalize.Offer(nil), s.Offers...)
	}
	return out
}

// Event is emitted on every state transition, in order
type Event struct {
	Surface Surface   `json:"surface"`
	From    Status    `json:"from"`
	To      Status    `json:"to"`
	State   State     `json:"state"`
	At      time.Time `json:"at"`
}

// Listener observes session transitions. Listeners run synchronously on the
// goroutine that drains the event queue and should return quickly.
type Listener interface {
	OnTransition(ctx context.Context, ev Event)
}

// ListenerFunc adapts a function to Listener
type ListenerFunc func(ctx context.Context, ev Event)

func (f ListenerFunc) OnTransition(ctx context.Context, ev Event) { f(ctx, ev) }

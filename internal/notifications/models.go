package notifications

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"tripdesk/internal/search"
)

// Level is the visual severity of a notice
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is a short-lived user-facing message (a toast)
type Notice struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Source  string    `json:"source,omitempty"`
	At      time.Time `json:"at"`
}

// Notifier receives notices. Implementations must be safe for concurrent use.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(ctx context.Context, n Notice)

func (f NotifierFunc) Notify(ctx context.Context, n Notice) { f(ctx, n) }

// Discard drops every notice
var Discard Notifier = NotifierFunc(func(context.Context, Notice) {})

// SessionEvent is the wire form of a search session transition
type SessionEvent struct {
	ID         uuid.UUID         `json:"id"`
	Surface    string            `json:"surface"`
	From       string            `json:"from"`
	To         string            `json:"to"`
	Token      uint64            `json:"token"`
	Query      map[string]string `json:"query,omitempty"`
	OfferCount int               `json:"offer_count"`
	Error      string            `json:"error,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// NewSessionEvent flattens a transition into its wire form
func NewSessionEvent(ev search.Event) *SessionEvent {
	out := &SessionEvent{
		ID:         uuid.New(),
		Surface:    string(ev.Surface),
		From:       string(ev.From),
		To:         string(ev.To),
		Token:      ev.State.Token,
		OfferCount: len(ev.State.Offers),
		Error:      ev.State.Error,
		OccurredAt: ev.At,
	}
	if ev.State.Query != nil {
		params := ev.State.Query.Params()
		out.Query = make(map[string]string, len(params))
		for k := range params {
			out.Query[k] = params.Get(k)
		}
	}
	return out
}

// ToJSON converts the event to JSON
func (e *SessionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// PartitionKey keeps every event of one surface on one partition, in order
func (e *SessionEvent) PartitionKey() string {
	return e.Surface
}

// QueryString renders the query as sorted key=value pairs
func (e *SessionEvent) QueryString() string {
	keys := make([]string, 0, len(e.Query))
	for k := range e.Query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+e.Query[k])
	}
	return strings.Join(parts, " ")
}

// ParseSessionEvent decodes a consumed message value
func ParseSessionEvent(data []byte) (*SessionEvent, error) {
	var e SessionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

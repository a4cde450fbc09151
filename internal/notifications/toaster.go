package notifications

import (
	"context"
	"time"

	"tripdesk/internal/search"
)

var successMessages = map[search.Surface]string{
	search.SurfaceFlights: "Flights found successfully!",
	search.SurfaceHotels:  "Hotels found successfully!",
}

// Toaster turns terminal session transitions into notices: a success notice
// when results arrive, an error notice carrying the session's message on
// failure. Entering loading is silent.
type Toaster struct {
	sink Notifier
	now  func() time.Time
}

func NewToaster(sink Notifier) *Toaster {
	if sink == nil {
		sink = Discard
	}
	return &Toaster{sink: sink, now: time.Now}
}

// OnTransition implements search.Listener
func (t *Toaster) OnTransition(ctx context.Context, ev search.Event) {
	switch ev.To {
	case search.StatusSuccess:
		msg, ok := successMessages[ev.Surface]
		if !ok {
			msg = "Search completed successfully!"
		}
		t.emit(ctx, LevelSuccess, msg, string(ev.Surface))
	case search.StatusError:
		t.emit(ctx, LevelError, ev.State.Error, string(ev.Surface))
	}
}

// Success emits a success notice
func (t *Toaster) Success(ctx context.Context, source, message string) {
	t.emit(ctx, LevelSuccess, message, source)
}

// Error emits an error notice
func (t *Toaster) Error(ctx context.Context, source, message string) {
	t.emit(ctx, LevelError, message, source)
}

func (t *Toaster) Notify(ctx context.Context, n Notice) {
	if n.At.IsZero() {
		n.At = t.now()
	}
	t.sink.Notify(ctx, n)
}

func (t *Toaster) emit(ctx context.Context, level Level, message, source string) {
	t.Notify(ctx, Notice{Level: level, Message: message, Source: source})
}

package bookings

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"tripdesk/internal/gateway"
	"tripdesk/internal/notifications"
	"tripdesk/pkg/logger"
)

// BookingsPath lists every booking of the signed-in traveler
const BookingsPath = "/bookings"

// Gateway is the part of the gateway client bookings need
type Gateway interface {
	Get(ctx context.Context, path string, params url.Values) (*gateway.Response, error)
	Post(ctx context.Context, path string, body any) (*gateway.Response, error)
}

// Aggregator fetches bookings into the View it owns
type Aggregator struct {
	gw       Gateway
	notifier notifications.Notifier
	logger   *logger.Logger
	view     *View

	mu      sync.Mutex
	loading bool
}

func NewAggregator(gw Gateway, notifier notifications.Notifier, log *logger.Logger) *Aggregator {
	if notifier == nil {
		notifier = notifications.Discard
	}
	if log == nil {
		log = logger.GetDefault()
	}
	return &Aggregator{gw: gw, notifier: notifier, logger: log, view: NewView()}
}

// View returns the owned view
func (a *Aggregator) View() *View {
	return a.view
}

// Loading reports whether a fetch is in progress
func (a *Aggregator) Loading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loading
}

// Load issues one GET /bookings. Missing or null collections count as empty.
// On failure the view keeps its previous collections, an error notice is
// emitted, and the error is returned.
func (a *Aggregator) Load(ctx context.Context) (*View, error) {
	a.setLoading(true)
	defer a.setLoading(false)

	resp, err := a.gw.Get(ctx, BookingsPath, nil)
	if err != nil {
		return a.view, a.fail(ctx, err)
	}

	flights, hotels, err := decodeRecords(resp.Body)
	if err != nil {
		return a.view, a.fail(ctx, fmt.Errorf("failed to parse bookings: %w", err))
	}

	a.view.replace(flights, hotels)
	a.logger.LogBookingsLoaded(ctx, len(flights), len(hotels))
	return a.view, nil
}

func (a *Aggregator) fail(ctx context.Context, err error) error {
	a.logger.WithError(err).WarnContext(ctx, "Failed to load bookings")
	a.notifier.Notify(ctx, notifications.Notice{
		Level:   notifications.LevelError,
		Message: "Failed to load bookings",
		Source:  "bookings",
	})
	return err
}

func (a *Aggregator) setLoading(v bool) {
	a.mu.Lock()
	a.loading = v
	a.mu.Unlock()
}

// Package search drives one search session per surface: validation, the
// idle/loading/success/error state machine, and transition events.
package search

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"tripdesk/internal/gateway"
	"tripdesk/internal/normalize"
	"tripdesk/pkg/logger"
)

// Error definitions
var (
	ErrSuperseded      = errors.New("search superseded by a newer query")
	ErrSurfaceMismatch = errors.New("query does not belong to this surface")
)

// Searcher performs one search request and returns normalized offers
type Searcher interface {
	Search(ctx context.Context, q Query) ([]normalize.Offer, error)
}

// Outcome is delivered by Submit once the request settles
type Outcome struct {
	State State
	Err   error
}

type pendingEvent struct {
	ctx context.Context
	ev  Event
}

type listenerEntry struct {
	id       int
	listener Listener
}

// Controller owns the session of one surface. Every submission gets a new
// token; only the latest token may leave the loading state, and submitting
// again cancels the request it supersedes.
type Controller struct {
	surface  Surface
	searcher Searcher
	fallback string
	validate *validator.Validate
	logger   *logger.Logger
	now      func() time.Time

	mu        sync.Mutex
	state     State
	latest    uint64
	cancel    context.CancelFunc
	pending   []pendingEvent
	listeners []listenerEntry
	nextID    int

	emitMu sync.Mutex
}

// NewController creates the session for surface in the idle state
func NewController(surface Surface, searcher Searcher, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.GetDefault()
	}
	return &Controller{
		surface:  surface,
		searcher: searcher,
		fallback: fallbackMessage(surface),
		validate: NewValidator(),
		logger:   log.WithSurface(string(surface)),
		now:      time.Now,
		state:    State{Status: StatusIdle, Offers: []normalize.Offer{}},
	}
}

func fallbackMessage(surface Surface) string {
	switch surface {
	case SurfaceFlights:
		return "Failed to search flights"
	case SurfaceHotels:
		return "Failed to search hotels"
	default:
		return "Search failed"
	}
}

// Surface returns the surface this controller serves
func (c *Controller) Surface() Surface {
	return c.surface
}

// State returns a snapshot of the session
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Busy reports whether a request is outstanding; submission controls are
// disabled while it is true
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Status == StatusLoading
}

// Subscribe registers l and returns a function removing it
func (c *Controller) Subscribe(l Listener) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners = append(c.listeners, listenerEntry{id: id, listener: l})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, e := range c.listeners {
			if e.id == id {
				c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// Search validates q, moves the session to loading, and blocks until the
// request settles. A failed request is not an error here: it is reflected in
// the returned State. The error is non-nil only for invalid queries and for
// results discarded because a newer query superseded them.
func (c *Controller) Search(ctx context.Context, q Query) (State, error) {
	token, reqCtx, err := c.begin(ctx, q)
	if err != nil {
		return c.State(), err
	}
	offers, searchErr := c.searcher.Search(reqCtx, q)
	return c.resolve(ctx, token, offers, searchErr)
}

// Submit is the asynchronous form of Search. The loading transition happens
// before Submit returns; the channel receives exactly one Outcome.
func (c *Controller) Submit(ctx context.Context, q Query) (<-chan Outcome, error) {
	token, reqCtx, err := c.begin(ctx, q)
	if err != nil {
		return nil, err
	}

	out := make(chan Outcome, 1)
	go func() {
		offers, searchErr := c.searcher.Search(reqCtx, q)
		state, err := c.resolve(ctx, token, offers, searchErr)
		out <- Outcome{State: state, Err: err}
		close(out)
	}()
	return out, nil
}

func (c *Controller) begin(ctx context.Context, q Query) (uint64, context.Context, error) {
	if isNil(q) || q.Surface() != c.surface {
		return 0, nil, fmt.Errorf("%w: %s", ErrSurfaceMismatch, c.surface)
	}
	if err := validateQuery(c.validate, q); err != nil {
		return 0, nil, err
	}

	reqCtx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.latest++
	token := c.latest
	c.cancel = cancel

	from := c.state.Status
	c.state.Status = StatusLoading
	c.state.Query = q
	c.state.Error = ""
	c.state.Token = token
	c.enqueue(ctx, from)
	c.mu.Unlock()

	c.logger.LogSessionTransition(ctx, string(c.surface), string(from), string(StatusLoading), token)
	c.flush()

	return token, reqCtx, nil
}

func (c *Controller) resolve(ctx context.Context, token uint64, offers []normalize.Offer, searchErr error) (State, error) {
	c.mu.Lock()
	if token != c.latest {
		latest := c.latest
		snapshot := c.state.clone()
		c.mu.Unlock()

		c.logger.LogSupersededResult(ctx, string(c.surface), token, latest)
		return snapshot, ErrSuperseded
	}

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	from := c.state.Status
	if searchErr != nil {
		c.state.Status = StatusError
		c.state.Error = c.message(searchErr)
	} else {
		if offers == nil {
			offers = []normalize.Offer{}
		}
		c.state.Status = StatusSuccess
		c.state.Offers = offers
		c.state.Error = ""
	}
	to := c.state.Status
	snapshot := c.state.clone()
	c.enqueue(ctx, from)
	c.mu.Unlock()

	if searchErr != nil {
		c.logger.WithError(searchErr).WarnContext(ctx, "Search failed", "token", token)
	}
	c.logger.LogSessionTransition(ctx, string(c.surface), string(from), string(to), token)
	c.flush()

	return snapshot, nil
}

// isNil catches typed nil pointers hidden in a non-nil interface
func isNil(q Query) bool {
	if q == nil {
		return true
	}
	v := reflect.ValueOf(q)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// message prefers the server-provided text over the generic fallback
func (c *Controller) message(err error) string {
	if msg := gateway.ServerMessage(err); msg != "" {
		return msg
	}
	return c.fallback
}

// enqueue records a transition from -> current state. Caller holds c.mu.
func (c *Controller) enqueue(ctx context.Context, from Status) {
	c.pending = append(c.pending, pendingEvent{
		ctx: context.WithoutCancel(ctx),
		ev: Event{
			Surface: c.surface,
			From:    from,
			To:      c.state.Status,
			State:   c.state.clone(),
			At:      c.now(),
		},
	})
}

// flush delivers queued events in order. Only one goroutine drains at a time;
// others leave their events for it, so a listener may submit again without
// deadlocking.
func (c *Controller) flush() {
	for {
		if !c.emitMu.TryLock() {
			return
		}
		c.drain()
		c.emitMu.Unlock()

		c.mu.Lock()
		empty := len(c.pending) == 0
		c.mu.Unlock()
		if empty {
			return
		}
	}
}

func (c *Controller) drain() {
	for {
		c.mu.Lock()
		if len(c.pending) == 0 {
			c.mu.Unlock()
			return
		}
		next := c.pending[0]
		c.pending = c.pending[1:]
		listeners := make([]Listener, len(c.listeners))
		for i, e := range c.listeners {
			listeners[i] = e.listener
		}
		c.mu.Unlock()

		for _, l := range listeners {
			l.OnTransition(next.ctx, next.ev)
		}
	}
}

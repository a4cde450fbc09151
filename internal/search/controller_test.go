package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tripdesk/internal/gateway"
	"tripdesk/internal/normalize"
	"tripdesk/pkg/logger"
)

type searcherFunc func(ctx context.Context, q Query) ([]normalize.Offer, error)

func (f searcherFunc) Search(ctx context.Context, q Query) ([]normalize.Offer, error) {
	return f(ctx, q)
}

// pendingSearch is one request held open by blockingSearcher
type pendingSearch struct {
	query Query
	ctx   context.Context
	reply chan searchReply
}

type searchReply struct {
	offers []normalize.Offer
	err    error
}

// blockingSearcher lets a test decide when, and in which order, requests resolve
type blockingSearcher struct {
	calls chan *pendingSearch
}

func newBlockingSearcher() *blockingSearcher {
	return &blockingSearcher{calls: make(chan *pendingSearch, 8)}
}

func (b *blockingSearcher) Search(ctx context.Context, q Query) ([]normalize.Offer, error) {
	p := &pendingSearch{query: q, ctx: ctx, reply: make(chan searchReply, 1)}
	b.calls <- p
	select {
	case r := <-p.reply:
		return r.offers, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (b *blockingSearcher) next(t *testing.T) *pendingSearch {
	t.Helper()
	select {
	case p := <-b.calls:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for search call")
		return nil
	}
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) OnTransition(_ context.Context, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) transitions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = string(ev.From) + "->" + string(ev.To)
	}
	return out
}

func validFlightQuery() FlightQuery {
	return FlightQuery{Origin: "JFK", Destination: "LAX", Date: "2026-11-01", Adults: 1}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestController_InitialState(t *testing.T) {
	c := NewController(SurfaceFlights, searcherFunc(nil), logger.Discard())
	st := c.State()
	if st.Status != StatusIdle {
		t.Errorf("expected idle, got %q", st.Status)
	}
	if st.Offers == nil || len(st.Offers) != 0 {
		t.Errorf("expected empty result, got %v", st.Offers)
	}
	if c.Busy() {
		t.Error("idle controller must not be busy")
	}
}

func TestController_SearchSuccess(t *testing.T) {
	offers := []normalize.Offer{{Kind: normalize.KindFlight, ID: "1"}}
	c := NewController(SurfaceFlights, searcherFunc(func(ctx context.Context, q Query) ([]normalize.Offer, error) {
		return offers, nil
	}), logger.Discard())
	rec := &recorder{}
	c.Subscribe(rec)

	st, err := c.Search(context.Background(), validFlightQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Status != StatusSuccess {
		t.Fatalf("expected success, got %q", st.Status)
	}
	if len(st.Offers) != 1 || st.Offers[0].ID != "1" {
		t.Errorf("unexpected offers %+v", st.Offers)
	}
	if st.Error != "" {
		t.Errorf("expected no error message, got %q", st.Error)
	}

	want := []string{"idle->loading", "loading->success"}
	if got := rec.transitions(); !equalStrings(got, want) {
		t.Errorf("expected transitions %v, got %v", want, got)
	}
}

func TestController_SearchFailureMessages(t *testing.T) {
	tests := []struct {
		name    string
		surface Surface
		query   Query
		err     error
		want    string
	}{
		{
			name:    "server message wins",
			surface: SurfaceFlights,
			query:   validFlightQuery(),
			err:     &gateway.Error{Kind: gateway.KindStatus, StatusCode: 400, Message: "Invalid date"},
			want:    "Invalid date",
		},
		{
			name:    "flight fallback",
			surface: SurfaceFlights,
			query:   validFlightQuery(),
			err:     &gateway.Error{Kind: gateway.KindTransport, Err: errors.New("connection refused")},
			want:    "Failed to search flights",
		},
		{
			name:    "hotel fallback",
			surface: SurfaceHotels,
			query:   HotelQuery{Location: "Paris", CheckIn: "2026-11-01", CheckOut: "2026-11-03", Guests: 2},
			err:     errors.New("boom"),
			want:    "Failed to search hotels",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(tt.surface, searcherFunc(func(ctx context.Context, q Query) ([]normalize.Offer, error) {
				return nil, tt.err
			}), logger.Discard())
			rec := &recorder{}
			c.Subscribe(rec)

			st, err := c.Search(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("failure must be reflected in state, got error %v", err)
			}
			if st.Status != StatusError {
				t.Fatalf("expected error status, got %q", st.Status)
			}
			if st.Error != tt.want {
				t.Errorf("expected message %q, got %q", tt.want, st.Error)
			}
			want := []string{"idle->loading", "loading->error"}
			if got := rec.transitions(); !equalStrings(got, want) {
				t.Errorf("expected transitions %v, got %v", want, got)
			}
		})
	}
}

func TestController_ErrorClearedOnNextSubmission(t *testing.T) {
	fail := true
	c := NewController(SurfaceFlights, searcherFunc(func(ctx context.Context, q Query) ([]normalize.Offer, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return []normalize.Offer{{ID: "2"}}, nil
	}), logger.Discard())

	var loadingErrors []string
	c.Subscribe(ListenerFunc(func(_ context.Context, ev Event) {
		if ev.To == StatusLoading {
			loadingErrors = append(loadingErrors, ev.State.Error)
		}
	}))

	if _, err := c.Search(context.Background(), validFlightQuery()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fail = false
	st, err := c.Search(context.Background(), validFlightQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Status != StatusSuccess || st.Error != "" {
		t.Errorf("expected clean success, got %+v", st)
	}
	if len(loadingErrors) != 2 || loadingErrors[1] != "" {
		t.Errorf("expected error cleared on entering loading, got %q", loadingErrors)
	}
}

func TestController_ValidationBlocksRequest(t *testing.T) {
	called := false
	c := NewController(SurfaceFlights, searcherFunc(func(ctx context.Context, q Query) ([]normalize.Offer, error) {
		called = true
		return nil, nil
	}), logger.Discard())
	rec := &recorder{}
	c.Subscribe(rec)

	_, err := c.Search(context.Background(), FlightQuery{Destination: "LAX", Date: "2026-11-01"})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Fields["origin"] != "Origin is required" {
		t.Errorf("unexpected origin message %q", verr.Fields["origin"])
	}
	if _, ok := verr.Fields["adults"]; !ok {
		t.Error("expected adults to be reported")
	}
	if called {
		t.Error("searcher must not be called for an invalid query")
	}
	if len(rec.transitions()) != 0 {
		t.Errorf("expected no transitions, got %v", rec.transitions())
	}
	if c.State().Status != StatusIdle {
		t.Errorf("expected idle, got %q", c.State().Status)
	}
}

func TestController_SurfaceMismatch(t *testing.T) {
	c := NewController(SurfaceHotels, searcherFunc(nil), logger.Discard())
	if _, err := c.Search(context.Background(), validFlightQuery()); !errors.Is(err, ErrSurfaceMismatch) {
		t.Errorf("expected ErrSurfaceMismatch, got %v", err)
	}
}

func TestController_NilQuery(t *testing.T) {
	c := NewController(SurfaceFlights, searcherFunc(nil), logger.Discard())

	queries := []Query{nil, (*FlightQuery)(nil), (*HotelQuery)(nil)}
	for _, q := range queries {
		if _, err := c.Search(context.Background(), q); !errors.Is(err, ErrSurfaceMismatch) {
			t.Errorf("%T: expected ErrSurfaceMismatch, got %v", q, err)
		}
		if _, err := c.Submit(context.Background(), q); !errors.Is(err, ErrSurfaceMismatch) {
			t.Errorf("%T: expected ErrSurfaceMismatch from Submit, got %v", q, err)
		}
	}
	if st := c.State(); st.Status != StatusIdle {
		t.Errorf("expected idle session, got %s", st.Status)
	}
}

func TestController_SubmitIsBusyUntilResolved(t *testing.T) {
	fake := newBlockingSearcher()
	c := NewController(SurfaceFlights, fake, logger.Discard())

	out, err := c.Submit(context.Background(), validFlightQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.Busy() {
		t.Error("expected busy while loading")
	}

	p := fake.next(t)
	p.reply <- searchReply{offers: []normalize.Offer{{ID: "1"}}}

	res := <-out
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.State.Status != StatusSuccess {
		t.Errorf("expected success, got %q", res.State.Status)
	}
	if c.Busy() {
		t.Error("expected not busy after resolution")
	}
}

func TestController_NewerQuerySupersedesOlder(t *testing.T) {
	fake := newBlockingSearcher()
	c := NewController(SurfaceFlights, fake, logger.Discard())
	rec := &recorder{}
	c.Subscribe(rec)
	ctx := context.Background()

	q1 := validFlightQuery()
	q2 := FlightQuery{Origin: "SFO", Destination: "SEA", Date: "2026-11-02", Adults: 2}

	out1, err := c.Submit(ctx, q1)
	if err != nil {
		t.Fatalf("submit q1: %v", err)
	}
	first := fake.next(t)

	out2, err := c.Submit(ctx, q2)
	if err != nil {
		t.Fatalf("submit q2: %v", err)
	}
	second := fake.next(t)

	select {
	case <-first.ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("expected superseded request to be canceled")
	}

	second.reply <- searchReply{offers: []normalize.Offer{{ID: "X"}}}
	res2 := <-out2
	if res2.Err != nil {
		t.Fatalf("q2: unexpected error %v", res2.Err)
	}

	res1 := <-out1
	if !errors.Is(res1.Err, ErrSuperseded) {
		t.Errorf("q1: expected ErrSuperseded, got %v", res1.Err)
	}

	st := c.State()
	if st.Status != StatusSuccess {
		t.Fatalf("expected success, got %q", st.Status)
	}
	if len(st.Offers) != 1 || st.Offers[0].ID != "X" {
		t.Errorf("expected the newer result, got %+v", st.Offers)
	}
	if st.Query != Query(q2) {
		t.Errorf("expected latest query retained, got %+v", st.Query)
	}

	want := []string{"idle->loading", "loading->loading", "loading->success"}
	if got := rec.transitions(); !equalStrings(got, want) {
		t.Errorf("expected transitions %v, got %v", want, got)
	}
}

func TestController_ListenerMayReadState(t *testing.T) {
	c := NewController(SurfaceFlights, searcherFunc(func(ctx context.Context, q Query) ([]normalize.Offer, error) {
		return nil, nil
	}), logger.Discard())

	var seen []Status
	c.Subscribe(ListenerFunc(func(_ context.Context, ev Event) {
		seen = append(seen, c.State().Status)
	}))

	done := make(chan struct{})
	go func() {
		_, _ = c.Search(context.Background(), validFlightQuery())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener reading state deadlocked the controller")
	}
	if len(seen) != 2 {
		t.Errorf("expected 2 callbacks, got %d", len(seen))
	}
}

func TestController_Unsubscribe(t *testing.T) {
	c := NewController(SurfaceFlights, searcherFunc(func(ctx context.Context, q Query) ([]normalize.Offer, error) {
		return nil, nil
	}), logger.Discard())
	rec := &recorder{}
	unsubscribe := c.Subscribe(rec)
	unsubscribe()

	if _, err := c.Search(context.Background(), validFlightQuery()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.transitions()) != 0 {
		t.Errorf("expected no events after unsubscribe, got %v", rec.transitions())
	}
}

package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"

	"tripdesk/internal/normalize"
	"tripdesk/internal/search"
	"tripdesk/pkg/logger"
)

type noticeRecorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *noticeRecorder) Notify(_ context.Context, n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func flightEvent(to search.Status, state search.State) search.Event {
	state.Status = to
	return search.Event{
		Surface: search.SurfaceFlights,
		From:    search.StatusLoading,
		To:      to,
		State:   state,
		At:      time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC),
	}
}

func TestToaster_OnTransition(t *testing.T) {
	tests := []struct {
		name      string
		event     search.Event
		wantLevel Level
		wantMsg   string
		silent    bool
	}{
		{
			name:      "flights success",
			event:     flightEvent(search.StatusSuccess, search.State{}),
			wantLevel: LevelSuccess,
			wantMsg:   "Flights found successfully!",
		},
		{
			name: "hotels success",
			event: search.Event{
				Surface: search.SurfaceHotels,
				To:      search.StatusSuccess,
			},
			wantLevel: LevelSuccess,
			wantMsg:   "Hotels found successfully!",
		},
		{
			name:      "error carries session message",
			event:     flightEvent(search.StatusError, search.State{Error: "Failed to search flights"}),
			wantLevel: LevelError,
			wantMsg:   "Failed to search flights",
		},
		{
			name:   "loading is silent",
			event:  flightEvent(search.StatusLoading, search.State{}),
			silent: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &noticeRecorder{}
			NewToaster(rec).OnTransition(context.Background(), tt.event)

			if tt.silent {
				if len(rec.notices) != 0 {
					t.Errorf("expected no notice, got %+v", rec.notices)
				}
				return
			}
			if len(rec.notices) != 1 {
				t.Fatalf("expected 1 notice, got %d", len(rec.notices))
			}
			n := rec.notices[0]
			if n.Level != tt.wantLevel || n.Message != tt.wantMsg {
				t.Errorf("expected %s %q, got %s %q", tt.wantLevel, tt.wantMsg, n.Level, n.Message)
			}
			if n.At.IsZero() {
				t.Error("expected notice timestamp")
			}
		})
	}
}

func TestNewSessionEvent(t *testing.T) {
	ev := flightEvent(search.StatusSuccess, search.State{
		Query:  search.FlightQuery{Origin: "JFK", Destination: "LAX", Date: "2026-11-01", Adults: 1},
		Offers: []normalize.Offer{{ID: "1"}, {ID: "2"}},
		Token:  4,
	})

	e := NewSessionEvent(ev)
	if e.Surface != "flights" || e.To != "success" || e.Token != 4 {
		t.Errorf("unexpected event %+v", e)
	}
	if e.OfferCount != 2 {
		t.Errorf("expected 2 offers, got %d", e.OfferCount)
	}
	if e.QueryString() != "adults=1 date=2026-11-01 destination=LAX origin=JFK" {
		t.Errorf("unexpected query string %q", e.QueryString())
	}
}

func TestSessionEventPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got SessionEvent
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		if got.Surface != "flights" || got.To != "error" || got.Error != "Invalid date" {
			return fmt.Errorf("unexpected payload %s", val)
		}
		return nil
	})

	pub := NewSessionEventPublisherWithProducer(producer, "tripdesk-session-events", logger.Discard())
	ev := flightEvent(search.StatusError, search.State{Error: "Invalid date"})
	if err := pub.Publish(context.Background(), ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestSessionEventPublisher_FailureDoesNotPanic(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := NewSessionEventPublisherWithProducer(producer, "tripdesk-session-events", logger.Discard())
	ev := flightEvent(search.StatusSuccess, search.State{})

	if err := pub.Publish(context.Background(), ev); !errors.Is(err, sarama.ErrOutOfBrokers) {
		t.Errorf("expected ErrOutOfBrokers, got %v", err)
	}
	// listener path swallows the error
	pub.OnTransition(context.Background(), ev)

	if err := pub.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

type fakeSession struct {
	sarama.ConsumerGroupSession
	ctx    context.Context
	mu     sync.Mutex
	marked []int64
}

func (s *fakeSession) Context() context.Context { return s.ctx }

func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marked = append(s.marked, msg.Offset)
}

type fakeClaim struct {
	sarama.ConsumerGroupClaim
	messages chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

func TestSessionEventGroupHandler_ConsumeClaim(t *testing.T) {
	valid, err := NewSessionEvent(flightEvent(search.StatusSuccess, search.State{Token: 9})).ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage, 2)}
	claim.messages <- &sarama.ConsumerMessage{Offset: 1, Value: []byte("not json")}
	claim.messages <- &sarama.ConsumerMessage{Offset: 2, Value: valid}
	close(claim.messages)

	var handled []*SessionEvent
	h := &sessionEventGroupHandler{
		handle: func(_ context.Context, e *SessionEvent) error {
			handled = append(handled, e)
			return nil
		},
		logger: logger.Discard(),
	}
	session := &fakeSession{ctx: context.Background()}

	if err := h.ConsumeClaim(session, claim); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(handled) != 1 || handled[0].Token != 9 {
		t.Fatalf("expected the valid event to be handled, got %+v", handled)
	}
	if len(session.marked) != 2 {
		t.Errorf("expected both messages marked, got %v", session.marked)
	}
}

package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tripdesk/internal/gateway"
	"tripdesk/internal/normalize"
	"tripdesk/internal/notifications"
	"tripdesk/pkg/logger"
)

// Booking endpoints
const (
	FlightBookingsPath = "/flight/bookings"
	HotelBookingsPath  = "/hotel/bookings"
)

// Error definitions
var (
	ErrNoSource     = errors.New("offer carries no source data")
	ErrKindMismatch = errors.New("offer kind does not match booking type")
)

// Confirmation is the server's answer to a booking request
type Confirmation struct {
	ID      string          `json:"id"`
	Kind    Kind            `json:"kind"`
	Message string          `json:"message,omitempty"`
	Raw     json.RawMessage `json:"-"`
}

// Booker submits offers as bookings. The body is the offer's untouched source
// item. Requests are not retried and carry no idempotency key.
type Booker struct {
	gw       Gateway
	notifier notifications.Notifier
	logger   *logger.Logger
}

func NewBooker(gw Gateway, notifier notifications.Notifier, log *logger.Logger) *Booker {
	if notifier == nil {
		notifier = notifications.Discard
	}
	if log == nil {
		log = logger.GetDefault()
	}
	return &Booker{gw: gw, notifier: notifier, logger: log}
}

func (b *Booker) BookFlight(ctx context.Context, offer normalize.Offer) (*Confirmation, error) {
	if offer.Kind != normalize.KindFlight {
		return nil, ErrKindMismatch
	}
	return b.book(ctx, KindFlight, FlightBookingsPath, offer)
}

func (b *Booker) BookHotel(ctx context.Context, offer normalize.Offer) (*Confirmation, error) {
	if offer.Kind != normalize.KindHotel {
		return nil, ErrKindMismatch
	}
	return b.book(ctx, KindHotel, HotelBookingsPath, offer)
}

func (b *Booker) book(ctx context.Context, kind Kind, path string, offer normalize.Offer) (*Confirmation, error) {
	if len(offer.Source) == 0 {
		return nil, ErrNoSource
	}

	resp, err := b.gw.Post(ctx, path, offer.Source)
	if err != nil {
		b.notifier.Notify(ctx, notifications.Notice{
			Level:   notifications.LevelError,
			Message: failureMessage(kind, err),
			Source:  "bookings",
		})
		return nil, fmt.Errorf("failed to book %s: %w", kind, err)
	}

	conf := &Confirmation{Kind: kind, Raw: resp.Body}
	var body struct {
		ID        Text `json:"id"`
		BookingID Text `json:"bookingId"`
		Message   Text `json:"message"`
	}
	if err := json.Unmarshal(resp.Body, &body); err == nil {
		conf.ID = string(body.ID)
		if conf.ID == "" {
			conf.ID = string(body.BookingID)
		}
		conf.Message = string(body.Message)
	}

	b.logger.LogBookingCreated(ctx, string(kind), conf.ID)
	b.notifier.Notify(ctx, notifications.Notice{
		Level:   notifications.LevelSuccess,
		Message: successMessage(kind),
		Source:  "bookings",
	})
	return conf, nil
}

func successMessage(kind Kind) string {
	if kind == KindHotel {
		return "Hotel booked successfully!"
	}
	return "Flight booked successfully!"
}

func failureMessage(kind Kind, err error) string {
	if msg := gateway.ServerMessage(err); msg != "" {
		return msg
	}
	if kind == KindHotel {
		return "Failed to book hotel"
	}
	return "Failed to book flight"
}

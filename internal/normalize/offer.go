// Package normalize turns travel API payloads into a stable offer model.
// Nothing in this package returns an error: unknown shapes degrade to an empty
// result and missing fields to sentinel values.
package normalize

import (
	"encoding/json"
	"fmt"
)

// NotAvailable replaces any missing display field
const NotAvailable = "N/A"

// Kind tells flight offers from hotel offers
type Kind string

const (
	KindFlight Kind = "flight"
	KindHotel  Kind = "hotel"
)

// Route is the first departure and last arrival of an itinerary
type Route struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

func (r Route) String() string {
	return fmt.Sprintf("%s → %s", r.Origin, r.Destination)
}

// Segment is one leg of a flight offer. Terminals and times are optional and
// stay empty when the payload omits them.
type Segment struct {
	DepartureAirport  string `json:"departure_airport"`
	ArrivalAirport    string `json:"arrival_airport"`
	DepartureTerminal string `json:"departure_terminal,omitempty"`
	ArrivalTerminal   string `json:"arrival_terminal,omitempty"`
	DepartureTime     string `json:"departure_time,omitempty"`
	ArrivalTime       string `json:"arrival_time,omitempty"`
	CarrierCode       string `json:"carrier_code"`
	FlightNumber      string `json:"flight_number"`
}

// Offer is one displayable search result
type Offer struct {
	Kind           Kind      `json:"kind"`
	ID             string    `json:"id"`
	Route          Route     `json:"route"`
	Price          string    `json:"price"`
	Currency       string    `json:"currency"`
	Duration       string    `json:"duration"`
	Segments       []Segment `json:"segments"`
	SegmentCount   int       `json:"segment_count"`
	AvailableSeats int       `json:"available_seats"`

	// hotel offers
	Name     string `json:"name,omitempty"`
	Location string `json:"location,omitempty"`

	// Source is the untouched upstream item, posted back when booking
	Source json.RawMessage `json:"-"`
}

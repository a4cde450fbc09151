// Package bookings aggregates a traveler's prior bookings for display and
// submits new ones.
package bookings

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"tripdesk/internal/normalize"
)

// Kind discriminates booking records
type Kind string

const (
	KindFlight Kind = "flight"
	KindHotel  Kind = "hotel"
)

// Text is a scalar field as the server sends it: a string, a number or a bool.
// Anything else, including null, decodes to empty.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] == '{' || data[0] == '[' || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	*t = Text(data)
	return nil
}

// String renders the value, or the sentinel when missing
func (t Text) String() string {
	if strings.TrimSpace(string(t)) == "" {
		return normalize.NotAvailable
	}
	return string(t)
}

// Amount is a price as sent by the server, number or string
type Amount = Text

type FlightBooking struct {
	Origin        Text   `json:"origin"`
	Destination   Text   `json:"destination"`
	Airline       Text   `json:"airline"`
	DepartureDate Text   `json:"departureDate"`
	Price         Amount `json:"price"`
	FlightID      Text   `json:"flightId"`
}

type HotelBooking struct {
	HotelName    Text   `json:"hotelName"`
	Location     Text   `json:"location"`
	CheckInDate  Text   `json:"checkInDate"`
	CheckOutDate Text   `json:"checkOutDate"`
	Price        Amount `json:"price"`
	HotelID      Text   `json:"hotelId"`
}

// Record holds exactly one of Flight or Hotel, per Kind
type Record struct {
	Kind   Kind           `json:"kind"`
	Flight *FlightBooking `json:"flight,omitempty"`
	Hotel  *HotelBooking  `json:"hotel,omitempty"`
}

// payload is the GET /bookings body. Each key is decoded on its own: a key
// that is not a list counts as empty, and items are decoded one by one so a
// malformed entry still counts as a booking.
type payload struct {
	Flights json.RawMessage `json:"flights"`
	Hotels  json.RawMessage `json:"hotels"`
}

// items returns the elements of raw, or none when raw is not a list
func items(raw json.RawMessage) []json.RawMessage {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	return list
}

// decodeRecords fails only when body is not JSON at all. Any other top-level
// value yields two empty collections.
func decodeRecords(body []byte) (flights, hotels []Record, err error) {
	if !json.Valid(body) {
		return nil, nil, errors.New("response is not valid JSON")
	}
	var p payload
	_ = json.Unmarshal(body, &p)

	rawFlights := items(p.Flights)
	flights = make([]Record, 0, len(rawFlights))
	for _, raw := range rawFlights {
		var fb FlightBooking
		_ = json.Unmarshal(raw, &fb)
		flights = append(flights, Record{Kind: KindFlight, Flight: &fb})
	}

	rawHotels := items(p.Hotels)
	hotels = make([]Record, 0, len(rawHotels))
	for _, raw := range rawHotels {
		var hb HotelBooking
		_ = json.Unmarshal(raw, &hb)
		hotels = append(hotels, Record{Kind: KindHotel, Hotel: &hb})
	}
	return flights, hotels, nil
}

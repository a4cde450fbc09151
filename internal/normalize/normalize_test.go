package normalize

import (
	"encoding/json"
	"testing"
)

const scenarioOffer = `{"id":"1","price":{"total":"199"},"itineraries":[{"duration":"PT5H","segments":[{"departure":{"iataCode":"JFK"},"arrival":{"iataCode":"LAX"},"carrierCode":"AA","number":"100"}]}],"numberOfBookableSeats":5}`

func assertScenarioOffer(t *testing.T, offers []Offer) {
	t.Helper()
	if len(offers) != 1 {
		t.Fatalf("expected 1 offer, got %d", len(offers))
	}
	o := offers[0]
	if o.ID != "1" {
		t.Errorf("expected id 1, got %q", o.ID)
	}
	if o.Route.String() != "JFK → LAX" {
		t.Errorf("expected route JFK → LAX, got %q", o.Route.String())
	}
	if o.Price != "199" {
		t.Errorf("expected price 199, got %q", o.Price)
	}
	if o.Duration != "PT5H" {
		t.Errorf("expected duration PT5H, got %q", o.Duration)
	}
	if o.SegmentCount != 1 || len(o.Segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", o.SegmentCount)
	}
	if o.Segments[0].CarrierCode != "AA" || o.Segments[0].FlightNumber != "100" {
		t.Errorf("unexpected segment %+v", o.Segments[0])
	}
	if o.AvailableSeats != 5 {
		t.Errorf("expected 5 seats, got %d", o.AvailableSeats)
	}
	if o.Kind != KindFlight {
		t.Errorf("expected flight kind, got %q", o.Kind)
	}
}

func TestFlights_Scenarios(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		shape   string
	}{
		{name: "data field", payload: `{"data":[` + scenarioOffer + `]}`, shape: "data"},
		{name: "bare sequence", payload: `[` + scenarioOffer + `]`, shape: "sequence"},
		{name: "flights field", payload: `{"flights":[` + scenarioOffer + `]}`, shape: "flights"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded := DecodeFlights([]byte(tt.payload))
			if !decoded.Recognized || decoded.Shape != tt.shape {
				t.Fatalf("expected recognized shape %q, got %+v", tt.shape, decoded)
			}
			assertScenarioOffer(t, Flights([]byte(tt.payload)))
		})
	}
}

func TestFlights_ShapePriority(t *testing.T) {
	// data wins over flights when both are present
	payload := `{"data":[` + scenarioOffer + `],"flights":[{"id":"2"},{"id":"3"}]}`
	offers := Flights([]byte(payload))
	if len(offers) != 1 || offers[0].ID != "1" {
		t.Fatalf("expected data field to win, got %+v", offers)
	}

	// a null data field does not match, flights is used
	payload = `{"data":null,"flights":[{"id":"2"}]}`
	decoded := DecodeFlights([]byte(payload))
	if decoded.Shape != "flights" || len(decoded.Items) != 1 {
		t.Fatalf("expected flights shape, got %+v", decoded)
	}

	// an empty data sequence still matches
	decoded = DecodeFlights([]byte(`{"data":[],"flights":[{"id":"2"}]}`))
	if decoded.Shape != "data" || len(decoded.Items) != 0 {
		t.Fatalf("expected empty data shape, got %+v", decoded)
	}

	// falsy scalars fall through to flights
	for _, data := range []string{`""`, `false`, `0`, `0.0`} {
		offers := Flights([]byte(`{"data":` + data + `,"flights":[` + scenarioOffer + `]}`))
		if len(offers) != 1 || offers[0].ID != "1" {
			t.Errorf("data=%s: expected the flights offer, got %+v", data, offers)
		}
	}

	// truthy non-list values still decide the shape, yielding nothing
	for _, data := range []string{`"x"`, `true`, `1`, `{}`} {
		decoded := DecodeFlights([]byte(`{"data":` + data + `,"flights":[{"id":"2"}]}`))
		if decoded.Recognized || len(decoded.Items) != 0 {
			t.Errorf("data=%s: expected empty result, got %+v", data, decoded)
		}
	}
}

func TestFlights_NeverFails(t *testing.T) {
	payloads := []string{
		`{"meta":{"count":0}}`,
		`{"data":{"id":"1"}}`,
		`"just a string"`,
		`42`,
		`null`,
		`not json at all`,
		``,
		`[1, "two", null, {"price": 3}]`,
	}

	for _, p := range payloads {
		offers := Flights([]byte(p))
		if offers == nil {
			t.Errorf("payload %q: expected non-nil sequence", p)
		}
	}

	for _, p := range payloads[:6] {
		if got := Flights([]byte(p)); len(got) != 0 {
			t.Errorf("payload %q: expected empty sequence, got %d offers", p, len(got))
		}
		if DecodeFlights([]byte(p)).Recognized {
			t.Errorf("payload %q: expected Empty", p)
		}
	}
}

func TestFlights_MissingFieldsUseSentinels(t *testing.T) {
	offers := Flights([]byte(`[{}]`))
	if len(offers) != 1 {
		t.Fatalf("expected 1 offer, got %d", len(offers))
	}
	o := offers[0]

	for field, got := range map[string]string{
		"id":          o.ID,
		"price":       o.Price,
		"currency":    o.Currency,
		"duration":    o.Duration,
		"origin":      o.Route.Origin,
		"destination": o.Route.Destination,
	} {
		if got != NotAvailable {
			t.Errorf("%s: expected %q, got %q", field, NotAvailable, got)
		}
	}
	if o.SegmentCount != 0 || o.Segments == nil {
		t.Errorf("expected empty, non-nil segments, got %v", o.Segments)
	}
	if o.AvailableSeats != 0 {
		t.Errorf("expected 0 seats, got %d", o.AvailableSeats)
	}
}

func TestFlights_ZeroSegmentsRoute(t *testing.T) {
	offers := Flights([]byte(`[{"id":"9","itineraries":[{"duration":"PT1H","segments":[]}]}]`))
	if offers[0].Route.String() != "N/A → N/A" {
		t.Errorf("expected N/A route, got %q", offers[0].Route.String())
	}
	if offers[0].Duration != "PT1H" {
		t.Errorf("expected duration kept, got %q", offers[0].Duration)
	}
}

func TestFlights_MultiSegmentRoute(t *testing.T) {
	payload := `[{"id":"7","price":{"total":412.5,"currency":"USD"},"itineraries":[{"segments":[
		{"departure":{"iataCode":"JFK","terminal":"4","at":"2026-11-01T08:00:00"},"arrival":{"iataCode":"ORD"},"carrierCode":"UA","number":"12"},
		{"departure":{"iataCode":"ORD"},"arrival":{"iataCode":"SFO","terminal":"2"},"carrierCode":"UA","number":"840"}
	]}],"numberOfBookableSeats":"3"}]`

	o := Flights([]byte(payload))[0]
	if o.Route.Origin != "JFK" || o.Route.Destination != "SFO" {
		t.Errorf("expected JFK → SFO, got %s", o.Route)
	}
	if o.Price != "412.5" || o.Currency != "USD" {
		t.Errorf("expected numeric price rendered, got %q %q", o.Price, o.Currency)
	}
	if o.Segments[0].DepartureTerminal != "4" || o.Segments[0].ArrivalTerminal != "" {
		t.Errorf("unexpected terminals %+v", o.Segments[0])
	}
	if o.Segments[0].DepartureTime != "2026-11-01T08:00:00" || o.Segments[1].DepartureTime != "" {
		t.Errorf("unexpected departure times %+v", o.Segments)
	}
	if o.Segments[1].ArrivalTerminal != "2" {
		t.Errorf("unexpected terminals %+v", o.Segments[1])
	}
	if o.AvailableSeats != 3 {
		t.Errorf("expected seats parsed from string, got %d", o.AvailableSeats)
	}
	if o.Duration != NotAvailable {
		t.Errorf("expected missing duration sentinel, got %q", o.Duration)
	}
}

func TestFlights_SourceKeepsUpstreamItem(t *testing.T) {
	o := Flights([]byte(`[` + scenarioOffer + `]`))[0]
	var src map[string]any
	if err := json.Unmarshal(o.Source, &src); err != nil {
		t.Fatalf("source is not JSON: %v", err)
	}
	if src["id"] != "1" {
		t.Errorf("expected source id 1, got %v", src["id"])
	}
}

func TestHotels(t *testing.T) {
	payload := `[{"id":"h1","name":"Grand Plaza","location":"Paris, France","price":250},{"hotelId":"h2"}]`
	offers := Hotels([]byte(payload))
	if len(offers) != 2 {
		t.Fatalf("expected 2 hotels, got %d", len(offers))
	}
	if offers[0].Name != "Grand Plaza" || offers[0].Location != "Paris, France" || offers[0].Price != "250" {
		t.Errorf("unexpected first hotel %+v", offers[0])
	}
	if offers[0].Kind != KindHotel {
		t.Errorf("expected hotel kind, got %q", offers[0].Kind)
	}
	second := offers[1]
	if second.ID != "h2" {
		t.Errorf("expected hotelId fallback, got %q", second.ID)
	}
	if second.Name != NotAvailable || second.Location != NotAvailable || second.Price != NotAvailable {
		t.Errorf("expected sentinels, got %+v", second)
	}
}

func TestHotels_NoShapeNegotiation(t *testing.T) {
	for _, p := range []string{`{"data":[{"id":"h1"}]}`, `{}`, `oops`} {
		if got := Hotels([]byte(p)); len(got) != 0 {
			t.Errorf("payload %q: expected empty result, got %d", p, len(got))
		}
	}
}

package normalize

// Flights normalizes a flight search payload in any supported shape
func Flights(raw []byte) []Offer {
	decoded := DecodeFlights(raw)
	offers := make([]Offer, 0, len(decoded.Items))
	for _, item := range decoded.Items {
		offers = append(offers, flightOffer(item))
	}
	return offers
}

func flightOffer(item any) Offer {
	itinerary := lookup(item, "itineraries", 0)
	rawSegments := sequence(lookup(itinerary, "segments"))

	segments := make([]Segment, 0, len(rawSegments))
	for _, s := range rawSegments {
		segments = append(segments, Segment{
			DepartureAirport:  text(lookup(s, "departure", "iataCode")),
			ArrivalAirport:    text(lookup(s, "arrival", "iataCode")),
			DepartureTerminal: optionalText(lookup(s, "departure", "terminal")),
			ArrivalTerminal:   optionalText(lookup(s, "arrival", "terminal")),
			DepartureTime:     optionalText(lookup(s, "departure", "at")),
			ArrivalTime:       optionalText(lookup(s, "arrival", "at")),
			CarrierCode:       text(lookup(s, "carrierCode")),
			FlightNumber:      text(lookup(s, "number")),
		})
	}

	route := Route{Origin: NotAvailable, Destination: NotAvailable}
	if n := len(rawSegments); n > 0 {
		route.Origin = text(lookup(rawSegments[0], "departure", "iataCode"))
		route.Destination = text(lookup(rawSegments[n-1], "arrival", "iataCode"))
	}

	return Offer{
		Kind:           KindFlight,
		ID:             text(lookup(item, "id")),
		Route:          route,
		Price:          price(item),
		Currency:       text(lookup(item, "price", "currency")),
		Duration:       text(lookup(itinerary, "duration")),
		Segments:       segments,
		SegmentCount:   len(segments),
		AvailableSeats: count(lookup(item, "numberOfBookableSeats")),
		Source:         rawItem(item),
	}
}

// price reads price.total, or price itself when it is a bare scalar
func price(item any) string {
	p := lookup(item, "price")
	if _, isObj := p.(map[string]any); isObj {
		return firstText(p, "total", "grandTotal", "amount")
	}
	return text(p)
}

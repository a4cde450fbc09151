package normalize

// Hotels normalizes a hotel search payload. Records carry no itinerary, so
// Route and Duration stay at the sentinel.
func Hotels(raw []byte) []Offer {
	decoded := DecodeHotels(raw)
	offers := make([]Offer, 0, len(decoded.Items))
	for _, item := range decoded.Items {
		offers = append(offers, Offer{
			Kind:           KindHotel,
			ID:             firstText(item, "id", "hotelId"),
			Route:          Route{Origin: NotAvailable, Destination: NotAvailable},
			Name:           text(lookup(item, "name")),
			Location:       text(lookup(item, "location")),
			Price:          price(item),
			Currency:       text(lookup(item, "price", "currency")),
			Duration:       NotAvailable,
			Segments:       []Segment{},
			AvailableSeats: count(lookup(item, "availableRooms")),
			Source:         rawItem(item),
		})
	}
	return offers
}

package mockapi

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// BookingsResponse is the GET /bookings body; both keys are always present
type BookingsResponse struct {
	Flights []FlightBooking `json:"flights"`
	Hotels  []HotelBooking  `json:"hotels"`
}

type FlightBookingResponse struct {
	ID      string         `json:"id"`
	Message string         `json:"message"`
	Booking *FlightBooking `json:"booking"`
}

type HotelBookingResponse struct {
	ID      string        `json:"id"`
	Message string        `json:"message"`
	Booking *HotelBooking `json:"booking"`
}

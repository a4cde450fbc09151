package mockapi

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type FlightSearchRequest struct {
	Origin      string `form:"origin" validate:"required,len=3,alpha"`
	Destination string `form:"destination" validate:"required,len=3,alpha,nefield=Origin"`
	Date        string `form:"date" validate:"required,datetime=2006-01-02"`
	Adults      int    `form:"adults" validate:"omitempty,min=1,max=9"`
}

type HotelSearchRequest struct {
	Location string `form:"location" validate:"required"`
	CheckIn  string `form:"checkIn" validate:"required,datetime=2006-01-02"`
	CheckOut string `form:"checkOut" validate:"required,datetime=2006-01-02"`
	Guests   int    `form:"guests" validate:"omitempty,min=1,max=8"`
}

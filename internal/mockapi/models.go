package mockapi

import (
	"time"

	"github.com/google/uuid"
)

// User is the single development account
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
}

// FlightBooking is a stored flight reservation. JSON names match what the
// client's bookings page reads.
type FlightBooking struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        string    `gorm:"type:varchar(64);index;not null" json:"-"`
	Origin        string    `gorm:"type:varchar(8)" json:"origin"`
	Destination   string    `gorm:"type:varchar(8)" json:"destination"`
	Airline       string    `gorm:"type:varchar(64)" json:"airline"`
	DepartureDate string    `gorm:"type:varchar(32)" json:"departureDate"`
	Price         float64   `gorm:"not null" json:"price"`
	Currency      string    `gorm:"type:varchar(3);default:'USD'" json:"currency"`
	FlightID      string    `gorm:"type:varchar(64)" json:"flightId"`
	Offer         string    `gorm:"type:text" json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (FlightBooking) TableName() string {
	return "flight_bookings"
}

// HotelBooking is a stored hotel reservation
type HotelBooking struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       string    `gorm:"type:varchar(64);index;not null" json:"-"`
	HotelName    string    `gorm:"type:varchar(128)" json:"hotelName"`
	Location     string    `gorm:"type:varchar(128)" json:"location"`
	CheckInDate  string    `gorm:"type:varchar(32)" json:"checkInDate"`
	CheckOutDate string    `gorm:"type:varchar(32)" json:"checkOutDate"`
	Guests       int       `json:"guests"`
	Price        float64   `gorm:"not null" json:"price"`
	Currency     string    `gorm:"type:varchar(3);default:'USD'" json:"currency"`
	HotelID      string    `gorm:"type:varchar(64)" json:"hotelId"`
	Offer        string    `gorm:"type:text" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (HotelBooking) TableName() string {
	return "hotel_bookings"
}

package mockapi

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"
)

type Repository interface {
	CreateFlightBooking(ctx context.Context, booking *FlightBooking) error
	CreateHotelBooking(ctx context.Context, booking *HotelBooking) error
	ListFlightBookings(ctx context.Context, userID string) ([]FlightBooking, error)
	ListHotelBookings(ctx context.Context, userID string) ([]HotelBooking, error)
}

// Migrate creates the booking tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&FlightBooking{}, &HotelBooking{})
}

type gormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateFlightBooking(ctx context.Context, booking *FlightBooking) error {
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return fmt.Errorf("failed to create flight booking: %w", err)
	}
	return nil
}

func (r *gormRepository) CreateHotelBooking(ctx context.Context, booking *HotelBooking) error {
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return fmt.Errorf("failed to create hotel booking: %w", err)
	}
	return nil
}

func (r *gormRepository) ListFlightBookings(ctx context.Context, userID string) ([]FlightBooking, error) {
	var bookings []FlightBooking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list flight bookings: %w", err)
	}
	return bookings, nil
}

func (r *gormRepository) ListHotelBookings(ctx context.Context, userID string) ([]HotelBooking, error) {
	var bookings []HotelBooking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list hotel bookings: %w", err)
	}
	return bookings, nil
}

// memoryRepository keeps bookings for the life of the process
type memoryRepository struct {
	mu      sync.RWMutex
	flights []FlightBooking
	hotels  []HotelBooking
}

func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) CreateFlightBooking(_ context.Context, booking *FlightBooking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flights = append(r.flights, *booking)
	return nil
}

func (r *memoryRepository) CreateHotelBooking(_ context.Context, booking *HotelBooking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hotels = append(r.hotels, *booking)
	return nil
}

// newest first, matching the gorm ordering
func (r *memoryRepository) ListFlightBookings(_ context.Context, userID string) ([]FlightBooking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []FlightBooking{}
	for i := len(r.flights) - 1; i >= 0; i-- {
		if r.flights[i].UserID == userID {
			out = append(out, r.flights[i])
		}
	}
	return out, nil
}

func (r *memoryRepository) ListHotelBookings(_ context.Context, userID string) ([]HotelBooking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []HotelBooking{}
	for i := len(r.hotels) - 1; i >= 0; i-- {
		if r.hotels[i].UserID == userID {
			out = append(out, r.hotels[i])
		}
	}
	return out, nil
}

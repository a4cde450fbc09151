package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tripdesk/internal/auth"
	"tripdesk/internal/normalize"
	"tripdesk/internal/shared/config"
	"tripdesk/pkg/cache"
	"tripdesk/pkg/logger"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidOffer       = errors.New("offer is not bookable")
	ErrInvalidStay        = errors.New("check-out must be after check-in")
)

type Service interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	SearchFlights(ctx context.Context, req *FlightSearchRequest) (any, error)
	SearchHotels(ctx context.Context, req *HotelSearchRequest) ([]map[string]any, error)
	ListBookings(ctx context.Context, userID string) (*BookingsResponse, error)
	BookFlight(ctx context.Context, userID string, offer json.RawMessage) (*FlightBooking, error)
	BookHotel(ctx context.Context, userID string, offer json.RawMessage) (*HotelBooking, error)
}

type service struct {
	repo    Repository
	catalog *Catalog
	user    User
	secret  []byte
	ttl     time.Duration
	logger  *logger.Logger
	now     func() time.Time

	cache    cache.Service
	cacheTTL time.Duration
}

type ServiceOption func(*service)

// WithSearchCache serves repeated searches from c for ttl
func WithSearchCache(c cache.Service, ttl time.Duration) ServiceOption {
	return func(s *service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// NewService hashes the development password once at startup
func NewService(repo Repository, cfg *config.MockAPIConfig, log *logger.Logger, opts ...ServiceOption) (Service, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.DevPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.GetDefault()
	}
	email := strings.ToLower(cfg.DevEmail)
	s := &service{
		repo:    repo,
		catalog: NewCatalog(cfg.FlightShape),
		user: User{
			// stable across restarts so stored bookings stay visible
			ID:           uuid.NewSHA1(uuid.NameSpaceURL, []byte("tripdesk:"+email)).String(),
			Email:        email,
			PasswordHash: hash,
		},
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTL,
		logger: log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if !strings.EqualFold(req.Email, s.user.Email) {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.user.PasswordHash, []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	claims := auth.Claims{
		UserID: s.user.ID,
		Email:  s.user.Email,
		Type:   "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   s.user.ID,
			Issuer:    "tripdesk-mockapi",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{Token: token, ExpiresIn: int64(s.ttl.Seconds())}, nil
}

func (s *service) SearchFlights(ctx context.Context, req *FlightSearchRequest) (any, error) {
	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, err
	}
	fetch := func() (interface{}, error) {
		return s.catalog.FlightPayload(s.catalog.FlightOffers(req, day)), nil
	}
	if s.cache == nil {
		return fetch()
	}

	var payload any
	key := strings.ToUpper("flights:" + s.catalog.shape + ":" + req.Origin + ":" + req.Destination + ":" + req.Date)
	if err := s.cache.GetOrSet(ctx, key, s.cacheTTL, fetch, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *service) SearchHotels(ctx context.Context, req *HotelSearchRequest) ([]map[string]any, error) {
	checkIn, err := time.Parse("2006-01-02", req.CheckIn)
	if err != nil {
		return nil, err
	}
	checkOut, err := time.Parse("2006-01-02", req.CheckOut)
	if err != nil {
		return nil, err
	}
	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	if nights < 1 {
		return nil, ErrInvalidStay
	}
	if s.cache == nil {
		return s.catalog.Hotels(req, nights), nil
	}

	var hotels []map[string]any
	key := fmt.Sprintf("hotels:%s:%s:%s:%d", strings.ToUpper(strings.TrimSpace(req.Location)), req.CheckIn, req.CheckOut, req.Guests)
	err = s.cache.GetOrSet(ctx, key, s.cacheTTL, func() (interface{}, error) {
		return s.catalog.Hotels(req, nights), nil
	}, &hotels)
	if err != nil {
		return nil, err
	}
	return hotels, nil
}

func (s *service) ListBookings(ctx context.Context, userID string) (*BookingsResponse, error) {
	flights, err := s.repo.ListFlightBookings(ctx, userID)
	if err != nil {
		return nil, err
	}
	hotels, err := s.repo.ListHotelBookings(ctx, userID)
	if err != nil {
		return nil, err
	}
	if flights == nil {
		flights = []FlightBooking{}
	}
	if hotels == nil {
		hotels = []HotelBooking{}
	}
	return &BookingsResponse{Flights: flights, Hotels: hotels}, nil
}

// single wraps one item so the client normalizer can read it
func single(offer json.RawMessage) []byte {
	out := make([]byte, 0, len(offer)+2)
	out = append(out, '[')
	out = append(out, offer...)
	return append(out, ']')
}

func amount(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func (s *service) BookFlight(ctx context.Context, userID string, offer json.RawMessage) (*FlightBooking, error) {
	offers := normalize.Flights(single(offer))
	if len(offers) != 1 || offers[0].ID == normalize.NotAvailable || offers[0].SegmentCount == 0 {
		return nil, ErrInvalidOffer
	}
	o := offers[0]
	first := o.Segments[0]

	currency := o.Currency
	if currency == normalize.NotAvailable {
		currency = "USD"
	}

	booking := &FlightBooking{
		ID:            uuid.New(),
		UserID:        userID,
		Origin:        o.Route.Origin,
		Destination:   o.Route.Destination,
		Airline:       airlineName(first.CarrierCode),
		DepartureDate: first.DepartureTime,
		Price:         amount(o.Price),
		Currency:      currency,
		FlightID:      o.ID,
		Offer:         string(offer),
		CreatedAt:     s.now().UTC(),
	}
	if err := s.repo.CreateFlightBooking(ctx, booking); err != nil {
		return nil, err
	}
	s.logger.LogBookingCreated(ctx, "flight", booking.ID.String())
	return booking, nil
}

func (s *service) BookHotel(ctx context.Context, userID string, offer json.RawMessage) (*HotelBooking, error) {
	offers := normalize.Hotels(single(offer))
	if len(offers) != 1 || offers[0].ID == normalize.NotAvailable {
		return nil, ErrInvalidOffer
	}
	o := offers[0]

	var stay struct {
		CheckInDate  string `json:"checkInDate"`
		CheckOutDate string `json:"checkOutDate"`
		Guests       int    `json:"guests"`
	}
	_ = json.Unmarshal(offer, &stay)

	currency := o.Currency
	if currency == normalize.NotAvailable {
		currency = "USD"
	}

	booking := &HotelBooking{
		ID:           uuid.New(),
		UserID:       userID,
		HotelName:    o.Name,
		Location:     o.Location,
		CheckInDate:  stay.CheckInDate,
		CheckOutDate: stay.CheckOutDate,
		Guests:       stay.Guests,
		Price:        amount(o.Price),
		Currency:     currency,
		HotelID:      o.ID,
		Offer:        string(offer),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.CreateHotelBooking(ctx, booking); err != nil {
		return nil, err
	}
	s.logger.LogBookingCreated(ctx, "hotel", booking.ID.String())
	return booking, nil
}

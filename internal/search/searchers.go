package search

import (
	"context"
	"net/url"

	"tripdesk/internal/gateway"
	"tripdesk/internal/normalize"
	"tripdesk/pkg/logger"
)

// API paths, relative to the gateway base address
const (
	FlightSearchPath = "/flights/search"
	HotelSearchPath  = "/hotel-search"
)

// Gateway is the part of the gateway client the searchers need
type Gateway interface {
	Get(ctx context.Context, path string, params url.Values) (*gateway.Response, error)
}

// FlightSearcher queries flights and negotiates the payload shape
type FlightSearcher struct {
	gw Gateway
}

func NewFlightSearcher(gw Gateway) *FlightSearcher {
	return &FlightSearcher{gw: gw}
}

func (s *FlightSearcher) Search(ctx context.Context, q Query) ([]normalize.Offer, error) {
	resp, err := s.gw.Get(ctx, FlightSearchPath, q.Params())
	if err != nil {
		return nil, err
	}
	return normalize.Flights(resp.Body), nil
}

// HotelSearcher queries hotels; the payload is already a flat sequence
type HotelSearcher struct {
	gw Gateway
}

func NewHotelSearcher(gw Gateway) *HotelSearcher {
	return &HotelSearcher{gw: gw}
}

func (s *HotelSearcher) Search(ctx context.Context, q Query) ([]normalize.Offer, error) {
	resp, err := s.gw.Get(ctx, HotelSearchPath, q.Params())
	if err != nil {
		return nil, err
	}
	return normalize.Hotels(resp.Body), nil
}

// NewFlightController wires the flights surface
func NewFlightController(gw Gateway, log *logger.Logger) *Controller {
	return NewController(SurfaceFlights, NewFlightSearcher(gw), log)
}

// NewHotelController wires the hotels surface
func NewHotelController(gw Gateway, log *logger.Logger) *Controller {
	return NewController(SurfaceHotels, NewHotelSearcher(gw), log)
}

package bookings

import (
	"errors"
	"sync"
)

// Tab is the presented collection
type Tab string

const (
	TabFlights Tab = "flights"
	TabHotels  Tab = "hotels"
)

var ErrUnknownTab = errors.New("unknown bookings tab")

// Counts are the per-tab totals shown on the tab headers
type Counts struct {
	Flights int `json:"flights"`
	Hotels  int `json:"hotels"`
}

// View is the presentation state of the bookings page. Switching tabs never
// triggers a fetch.
type View struct {
	mu      sync.RWMutex
	flights []Record
	hotels  []Record
	tab     Tab
}

func NewView() *View {
	return &View{flights: []Record{}, hotels: []Record{}, tab: TabFlights}
}

func (v *View) Select(tab Tab) error {
	if tab != TabFlights && tab != TabHotels {
		return ErrUnknownTab
	}
	v.mu.Lock()
	v.tab = tab
	v.mu.Unlock()
	return nil
}

func (v *View) Tab() Tab {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.tab
}

func (v *View) Flights() []Record {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]Record(nil), v.flights...)
}

func (v *View) Hotels() []Record {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]Record(nil), v.hotels...)
}

// Active returns the records of the selected tab
func (v *View) Active() []Record {
	if v.Tab() == TabHotels {
		return v.Hotels()
	}
	return v.Flights()
}

func (v *View) Counts() Counts {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return Counts{Flights: len(v.flights), Hotels: len(v.hotels)}
}

// IsEmpty drives the per-tab empty-state indicator
func (v *View) IsEmpty(tab Tab) bool {
	c := v.Counts()
	if tab == TabHotels {
		return c.Hotels == 0
	}
	return c.Flights == 0
}

func (v *View) replace(flights, hotels []Record) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.flights = flights
	v.hotels = hotels
}

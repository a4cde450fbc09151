package mockapi

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"
)

// Flight payload shapes the upstream provider has been seen to send
const (
	ShapeData    = "data"
	ShapeFlights = "flights"
	ShapeArray   = "array"
)

type carrier struct {
	code string
	name string
	hub  string
}

var carriers = []carrier{
	{code: "AA", name: "American Airlines", hub: "ORD"},
	{code: "DL", name: "Delta Air Lines", hub: "ATL"},
	{code: "UA", name: "United Airlines", hub: "DEN"},
}

func airlineName(code string) string {
	for _, c := range carriers {
		if c.code == code {
			return c.name
		}
	}
	return code
}

var hotelNames = []string{"Grand %s Hotel", "%s Central Inn", "The %s Suites"}

// Catalog fabricates deterministic offers for any route or city
type Catalog struct {
	shape string
}

func NewCatalog(shape string) *Catalog {
	switch shape {
	case ShapeData, ShapeFlights, ShapeArray:
	default:
		shape = ShapeData
	}
	return &Catalog{shape: shape}
}

func seed(parts ...string) uint32 {
	h := fnv.New32a()
	for _, p := range parts {
		_, _ = h.Write([]byte(strings.ToUpper(p)))
	}
	return h.Sum32()
}

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if m == 0 {
		return fmt.Sprintf("PT%dH", h)
	}
	return fmt.Sprintf("PT%dH%dM", h, m)
}

func airport(code string, at time.Time) map[string]any {
	return map[string]any{
		"iataCode": code,
		"at":       at.Format("2006-01-02T15:04:05"),
	}
}

// FlightOffers returns one offer per carrier. A carrier whose hub is neither
// end of the route connects through it.
func (c *Catalog) FlightOffers(req *FlightSearchRequest, day time.Time) []map[string]any {
	origin := strings.ToUpper(req.Origin)
	destination := strings.ToUpper(req.Destination)
	s := seed(origin, destination)
	flightTime := time.Duration(2+s%6)*time.Hour + time.Duration(s%4)*15*time.Minute

	offers := make([]map[string]any, 0, len(carriers))
	for i, cr := range carriers {
		depart := day.Add(time.Duration(7+i*4) * time.Hour)
		number := fmt.Sprintf("%d", 100+(s+uint32(i)*37)%900)

		var segments []map[string]any
		total := flightTime
		if i == len(carriers)-1 && cr.hub != origin && cr.hub != destination {
			leg := flightTime/2 + 30*time.Minute
			layover := 75 * time.Minute
			arriveHub := depart.Add(leg)
			departHub := arriveHub.Add(layover)
			segments = []map[string]any{
				{"departure": airport(origin, depart), "arrival": airport(cr.hub, arriveHub), "carrierCode": cr.code, "number": number},
				{"departure": airport(cr.hub, departHub), "arrival": airport(destination, departHub.Add(leg)), "carrierCode": cr.code, "number": fmt.Sprintf("%d", 1000+(s%8000))},
			}
			total = 2*leg + layover
		} else {
			segments = []map[string]any{
				{"departure": airport(origin, depart), "arrival": airport(destination, depart.Add(flightTime)), "carrierCode": cr.code, "number": number},
			}
		}

		price := 120 + float64(s%300) + float64(i)*45.5
		offers = append(offers, map[string]any{
			"type": "flight-offer",
			"id":   fmt.Sprintf("%d", i+1),
			"price": map[string]any{
				"currency": "USD",
				"total":    fmt.Sprintf("%.2f", price),
			},
			"itineraries": []map[string]any{
				{"duration": formatDuration(total), "segments": segments},
			},
			"numberOfBookableSeats":  9 - i*3,
			"validatingAirlineCodes": []string{cr.code},
		})
	}
	return offers
}

// FlightPayload wraps offers in the configured shape
func (c *Catalog) FlightPayload(offers []map[string]any) any {
	switch c.shape {
	case ShapeFlights:
		return map[string]any{"flights": offers}
	case ShapeArray:
		return offers
	default:
		return map[string]any{"data": offers, "meta": map[string]any{"count": len(offers)}}
	}
}

// Hotels returns a flat list of offers for the stay
func (c *Catalog) Hotels(req *HotelSearchRequest, nights int) []map[string]any {
	location := strings.TrimSpace(req.Location)
	s := seed(location)
	guests := req.Guests
	if guests == 0 {
		guests = 1
	}

	hotels := make([]map[string]any, 0, len(hotelNames))
	for i, pattern := range hotelNames {
		nightly := 80 + float64((s+uint32(i)*53)%220)
		hotels = append(hotels, map[string]any{
			"hotelId":        fmt.Sprintf("H%06d", (s+uint32(i))%1000000),
			"name":           fmt.Sprintf(pattern, location),
			"location":       location,
			"price":          nightly * float64(nights),
			"currency":       "USD",
			"availableRooms": 1 + int((s>>uint(i))%6),
			"checkInDate":    req.CheckIn,
			"checkOutDate":   req.CheckOut,
			"guests":         guests,
		})
	}
	return hotels
}

package search

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Surface identifies a search page; each has exactly one session
type Surface string

const (
	SurfaceFlights Surface = "flights"
	SurfaceHotels  Surface = "hotels"
)

// Query is a validated set of named search parameters
type Query interface {
	Surface() Surface
	Params() url.Values
}

// FlightQuery carries the flight search form
type FlightQuery struct {
	Origin      string `json:"origin" validate:"required"`
	Destination string `json:"destination" validate:"required"`
	Date        string `json:"date" validate:"required"`
	Adults      int    `json:"adults" validate:"required,min=1"`
}

func (FlightQuery) Surface() Surface { return SurfaceFlights }

func (q FlightQuery) Params() url.Values {
	return url.Values{
		"origin":      {q.Origin},
		"destination": {q.Destination},
		"date":        {q.Date},
		"adults":      {strconv.Itoa(q.Adults)},
	}
}

// HotelQuery carries the hotel search form
type HotelQuery struct {
	Location string `json:"location" validate:"required"`
	CheckIn  string `json:"checkIn" validate:"required"`
	CheckOut string `json:"checkOut" validate:"required"`
	Guests   int    `json:"guests" validate:"required,min=1"`
}

func (HotelQuery) Surface() Surface { return SurfaceHotels }

func (q HotelQuery) Params() url.Values {
	return url.Values{
		"location": {q.Location},
		"checkIn":  {q.CheckIn},
		"checkOut": {q.CheckOut},
		"guests":   {strconv.Itoa(q.Guests)},
	}
}

// ValidationError maps form fields to messages. It is returned before any
// request is issued.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// fieldLabels are the human names used in messages
var fieldLabels = map[string]string{
	"origin":      "Origin",
	"destination": "Destination",
	"date":        "Date",
	"adults":      "Number of passengers",
	"location":    "Location",
	"checkIn":     "Check-in date",
	"checkOut":    "Check-out date",
	"guests":      "Number of guests",
}

// NewValidator returns a validator reporting JSON field names
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateQuery(v *validator.Validate, q Query) error {
	err := v.Struct(q)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate query: %w", err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		label := fieldLabels[fe.Field()]
		if label == "" {
			label = fe.Field()
		}
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = label + " is required"
		case "min":
			fields[fe.Field()] = label + " must be at least " + fe.Param()
		default:
			fields[fe.Field()] = label + " is invalid"
		}
	}
	return &ValidationError{Fields: fields}
}

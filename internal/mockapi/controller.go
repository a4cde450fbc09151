package mockapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"tripdesk/internal/shared/middleware"
	"tripdesk/internal/shared/utils/response"
	"tripdesk/pkg/logger"
)

const maxOfferBytes = 1 << 20

type Controller struct {
	service   Service
	validator *validator.Validate
	logger    *logger.Logger
}

func NewController(service Service, log *logger.Logger) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
		logger:    log,
	}
}

// invalidFields lists the offending parameter names, sorted
func invalidFields(err error, names map[string]string) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := names[fe.StructField()]
		if name == "" {
			name = fe.Field()
		}
		fields = append(fields, name)
	}
	sort.Strings(fields)
	return strings.Join(fields, ", ")
}

var queryNames = map[string]string{
	"Origin":      "origin",
	"Destination": "destination",
	"Date":        "date",
	"Adults":      "adults",
	"Location":    "location",
	"CheckIn":     "checkIn",
	"CheckOut":    "checkOut",
	"Guests":      "guests",
	"Email":       "email",
	"Password":    "password",
}

func (c *Controller) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid fields: "+invalidFields(err, queryNames), nil, nil)
		return
	}

	resp, err := c.service.Login(ctx.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			c.logger.LogAuthFailure(ctx.Request.Context(), "invalid credentials", ctx.ClientIP())
			response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Invalid email or password", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to login", nil, nil)
		}
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

func (c *Controller) SearchFlights(ctx *gin.Context) {
	var req FlightSearchRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid search parameters: "+invalidFields(err, queryNames), nil, nil)
		return
	}

	payload, err := c.service.SearchFlights(ctx.Request.Context(), &req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid search parameters: date", nil, nil)
		return
	}
	ctx.JSON(http.StatusOK, payload)
}

func (c *Controller) SearchHotels(ctx *gin.Context) {
	var req HotelSearchRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid search parameters: "+invalidFields(err, queryNames), nil, nil)
		return
	}

	hotels, err := c.service.SearchHotels(ctx.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidStay) {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Check-out date must be after check-in date", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid search parameters", nil, err.Error())
		return
	}
	ctx.JSON(http.StatusOK, hotels)
}

func (c *Controller) ListBookings(ctx *gin.Context) {
	resp, err := c.service.ListBookings(ctx.Request.Context(), middleware.UserID(ctx))
	if err != nil {
		c.logger.ErrorWithContext(ctx.Request.Context(), "Failed to list bookings", err, nil)
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to load bookings", nil, nil)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// readOffer returns the raw JSON object posted as a booking body
func readOffer(ctx *gin.Context) (json.RawMessage, bool) {
	data, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxOfferBytes))
	if err != nil || !json.Valid(data) {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, nil)
		return nil, false
	}
	return json.RawMessage(data), true
}

func (c *Controller) BookFlight(ctx *gin.Context) {
	offer, ok := readOffer(ctx)
	if !ok {
		return
	}

	booking, err := c.service.BookFlight(ctx.Request.Context(), middleware.UserID(ctx), offer)
	if err != nil {
		if errors.Is(err, ErrInvalidOffer) {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Flight offer is missing required fields", nil, nil)
			return
		}
		c.logger.ErrorWithContext(ctx.Request.Context(), "Failed to book flight", err, nil)
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to book flight", nil, nil)
		return
	}

	ctx.JSON(http.StatusCreated, FlightBookingResponse{
		ID:      booking.ID.String(),
		Message: "Flight booked successfully",
		Booking: booking,
	})
}

func (c *Controller) BookHotel(ctx *gin.Context) {
	offer, ok := readOffer(ctx)
	if !ok {
		return
	}

	booking, err := c.service.BookHotel(ctx.Request.Context(), middleware.UserID(ctx), offer)
	if err != nil {
		if errors.Is(err, ErrInvalidOffer) {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Hotel offer is missing required fields", nil, nil)
			return
		}
		c.logger.ErrorWithContext(ctx.Request.Context(), "Failed to book hotel", err, nil)
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to book hotel", nil, nil)
		return
	}

	ctx.JSON(http.StatusCreated, HotelBookingResponse{
		ID:      booking.ID.String(),
		Message: "Hotel booked successfully",
		Booking: booking,
	})
}

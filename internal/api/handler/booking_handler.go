package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/servicebazaar/bazaar-api/internal/api/metrics"
	"github.com/servicebazaar/bazaar-api/internal/core/ports"
)

// HeaderIdempotencyKey lets clients retry a booking without creating a duplicate.
const HeaderIdempotencyKey = "Idempotency-Key"

type BookingHandler struct {
	bookings ports.BookingService
}

func NewBookingHandler(bookings ports.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

type createBookingRequest struct {
	ServiceID string `json:"serviceId" validate:"required"`
	Notes     string `json:"notes" validate:"max=2000"`
}

// Create books a service for the caller.
//
// A repeated Idempotency-Key returns the original booking with 200.
//
// @Summary      Create booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                false  "Client retry key"
// @Param        body             body      createBookingRequest  true   "Booking details"
// @Success      201              {object}  domain.Booking
// @Success      200              {object}  domain.Booking
// @Failure      400              {object}  map[string]string
// @Failure      401              {object}  map[string]string
// @Failure      403              {object}  map[string]string
// @Failure      404              {object}  map[string]string
// @Failure      409              {object}  map[string]string
// @Router       /bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createBookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.bookings.CreateBooking(c.Request().Context(), ports.CreateBookingInput{
		UserID:         claims.UserID,
		ServiceID:      strings.TrimSpace(req.ServiceID),
		Notes:          req.Notes,
		IdempotencyKey: strings.TrimSpace(c.Request().Header.Get(HeaderIdempotencyKey)),
	})
	if err != nil {
		return err
	}

	if res.AlreadyExisted {
		metrics.BookingsTotal.WithLabelValues("replayed").Inc()
		return c.JSON(http.StatusOK, res.Booking)
	}
	metrics.BookingsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, res.Booking)
}

// List returns the caller's bookings, or every booking for admins.
//
// @Summary      List bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Booking
// @Failure      401  {object}  map[string]string
// @Router       /bookings [get]
func (h *BookingHandler) List(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	bookings, err := h.bookings.ListBookings(c.Request().Context(), *claims)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookings)
}

package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"gigbridge/middleware"
	"gigbridge/models"
	"gigbridge/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking lifecycle over HTTP.
type BookingHandler struct {
	Service booking.BookingService
	Logger  *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Logger: logger}
}

// writeBookingError maps the coordinator's error taxonomy onto HTTP statuses.
func (h *BookingHandler) writeBookingError(c *gin.Context, err error) {
	switch {
	case booking.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case booking.IsUnauthorized(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case booking.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case booking.IsInvalidTransition(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.Logger.Error("booking operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// CreateBooking opens a new booking request on behalf of the authenticated
// organizer.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var input struct {
		EventID      string    `json:"eventId" binding:"required"`
		ProviderID   string    `json:"providerId" binding:"required"`
		StartDate    time.Time `json:"startDate" binding:"required"`
		EndDate      time.Time `json:"endDate" binding:"required"`
		Rate         float64   `json:"rate"`
		Currency     string    `json:"currency"`
		Description  string    `json:"description"`
		Requirements []string  `json:"requirements"`
		Notes        string    `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	created, err := h.Service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		EventID:            input.EventID,
		ProviderID:         input.ProviderID,
		OrganizerAccountID: actor.AccountID,
		StartDate:          input.StartDate,
		EndDate:            input.EndDate,
		Rate:               input.Rate,
		Currency:           input.Currency,
		Description:        input.Description,
		Requirements:       input.Requirements,
		Notes:              input.Notes,
	})
	if err != nil {
		h.writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"booking": created})
}

// UpdateBookingStatus applies a lifecycle transition requested by either party.
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	bookingID := c.Param("id")

	var input struct {
		Status             string  `json:"status" binding:"required"`
		Notes              *string `json:"notes"`
		CancellationReason *string `json:"cancellationReason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	status := models.BookingStatus(input.Status)
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status " + input.Status})
		return
	}

	updated, err := h.Service.UpdateBookingStatus(c.Request.Context(), bookingID, actor.AccountID, booking.UpdateStatusRequest{
		Status:             status,
		Notes:              input.Notes,
		CancellationReason: input.CancellationReason,
	})
	if err != nil {
		h.writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": updated})
}

// GetBooking fetches a single booking by ID. Only a party to the booking may
// view it.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	bookingID := c.Param("id")

	bk, err := h.Service.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		h.writeBookingError(c, err)
		return
	}
	if bk.OrganizerAccountID != actor.AccountID && bk.ProviderAccountID != actor.AccountID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a party to this booking"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": bk})
}

// ListBookings returns the caller's bookings scoped by the role their token
// carries, with optional status filtering and paging.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	q := models.BookingListQuery{Page: 1, Limit: 20}
	if v := c.Query("page"); v != "" {
		if page, err := parsePositiveInt(v); err == nil {
			q.Page = page
		}
	}
	if v := c.Query("limit"); v != "" {
		if limit, err := parsePositiveInt(v); err == nil {
			q.Limit = limit
		}
	}
	if v := c.Query("status"); v != "" {
		status := models.BookingStatus(v)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status " + v})
			return
		}
		q.Status = &status
	}

	page, err := h.Service.GetBookingsForAccount(c.Request.Context(), actor.AccountID, actor.Role, q)
	if err != nil {
		h.writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("value must be positive, got %d", n)
	}
	return n, nil
}

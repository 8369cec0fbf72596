package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shareit-platform/service-sharing/internal/application"
	"github.com/shareit-platform/service-sharing/pkg/metrics"
	"github.com/shareit-platform/service-sharing/pkg/middleware"
	"github.com/shareit-platform/service-sharing/pkg/response"
)

// Listing query defaults applied when the gateway omits them.
const (
	defaultState = "ALL"
	defaultFrom  = "0"
	defaultSize  = "10"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	{
		bookings.POST("", h.RequestBooking)
		bookings.GET("", h.ListForBooker)
		bookings.GET("/owner", h.ListForOwner)
		bookings.GET("/:bookingId", h.GetBooking)
		bookings.PATCH("/:bookingId", h.DecideBooking)
	}
}

// RequestBooking handles POST /bookings.
func (h *BookingHandler) RequestBooking(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		response.BadRequest(c, "X-Sharer-User-Id header is required")
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.RequestBooking(c.Request.Context(), callerID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	metrics.IncBookingCreated()
	response.Created(c, result)
}

// DecideBooking handles PATCH /bookings/:bookingId?approved=true|false.
func (h *BookingHandler) DecideBooking(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		response.BadRequest(c, "X-Sharer-User-Id header is required")
		return
	}

	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	approve, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		response.BadRequest(c, "approved query parameter is required")
		return
	}

	result, err := h.service.DecideBooking(c.Request.Context(), bookingID, callerID, approve)
	if err != nil {
		response.Error(c, err)
		return
	}

	decision := "rejected"
	if approve {
		decision = "approved"
	}
	metrics.IncOwnerDecision(decision)
	response.Success(c, result)
}

// GetBooking handles GET /bookings/:bookingId.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		response.BadRequest(c, "X-Sharer-User-Id header is required")
		return
	}

	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), bookingID, callerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListForBooker handles GET /bookings?state=&from=&size=.
func (h *BookingHandler) ListForBooker(c *gin.Context) {
	h.list(c, h.service.ListForBooker)
}

// ListForOwner handles GET /bookings/owner?state=&from=&size=.
func (h *BookingHandler) ListForOwner(c *gin.Context) {
	h.list(c, h.service.ListForOwner)
}

type listFunc func(ctx context.Context, userID uuid.UUID, state string, from, size int) ([]application.BookingDTO, error)

func (h *BookingHandler) list(c *gin.Context, fn listFunc) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		response.BadRequest(c, "X-Sharer-User-Id header is required")
		return
	}

	state := c.DefaultQuery("state", defaultState)
	from, err := strconv.Atoi(c.DefaultQuery("from", defaultFrom))
	if err != nil {
		response.BadRequest(c, "from must be an integer")
		return
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", defaultSize))
	if err != nil {
		response.BadRequest(c, "size must be an integer")
		return
	}

	result, err := fn(c.Request.Context(), callerID, state, from, size)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

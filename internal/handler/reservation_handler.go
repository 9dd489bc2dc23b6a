package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Kilat-Hospitality/service-reservation/internal/application"
	"github.com/Kilat-Hospitality/service-reservation/pkg/auth"
	"github.com/Kilat-Hospitality/service-reservation/pkg/middleware"
	"github.com/Kilat-Hospitality/service-reservation/pkg/response"
)

// ReservationHandler handles HTTP requests for reservation operations.
type ReservationHandler struct {
	service *application.ReservationService
}

// NewReservationHandler creates a new ReservationHandler.
func NewReservationHandler(service *application.ReservationService) *ReservationHandler {
	return &ReservationHandler{service: service}
}

// RegisterRoutes registers all reservation routes on the given router group.
func (h *ReservationHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	staff := middleware.RequireRole(jwtManager, auth.RoleOwner, auth.RoleManager, auth.RoleReceptionist)

	reservations := r.Group("/api/v1/reservations")
	reservations.Use(middleware.AuthMiddleware(jwtManager), staff)
	{
		reservations.POST("/search-rooms", h.SearchRooms)
		reservations.POST("", h.MakeReservation)
		reservations.GET("", h.ListReservations)
		reservations.GET("/:id", h.GetReservation)
		reservations.GET("/code/:code", h.GetReservationByCode)
		reservations.PUT("/:roomId/availability", h.UpdateRoomAvailability)
		reservations.DELETE("/:id", h.CancelReservation)
	}
}

// SearchRooms handles POST /api/v1/reservations/search-rooms.
func (h *ReservationHandler) SearchRooms(c *gin.Context) {
	var req application.SearchRoomsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	rooms, err := h.service.SearchAvailableRooms(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, rooms)
}

// MakeReservation handles POST /api/v1/reservations.
func (h *ReservationHandler) MakeReservation(c *gin.Context) {
	var req application.MakeReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.MakeReservation(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListReservations handles GET /api/v1/reservations.
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	result, err := h.service.GetAllReservations(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetReservation handles GET /api/v1/reservations/:id.
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid reservation ID")
		return
	}

	result, err := h.service.GetReservationByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetReservationByCode handles GET /api/v1/reservations/code/:code.
func (h *ReservationHandler) GetReservationByCode(c *gin.Context) {
	result, err := h.service.GetReservationByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateRoomAvailability handles PUT /api/v1/reservations/:roomId/availability.
// The query flag only triggers a recomputation from the reservation ledger.
func (h *ReservationHandler) UpdateRoomAvailability(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("roomId"), 10, 64)
	if err != nil || roomID <= 0 {
		response.BadRequest(c, "invalid room ID")
		return
	}
	requested, err := strconv.ParseBool(c.Query("available"))
	if err != nil {
		response.BadRequest(c, "available must be true or false")
		return
	}

	available, err := h.service.UpdateRoomAvailability(c.Request.Context(), roomID, requested)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"roomId": roomID, "available": available})
}

// CancelReservation handles DELETE /api/v1/reservations/:id.
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid reservation ID")
		return
	}

	if err := h.service.CancelReservation(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "reservation cancelled")
}

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Kilat-Hospitality/service-reservation/internal/application"
	"github.com/Kilat-Hospitality/service-reservation/pkg/auth"
	"github.com/Kilat-Hospitality/service-reservation/pkg/middleware"
	"github.com/Kilat-Hospitality/service-reservation/pkg/response"
)

// AdminReservationHandler handles admin HTTP requests for reservation management.
type AdminReservationHandler struct {
	service *application.ReservationService
}

// NewAdminReservationHandler creates a new AdminReservationHandler.
func NewAdminReservationHandler(service *application.ReservationService) *AdminReservationHandler {
	return &AdminReservationHandler{service: service}
}

// RegisterRoutes registers admin reservation routes.
func (h *AdminReservationHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	adminRole := middleware.RequireRole(jwtManager, auth.RoleOwner, auth.RoleManager)

	admin := r.Group("/api/v1/admin")
	admin.Use(authMW, adminRole)
	{
		admin.POST("/rooms/reconcile", h.ReconcileRooms)
		admin.GET("/reservations/stats", h.ReservationStats)
	}
}

// ReconcileRooms handles POST /api/v1/admin/rooms/reconcile.
func (h *AdminReservationHandler) ReconcileRooms(c *gin.Context) {
	summary, err := h.service.ReconcileAllRooms(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, summary)
}

// ReservationStats handles GET /api/v1/admin/reservations/stats.
func (h *AdminReservationHandler) ReservationStats(c *gin.Context) {
	stats, err := h.service.GetReservationStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

package availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"chaletbook/internal/pkg/response"
)

type Handler struct {
	service    *Service
	properties PropertyFinder
}

func NewHandler(service *Service, properties PropertyFinder) *Handler {
	return &Handler{service: service, properties: properties}
}

// RegisterPublicRoutes mounts the guest-facing endpoints.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/properties/:slug/unavailable", h.GetUnavailableRanges)
	rg.POST("/inquiries", h.CreateInquiry)
}

// RegisterAdminRoutes mounts the status-change endpoint.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.PATCH("/bookings/:id/status", h.UpdateStatus)
}

func (h *Handler) GetUnavailableRanges(c *gin.Context) {
	propertyID, ok := h.resolvePropertyID(c)
	if !ok {
		return
	}

	ranges, err := h.service.GetUnavailableRanges(c.Request.Context(), propertyID)
	if err != nil {
		h.writeError(c, err, "Failed to load unavailable ranges")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"ranges": ranges})
}

func (h *Handler) CreateInquiry(c *gin.Context) {
	var req CreateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.CreateInquiry(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err, "Failed to create inquiry")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"booking": gin.H{
			"id":     b.ID,
			"status": b.Status,
		},
	})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.SetBookingStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.writeError(c, err, "Failed to update booking status")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

// resolvePropertyID accepts either a slug or a numeric id in the slug
// position; the public site links calendars by slug, the admin by id.
func (h *Handler) resolvePropertyID(c *gin.Context) (int64, bool) {
	raw := c.Param("slug")
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
		return id, true
	}

	prop, err := h.properties.GetBySlug(c.Request.Context(), raw)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Property not found")
			return 0, false
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to resolve property")
		return 0, false
	}
	return prop.ID, true
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	var fieldErr *FieldError
	switch {
	case errors.As(err, &fieldErr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", fieldErr.Error(), gin.H{
			"field": fieldErr.Field,
		})
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking or property not found")
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", "Dates are no longer available")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}

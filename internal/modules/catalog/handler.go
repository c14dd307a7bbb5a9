package catalog

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"chaletbook/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/properties", h.ListProperties)
	rg.GET("/properties/:slug", h.GetProperty)
	rg.GET("/amenities", h.ListAmenities)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/properties", h.CreateProperty)
	rg.PUT("/properties/:id", h.UpdateProperty)
	rg.DELETE("/properties/:id", h.DeleteProperty)
}

func (h *Handler) ListProperties(c *gin.Context) {
	q := SearchQuery{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}
	if g := c.Query("guests"); g != "" {
		if v, err := strconv.Atoi(g); err == nil && v > 0 {
			q.Guests = v
		}
	}
	if a := c.Query("amenities"); a != "" {
		for _, s := range strings.Split(a, ",") {
			if s = strings.TrimSpace(s); s != "" {
				q.Amenities = append(q.Amenities, s)
			}
		}
	}

	ps, err := h.service.ListProperties(c.Request.Context(), q)
	if err != nil {
		h.writeError(c, err, "Failed to list properties")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"properties": ps})
}

func (h *Handler) GetProperty(c *gin.Context) {
	p, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.writeError(c, err, "Failed to load property")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"property": p})
}

func (h *Handler) ListAmenities(c *gin.Context) {
	as, err := h.service.ListAmenities(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "Failed to list amenities")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"amenities": as})
}

func (h *Handler) CreateProperty(c *gin.Context) {
	var req PropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	p, err := h.service.CreateProperty(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err, "Failed to create property")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"property": p})
}

func (h *Handler) UpdateProperty(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req PropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	p, err := h.service.UpdateProperty(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err, "Failed to update property")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"property": p})
}

func (h *Handler) DeleteProperty(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteProperty(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "Failed to delete property")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}

func (h *Handler) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid property ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Property not found")
	case errors.Is(err, ErrSlugTaken):
		response.Error(c, http.StatusConflict, "SLUG_TAKEN", "Slug or map node already in use")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}

package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"chaletbook/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings", h.ListBookings)
	rg.GET("/metrics", h.Metrics)
	rg.POST("/availability/import", h.ImportAvailability)
}

func (h *Handler) ListBookings(c *gin.Context) {
	q := ListBookingsQuery{
		Query:  c.Query("query"),
		Status: c.Query("status"),
		SortBy: c.DefaultQuery("sortBy", "created_at"),
		Order:  c.DefaultQuery("order", "desc"),
	}
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		q.Page = v
	}
	if v, err := strconv.Atoi(c.Query("per")); err == nil && v > 0 && v <= 100 {
		q.Per = v
	}

	res, err := h.service.ListBookings(c.Request.Context(), q)
	if err != nil {
		h.writeError(c, err, "Failed to list bookings")
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) Metrics(c *gin.Context) {
	m, err := h.service.Metrics(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load metrics")
		return
	}
	response.Success(c, http.StatusOK, m)
}

func (h *Handler) ImportAvailability(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.ImportAvailability(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err, "Failed to import availability")
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, ErrValidation) {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if errors.Is(err, ErrConflict) {
		response.Error(c, http.StatusConflict, "IMPORT_CONFLICT", "Imported blocks overlap confirmed bookings")
		return
	}
	response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
}

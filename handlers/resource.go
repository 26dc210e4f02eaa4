package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	bookingRepo "roomdesk/database/repository/booking"
	resourceRepo "roomdesk/database/repository/resource"
	"roomdesk/models"
	"roomdesk/utils"
)

// ResourceHandler covers the admin-only room management and statistics
// endpoints. The booking engine itself treats resources as read-only.
type ResourceHandler struct {
	Repo        resourceRepo.ResourceRepository
	BookingRepo bookingRepo.BookingRepository
	Logger      *zap.Logger
}

func NewResourceHandler(repo resourceRepo.ResourceRepository, bkRepo bookingRepo.BookingRepository, logger *zap.Logger) *ResourceHandler {
	return &ResourceHandler{Repo: repo, BookingRepo: bkRepo, Logger: logger}
}

type resourceRequest struct {
	Name       string   `json:"name" binding:"required"`
	Capacity   int      `json:"capacity" binding:"required"`
	Amenities  []string `json:"amenities"`
	HourlyRate float64  `json:"hourly_rate"`
	CalendarID string   `json:"calendar_id"`
}

// CreateResourceHandler registers a new meeting room.
func (h *ResourceHandler) CreateResourceHandler(c *gin.Context) {
	var req resourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	resource := &models.Resource{
		Name:       req.Name,
		Capacity:   req.Capacity,
		Amenities:  req.Amenities,
		HourlyRate: req.HourlyRate,
		CalendarID: req.CalendarID,
		Active:     true,
	}
	if err := h.Repo.Create(resource); err != nil {
		h.Logger.Error("create resource failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "create failed", "unexpected error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"resource": resource})
}

// UpdateResourceHandler edits an existing room.
func (h *ResourceHandler) UpdateResourceHandler(c *gin.Context) {
	id := c.Param("id")
	existing, err := h.Repo.GetByID(id)
	if err != nil {
		h.Logger.Error("resource lookup failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "update failed", "unexpected error")
		return
	}
	if existing == nil {
		utils.JSONError(c, http.StatusNotFound, "resource not found", id)
		return
	}

	var req resourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	existing.Name = req.Name
	existing.Capacity = req.Capacity
	existing.Amenities = req.Amenities
	existing.HourlyRate = req.HourlyRate
	existing.CalendarID = req.CalendarID
	if err := h.Repo.Update(existing); err != nil {
		h.Logger.Error("update resource failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "update failed", "unexpected error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"resource": existing})
}

// DeactivateResourceHandler takes a room out of the booking pool without
// touching its booking history.
func (h *ResourceHandler) DeactivateResourceHandler(c *gin.Context) {
	id := c.Param("id")
	if err := h.Repo.SetActive(id, false); err != nil {
		utils.JSONError(c, http.StatusNotFound, "resource not found", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deactivated"})
}

// StatsHandler returns booking counts per resource, optionally for one date.
func (h *ResourceHandler) StatsHandler(c *gin.Context) {
	date := c.Query("date")
	if date != "" && !utils.ValidDate(date) {
		utils.JSONError(c, http.StatusBadRequest, "invalid date", "expected date=YYYY-MM-DD")
		return
	}

	counts, err := h.BookingRepo.CountPerResource(date)
	if err != nil {
		h.Logger.Error("stats aggregation failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "stats failed", "unexpected error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "counts": counts})
}

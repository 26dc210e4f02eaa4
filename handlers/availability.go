package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resourceRepo "roomdesk/database/repository/resource"
	"roomdesk/services/availability"
	"roomdesk/utils"
)

// AvailabilityHandler serves the read-only availability queries.
type AvailabilityHandler struct {
	Resolver     availability.AvailabilityService
	ResourceRepo resourceRepo.ResourceRepository
	Logger       *zap.Logger
}

func NewAvailabilityHandler(resolver availability.AvailabilityService, resRepo resourceRepo.ResourceRepository, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{Resolver: resolver, ResourceRepo: resRepo, Logger: logger}
}

type slotView struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}

// ListResourcesHandler returns the bookable rooms.
func (h *AvailabilityHandler) ListResourcesHandler(c *gin.Context) {
	resources, err := h.ResourceRepo.List(true)
	if err != nil {
		h.Logger.Error("list resources failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "listing failed", "unexpected error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"resources": resources})
}

// GetAvailabilityHandler returns the per-date slot grid for a resource.
// 404 if the resource is unknown.
func (h *AvailabilityHandler) GetAvailabilityHandler(c *gin.Context) {
	resourceID := c.Param("id")
	date := c.Query("date")
	if !utils.ValidDate(date) {
		utils.JSONError(c, http.StatusBadRequest, "invalid date", "expected date=YYYY-MM-DD")
		return
	}

	resource, err := h.ResourceRepo.GetByID(resourceID)
	if err != nil {
		h.Logger.Error("resource lookup failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "availability failed", "unexpected error")
		return
	}
	if resource == nil {
		utils.JSONError(c, http.StatusNotFound, "resource not found", resourceID)
		return
	}

	slots, err := h.Resolver.Availability(c.Request.Context(), *resource, date)
	if err != nil {
		h.Logger.Error("availability query failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "availability failed", "unexpected error")
		return
	}

	views := make([]slotView, 0, len(slots))
	for _, s := range slots {
		views = append(views, slotView{
			Start:     s.StartClock(),
			End:       s.EndClock(),
			Available: s.Available,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"resource_id": resource.ID,
		"date":        date,
		"slots":       views,
	})
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	bookingRepo "roomdesk/database/repository/booking"
	resourceRepo "roomdesk/database/repository/resource"
	"roomdesk/services/booking"
	"roomdesk/utils"
)

// BookingHandler exposes the booking ledger over HTTP for the operator UI and
// the conversation layer.
type BookingHandler struct {
	Service      booking.BookingService
	ResourceRepo resourceRepo.ResourceRepository
	Logger       *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, resRepo resourceRepo.ResourceRepository, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, ResourceRepo: resRepo, Logger: logger}
}

type createBookingRequest struct {
	ResourceID    string `json:"resource_id" binding:"required"`
	CustomerID    string `json:"customer_id" binding:"required"`
	CustomerName  string `json:"customer_name"`
	Date          string `json:"date" binding:"required"`
	Start         string `json:"start" binding:"required"` // "HH:MM"
	End           string `json:"end" binding:"required"`   // "HH:MM"
	Purpose       string `json:"purpose"`
	AttendeeCount int    `json:"attendee_count"`
	Notes         string `json:"notes"`
}

// CreateBookingHandler creates a booking and returns the record plus a
// human-readable confirmation.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	start, err := utils.ParseClock(req.Start)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid start time", err.Error())
		return
	}
	end, err := utils.ParseClock(req.End)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid end time", err.Error())
		return
	}

	result, err := h.Service.Create(c.Request.Context(), booking.CreateInput{
		ResourceID:    req.ResourceID,
		CustomerID:    req.CustomerID,
		CustomerName:  req.CustomerName,
		Date:          req.Date,
		Start:         start,
		End:           end,
		Purpose:       req.Purpose,
		AttendeeCount: req.AttendeeCount,
		Notes:         req.Notes,
		Channel:       "api",
	})
	if err != nil {
		switch booking.ErrorCode(err) {
		case booking.CodeValidation, booking.CodeConflict:
			utils.JSONError(c, http.StatusBadRequest, "booking failed", booking.UserMessage(err))
		case booking.CodeNotFound:
			utils.JSONError(c, http.StatusNotFound, "booking failed", booking.UserMessage(err))
		default:
			h.Logger.Error("create booking failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "booking failed", "unexpected error")
		}
		return
	}

	resourceName := req.ResourceID
	if resource, err := h.ResourceRepo.GetByID(req.ResourceID); err == nil && resource != nil {
		resourceName = resource.Name
	}

	c.JSON(http.StatusOK, gin.H{
		"booking": result.Booking,
		"message": booking.ConfirmationMessage(result.Booking, resourceName),
		"warning": result.Warning,
	})
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

// CancelBookingHandler cancels a booking by id.
func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	bookingID := c.Param("id")
	var req cancelBookingRequest
	_ = c.ShouldBindJSON(&req)

	cancelled, err := h.Service.Cancel(c.Request.Context(), bookingID, req.Reason)
	if err != nil {
		switch booking.ErrorCode(err) {
		case booking.CodeNotFound:
			utils.JSONError(c, http.StatusNotFound, "cancel failed", booking.UserMessage(err))
		case booking.CodeAlreadyCancelled, booking.CodeValidation:
			utils.JSONError(c, http.StatusBadRequest, "cancel failed", booking.UserMessage(err))
		default:
			h.Logger.Error("cancel booking failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "cancel failed", "unexpected error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking": cancelled,
		"message": booking.CancellationMessage(cancelled),
	})
}

// ListCustomerBookingsHandler returns a customer's bookings, upcoming only by
// default.
func (h *BookingHandler) ListCustomerBookingsHandler(c *gin.Context) {
	customerID := c.Param("customerID")
	includePast := c.Query("include_past") == "true"

	bookings, err := h.Service.ListForCustomer(c.Request.Context(), customerID, includePast)
	if err != nil {
		h.Logger.Error("list customer bookings failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "listing failed", "unexpected error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// ListBookingsHandler is the paginated admin filter listing.
func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	bookings, total, err := h.Service.ListFiltered(c.Request.Context(), bookingRepo.BookingFilter{
		Date:       c.Query("date"),
		ResourceID: c.Query("resource_id"),
		Status:     c.Query("status"),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		h.Logger.Error("list bookings failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "listing failed", "unexpected error")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"bookings":  bookings,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

package booking

import (
	"context"
	"time"

	bookingRepo "roomdesk/database/repository/booking"
	resourceRepo "roomdesk/database/repository/resource"
	"roomdesk/models"
	"roomdesk/services/availability"
	"roomdesk/services/calendar"

	"github.com/go-redis/redis/v8"
)

// CreateInput carries everything needed to create a booking.
type CreateInput struct {
	ResourceID    string
	CustomerID    string
	CustomerName  string
	Date          string // "YYYY-MM-DD"
	Start         int    // minutes from midnight
	End           int
	Purpose       string
	AttendeeCount int
	Notes         string
	Channel       string // "chat" | "api"
	Nonce         string // optional client nonce for duplicate-postback dedupe
}

// CreateResult is a successful creation plus an optional warning (e.g. the
// external mirror failed and the booking is flagged sync-pending).
type CreateResult struct {
	Booking *models.Booking
	Warning string
}

// BookingService is the booking ledger: it owns the booking lifecycle and the
// external-calendar mirroring around it.
type BookingService interface {
	Create(ctx context.Context, input CreateInput) (*CreateResult, error)
	Cancel(ctx context.Context, bookingID, reason string) (*models.Booking, error)
	ListForCustomer(ctx context.Context, customerID string, includePast bool) ([]models.Booking, error)
	ListFiltered(ctx context.Context, filter bookingRepo.BookingFilter) ([]models.Booking, int64, error)
	Get(ctx context.Context, bookingID string) (*models.Booking, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo         bookingRepo.BookingRepository
	ResourceRepo resourceRepo.ResourceRepository
	Availability availability.AvailabilityService
	Calendar     calendar.Sync
	DedupeClient *redis.Client
	Location     *time.Location
}

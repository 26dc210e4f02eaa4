package calendar

import (
	"context"

	"roomdesk/models"
)

// Sync is the thin adapter between the booking engine and the room's external
// calendar. It owns no business logic and no local state: it exists so the
// engine can treat "the owner double-booked the room manually" as just another
// busy interval, and so bookings can be mirrored outward best-effort.
type Sync interface {
	BusyIntervals(ctx context.Context, calendarID, date string) ([]models.BusyInterval, error)
	CreateEvent(ctx context.Context, calendarID, date string, start, end int, title, description string) (string, error)
	UpdateEvent(ctx context.Context, calendarID, eventID, date string, start, end int, title, description string) error
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
}

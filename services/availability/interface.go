package availability

import (
	"context"

	"roomdesk/models"
)

// BusyIntervalSource yields the committed time ranges for a resource on a date.
// The engine merges two of these: the local ledger and the external calendar.
type BusyIntervalSource interface {
	BusyIntervals(ctx context.Context, resource models.Resource, date string) ([]models.BusyInterval, error)
}

// AvailabilityService resolves the bookable grid against all busy-interval
// sources. It backs both the read-only availability queries and the pre-commit
// check on the create path.
type AvailabilityService interface {
	Availability(ctx context.Context, resource models.Resource, date string) ([]models.TimeSlot, error)
	CheckRange(ctx context.Context, resource models.Resource, date string, start, end int) (bool, string, error)
	Window() Grid
}

package availability

import (
	"context"

	bookingRepo "roomdesk/database/repository/booking"
	"roomdesk/models"
	"roomdesk/services/calendar"
	"roomdesk/utils"

	"go.uber.org/zap"
)

// LedgerSource yields busy intervals from confirmed bookings in the local
// ledger. Ledger failures are real errors: the ledger is authoritative.
type LedgerSource struct {
	Repo bookingRepo.BookingRepository
}

func (s *LedgerSource) BusyIntervals(ctx context.Context, resource models.Resource, date string) ([]models.BusyInterval, error) {
	return s.Repo.BusyIntervals(resource.ID, date)
}

// ExternalCalendarSource yields busy intervals from the room's external
// calendar, so manual bookings made by the room owner block slots too.
// A resource without a calendar id contributes nothing; adapter failures
// degrade to empty rather than failing the availability query.
type ExternalCalendarSource struct {
	Sync calendar.Sync
}

func (s *ExternalCalendarSource) BusyIntervals(ctx context.Context, resource models.Resource, date string) ([]models.BusyInterval, error) {
	if resource.CalendarID == "" {
		return nil, nil
	}
	intervals, err := s.Sync.BusyIntervals(ctx, resource.CalendarID, date)
	if err != nil {
		utils.GetLogger().Warn("external calendar lookup failed",
			zap.String("calendarID", resource.CalendarID),
			zap.String("date", date),
			zap.Error(err))
		return nil, nil
	}
	return intervals, nil
}

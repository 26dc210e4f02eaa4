package availability

import (
	"context"
	"fmt"

	"roomdesk/models"
	"roomdesk/utils"

	"go.uber.org/zap"
)

// DefaultAvailabilityService merges the bookable grid with busy intervals from
// the ledger and the external calendar.
type DefaultAvailabilityService struct {
	Grid     Grid
	Ledger   BusyIntervalSource
	External BusyIntervalSource
}

// Window returns the configured business-day grid.
func (s *DefaultAvailabilityService) Window() Grid {
	return s.Grid
}

// Availability returns the full grid for resource+date with each slot marked
// unavailable iff it overlaps a busy interval from either source. A failing
// external source degrades to "no additional busy intervals"; the ledger view
// must never be blocked by the mirror.
func (s *DefaultAvailabilityService) Availability(ctx context.Context, resource models.Resource, date string) ([]models.TimeSlot, error) {
	logger := utils.GetLogger()

	busy, err := s.Ledger.BusyIntervals(ctx, resource, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ledger busy intervals: %w", err)
	}

	external, err := s.External.BusyIntervals(ctx, resource, date)
	if err != nil {
		logger.Warn("external calendar unavailable, proceeding with ledger only",
			zap.String("resourceID", resource.ID),
			zap.String("date", date),
			zap.Error(err))
	} else {
		busy = append(busy, external...)
	}

	slots := s.Grid.Slots()
	for i := range slots {
		for _, b := range busy {
			if b.Overlaps(slots[i].Start, slots[i].End) {
				slots[i].Available = false
				break
			}
		}
	}
	return slots, nil
}

// CheckRange validates a requested [start,end) range: ordered bounds, inside
// business hours, and every grid slot contained in the range individually
// available. The failure reason names the first conflicting sub-slot.
func (s *DefaultAvailabilityService) CheckRange(ctx context.Context, resource models.Resource, date string, start, end int) (bool, string, error) {
	if start >= end {
		return false, fmt.Sprintf("start time %s must be before end time %s",
			utils.FormatClock(start), utils.FormatClock(end)), nil
	}
	if !s.Grid.Contains(start, end) {
		return false, fmt.Sprintf("requested range %s-%s is outside business hours %s-%s",
			utils.FormatClock(start), utils.FormatClock(end),
			utils.FormatClock(s.Grid.OpenMin), utils.FormatClock(s.Grid.CloseMin)), nil
	}

	slots, err := s.Availability(ctx, resource, date)
	if err != nil {
		return false, "", err
	}
	for _, slot := range slots {
		if slot.Start < start || slot.End > end {
			continue
		}
		if !slot.Available {
			return false, fmt.Sprintf("slot %s-%s is already taken",
				slot.StartClock(), slot.EndClock()), nil
		}
	}
	return true, "", nil
}

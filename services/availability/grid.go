package availability

import (
	"fmt"

	"roomdesk/models"
	"roomdesk/utils"
)

// ConfigurationError reports an unusable business-hours configuration.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configurationError: %s", e.Message)
}

// Grid is the fixed bookable grid for a business day: [OpenMin, CloseMin)
// divided into contiguous GranularityMin-wide slots.
type Grid struct {
	OpenMin        int
	CloseMin       int
	GranularityMin int
}

// NewGrid validates the business window and builds the grid parameters.
// open and close are wall-clock strings ("09:00", "18:00").
func NewGrid(open, close string, granularityMin int) (Grid, error) {
	openMin, err := utils.ParseClock(open)
	if err != nil {
		return Grid{}, &ConfigurationError{Message: fmt.Sprintf("invalid business open time: %v", err)}
	}
	closeMin, err := utils.ParseClock(close)
	if err != nil {
		return Grid{}, &ConfigurationError{Message: fmt.Sprintf("invalid business close time: %v", err)}
	}
	if closeMin <= openMin {
		return Grid{}, &ConfigurationError{Message: fmt.Sprintf("business close %s must be after open %s", close, open)}
	}
	if granularityMin <= 0 {
		return Grid{}, &ConfigurationError{Message: fmt.Sprintf("granularity must be positive, got %d", granularityMin)}
	}
	if (closeMin-openMin)%granularityMin != 0 {
		return Grid{}, &ConfigurationError{Message: fmt.Sprintf(
			"granularity %dmin does not evenly divide business window %s-%s", granularityMin, open, close)}
	}
	return Grid{OpenMin: openMin, CloseMin: closeMin, GranularityMin: granularityMin}, nil
}

// Slots generates the ordered slot sequence covering the business window.
// Deterministic and side-effect free; every call returns a fresh slice with
// all slots marked available.
func (g Grid) Slots() []models.TimeSlot {
	n := (g.CloseMin - g.OpenMin) / g.GranularityMin
	slots := make([]models.TimeSlot, 0, n)
	for start := g.OpenMin; start < g.CloseMin; start += g.GranularityMin {
		slots = append(slots, models.TimeSlot{
			Start:     start,
			End:       start + g.GranularityMin,
			Available: true,
		})
	}
	return slots
}

// Contains reports whether [start,end) lies within the business window.
func (g Grid) Contains(start, end int) bool {
	return start >= g.OpenMin && end <= g.CloseMin
}

package calendar

import (
	"context"

	"roomdesk/models"
)

// NoopSync is the adapter used when no calendar credentials are configured.
// Every room behaves as if it had no external calendar.
type NoopSync struct{}

func (NoopSync) BusyIntervals(ctx context.Context, calendarID, date string) ([]models.BusyInterval, error) {
	return nil, nil
}

func (NoopSync) CreateEvent(ctx context.Context, calendarID, date string, start, end int, title, description string) (string, error) {
	return "", nil
}

func (NoopSync) UpdateEvent(ctx context.Context, calendarID, eventID, date string, start, end int, title, description string) error {
	return nil
}

func (NoopSync) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	return nil
}

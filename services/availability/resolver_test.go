package availability

import (
	"context"
	"errors"
	"testing"

	"roomdesk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource is a scripted BusyIntervalSource.
type fakeSource struct {
	intervals []models.BusyInterval
	err       error
	calls     int
}

func (f *fakeSource) BusyIntervals(ctx context.Context, resource models.Resource, date string) ([]models.BusyInterval, error) {
	f.calls++
	return f.intervals, f.err
}

func newTestService(t *testing.T, ledger, external *fakeSource) *DefaultAvailabilityService {
	t.Helper()
	grid, err := NewGrid("09:00", "18:00", 30)
	require.NoError(t, err)
	return &DefaultAvailabilityService{Grid: grid, Ledger: ledger, External: external}
}

var testRoom = models.Resource{ID: "room-a", Name: "Room A", Active: true}

func TestAvailabilityMarksOverlaps(t *testing.T) {
	ledger := &fakeSource{intervals: []models.BusyInterval{
		{Start: 10 * 60, End: 11 * 60, Source: models.BusySourceLedger},
	}}
	external := &fakeSource{intervals: []models.BusyInterval{
		{Start: 14 * 60, End: 14*60 + 30, Source: models.BusySourceExternal},
	}}
	svc := newTestService(t, ledger, external)

	slots, err := svc.Availability(context.Background(), testRoom, "2025-03-10")
	require.NoError(t, err)

	byStart := map[int]bool{}
	for _, s := range slots {
		byStart[s.Start] = s.Available
	}

	// 10:00-11:00 ledger booking blocks both half-hour slots.
	assert.False(t, byStart[10*60])
	assert.False(t, byStart[10*60+30])
	// 14:00-14:30 external event blocks exactly one slot.
	assert.False(t, byStart[14*60])
	assert.True(t, byStart[14*60+30])
	// Boundary-touching slots stay available (half-open intervals).
	assert.True(t, byStart[9*60+30])
	assert.True(t, byStart[11*60])
	assert.True(t, byStart[13*60+30])
}

func TestAvailabilityIdempotent(t *testing.T) {
	ledger := &fakeSource{intervals: []models.BusyInterval{
		{Start: 9 * 60, End: 9*60 + 30, Source: models.BusySourceLedger},
	}}
	svc := newTestService(t, ledger, &fakeSource{})

	first, err := svc.Availability(context.Background(), testRoom, "2025-03-10")
	require.NoError(t, err)
	second, err := svc.Availability(context.Background(), testRoom, "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAvailabilityDegradesOnExternalFailure(t *testing.T) {
	ledger := &fakeSource{intervals: []models.BusyInterval{
		{Start: 10 * 60, End: 11 * 60, Source: models.BusySourceLedger},
	}}
	external := &fakeSource{err: errors.New("calendar timeout")}
	svc := newTestService(t, ledger, external)

	slots, err := svc.Availability(context.Background(), testRoom, "2025-03-10")
	require.NoError(t, err)

	// Ledger-derived availability still comes through.
	var unavailable int
	for _, s := range slots {
		if !s.Available {
			unavailable++
		}
	}
	assert.Equal(t, 2, unavailable)
}

func TestAvailabilityFailsOnLedgerFailure(t *testing.T) {
	ledger := &fakeSource{err: errors.New("store down")}
	svc := newTestService(t, ledger, &fakeSource{})

	_, err := svc.Availability(context.Background(), testRoom, "2025-03-10")
	require.Error(t, err)
}

func TestCheckRangeScenario(t *testing.T) {
	// Room A, business hours 09:00-18:00, granularity 30min, booking 10:00-11:00.
	ledger := &fakeSource{intervals: []models.BusyInterval{
		{Start: 10 * 60, End: 11 * 60, Source: models.BusySourceLedger},
	}}
	svc := newTestService(t, ledger, &fakeSource{})
	ctx := context.Background()

	ok, reason, err := svc.CheckRange(ctx, testRoom, "2025-03-10", 10*60+30, 11*60+30)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, reason, "10:30")

	// Back-to-back is fine.
	ok, reason, err = svc.CheckRange(ctx, testRoom, "2025-03-10", 11*60, 11*60+30)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, reason)
}

func TestCheckRangeValidation(t *testing.T) {
	svc := newTestService(t, &fakeSource{}, &fakeSource{})
	ctx := context.Background()

	ok, reason, err := svc.CheckRange(ctx, testRoom, "2025-03-10", 11*60, 10*60)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, reason, "before")

	ok, reason, err = svc.CheckRange(ctx, testRoom, "2025-03-10", 8*60, 10*60)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, reason, "business hours")

	ok, reason, err = svc.CheckRange(ctx, testRoom, "2025-03-10", 17*60, 19*60)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, reason, "business hours")
}

func TestExternalCalendarSourceSwallowsErrors(t *testing.T) {
	src := &ExternalCalendarSource{Sync: failingSync{}}
	intervals, err := src.BusyIntervals(context.Background(),
		models.Resource{ID: "room-a", CalendarID: "cal-1"}, "2025-03-10")
	require.NoError(t, err)
	assert.Empty(t, intervals)
}

func TestExternalCalendarSourceSkipsRoomsWithoutCalendar(t *testing.T) {
	src := &ExternalCalendarSource{Sync: failingSync{}}
	intervals, err := src.BusyIntervals(context.Background(),
		models.Resource{ID: "room-a"}, "2025-03-10")
	require.NoError(t, err)
	assert.Empty(t, intervals)
}

// failingSync always errors, standing in for an unreachable calendar API.
type failingSync struct{}

func (failingSync) BusyIntervals(ctx context.Context, calendarID, date string) ([]models.BusyInterval, error) {
	return nil, errors.New("unreachable")
}
func (failingSync) CreateEvent(ctx context.Context, calendarID, date string, start, end int, title, description string) (string, error) {
	return "", errors.New("unreachable")
}
func (failingSync) UpdateEvent(ctx context.Context, calendarID, eventID, date string, start, end int, title, description string) error {
	return errors.New("unreachable")
}
func (failingSync) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	return errors.New("unreachable")
}

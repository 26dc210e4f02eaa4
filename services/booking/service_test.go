package booking

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"testing"
	"time"

	bookingRepo "roomdesk/database/repository/booking"
	"roomdesk/models"
	"roomdesk/services/availability"
	"roomdesk/services/calendar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memBookingRepo is an in-memory BookingRepository that mirrors the store's
// transactional create semantics: conflict re-check and number allocation
// happen under one lock.
type memBookingRepo struct {
	mu       sync.Mutex
	bookings []*models.Booking
}

func (r *memBookingRepo) CreateConfirmed(ctx context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var seq int
	for _, existing := range r.bookings {
		if existing.ResourceID != b.ResourceID || existing.Date != b.Date {
			continue
		}
		seq++
		if existing.Status == models.BookingStatusConfirmed &&
			b.Start < existing.End && b.End > existing.Start {
			return bookingRepo.ErrSlotTaken
		}
	}
	b.BookingNumber = bookingRepo.FormatBookingNumber(b.Date, seq+1)
	b.CreatedAt = time.Now()
	r.bookings = append(r.bookings, b)
	return nil
}

func (r *memBookingRepo) GetByID(id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ID == id {
			copied := *b
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memBookingRepo) MarkCancelled(id, reason string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ID == id {
			b.Status = models.BookingStatusCancelled
			b.CancelledAt = &at
			b.CancelReason = reason
			return nil
		}
	}
	return fmt.Errorf("booking with id %s not found", id)
}

func (r *memBookingRepo) SetCalendarEvent(id, eventID, syncStatus string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ID == id {
			b.CalendarEventID = eventID
			b.SyncStatus = syncStatus
			return nil
		}
	}
	return fmt.Errorf("booking with id %s not found", id)
}

func (r *memBookingRepo) SetSyncStatus(id, syncStatus string) error {
	return r.SetCalendarEvent(id, "", syncStatus)
}

func (r *memBookingRepo) BusyIntervals(resourceID, date string) ([]models.BusyInterval, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var intervals []models.BusyInterval
	for _, b := range r.bookings {
		if b.ResourceID == resourceID && b.Date == date && b.Status == models.BookingStatusConfirmed {
			intervals = append(intervals, models.BusyInterval{
				Start: b.Start, End: b.End, Source: models.BusySourceLedger,
			})
		}
	}
	return intervals, nil
}

func (r *memBookingRepo) ListByCustomer(customerID string, includePast bool, today string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.CustomerID != customerID {
			continue
		}
		if !includePast && (b.Date < today || b.Status != models.BookingStatusConfirmed) {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Start < out[j].Start
	})
	return out, nil
}

func (r *memBookingRepo) ListFiltered(f bookingRepo.BookingFilter) ([]models.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if f.Date != "" && b.Date != f.Date {
			continue
		}
		if f.ResourceID != "" && b.ResourceID != f.ResourceID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (r *memBookingRepo) ListBySyncStatus(statuses []string, limit int) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		for _, s := range statuses {
			if b.SyncStatus == s {
				out = append(out, *b)
				break
			}
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *memBookingRepo) SweepCompleted(today string, nowMinutes int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, b := range r.bookings {
		if b.Status != models.BookingStatusConfirmed {
			continue
		}
		if b.Date < today || (b.Date == today && b.End <= nowMinutes) {
			b.Status = models.BookingStatusCompleted
			n++
		}
	}
	return n, nil
}

func (r *memBookingRepo) CountPerResource(date string) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int64{}
	for _, b := range r.bookings {
		if date == "" || b.Date == date {
			counts[b.ResourceID]++
		}
	}
	return counts, nil
}

// memResourceRepo serves a fixed set of rooms.
type memResourceRepo struct {
	resources []models.Resource
}

func (r *memResourceRepo) Create(res *models.Resource) error { return nil }
func (r *memResourceRepo) Update(res *models.Resource) error { return nil }
func (r *memResourceRepo) GetByID(id string) (*models.Resource, error) {
	for _, res := range r.resources {
		if res.ID == id {
			copied := res
			return &copied, nil
		}
	}
	return nil, nil
}
func (r *memResourceRepo) List(activeOnly bool) ([]models.Resource, error) {
	var out []models.Resource
	for _, res := range r.resources {
		if !activeOnly || res.Active {
			out = append(out, res)
		}
	}
	return out, nil
}
func (r *memResourceRepo) SetActive(id string, active bool) error { return nil }

// recordingSync records mirror calls; fail toggles create failures.
type recordingSync struct {
	mu      sync.Mutex
	created int
	deleted int
	fail    bool
}

func (s *recordingSync) BusyIntervals(ctx context.Context, calendarID, date string) ([]models.BusyInterval, error) {
	return nil, nil
}
func (s *recordingSync) CreateEvent(ctx context.Context, calendarID, date string, start, end int, title, description string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return "", errors.New("calendar unreachable")
	}
	s.created++
	return fmt.Sprintf("evt-%d", s.created), nil
}
func (s *recordingSync) UpdateEvent(ctx context.Context, calendarID, eventID, date string, start, end int, title, description string) error {
	return nil
}
func (s *recordingSync) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("calendar unreachable")
	}
	s.deleted++
	return nil
}

func newTestService(t *testing.T, sync calendar.Sync, rooms ...models.Resource) (*DefaultBookingService, *memBookingRepo) {
	t.Helper()
	if len(rooms) == 0 {
		rooms = []models.Resource{{ID: "room-a", Name: "Room A", Active: true, CalendarID: "cal-1"}}
	}
	repo := &memBookingRepo{}
	grid, err := availability.NewGrid("09:00", "18:00", 30)
	require.NoError(t, err)
	svc := &DefaultBookingService{
		Repo:         repo,
		ResourceRepo: &memResourceRepo{resources: rooms},
		Availability: &availability.DefaultAvailabilityService{
			Grid:     grid,
			Ledger:   &availability.LedgerSource{Repo: repo},
			External: &availability.ExternalCalendarSource{Sync: sync},
		},
		Calendar: sync,
		Location: time.UTC,
	}
	return svc, repo
}

func validInput() CreateInput {
	return CreateInput{
		ResourceID:   "room-a",
		CustomerID:   "cust-1",
		CustomerName: "Aoki",
		Date:         "2025-03-10",
		Start:        10 * 60,
		End:          11 * 60,
		Channel:      "api",
	}
}

func TestCreateBooking(t *testing.T) {
	sync := &recordingSync{}
	svc, _ := newTestService(t, sync)

	result, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	require.NotNil(t, result.Booking)

	assert.Equal(t, "MR-20250310-0001", result.Booking.BookingNumber)
	assert.Equal(t, models.BookingStatusConfirmed, result.Booking.Status)
	assert.Equal(t, models.SyncStatusSynced, result.Booking.SyncStatus)
	assert.Equal(t, 60, result.Booking.DurationMin)
	assert.Empty(t, result.Warning)
	assert.Equal(t, 1, sync.created)
}

func TestCreateBookingConflict(t *testing.T) {
	svc, _ := newTestService(t, &recordingSync{})
	ctx := context.Background()

	_, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	// Overlapping request fails with a conflict, not an internal error.
	overlapping := validInput()
	overlapping.Start = 10*60 + 30
	overlapping.End = 11*60 + 30
	_, err = svc.Create(ctx, overlapping)
	require.Error(t, err)
	assert.Equal(t, CodeConflict, ErrorCode(err))

	// Back-to-back succeeds.
	adjacent := validInput()
	adjacent.Start = 11 * 60
	adjacent.End = 11*60 + 30
	result, err := svc.Create(ctx, adjacent)
	require.NoError(t, err)
	assert.Equal(t, "MR-20250310-0002", result.Booking.BookingNumber)
}

func TestCreateBookingValidation(t *testing.T) {
	svc, _ := newTestService(t, &recordingSync{})
	ctx := context.Background()

	badDate := validInput()
	badDate.Date = "10-03-2025"
	_, err := svc.Create(ctx, badDate)
	assert.Equal(t, CodeValidation, ErrorCode(err))

	unknownRoom := validInput()
	unknownRoom.ResourceID = "room-x"
	_, err = svc.Create(ctx, unknownRoom)
	assert.Equal(t, CodeNotFound, ErrorCode(err))

	outsideHours := validInput()
	outsideHours.Start = 7 * 60
	outsideHours.End = 8 * 60
	_, err = svc.Create(ctx, outsideHours)
	assert.Equal(t, CodeConflict, ErrorCode(err))
}

func TestCreateBookingInactiveResource(t *testing.T) {
	svc, _ := newTestService(t, &recordingSync{},
		models.Resource{ID: "room-a", Name: "Room A", Active: false})
	_, err := svc.Create(context.Background(), validInput())
	assert.Equal(t, CodeNotFound, ErrorCode(err))
}

func TestCreateBookingMirrorFailure(t *testing.T) {
	sync := &recordingSync{fail: true}
	svc, repo := newTestService(t, sync)

	result, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	// The booking stands; only the mirror is flagged.
	assert.NotEmpty(t, result.Warning)
	assert.Equal(t, models.SyncStatusFailed, result.Booking.SyncStatus)

	stored, err := repo.GetByID(result.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, stored.Status)
	assert.Equal(t, models.SyncStatusFailed, stored.SyncStatus)
}

func TestCreateBookingWithoutCalendarSkipsMirror(t *testing.T) {
	sync := &recordingSync{}
	svc, _ := newTestService(t, sync,
		models.Resource{ID: "room-a", Name: "Room A", Active: true})

	result, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusSynced, result.Booking.SyncStatus)
	assert.Zero(t, sync.created)
}

func TestBookingNumbersUniqueAndMonotonic(t *testing.T) {
	svc, _ := newTestService(t, &recordingSync{})
	ctx := context.Background()

	var numbers []string
	for i := 0; i < 4; i++ {
		input := validInput()
		input.Start = (9 + i) * 60
		input.End = input.Start + 30
		result, err := svc.Create(ctx, input)
		require.NoError(t, err)
		numbers = append(numbers, result.Booking.BookingNumber)
	}

	assert.Equal(t, []string{
		"MR-20250310-0001",
		"MR-20250310-0002",
		"MR-20250310-0003",
		"MR-20250310-0004",
	}, numbers)
}

func TestCancelBooking(t *testing.T) {
	sync := &recordingSync{}
	svc, _ := newTestService(t, sync)
	ctx := context.Background()

	result, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, result.Booking.ID, "plans changed")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
	assert.Equal(t, "plans changed", cancelled.CancelReason)
	assert.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, 1, sync.deleted)

	// Second cancel reports AlreadyCancelled and changes nothing.
	_, err = svc.Cancel(ctx, result.Booking.ID, "again")
	assert.Equal(t, CodeAlreadyCancelled, ErrorCode(err))
	assert.Equal(t, 1, sync.deleted)
}

func TestCancelUnknownBooking(t *testing.T) {
	svc, _ := newTestService(t, &recordingSync{})
	_, err := svc.Cancel(context.Background(), "nope", "")
	assert.Equal(t, CodeNotFound, ErrorCode(err))
}

func TestCancelFreesSlot(t *testing.T) {
	svc, _ := newTestService(t, &recordingSync{})
	ctx := context.Background()

	first, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, first.Booking.ID, "")
	require.NoError(t, err)

	// The same range books again after cancellation.
	second, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, second.Booking.Status)
}

// TestNoOverlapInvariantUnderInterleaving drives random create/cancel
// interleavings and asserts that confirmed bookings never overlap.
func TestNoOverlapInvariantUnderInterleaving(t *testing.T) {
	svc, repo := newTestService(t, &recordingSync{})
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	var created []string
	for i := 0; i < 200; i++ {
		if rng.Intn(3) == 0 && len(created) > 0 {
			id := created[rng.Intn(len(created))]
			_, _ = svc.Cancel(ctx, id, "")
			continue
		}
		input := validInput()
		input.Start = (9 + rng.Intn(8)) * 60
		if rng.Intn(2) == 0 {
			input.Start += 30
		}
		input.End = input.Start + 30*(1+rng.Intn(3))
		if input.End > 18*60 {
			input.End = 18 * 60
		}
		result, err := svc.Create(ctx, input)
		if err == nil {
			created = append(created, result.Booking.ID)
		}
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	var confirmed []*models.Booking
	for _, b := range repo.bookings {
		if b.Status == models.BookingStatusConfirmed {
			confirmed = append(confirmed, b)
		}
	}
	for i := 0; i < len(confirmed); i++ {
		for j := i + 1; j < len(confirmed); j++ {
			a, b := confirmed[i], confirmed[j]
			if a.Date != b.Date || a.ResourceID != b.ResourceID {
				continue
			}
			assert.False(t, a.Start < b.End && a.End > b.Start,
				"confirmed bookings %s and %s overlap", a.BookingNumber, b.BookingNumber)
		}
	}
}

func TestListForCustomer(t *testing.T) {
	svc, _ := newTestService(t, &recordingSync{})
	ctx := context.Background()

	future := time.Now().UTC().AddDate(0, 0, 3).Format("2006-01-02")
	input := validInput()
	input.Date = future
	_, err := svc.Create(ctx, input)
	require.NoError(t, err)

	other := validInput()
	other.Date = future
	other.CustomerID = "cust-2"
	other.Start = 13 * 60
	other.End = 14 * 60
	_, err = svc.Create(ctx, other)
	require.NoError(t, err)

	bookings, err := svc.ListForCustomer(ctx, "cust-1", false)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "cust-1", bookings[0].CustomerID)
}

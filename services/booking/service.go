package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "roomdesk/database/repository/booking"
	"roomdesk/models"
	"roomdesk/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Create re-validates the requested range, inserts the booking through the
// transactional repo path, then mirrors it to the external calendar
// best-effort. The local ledger is authoritative: a mirror failure flags the
// booking sync-failed and surfaces a warning, it never rolls the booking back.
func (s *DefaultBookingService) Create(ctx context.Context, input CreateInput) (*CreateResult, error) {
	logger := utils.GetLogger()

	if !utils.ValidDate(input.Date) {
		return nil, NewValidationError(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", input.Date))
	}
	if input.CustomerID == "" {
		return nil, NewValidationError("customer id is required")
	}

	resource, err := s.ResourceRepo.GetByID(input.ResourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up resource: %w", err)
	}
	if resource == nil || !resource.Active {
		return nil, NewNotFoundError(fmt.Sprintf("meeting room %q not found", input.ResourceID))
	}

	// A duplicate postback (network retry) replays the same nonce; answer with
	// the booking that was already created instead of double-booking.
	if input.Nonce != "" {
		if existing := s.lookupDedupe(ctx, input.CustomerID, input.Nonce); existing != nil {
			return &CreateResult{
				Booking: existing,
				Warning: "This booking was already confirmed.",
			}, nil
		}
	}

	ok, reason, err := s.Availability.CheckRange(ctx, *resource, input.Date, input.Start, input.End)
	if err != nil {
		return nil, fmt.Errorf("availability check failed: %w", err)
	}
	if !ok {
		return nil, NewConflictError(reason)
	}

	booking := &models.Booking{
		ID:            uuid.New().String(),
		ResourceID:    resource.ID,
		CustomerID:    input.CustomerID,
		CustomerName:  input.CustomerName,
		Date:          input.Date,
		Start:         input.Start,
		End:           input.End,
		DurationMin:   input.End - input.Start,
		Status:        models.BookingStatusConfirmed,
		SyncStatus:    models.SyncStatusSynced,
		Purpose:       input.Purpose,
		AttendeeCount: input.AttendeeCount,
		Notes:         input.Notes,
		Channel:       input.Channel,
	}
	if resource.CalendarID != "" {
		booking.SyncStatus = models.SyncStatusPending
	}

	if err := s.Repo.CreateConfirmed(ctx, booking); err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			return nil, NewConflictError("the selected time was just booked by someone else")
		}
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}

	s.storeDedupe(ctx, input.CustomerID, input.Nonce, booking.ID)

	warning := ""
	if resource.CalendarID != "" {
		eventID, err := s.Calendar.CreateEvent(ctx, resource.CalendarID, booking.Date,
			booking.Start, booking.End,
			fmt.Sprintf("%s (%s)", booking.BookingNumber, booking.CustomerName),
			mirrorDescription(booking))
		if err != nil {
			logger.Warn("calendar mirror failed, booking flagged sync-failed",
				zap.String("bookingID", booking.ID),
				zap.String("calendarID", resource.CalendarID),
				zap.Error(err))
			booking.SyncStatus = models.SyncStatusFailed
			if repoErr := s.Repo.SetSyncStatus(booking.ID, models.SyncStatusFailed); repoErr != nil {
				logger.Error("failed to record sync status", zap.String("bookingID", booking.ID), zap.Error(repoErr))
			}
			warning = "The booking is confirmed, but the room calendar could not be updated yet."
		} else {
			booking.CalendarEventID = eventID
			booking.SyncStatus = models.SyncStatusSynced
			if repoErr := s.Repo.SetCalendarEvent(booking.ID, eventID, models.SyncStatusSynced); repoErr != nil {
				logger.Error("failed to record calendar event", zap.String("bookingID", booking.ID), zap.Error(repoErr))
			}
		}
	}

	return &CreateResult{Booking: booking, Warning: warning}, nil
}

// Cancel flips a booking to cancelled. The external event is deleted
// best-effort before the status change; a delete failure is logged, not fatal.
func (s *DefaultBookingService) Cancel(ctx context.Context, bookingID, reason string) (*models.Booking, error) {
	logger := utils.GetLogger()

	booking, err := s.Repo.GetByID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up booking: %w", err)
	}
	if booking == nil {
		return nil, NewNotFoundError(fmt.Sprintf("booking %q not found", bookingID))
	}
	switch booking.Status {
	case models.BookingStatusCancelled:
		return nil, NewAlreadyCancelledError(
			fmt.Sprintf("booking %s is already cancelled", booking.BookingNumber))
	case models.BookingStatusCompleted:
		return nil, NewValidationError(
			fmt.Sprintf("booking %s has already taken place and cannot be cancelled", booking.BookingNumber))
	}

	if booking.CalendarEventID != "" {
		resource, err := s.ResourceRepo.GetByID(booking.ResourceID)
		if err == nil && resource != nil && resource.CalendarID != "" {
			if err := s.Calendar.DeleteEvent(ctx, resource.CalendarID, booking.CalendarEventID); err != nil {
				logger.Warn("failed to delete mirrored calendar event",
					zap.String("bookingID", booking.ID),
					zap.String("eventID", booking.CalendarEventID),
					zap.Error(err))
			}
		}
	}

	now := time.Now()
	if err := s.Repo.MarkCancelled(booking.ID, reason, now); err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}
	booking.Status = models.BookingStatusCancelled
	booking.CancelledAt = &now
	booking.CancelReason = reason
	return booking, nil
}

// ListForCustomer returns the customer's bookings; by default only upcoming
// confirmed ones.
func (s *DefaultBookingService) ListForCustomer(ctx context.Context, customerID string, includePast bool) ([]models.Booking, error) {
	today := time.Now().In(s.Location).Format("2006-01-02")
	return s.Repo.ListByCustomer(customerID, includePast, today)
}

// ListFiltered is the paginated admin projection.
func (s *DefaultBookingService) ListFiltered(ctx context.Context, filter bookingRepo.BookingFilter) ([]models.Booking, int64, error) {
	return s.Repo.ListFiltered(filter)
}

// Get fetches a single booking; NotFound if absent.
func (s *DefaultBookingService) Get(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := s.Repo.GetByID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up booking: %w", err)
	}
	if booking == nil {
		return nil, NewNotFoundError(fmt.Sprintf("booking %q not found", bookingID))
	}
	return booking, nil
}

func (s *DefaultBookingService) lookupDedupe(ctx context.Context, customerID, nonce string) *models.Booking {
	if s.DedupeClient == nil {
		return nil
	}
	key := utils.DedupePrefix + customerID + ":" + nonce
	bookingID, err := s.DedupeClient.Get(ctx, key).Result()
	if err != nil || bookingID == "" {
		return nil
	}
	booking, err := s.Repo.GetByID(bookingID)
	if err != nil {
		return nil
	}
	return booking
}

func (s *DefaultBookingService) storeDedupe(ctx context.Context, customerID, nonce, bookingID string) {
	if s.DedupeClient == nil || nonce == "" {
		return
	}
	key := utils.DedupePrefix + customerID + ":" + nonce
	if err := s.DedupeClient.Set(ctx, key, bookingID, utils.DedupeTTL).Err(); err != nil {
		utils.GetLogger().Warn("failed to store dedupe key", zap.String("key", key), zap.Error(err))
	}
}

func mirrorDescription(b *models.Booking) string {
	desc := fmt.Sprintf("Booked via %s by %s.", b.Channel, b.CustomerName)
	if b.Purpose != "" {
		desc += " Purpose: " + b.Purpose
	}
	if b.AttendeeCount > 0 {
		desc += fmt.Sprintf(" Attendees: %d.", b.AttendeeCount)
	}
	return desc
}

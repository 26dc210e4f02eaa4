package models

import "time"

// Booking status values. Transitions are monotonic: confirmed bookings may be
// cancelled by a caller or flipped to completed by the background sweep.
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// Calendar sync status values for the external mirror.
const (
	SyncStatusSynced  = "synced"
	SyncStatusPending = "pending"
	SyncStatusFailed  = "failed"
)

// Booking represents a confirmed booking record.
type Booking struct {
	ID              string     `bson:"id" json:"id"`                           // Unique booking identifier (UUID)
	BookingNumber   string     `bson:"booking_number" json:"booking_number"`   // e.g. "MR-20250115-0003", scoped to resource+date
	ResourceID      string     `bson:"resource_id" json:"resource_id"`         // Room that was booked
	CustomerID      string     `bson:"customer_id" json:"customer_id"`         // Channel user id of the customer
	CustomerName    string     `bson:"customer_name" json:"customer_name"`     // Display name at booking time
	Date            string     `bson:"date" json:"date"`                       // Booking date in "YYYY-MM-DD" format
	Start           int        `bson:"start" json:"start"`                     // Start time (minutes from midnight)
	End             int        `bson:"end" json:"end"`                         // End time (minutes from midnight)
	DurationMin     int        `bson:"duration_min" json:"duration_min"`       // Derived: End - Start
	Status          string     `bson:"status" json:"status"`                   // confirmed | cancelled | completed
	CalendarEventID string     `bson:"calendar_event_id,omitempty" json:"calendar_event_id,omitempty"`
	SyncStatus      string     `bson:"sync_status" json:"sync_status"`         // synced | pending | failed
	Purpose         string     `bson:"purpose,omitempty" json:"purpose,omitempty"`
	AttendeeCount   int        `bson:"attendee_count,omitempty" json:"attendee_count,omitempty"`
	Notes           string     `bson:"notes,omitempty" json:"notes,omitempty"`
	Channel         string     `bson:"channel" json:"channel"` // creation channel, e.g. "chat" or "api"
	CancelledAt     *time.Time `bson:"cancelled_at,omitempty" json:"cancelled_at,omitempty"`
	CancelReason    string     `bson:"cancel_reason,omitempty" json:"cancel_reason,omitempty"`
	CreatedAt       time.Time  `bson:"created_at" json:"created_at"`
}

// StartClock returns the booking start as "HH:MM".
func (b *Booking) StartClock() string {
	return formatClock(b.Start)
}

// EndClock returns the booking end as "HH:MM".
func (b *Booking) EndClock() string {
	return formatClock(b.End)
}

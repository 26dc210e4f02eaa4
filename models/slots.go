package models

import "fmt"

// TimeSlot represents one unit of the fixed booking grid with its computed
// availability flag. Transient: produced for presentation and for the
// pre-commit range check, never persisted.
type TimeSlot struct {
	Start     int  `json:"start"` // minutes from midnight (e.g., 540 for 9:00 AM)
	End       int  `json:"end"`   // minutes from midnight (e.g., 570 for 9:30 AM)
	Available bool `json:"available"`
}

// StartClock returns the slot start as "HH:MM".
func (s TimeSlot) StartClock() string { return formatClock(s.Start) }

// EndClock returns the slot end as "HH:MM".
func (s TimeSlot) EndClock() string { return formatClock(s.End) }

// Busy-interval source tags.
const (
	BusySourceLedger   = "ledger"
	BusySourceExternal = "external"
)

// BusyInterval is a committed time range on a given date, regardless of where
// the commitment came from. Used only for merging; never persisted.
type BusyInterval struct {
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Source string `json:"source"` // ledger | external
}

// Overlaps reports whether the interval overlaps [start,end). Half-open
// semantics: touching boundaries do not overlap, so back-to-back bookings
// are allowed.
func (b BusyInterval) Overlaps(start, end int) bool {
	return !(end <= b.Start || start >= b.End)
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

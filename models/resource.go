package models

import "time"

// Resource represents a bookable meeting room. Resources are created and
// edited by administrators; the booking engine treats them as read-only.
type Resource struct {
	ID         string    `bson:"id" json:"id"`
	Name       string    `bson:"name" json:"name"`
	Capacity   int       `bson:"capacity" json:"capacity"`
	Amenities  []string  `bson:"amenities,omitempty" json:"amenities,omitempty"`
	HourlyRate float64   `bson:"hourly_rate" json:"hourly_rate"` // zero means comped for customers
	CalendarID string    `bson:"calendar_id,omitempty" json:"calendar_id,omitempty"`
	Active     bool      `bson:"active" json:"active"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}

package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roomdesk/database"
	"roomdesk/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrSlotTaken is returned when the transactional conflict re-check finds an
// overlapping confirmed booking at insert time.
var ErrSlotTaken = errors.New("slot already taken")

// BookingFilter narrows admin listing queries. Zero values mean "any".
type BookingFilter struct {
	Date       string
	ResourceID string
	Status     string
	Page       int
	PageSize   int
}

// BookingRepository owns persistence for booking records.
type BookingRepository interface {
	// CreateConfirmed allocates the booking number and inserts the record in a
	// single transaction that re-verifies no overlapping confirmed booking
	// exists. Returns ErrSlotTaken on conflict.
	CreateConfirmed(ctx context.Context, booking *models.Booking) error
	GetByID(id string) (*models.Booking, error)
	MarkCancelled(id, reason string, at time.Time) error
	SetCalendarEvent(id, eventID, syncStatus string) error
	SetSyncStatus(id, syncStatus string) error
	BusyIntervals(resourceID, date string) ([]models.BusyInterval, error)
	ListByCustomer(customerID string, includePast bool, today string) ([]models.Booking, error)
	ListFiltered(filter BookingFilter) ([]models.Booking, int64, error)
	ListBySyncStatus(statuses []string, limit int) ([]models.Booking, error)
	SweepCompleted(today string, nowMinutes int) (int64, error)
	CountPerResource(date string) (map[string]int64, error)
}

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates a new instance of BookingRepository using MongoDB.
func NewMongoBookingRepo() BookingRepository {
	coll := database.MongoClient.Database("roomdesk").Collection("bookings")
	repo := &MongoBookingRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries. The
// unique (resource_id, date, booking_number) index is what turns the
// number-allocation race into a retryable duplicate-key error.
func (r *MongoBookingRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys: bson.D{
				{Key: "resource_id", Value: 1},
				{Key: "date", Value: 1},
				{Key: "booking_number", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "resource_id", Value: 1}, {Key: "date", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "sync_status", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

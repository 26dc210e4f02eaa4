package bookingRepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"roomdesk/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// createMaxAttempts bounds the retry loop around booking-number allocation.
// Two concurrent creates for the same resource+date can compute the same
// sequence; the unique index rejects the loser, which retries with a fresh count.
const createMaxAttempts = 3

// CreateConfirmed inserts a confirmed booking inside a multi-document
// transaction. The transaction re-counts overlapping confirmed bookings so a
// concurrent create for the same range cannot slip between the caller's
// availability check and the insert.
func (r *MongoBookingRepo) CreateConfirmed(ctx context.Context, booking *models.Booking) error {
	client := r.coll.Database().Client()

	for attempt := 1; attempt <= createMaxAttempts; attempt++ {
		sess, err := client.StartSession()
		if err != nil {
			return fmt.Errorf("could not start mongo session: %w", err)
		}

		txnErr := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
			if err := sc.StartTransaction(); err != nil {
				return err
			}

			overlapping, err := r.countOverlapping(sc, booking.ResourceID, booking.Date, booking.Start, booking.End)
			if err != nil {
				_ = sc.AbortTransaction(sc)
				return fmt.Errorf("conflict re-check failed: %w", err)
			}
			if overlapping > 0 {
				_ = sc.AbortTransaction(sc)
				return ErrSlotTaken
			}

			seq, err := r.coll.CountDocuments(sc, bson.M{
				"resource_id": booking.ResourceID,
				"date":        booking.Date,
			})
			if err != nil {
				_ = sc.AbortTransaction(sc)
				return fmt.Errorf("booking number count failed: %w", err)
			}
			booking.BookingNumber = FormatBookingNumber(booking.Date, int(seq)+1)
			booking.CreatedAt = time.Now()

			if _, err := r.coll.InsertOne(sc, booking); err != nil {
				_ = sc.AbortTransaction(sc)
				return fmt.Errorf("insert booking failed: %w", err)
			}

			return sc.CommitTransaction(sc)
		})
		sess.EndSession(ctx)

		if txnErr == nil {
			return nil
		}
		if txnErr == ErrSlotTaken {
			return ErrSlotTaken
		}
		// A duplicate booking number means we lost the allocation race;
		// recount and try again.
		if mongo.IsDuplicateKeyError(txnErr) || strings.Contains(txnErr.Error(), "duplicate key") {
			continue
		}
		return fmt.Errorf("booking transaction failed: %w", txnErr)
	}

	return fmt.Errorf("booking number allocation exhausted %d attempts for %s on %s",
		createMaxAttempts, booking.ResourceID, booking.Date)
}

// countOverlapping counts confirmed bookings for resource+date whose [start,end)
// range overlaps the given one. Half-open: touching boundaries do not overlap.
func (r *MongoBookingRepo) countOverlapping(ctx context.Context, resourceID, date string, start, end int) (int64, error) {
	filter := bson.M{
		"resource_id": resourceID,
		"date":        date,
		"status":      models.BookingStatusConfirmed,
		"start":       bson.M{"$lt": end},
		"end":         bson.M{"$gt": start},
	}
	return r.coll.CountDocuments(ctx, filter)
}

// FormatBookingNumber renders the human-readable booking number,
// e.g. "MR-20250115-0003". The sequence is scoped to resource+date.
func FormatBookingNumber(date string, seq int) string {
	return fmt.Sprintf("MR-%s-%04d", strings.ReplaceAll(date, "-", ""), seq)
}

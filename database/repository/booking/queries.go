// File: database/repository/booking/queries.go
package bookingRepo

import (
	"fmt"
	"time"

	"roomdesk/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BusyIntervals returns the committed ranges from confirmed bookings for a
// resource on a date, ordered by start.
func (r *MongoBookingRepo) BusyIntervals(resourceID, date string) ([]models.BusyInterval, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"resource_id": resourceID,
		"date":        date,
		"status":      models.BookingStatusConfirmed,
	}
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch busy intervals: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode busy intervals: %w", err)
	}

	intervals := make([]models.BusyInterval, 0, len(bookings))
	for _, b := range bookings {
		intervals = append(intervals, models.BusyInterval{
			Start:  b.Start,
			End:    b.End,
			Source: models.BusySourceLedger,
		})
	}
	return intervals, nil
}

// ListByCustomer returns a customer's bookings ordered by date and start time.
// With includePast false, only bookings on or after today are returned and
// cancelled ones are dropped.
func (r *MongoBookingRepo) ListByCustomer(customerID string, includePast bool, today string) ([]models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"customer_id": customerID}
	if !includePast {
		filter["date"] = bson.M{"$gte": today}
		filter["status"] = models.BookingStatusConfirmed
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for customer %s: %w", customerID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

// ListFiltered returns bookings matching the admin filter plus the total count
// for pagination.
func (r *MongoBookingRepo) ListFiltered(f BookingFilter) ([]models.Booking, int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{}
	if f.Date != "" {
		filter["date"] = f.Date
	}
	if f.ResourceID != "" {
		filter["resource_id"] = f.ResourceID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	pageSize := f.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}, {Key: "start", Value: 1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, 0, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, total, nil
}

// ListBySyncStatus returns bookings whose external mirror still needs work,
// oldest first, for the reconciliation worker.
func (r *MongoBookingRepo) ListBySyncStatus(statuses []string, limit int) ([]models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"sync_status": bson.M{"$in": statuses}}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings by sync status: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

// SweepCompleted flips confirmed bookings whose end time has passed to
// completed. Returns the number of bookings updated.
func (r *MongoBookingRepo) SweepCompleted(today string, nowMinutes int) (int64, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{
		"status": models.BookingStatusConfirmed,
		"$or": bson.A{
			bson.M{"date": bson.M{"$lt": today}},
			bson.M{"date": today, "end": bson.M{"$lte": nowMinutes}},
		},
	}
	result, err := r.coll.UpdateMany(ctx, filter,
		bson.M{"$set": bson.M{"status": models.BookingStatusCompleted}})
	if err != nil {
		return 0, fmt.Errorf("failed to sweep completed bookings: %w", err)
	}
	return result.ModifiedCount, nil
}

// CountPerResource aggregates booking counts per resource for a date, for the
// admin statistics endpoint.
func (r *MongoBookingRepo) CountPerResource(date string) (map[string]int64, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	match := bson.M{}
	if date != "" {
		match["date"] = date
	}
	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{"_id": "$resource_id", "count": bson.M{"$sum": 1}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate booking counts: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ResourceID string `bson:"_id"`
		Count      int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode booking counts: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ResourceID] = row.Count
	}
	return counts, nil
}

// File: database/repository/resource/crud.go
package resourceRepo

import (
	"fmt"
	"time"

	"roomdesk/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new resource document.
func (r *MongoResourceRepo) Create(res *models.Resource) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	now := time.Now()
	res.CreatedAt = now
	res.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, res)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}
	return nil
}

// Update modifies an existing resource document.
func (r *MongoResourceRepo) Update(res *models.Resource) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	res.UpdatedAt = time.Now()
	filter := bson.M{"id": res.ID}
	update := bson.M{"$set": res}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update resource with id %s: %w", res.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("resource with id %s not found", res.ID)
	}
	return nil
}

// GetByID retrieves a resource by its unique ID.
func (r *MongoResourceRepo) GetByID(id string) (*models.Resource, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var res models.Resource
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&res)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch resource with id %s: %w", id, err)
	}
	return &res, nil
}

// List returns resources ordered by name, optionally restricted to active ones.
func (r *MongoResourceRepo) List(activeOnly bool) ([]models.Resource, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{}
	if activeOnly {
		filter["active"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	defer cursor.Close(ctx)

	var resources []models.Resource
	if err := cursor.All(ctx, &resources); err != nil {
		return nil, fmt.Errorf("failed to decode resources: %w", err)
	}
	return resources, nil
}

// SetActive flips the active flag on a resource.
func (r *MongoResourceRepo) SetActive(id string, active bool) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"active": active, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to set active on resource %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("resource with id %s not found", id)
	}
	return nil
}

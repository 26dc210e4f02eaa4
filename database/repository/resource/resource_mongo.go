package resourceRepo

import (
	"context"
	"fmt"
	"time"

	"roomdesk/database"
	"roomdesk/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ResourceRepository owns persistence for bookable meeting rooms.
type ResourceRepository interface {
	Create(res *models.Resource) error
	Update(res *models.Resource) error
	GetByID(id string) (*models.Resource, error)
	List(activeOnly bool) ([]models.Resource, error)
	SetActive(id string, active bool) error
}

// MongoResourceRepo implements ResourceRepository using MongoDB.
type MongoResourceRepo struct {
	coll *mongo.Collection
}

// NewMongoResourceRepo creates a new instance of ResourceRepository using MongoDB.
func NewMongoResourceRepo() ResourceRepository {
	coll := database.MongoClient.Database("roomdesk").Collection("resources")
	repo := &MongoResourceRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoResourceRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "active", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

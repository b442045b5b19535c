package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	catalogerrors "carpark/internal/catalog/errors"
	"carpark/pkg/config"
	"carpark/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Parking_spots"
)

type SpotRepository interface {
	FindByID(ctx context.Context, id string) (*model.ParkingSpot, error)
	FindAll(ctx context.Context) ([]*model.ParkingSpot, error)
	Count(ctx context.Context) (int64, error)
	SeedIfEmpty(ctx context.Context, spots []model.ParkingSpot) (int, error)
}

type mongoSpotRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

func NewMongoSpotRepository(cfg *config.Config) SpotRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSpotRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
	}
}

// withTimeout wraps the context with a timeout, honoring any shorter
// deadline already set by the caller.
func (r *mongoSpotRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoSpotRepository) FindByID(ctx context.Context, id string) (*model.ParkingSpot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var spot model.ParkingSpot
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&spot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", catalogerrors.ErrSpotNotFound, id)
		}
		return nil, fmt.Errorf("failed to find parking spot: %w", err)
	}

	return &spot, nil
}

func (r *mongoSpotRepository) FindAll(ctx context.Context) ([]*model.ParkingSpot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list parking spots: %w", err)
	}
	defer cursor.Close(ctx)

	var spots []*model.ParkingSpot
	if err := cursor.All(ctx, &spots); err != nil {
		return nil, fmt.Errorf("failed to decode parking spots: %w", err)
	}

	return spots, nil
}

func (r *mongoSpotRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count parking spots: %w", err)
	}
	return count, nil
}

// SeedIfEmpty inserts the provided spots only when the collection has no
// documents, so restarts never duplicate the catalog.
func (r *mongoSpotRepository) SeedIfEmpty(ctx context.Context, spots []model.ParkingSpot) (int, error) {
	count, err := r.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	docs := make([]interface{}, 0, len(spots))
	for _, spot := range spots {
		docs = append(docs, spot)
	}

	result, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("failed to seed parking spots: %w", err)
	}
	return len(result.InsertedIDs), nil
}

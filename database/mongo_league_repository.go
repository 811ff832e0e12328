package database

import (
	"context"
	"fmt"

	"pickem-app-go/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoLeagueRepository reads league configuration (type, weights, members).
// League CRUD lives in the excluded league service; the scoring side only
// needs lookups.
type MongoLeagueRepository struct {
	collection *mongo.Collection
}

// NewMongoLeagueRepository creates a new MongoDB league repository
func NewMongoLeagueRepository(db *MongoDB) *MongoLeagueRepository {
	return &MongoLeagueRepository{
		collection: db.GetCollection("leagues"),
	}
}

// FindByCode returns one league or nil when absent.
func (r *MongoLeagueRepository) FindByCode(ctx context.Context, code string) (*models.League, error) {
	var league models.League
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&league)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find league %s: %w", code, err)
	}
	return &league, nil
}

// FindBySeason returns every league configured for a season.
func (r *MongoLeagueRepository) FindBySeason(ctx context.Context, season int) ([]*models.League, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"season": season})
	if err != nil {
		return nil, fmt.Errorf("failed to find leagues for season %d: %w", season, err)
	}
	defer cursor.Close(ctx)

	var leagues []*models.League
	if err := cursor.All(ctx, &leagues); err != nil {
		return nil, fmt.Errorf("failed to decode leagues: %w", err)
	}

	return leagues, nil
}

// FindByCodes returns the named leagues, skipping codes with no document.
func (r *MongoLeagueRepository) FindByCodes(ctx context.Context, codes []string) ([]*models.League, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"code": bson.M{"$in": codes}})
	if err != nil {
		return nil, fmt.Errorf("failed to find leagues: %w", err)
	}
	defer cursor.Close(ctx)

	var leagues []*models.League
	if err := cursor.All(ctx, &leagues); err != nil {
		return nil, fmt.Errorf("failed to decode leagues: %w", err)
	}

	return leagues, nil
}

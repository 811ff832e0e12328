package database

import (
	"context"
	"fmt"

	"pickem-app-go/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPickRepository stores picks keyed by (league_code, user_id, game_id).
// The scoring core only reads picks; writes come from the pick-entry surface.
type MongoPickRepository struct {
	collection *mongo.Collection
}

// NewMongoPickRepository creates a new MongoDB pick repository
func NewMongoPickRepository(db *MongoDB) *MongoPickRepository {
	return &MongoPickRepository{
		collection: db.GetCollection("picks"),
	}
}

// FindByLeagueWeek returns all picks in a league for a season/week.
func (r *MongoPickRepository) FindByLeagueWeek(ctx context.Context, leagueCode string, season, week int) ([]models.Pick, error) {
	filter := bson.M{
		"league_code": leagueCode,
		"season":      season,
		"week":        week,
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find picks: %w", err)
	}
	defer cursor.Close(ctx)

	var picks []models.Pick
	if err := cursor.All(ctx, &picks); err != nil {
		return nil, fmt.Errorf("failed to decode picks: %w", err)
	}

	return picks, nil
}

// FindByGame returns all picks referencing a game across every league.
// Used by the server scoring path to find which leagues a finalization
// affects.
func (r *MongoPickRepository) FindByGame(ctx context.Context, gameID int) ([]models.Pick, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"game_id": gameID})
	if err != nil {
		return nil, fmt.Errorf("failed to find picks for game %d: %w", gameID, err)
	}
	defer cursor.Close(ctx)

	var picks []models.Pick
	if err := cursor.All(ctx, &picks); err != nil {
		return nil, fmt.Errorf("failed to decode picks: %w", err)
	}

	return picks, nil
}

// Upsert writes a pick under its (league, user, game) identity. A pick whose
// last dimension was toggled off is removed instead of stored empty.
func (r *MongoPickRepository) Upsert(ctx context.Context, pick *models.Pick) error {
	filter := bson.M{
		"league_code": pick.LeagueCode,
		"user_id":     pick.UserID,
		"game_id":     pick.GameID,
	}

	if !pick.HasAnySelection() {
		if _, err := r.collection.DeleteOne(ctx, filter); err != nil {
			return fmt.Errorf("failed to delete cleared pick: %w", err)
		}
		return nil
	}

	update := bson.M{
		"$set": bson.M{
			"season":    pick.Season,
			"week":      pick.Week,
			"winner":    pick.Winner,
			"spread":    pick.Spread,
			"total":     pick.Total,
			"edited_at": pick.EditedAt,
		},
		"$setOnInsert": bson.M{
			"league_code": pick.LeagueCode,
			"user_id":     pick.UserID,
			"game_id":     pick.GameID,
			"created_at":  pick.CreatedAt,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert pick: %w", err)
	}

	return nil
}

package database

import (
	"context"
	"fmt"

	"pickem-app-go/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoResultRepository stores game results written by the score feed. A game
// transitions to final exactly once; UpsertFromFeed reports that transition
// so the orchestrator can be triggered.
type MongoResultRepository struct {
	collection *mongo.Collection
}

// NewMongoResultRepository creates a new MongoDB game result repository
func NewMongoResultRepository(db *MongoDB) *MongoResultRepository {
	return &MongoResultRepository{
		collection: db.GetCollection("games"),
	}
}

// FindByID returns one game result or nil when absent.
func (r *MongoResultRepository) FindByID(ctx context.Context, gameID int) (*models.GameResult, error) {
	var result models.GameResult
	err := r.collection.FindOne(ctx, bson.M{"id": gameID}).Decode(&result)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find game %d: %w", gameID, err)
	}
	return &result, nil
}

// FindByWeek returns all game results for a season/week keyed by game ID.
func (r *MongoResultRepository) FindByWeek(ctx context.Context, season, week int) (map[int]*models.GameResult, error) {
	filter := bson.M{
		"season": season,
		"week":   week,
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find games: %w", err)
	}
	defer cursor.Close(ctx)

	var results []*models.GameResult
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode games: %w", err)
	}

	byGame := make(map[int]*models.GameResult, len(results))
	for _, result := range results {
		byGame[result.ID] = result
	}

	return byGame, nil
}

// UpsertFromFeed writes the latest feed snapshot of a game. The returned
// flag is true when this write moved the game into its final state for the
// first time, which is the server scoring path's trigger. A game never
// un-finalizes: a final record in the store is left untouched by later
// non-final feed snapshots.
func (r *MongoResultRepository) UpsertFromFeed(ctx context.Context, game *models.GameResult) (becameFinal bool, err error) {
	existing, err := r.FindByID(ctx, game.ID)
	if err != nil {
		return false, err
	}
	if existing != nil && existing.IsFinal() {
		return false, nil
	}

	update := bson.M{
		"$set": bson.M{
			"season":     game.Season,
			"week":       game.Week,
			"date":       game.Date,
			"home":       game.Home,
			"away":       game.Away,
			"home_score": game.HomeScore,
			"away_score": game.AwayScore,
			"winner":     game.Winner,
			"state":      game.State,
			"final_at":   game.FinalAt,
		},
	}
	if game.SpreadLine != nil {
		update["$set"].(bson.M)["spread_line"] = *game.SpreadLine
	}
	if game.TotalLine != nil {
		update["$set"].(bson.M)["total_line"] = *game.TotalLine
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, bson.M{"id": game.ID}, update, opts); err != nil {
		return false, fmt.Errorf("failed to upsert game %d: %w", game.ID, err)
	}

	return game.IsFinal(), nil
}

package database

import (
	"context"
	"fmt"

	"pickem-app-go/logging"
	"pickem-app-go/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoLineRepository stores locked betting-line snapshots. A line is
// insert-only: the first snapshot written for a (league, game) wins and is
// never overwritten, so every member of the league grades against the same
// numbers no matter when they load the week.
type MongoLineRepository struct {
	collection *mongo.Collection
}

// lockedLineIndex is the unique key that makes Lock first-writer-wins. The
// count check in Lock is only a fast path; concurrent lock attempts race past
// it, and this index is what rejects the losing insert.
func lockedLineIndex() mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: "league_code", Value: 1}, {Key: "game_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
}

// NewMongoLineRepository creates a new MongoDB locked-line repository
func NewMongoLineRepository(db *MongoDB) *MongoLineRepository {
	if err := db.EnsureIndex("locked_lines", lockedLineIndex()); err != nil {
		logging.Errorf("Failed to create locked_lines index: %v", err)
	}
	return &MongoLineRepository{
		collection: db.GetCollection("locked_lines"),
	}
}

// Lock writes a line snapshot unless one already exists for the
// (league, game) key. Returns true if this call captured the snapshot.
func (r *MongoLineRepository) Lock(ctx context.Context, line *models.LockedLine) (bool, error) {
	filter := bson.M{
		"league_code": line.LeagueCode,
		"game_id":     line.GameID,
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to check existing locked line: %w", err)
	}
	if count > 0 {
		logging.Debugf("Locked line already exists for league %s game %d", line.LeagueCode, line.GameID)
		return false, nil
	}

	if _, err := r.collection.InsertOne(ctx, line); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost a race with another lock attempt; first writer wins.
			return false, nil
		}
		return false, fmt.Errorf("failed to insert locked line: %w", err)
	}

	logging.Infof("Locked line for league %s game %d (spread=%q total=%q)",
		line.LeagueCode, line.GameID, line.Spread, line.Total)
	return true, nil
}

// FindByLeagueWeek returns the league's locked lines for a season/week,
// keyed by game ID.
func (r *MongoLineRepository) FindByLeagueWeek(ctx context.Context, leagueCode string, season, week int) (map[int]*models.LockedLine, error) {
	filter := bson.M{
		"league_code": leagueCode,
		"season":      season,
		"week":        week,
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find locked lines: %w", err)
	}
	defer cursor.Close(ctx)

	var lines []*models.LockedLine
	if err := cursor.All(ctx, &lines); err != nil {
		return nil, fmt.Errorf("failed to decode locked lines: %w", err)
	}

	byGame := make(map[int]*models.LockedLine, len(lines))
	for _, line := range lines {
		byGame[line.GameID] = line
	}

	return byGame, nil
}

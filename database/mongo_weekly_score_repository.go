package database

import (
	"context"
	"fmt"
	"time"

	"pickem-app-go/logging"
	"pickem-app-go/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoWeeklyScoreRepository is the result cache: computed WeeklyScore
// records keyed by (user, league, week, season). Writes are full-document
// upserts with last-writer-wins semantics, which is safe because every run
// over the same finalized inputs computes the same record.
type MongoWeeklyScoreRepository struct {
	collection *mongo.Collection
}

// NewMongoWeeklyScoreRepository creates a new MongoDB weekly score repository
func NewMongoWeeklyScoreRepository(db *MongoDB) *MongoWeeklyScoreRepository {
	// One cached record per (user, league, season, week); concurrent upserts
	// for the same key must collapse onto one document.
	index := mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "league_code", Value: 1},
			{Key: "season", Value: 1},
			{Key: "week", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}
	if err := db.EnsureIndex("weekly_scores", index); err != nil {
		logging.Errorf("Failed to create weekly_scores index: %v", err)
	}

	return &MongoWeeklyScoreRepository{
		collection: db.GetCollection("weekly_scores"),
	}
}

// Find returns the cached record for one (user, league, season, week), or
// nil when no server-path run has written one yet.
func (r *MongoWeeklyScoreRepository) Find(ctx context.Context, userID int, leagueCode string, season, week int) (*models.WeeklyScore, error) {
	filter := bson.M{
		"user_id":     userID,
		"league_code": leagueCode,
		"season":      season,
		"week":        week,
	}

	var score models.WeeklyScore
	err := r.collection.FindOne(ctx, filter).Decode(&score)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find weekly score: %w", err)
	}

	return &score, nil
}

// FindByLeagueWeek returns all cached records for a league week, sorted by
// points descending (the weekly leaderboard order).
func (r *MongoWeeklyScoreRepository) FindByLeagueWeek(ctx context.Context, leagueCode string, season, week int) ([]*models.WeeklyScore, error) {
	filter := bson.M{
		"league_code": leagueCode,
		"season":      season,
		"week":        week,
	}

	opts := options.Find().SetSort(bson.D{{Key: "points", Value: -1}, {Key: "user_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find weekly scores: %w", err)
	}
	defer cursor.Close(ctx)

	var scores []*models.WeeklyScore
	if err := cursor.All(ctx, &scores); err != nil {
		return nil, fmt.Errorf("failed to decode weekly scores: %w", err)
	}

	return scores, nil
}

// Upsert replaces the cached record for the score's key. Always a full
// recomputation write, never a partial update.
func (r *MongoWeeklyScoreRepository) Upsert(ctx context.Context, score *models.WeeklyScore) error {
	filter := bson.M{
		"user_id":     score.UserID,
		"league_code": score.LeagueCode,
		"season":      score.Season,
		"week":        score.Week,
	}

	update := bson.M{
		"$set": bson.M{
			"points":           score.Points,
			"winner_correct":   score.WinnerCorrect,
			"winner_incorrect": score.WinnerIncorrect,
			"winner_push":      score.WinnerPush,
			"spread_correct":   score.SpreadCorrect,
			"spread_incorrect": score.SpreadIncorrect,
			"spread_push":      score.SpreadPush,
			"total_correct":    score.TotalCorrect,
			"total_incorrect":  score.TotalIncorrect,
			"total_push":       score.TotalPush,
			"games_picked":     score.GamesPicked,
			"games_graded":     score.GamesGraded,
			"is_complete":      score.IsComplete,
			"weights":          score.Weights,
			"computed_at":      score.ComputedAt,
		},
		"$setOnInsert": bson.M{
			"user_id":     score.UserID,
			"league_code": score.LeagueCode,
			"season":      score.Season,
			"week":        score.Week,
		},
	}

	opts := options.Update().SetUpsert(true)
	result, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert weekly score: %w", err)
	}

	if result.UpsertedID != nil {
		if oid, ok := result.UpsertedID.(primitive.ObjectID); ok {
			score.ID = oid.Hex()
		}
	}

	logging.Debugf("Upserted weekly score for user %d league %s season %d week %d: %.1f points",
		score.UserID, score.LeagueCode, score.Season, score.Week, score.Points)

	return nil
}

// GetSeasonLeaderboard aggregates cached weekly scores into season standings
// for a league, ordered by total points.
func (r *MongoWeeklyScoreRepository) GetSeasonLeaderboard(ctx context.Context, leagueCode string, season int) ([]*models.SeasonScore, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "league_code", Value: leagueCode},
			{Key: "season", Value: season},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$user_id"},
			{Key: "total_points", Value: bson.D{{Key: "$sum", Value: "$points"}}},
			{Key: "weeks", Value: bson.D{{Key: "$addToSet", Value: "$week"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "total_points", Value: -1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to get season leaderboard: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID          int     `bson:"_id"`
		TotalPoints float64 `bson:"total_points"`
		Weeks       []int   `bson:"weeks"`
	}

	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode leaderboard results: %w", err)
	}

	standings := make([]*models.SeasonScore, len(rows))
	for i, row := range rows {
		standings[i] = &models.SeasonScore{
			UserID:      row.ID,
			LeagueCode:  leagueCode,
			Season:      season,
			TotalPoints: row.TotalPoints,
			WeeksScored: len(row.Weeks),
			UpdatedAt:   time.Now(),
		}
	}

	return standings, nil
}

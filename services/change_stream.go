package services

import (
	"context"
	"time"

	"pickem-app-go/database"
	"pickem-app-go/logging"
	"pickem-app-go/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GameFinalWatcher watches the games collection through a MongoDB change
// stream and invokes the scoring orchestrator when a game's state reaches
// final. This is the primary server-path trigger; the feed updater's own
// finalization detection backs it up when the stream is down.
type GameFinalWatcher struct {
	db      *database.MongoDB
	onFinal GameFinalHandler
	logger  *logging.Logger
	restart chan bool
}

// NewGameFinalWatcher creates a new change stream watcher
func NewGameFinalWatcher(db *database.MongoDB, onFinal GameFinalHandler) *GameFinalWatcher {
	return &GameFinalWatcher{
		db:      db,
		onFinal: onFinal,
		logger:  logging.WithPrefix("ChangeStream"),
		restart: make(chan bool, 1),
	}
}

// ForceRestart forces the change stream to reconnect.
func (w *GameFinalWatcher) ForceRestart() {
	select {
	case w.restart <- true:
		w.logger.Info("Force restart requested")
	default:
		// Restart already pending.
	}
}

// StartWatching begins watching the games collection in the background.
func (w *GameFinalWatcher) StartWatching() {
	go w.watchGames()
}

func (w *GameFinalWatcher) watchGames() {
	w.logger.Info("Starting to watch games collection for finalizations")

	collection := w.db.GetCollection("games")

	// Only state changes and inserts matter; score-only updates during play
	// never finalize a game on their own.
	pipeline := mongo.Pipeline{
		{
			{Key: "$match", Value: bson.M{
				"$or": []bson.M{
					{"operationType": "insert"},
					{
						"operationType":                         "update",
						"updateDescription.updatedFields.state": bson.M{"$exists": true},
					},
				},
			}},
		},
	}

	for {
		ctx := context.Background()

		opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
		changeStream, err := collection.Watch(ctx, pipeline, opts)
		if err != nil {
			w.logger.Errorf("Error creating change stream: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		w.logger.Info("Connected to games change stream")

		w.consume(ctx, changeStream)
		changeStream.Close(ctx)

		select {
		case <-w.restart:
			w.logger.Info("Restarting change stream")
		default:
		}
		time.Sleep(time.Second)
	}
}

func (w *GameFinalWatcher) consume(ctx context.Context, changeStream *mongo.ChangeStream) {
	for changeStream.Next(ctx) {
		var event struct {
			OperationType string            `bson:"operationType"`
			FullDocument  models.GameResult `bson:"fullDocument"`
		}
		if err := changeStream.Decode(&event); err != nil {
			w.logger.Errorf("Failed to decode change event: %v", err)
			continue
		}

		game := event.FullDocument
		if !game.IsFinal() {
			continue
		}

		w.logger.Infof("Change stream saw game %d reach final state", game.ID)
		if err := w.onFinal.HandleGameFinal(ctx, &game); err != nil {
			// Scoring retries on the next finalization for the week.
			w.logger.Errorf("Scoring for finalized game %d failed: %v", game.ID, err)
		}
	}

	if err := changeStream.Err(); err != nil {
		w.logger.Errorf("Change stream error, reconnecting: %v", err)
	}
}

package services

import (
	"context"
	"sync"
	"time"

	"pickem-app-go/logging"
	"pickem-app-go/models"
)

// FeedResultWriter persists feed snapshots and reports first transitions to
// final. Implemented by database.MongoResultRepository.
type FeedResultWriter interface {
	UpsertFromFeed(ctx context.Context, game *models.GameResult) (becameFinal bool, err error)
}

// GameFinalHandler receives games that just finalized. Implemented by the
// scoring orchestrator's server path.
type GameFinalHandler interface {
	HandleGameFinal(ctx context.Context, game *models.GameResult) error
}

// FeedUpdater polls the score feed on an interval, writes results, and hands
// newly finalized games to the scoring orchestrator. It complements the
// change-stream trigger: either mechanism alone is enough to get the week
// rescored, together they cover a dropped stream or a missed poll.
type FeedUpdater struct {
	feed         *ScoreFeedService
	results      FeedResultWriter
	onFinal      GameFinalHandler
	locker       *LineLockService
	season       int
	pollInterval time.Duration
	currentWeek  func(time.Time) int
	logger       *logging.Logger

	mu       sync.Mutex // guards running and stopChan
	running  bool
	stopChan chan struct{}
}

// NewFeedUpdater creates a new background feed updater
func NewFeedUpdater(feed *ScoreFeedService, results FeedResultWriter, onFinal GameFinalHandler, season int, pollInterval time.Duration) *FeedUpdater {
	return &FeedUpdater{
		feed:         feed,
		results:      results,
		onFinal:      onFinal,
		season:       season,
		pollInterval: pollInterval,
		currentWeek:  nflWeekOf,
		logger:       logging.WithPrefix("FeedUpdater"),
	}
}

// WithLineLock attaches a line lock pass to every poll. Snapshots are
// captured before results are stored so a game finalizing on the same poll
// grades against the lines that were live when its lock window opened.
func (u *FeedUpdater) WithLineLock(locker *LineLockService) *FeedUpdater {
	u.locker = locker
	return u
}

// Start begins the background polling loop. Safe to call from multiple
// goroutines; only the first call launches the loop.
func (u *FeedUpdater) Start() {
	u.mu.Lock()
	if u.running {
		u.mu.Unlock()
		u.logger.Warn("Already running")
		return
	}
	u.running = true
	u.stopChan = make(chan struct{})
	stop := u.stopChan
	u.mu.Unlock()
	u.logger.Infof("Starting feed polling every %v", u.pollInterval)

	go func() {
		ticker := time.NewTicker(u.pollInterval)
		defer ticker.Stop()

		u.pollOnce()
		for {
			select {
			case <-ticker.C:
				u.pollOnce()
			case <-stop:
				u.logger.Info("Stopping feed polling")
				return
			}
		}
	}()
}

// Stop halts the polling loop. Repeat calls are no-ops.
func (u *FeedUpdater) Stop() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.running {
		return
	}
	u.running = false
	close(u.stopChan)
}

func (u *FeedUpdater) pollOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	week := u.currentWeek(time.Now())
	games, err := u.feed.FetchWeek(ctx, u.season, week)
	if err != nil {
		u.logger.Warnf("Feed poll failed: %v", err)
		return
	}

	if u.locker != nil {
		u.locker.CaptureWeek(ctx, u.season, games)
	}

	finalized := 0
	for _, game := range games {
		becameFinal, err := u.results.UpsertFromFeed(ctx, game)
		if err != nil {
			u.logger.Errorf("Failed to store game %d: %v", game.ID, err)
			continue
		}
		if !becameFinal {
			continue
		}
		finalized++
		// Scoring failures do not block result ingestion; the change
		// stream (or the next finalization in the week) retries.
		if err := u.onFinal.HandleGameFinal(ctx, game); err != nil {
			u.logger.Errorf("Scoring after game %d finalized failed: %v", game.ID, err)
		}
	}

	if finalized > 0 {
		u.logger.Infof("Poll stored %d games, %d newly final", len(games), finalized)
	}
}

// nflWeekOf maps a wall-clock time to an NFL regular-season week. Week 1
// starts the Thursday after Labor Day; clamp to [1, 18].
func nflWeekOf(t time.Time) int {
	seasonStart := time.Date(t.Year(), time.September, 1, 0, 0, 0, 0, time.UTC)
	for seasonStart.Weekday() != time.Monday {
		seasonStart = seasonStart.AddDate(0, 0, 1)
	}
	seasonStart = seasonStart.AddDate(0, 0, 3) // first Thursday after Labor Day

	if t.Before(seasonStart) {
		return 1
	}
	week := int(t.Sub(seasonStart).Hours()/(24*7)) + 1
	if week < 1 {
		return 1
	}
	if week > 18 {
		return 18
	}
	return week
}

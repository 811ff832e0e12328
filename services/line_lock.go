package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"pickem-app-go/logging"
	"pickem-app-go/models"
)

// LeagueSource lists the leagues whose lines the lock pass maintains.
// Implemented by database.MongoLeagueRepository.
type LeagueSource interface {
	FindBySeason(ctx context.Context, season int) ([]*models.League, error)
}

// LineWriter captures line snapshots, first writer wins. Implemented by
// database.MongoLineRepository.
type LineWriter interface {
	Lock(ctx context.Context, line *models.LockedLine) (bool, error)
}

// LineLockService snapshots betting lines per league once a game enters the
// league's lock window (LockOffsetMins minutes before kickoff). It runs on
// every feed poll; the repository's first-lock-wins insert makes repeat runs
// no-ops, so a snapshot never moves after capture even when the feed's odds
// keep drifting.
type LineLockService struct {
	leagues LeagueSource
	lines   LineWriter
	logger  *logging.Logger
	now     func() time.Time
}

// NewLineLockService creates a new line lock service
func NewLineLockService(leagues LeagueSource, lines LineWriter) *LineLockService {
	return &LineLockService{
		leagues: leagues,
		lines:   lines,
		logger:  logging.WithPrefix("LineLock"),
		now:     time.Now,
	}
}

// CaptureWeek locks lines for every (league, game) pair whose lock window has
// opened. Games the feed carries no odds for are skipped; grading falls back
// to the numeric lines on the finalized result.
func (s *LineLockService) CaptureWeek(ctx context.Context, season int, games []*models.GameResult) {
	leagues, err := s.leagues.FindBySeason(ctx, season)
	if err != nil {
		s.logger.Errorf("Failed to load leagues for season %d: %v", season, err)
		return
	}
	if len(leagues) == 0 {
		return
	}

	now := s.now()
	captured := 0
	for _, game := range games {
		if game.SpreadLine == nil && game.TotalLine == nil {
			continue
		}
		for _, league := range leagues {
			if !lockWindowOpen(league, game, now) {
				continue
			}
			line := &models.LockedLine{
				LeagueCode: league.Code,
				GameID:     game.ID,
				Season:     game.Season,
				Week:       game.Week,
				Spread:     spreadDescriptor(game),
				Total:      totalDescriptor(game),
				LockedAt:   now,
			}
			won, err := s.lines.Lock(ctx, line)
			if err != nil {
				s.logger.Errorf("Failed to lock line for league %s game %d: %v", league.Code, game.ID, err)
				continue
			}
			if won {
				captured++
			}
		}
	}

	if captured > 0 {
		s.logger.Infof("Captured %d line snapshots for season %d", captured, season)
	}
}

// lockWindowOpen reports whether the league's lock time for the game has
// passed. A game with no kickoff date locks as soon as odds arrive.
func lockWindowOpen(league *models.League, game *models.GameResult, now time.Time) bool {
	if game.Date.IsZero() {
		return true
	}
	lockAt := game.Date.Add(-time.Duration(league.LockOffsetMins) * time.Minute)
	return !now.Before(lockAt)
}

// spreadDescriptor renders the home-perspective numeric spread in the
// favorite-relative token form the normalizer parses, e.g. "KC -3.5".
func spreadDescriptor(game *models.GameResult) string {
	if game.SpreadLine == nil {
		return ""
	}
	v := *game.SpreadLine
	switch {
	case v < 0:
		return fmt.Sprintf("%s %s", game.Home, formatLine(v))
	case v > 0:
		return fmt.Sprintf("%s -%s", game.Away, formatLine(v))
	default:
		return game.Home + " 0"
	}
}

func totalDescriptor(game *models.GameResult) string {
	if game.TotalLine == nil {
		return ""
	}
	return formatLine(*game.TotalLine)
}

func formatLine(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

package services

import (
	"context"
	"fmt"
	"time"

	"pickem-app-go/logging"
	"pickem-app-go/models"
	"pickem-app-go/scoring"
)

// Store interfaces the orchestrator needs. The Mongo repositories satisfy
// them; tests use in-memory fakes.

// LeagueStore looks up league configuration.
type LeagueStore interface {
	FindByCode(ctx context.Context, code string) (*models.League, error)
	FindByCodes(ctx context.Context, codes []string) ([]*models.League, error)
}

// PickStore reads picks. The orchestrator never writes picks.
type PickStore interface {
	FindByLeagueWeek(ctx context.Context, leagueCode string, season, week int) ([]models.Pick, error)
	FindByGame(ctx context.Context, gameID int) ([]models.Pick, error)
}

// LineStore reads locked line snapshots.
type LineStore interface {
	FindByLeagueWeek(ctx context.Context, leagueCode string, season, week int) (map[int]*models.LockedLine, error)
}

// ResultStore reads game results.
type ResultStore interface {
	FindByWeek(ctx context.Context, season, week int) (map[int]*models.GameResult, error)
}

// ScoreCache is the weekly-score result cache.
type ScoreCache interface {
	Find(ctx context.Context, userID int, leagueCode string, season, week int) (*models.WeeklyScore, error)
	Upsert(ctx context.Context, score *models.WeeklyScore) error
}

// ScoringOrchestrator runs the weekly aggregation in both of its execution
// contexts. The server path (HandleGameFinal) is triggered by game
// finalization and writes the result cache; the client path
// (ComputeWeeklyScore) serves reads, falling back to a local run of the same
// scoring.Aggregate when the cache has no record. Both paths call the one
// shared scoring package, which is the whole consistency story: there is no
// second implementation to drift.
type ScoringOrchestrator struct {
	leagueStore LeagueStore
	pickStore   PickStore
	lineStore   LineStore
	resultStore ResultStore
	scoreCache  ScoreCache
	logger      *logging.Logger
	now         func() time.Time
}

// NewScoringOrchestrator creates a new scoring orchestrator
func NewScoringOrchestrator(leagues LeagueStore, picks PickStore, lines LineStore, results ResultStore, cache ScoreCache) *ScoringOrchestrator {
	return &ScoringOrchestrator{
		leagueStore: leagues,
		pickStore:   picks,
		lineStore:   lines,
		resultStore: results,
		scoreCache:  cache,
		logger:      logging.WithPrefix("Scoring"),
		now:         time.Now,
	}
}

// HandleGameFinal is the server path trigger. For every league containing at
// least one pick on the finalized game it recomputes the week for every
// member and upserts the result cache. Recomputation is full-replace, so
// concurrent triggers for the same week (several games finalizing within
// seconds) are idempotent: the last write carries the same totals any of
// them computed from the same finalized inputs.
//
// A cache write failure for one user never blocks the rest; it is logged and
// the record is repaired by the next finalization trigger for the week.
func (s *ScoringOrchestrator) HandleGameFinal(ctx context.Context, game *models.GameResult) error {
	if game == nil || !game.IsFinal() {
		return fmt.Errorf("game is not final")
	}

	s.logger.Infof("Game %d final: %s %d-%d, recomputing affected leagues",
		game.ID, game.Description(), game.AwayScore, game.HomeScore)

	picks, err := s.pickStore.FindByGame(ctx, game.ID)
	if err != nil {
		return fmt.Errorf("failed to load picks for game %d: %w", game.ID, err)
	}
	if len(picks) == 0 {
		s.logger.Debugf("No picks reference game %d", game.ID)
		return nil
	}

	codes := distinctLeagueCodes(picks)
	leagues, err := s.leagueStore.FindByCodes(ctx, codes)
	if err != nil {
		return fmt.Errorf("failed to load leagues %v: %w", codes, err)
	}

	var firstErr error
	for _, league := range leagues {
		if err := s.RecalculateLeagueWeek(ctx, league, game.Season, game.Week); err != nil {
			s.logger.Errorf("Failed to recalculate league %s week %d: %v", league.Code, game.Week, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// RecalculateLeagueWeek recomputes and caches the weekly score of every
// member of one league for one week. Safe to run repeatedly.
func (s *ScoringOrchestrator) RecalculateLeagueWeek(ctx context.Context, league *models.League, season, week int) error {
	inputs, err := s.loadWeekInputs(ctx, league, season, week)
	if err != nil {
		return err
	}

	userIDs := league.MemberIDs
	if len(userIDs) == 0 {
		userIDs = distinctUserIDs(inputs.Picks)
	}

	for _, userID := range userIDs {
		score := scoring.Aggregate(inputs, userID, s.now())
		if err := s.scoreCache.Upsert(ctx, score); err != nil {
			// Do not block the remaining members; the next finalization
			// event retries this key.
			s.logger.Errorf("Failed to cache score for user %d league %s week %d: %v",
				userID, league.Code, week, err)
			continue
		}
	}

	s.logger.Infof("Recalculated league %s season %d week %d for %d users",
		league.Code, season, week, len(userIDs))
	return nil
}

// ComputeWeeklyScore is the read path. It returns the cached record when the
// server path has written one; otherwise it runs the client fallback: the
// identical aggregation over whatever picks, results, and lines are
// available right now. Missing inputs produce a best-effort record with
// IsComplete=false rather than an error or a wait.
func (s *ScoringOrchestrator) ComputeWeeklyScore(ctx context.Context, userID int, leagueCode string, season, week int) (*models.WeeklyScore, error) {
	cached, err := s.scoreCache.Find(ctx, userID, leagueCode, season, week)
	if err != nil {
		s.logger.Warnf("Result cache read failed for user %d league %s: %v", userID, leagueCode, err)
	}
	if cached != nil {
		return cached, nil
	}

	return s.ComputeLocal(ctx, userID, leagueCode, season, week)
}

// ComputeLocal runs the client-path computation unconditionally, bypassing
// the cache. Exposed separately so screens can show a fresher view than a
// cache record written before the latest finalization.
func (s *ScoringOrchestrator) ComputeLocal(ctx context.Context, userID int, leagueCode string, season, week int) (*models.WeeklyScore, error) {
	league, err := s.leagueStore.FindByCode(ctx, leagueCode)
	if err != nil {
		return nil, fmt.Errorf("failed to load league %s: %w", leagueCode, err)
	}
	if league == nil {
		return nil, fmt.Errorf("league %s not found", leagueCode)
	}

	inputs, err := s.loadWeekInputs(ctx, league, season, week)
	if err != nil {
		return nil, err
	}

	return scoring.Aggregate(inputs, userID, s.now()), nil
}

func (s *ScoringOrchestrator) loadWeekInputs(ctx context.Context, league *models.League, season, week int) (scoring.WeekInputs, error) {
	inputs := scoring.WeekInputs{
		League: league,
		Season: season,
		Week:   week,
	}

	picks, err := s.pickStore.FindByLeagueWeek(ctx, league.Code, season, week)
	if err != nil {
		return inputs, fmt.Errorf("failed to load picks for league %s week %d: %w", league.Code, week, err)
	}
	inputs.Picks = picks

	results, err := s.resultStore.FindByWeek(ctx, season, week)
	if err != nil {
		return inputs, fmt.Errorf("failed to load results for week %d: %w", week, err)
	}
	inputs.Results = results

	lines, err := s.lineStore.FindByLeagueWeek(ctx, league.Code, season, week)
	if err != nil {
		// Missing lines degrade to ungraded dimensions, not a failed run.
		s.logger.Warnf("Failed to load locked lines for league %s week %d: %v", league.Code, week, err)
		lines = map[int]*models.LockedLine{}
	}
	inputs.Lines = lines

	return inputs, nil
}

func distinctLeagueCodes(picks []models.Pick) []string {
	seen := make(map[string]bool)
	var codes []string
	for _, pick := range picks {
		if !seen[pick.LeagueCode] {
			seen[pick.LeagueCode] = true
			codes = append(codes, pick.LeagueCode)
		}
	}
	return codes
}

func distinctUserIDs(picks []models.Pick) []int {
	seen := make(map[int]bool)
	var ids []int
	for _, pick := range picks {
		if !seen[pick.UserID] {
			seen[pick.UserID] = true
			ids = append(ids, pick.UserID)
		}
	}
	return ids
}

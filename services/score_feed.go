package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"pickem-app-go/logging"
	"pickem-app-go/models"
)

// ScoreFeedService pulls the league-wide scoreboard from the ESPN public API
// and converts it into GameResult records. It is the out-of-scope "game
// result feed" collaborator's client side: read-only, eventually consistent,
// and rate limited by its own limiter rather than a process-global one.
type ScoreFeedService struct {
	client  *http.Client
	baseURL string
	limiter *RateLimiter
	logger  *logging.Logger
}

// NewScoreFeedService creates a new score feed client
func NewScoreFeedService(limiter *RateLimiter, timeout time.Duration) *ScoreFeedService {
	return &ScoreFeedService{
		client:  &http.Client{Timeout: timeout},
		baseURL: "https://site.api.espn.com/apis/site/v2/sports/football/nfl/scoreboard",
		limiter: limiter,
		logger:  logging.WithPrefix("ScoreFeed"),
	}
}

// Feed response structures (the subset of the scoreboard payload we read)

type feedResponse struct {
	Events []feedEvent `json:"events"`
}

type feedEvent struct {
	ID           string            `json:"id"`
	Date         string            `json:"date"`
	Week         feedWeek          `json:"week"`
	Season       feedSeason        `json:"season"`
	Status       feedStatus        `json:"status"`
	Competitions []feedCompetition `json:"competitions"`
}

type feedSeason struct {
	Year int `json:"year"`
}

type feedWeek struct {
	Number int `json:"number"`
}

type feedStatus struct {
	Type feedStatusType `json:"type"`
}

type feedStatusType struct {
	Name      string `json:"name"`
	State     string `json:"state"`
	Completed bool   `json:"completed"`
}

type feedCompetition struct {
	Competitors []feedCompetitor `json:"competitors"`
	Odds        []feedOdds       `json:"odds,omitempty"`
}

type feedCompetitor struct {
	HomeAway string   `json:"homeAway"`
	Score    string   `json:"score"`
	Team     feedTeam `json:"team"`
}

type feedTeam struct {
	Abbreviation string `json:"abbreviation"`
}

type feedOdds struct {
	Spread    float64 `json:"spread"` // home-perspective, negative = home favored
	OverUnder float64 `json:"overUnder"`
}

// FetchWeek fetches the scoreboard for one season/week. Returns an error
// when the limiter rejects the call; callers retry on the next poll tick.
func (s *ScoreFeedService) FetchWeek(ctx context.Context, season, week int) ([]*models.GameResult, error) {
	if !s.limiter.Allow() {
		return nil, fmt.Errorf("feed rate limit reached, next call in %v", s.limiter.NextAllowed())
	}

	url := fmt.Sprintf("%s?seasontype=2&week=%d&dates=%d", s.baseURL, week, season)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var payload feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode feed response: %w", err)
	}

	results := make([]*models.GameResult, 0, len(payload.Events))
	for _, event := range payload.Events {
		game, err := s.convertEvent(event)
		if err != nil {
			s.logger.Warnf("Skipping unconvertible event %s: %v", event.ID, err)
			continue
		}
		results = append(results, game)
	}

	s.logger.Debugf("Fetched %d games for season %d week %d", len(results), season, week)
	return results, nil
}

func (s *ScoreFeedService) convertEvent(event feedEvent) (*models.GameResult, error) {
	id, err := strconv.Atoi(event.ID)
	if err != nil {
		return nil, fmt.Errorf("non-numeric event id %q", event.ID)
	}
	if len(event.Competitions) == 0 {
		return nil, fmt.Errorf("event %d has no competition data", id)
	}
	comp := event.Competitions[0]

	game := &models.GameResult{
		ID:     id,
		Season: event.Season.Year,
		Week:   event.Week.Number,
		State:  convertState(event.Status.Type),
	}

	if date, err := time.Parse(time.RFC3339, event.Date); err == nil {
		game.Date = date
	} else if date, err := time.Parse("2006-01-02T15:04Z", event.Date); err == nil {
		game.Date = date
	}

	for _, competitor := range comp.Competitors {
		score, _ := strconv.Atoi(competitor.Score)
		switch competitor.HomeAway {
		case "home":
			game.Home = competitor.Team.Abbreviation
			game.HomeScore = score
		case "away":
			game.Away = competitor.Team.Abbreviation
			game.AwayScore = score
		}
	}
	if game.Home == "" || game.Away == "" {
		return nil, fmt.Errorf("event %d missing home/away competitors", id)
	}

	if len(comp.Odds) > 0 {
		game.SetFallbackLines(comp.Odds[0].Spread, comp.Odds[0].OverUnder)
	}

	if game.IsFinal() {
		game.Winner = game.ComputeWinner()
		now := time.Now()
		game.FinalAt = &now
	}

	return game, nil
}

func convertState(status feedStatusType) models.GameState {
	if status.Completed {
		return models.GameStateFinal
	}
	switch status.State {
	case "in":
		return models.GameStateInPlay
	case "post":
		return models.GameStateFinal
	default:
		if status.Name == "STATUS_POSTPONED" {
			return models.GameStatePostponed
		}
		return models.GameStateScheduled
	}
}

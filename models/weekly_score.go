package models

import (
	"fmt"
	"time"
)

// WeeklyScore is the result-cache record: the computed aggregate for one
// (user, league, week, season). The server scoring path upserts it whenever a
// game finalizes; the UI reads it directly and falls back to a local
// computation when it is absent. Every write is a full recomputation and
// replace, never an incremental patch.
type WeeklyScore struct {
	ID         string `json:"id" bson:"_id,omitempty"`
	UserID     int    `json:"user_id" bson:"user_id"`
	LeagueCode string `json:"league_code" bson:"league_code"`
	Season     int    `json:"season" bson:"season"`
	Week       int    `json:"week" bson:"week"`

	Points float64 `json:"points" bson:"points"`

	WinnerCorrect   int `json:"winner_correct" bson:"winner_correct"`
	WinnerIncorrect int `json:"winner_incorrect" bson:"winner_incorrect"`
	WinnerPush      int `json:"winner_push" bson:"winner_push"`
	SpreadCorrect   int `json:"spread_correct" bson:"spread_correct"`
	SpreadIncorrect int `json:"spread_incorrect" bson:"spread_incorrect"`
	SpreadPush      int `json:"spread_push" bson:"spread_push"`
	TotalCorrect    int `json:"total_correct" bson:"total_correct"`
	TotalIncorrect  int `json:"total_incorrect" bson:"total_incorrect"`
	TotalPush       int `json:"total_push" bson:"total_push"`

	GamesPicked int `json:"games_picked" bson:"games_picked"`
	GamesGraded int `json:"games_graded" bson:"games_graded"`

	// IsComplete is true iff every picked game graded and every graded
	// pick's relevant line was resolvable.
	IsComplete bool `json:"is_complete" bson:"is_complete"`

	// Weights is a snapshot of the league weights used for this run, so a
	// cached record remains explainable after a league changes its scoring.
	Weights ScoringWeights `json:"weights" bson:"weights"`

	ComputedAt time.Time `json:"computed_at" bson:"computed_at"`
}

// Record returns the combined record in "W-L-P" format across dimensions.
func (ws *WeeklyScore) Record() string {
	wins := ws.WinnerCorrect + ws.SpreadCorrect + ws.TotalCorrect
	losses := ws.WinnerIncorrect + ws.SpreadIncorrect + ws.TotalIncorrect
	pushes := ws.WinnerPush + ws.SpreadPush + ws.TotalPush
	return fmt.Sprintf("%d-%d-%d", wins, losses, pushes)
}

// Equivalent reports whether two computed scores agree on everything except
// the exogenous fields (ID, ComputedAt). This is the dual-path agreement
// check: a server-path and client-path run over the same inputs must be
// Equivalent.
func (ws *WeeklyScore) Equivalent(other *WeeklyScore) bool {
	if other == nil {
		return false
	}
	a, b := *ws, *other
	a.ID, b.ID = "", ""
	a.ComputedAt, b.ComputedAt = time.Time{}, time.Time{}
	return a == b
}

// SeasonScore is a user's season standing derived from cached weekly scores.
type SeasonScore struct {
	UserID      int       `json:"user_id" bson:"user_id"`
	LeagueCode  string    `json:"league_code" bson:"league_code"`
	Season      int       `json:"season" bson:"season"`
	TotalPoints float64   `json:"total_points" bson:"total_points"`
	WeeksScored int       `json:"weeks_scored" bson:"weeks_scored"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

package models

import (
	"fmt"
	"strings"
	"time"
)

// WinnerTie is the winner token recorded when a finalized game ends level.
const WinnerTie = "TIE"

// GameState represents the current state of a game
type GameState string

const (
	GameStateScheduled GameState = "scheduled"
	GameStateInPlay    GameState = "in_play"
	GameStateFinal     GameState = "final"
	GameStatePostponed GameState = "postponed"
)

// GameResult is the authoritative outcome record for one game. It is written
// by the score feed and only usable for grading once Final is true. The
// optional fallback lines are home-perspective signed numbers used when a
// league has no locked line for the game.
type GameResult struct {
	ID         int        `bson:"id" json:"id"`
	Season     int        `bson:"season" json:"season"`
	Week       int        `bson:"week" json:"week"`
	Date       time.Time  `bson:"date" json:"date"`
	Home       string     `bson:"home" json:"home"`
	Away       string     `bson:"away" json:"away"`
	HomeScore  int        `bson:"home_score" json:"home_score"`
	AwayScore  int        `bson:"away_score" json:"away_score"`
	Winner     string     `bson:"winner,omitempty" json:"winner,omitempty"` // home token, away token, or "TIE"
	State      GameState  `bson:"state" json:"state"`
	SpreadLine *float64   `bson:"spread_line,omitempty" json:"spread_line,omitempty"` // fallback, negative = home favored
	TotalLine  *float64   `bson:"total_line,omitempty" json:"total_line,omitempty"`   // fallback over/under
	FinalAt    *time.Time `bson:"final_at,omitempty" json:"final_at,omitempty"`
}

// IsFinal returns true if the game has a usable finalized outcome.
func (g *GameResult) IsFinal() bool {
	return g.State == GameStateFinal
}

// Margin returns home score minus away score.
func (g *GameResult) Margin() int {
	return g.HomeScore - g.AwayScore
}

// CombinedScore returns the sum of both teams' points.
func (g *GameResult) CombinedScore() int {
	return g.HomeScore + g.AwayScore
}

// ComputeWinner derives the winner token from the scores. The feed normally
// sets Winner directly; this covers feeds that only deliver scores.
func (g *GameResult) ComputeWinner() string {
	switch {
	case g.HomeScore > g.AwayScore:
		return g.Home
	case g.AwayScore > g.HomeScore:
		return g.Away
	default:
		return WinnerTie
	}
}

// IsHomeToken reports whether token names the home team (case-insensitive).
func (g *GameResult) IsHomeToken(token string) bool {
	return strings.EqualFold(token, g.Home)
}

// IsAwayToken reports whether token names the away team (case-insensitive).
func (g *GameResult) IsAwayToken(token string) bool {
	return strings.EqualFold(token, g.Away)
}

// Description returns a short "AWY @ HOM" label for logs.
func (g *GameResult) Description() string {
	return fmt.Sprintf("%s @ %s", g.Away, g.Home)
}

// SetFallbackLines records the feed's numeric lines, rounded to the nearest
// half point the way sportsbooks publish them.
func (g *GameResult) SetFallbackLines(spread, total float64) {
	s := roundToHalf(spread)
	t := roundToHalf(total)
	g.SpreadLine = &s
	g.TotalLine = &t
}

// roundToHalf rounds a float to the nearest 0.5 increment
func roundToHalf(val float64) float64 {
	if val < 0 {
		return -float64(int(-val*2+0.5)) / 2
	}
	return float64(int(val*2+0.5)) / 2
}

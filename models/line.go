package models

import "time"

// LockedLine is the betting line snapshot captured for one game in one league
// at the league's lock offset before kickoff. All members of the league grade
// against the same snapshot. Once written it is never overwritten
// (first-lock-wins, enforced by the repository insert).
//
// Spread and Total are the raw descriptor strings as captured from the odds
// feed (e.g. "KC -3.5", "47.5"). Empty or "N/A" means the feed had no line
// at lock time; grading then falls back to the result's numeric lines.
type LockedLine struct {
	LeagueCode string    `bson:"league_code" json:"league_code"`
	GameID     int       `bson:"game_id" json:"game_id"`
	Season     int       `bson:"season" json:"season"`
	Week       int       `bson:"week" json:"week"`
	Spread     string    `bson:"spread,omitempty" json:"spread,omitempty"`
	Total      string    `bson:"total,omitempty" json:"total,omitempty"`
	LockedAt   time.Time `bson:"locked_at" json:"locked_at"`
}

// HasSpread returns true if a spread descriptor was captured.
func (l *LockedLine) HasSpread() bool {
	return l != nil && l.Spread != "" && l.Spread != "N/A"
}

// HasTotal returns true if a total descriptor was captured.
func (l *LockedLine) HasTotal() bool {
	return l != nil && l.Total != "" && l.Total != "N/A"
}

package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TotalDirection is the side of an over/under pick
type TotalDirection string

const (
	TotalOver  TotalDirection = "over"
	TotalUnder TotalDirection = "under"
)

// NormalizeTotalDirection coerces common aliases ("O"/"U", mixed case) to the
// canonical direction. Returns false if the value is not recognizable.
func NormalizeTotalDirection(raw string) (TotalDirection, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "over", "o":
		return TotalOver, true
	case "under", "u":
		return TotalUnder, true
	}
	return "", false
}

// Pick represents one user's prediction for one game within one league/week.
// A pick is uniquely identified by (league_code, user_id, game_id). Each of
// the three dimensions (winner/spread/total) is independently optional; an
// empty string means the dimension is not picked.
type Pick struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LeagueCode string             `bson:"league_code" json:"league_code"`
	UserID     int                `bson:"user_id" json:"user_id"`
	GameID     int                `bson:"game_id" json:"game_id"`
	Season     int                `bson:"season" json:"season"`
	Week       int                `bson:"week" json:"week"`
	Winner     string             `bson:"winner,omitempty" json:"winner,omitempty"` // team token (moneyline)
	Spread     string             `bson:"spread,omitempty" json:"spread,omitempty"` // team token (against the spread)
	Total      string             `bson:"total,omitempty" json:"total,omitempty"`   // "over" or "under"
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	EditedAt   *time.Time         `bson:"edited_at,omitempty" json:"edited_at,omitempty"`
}

// Key returns the unique identity of the pick within a season.
func (p *Pick) Key() string {
	return fmt.Sprintf("%s:%d:%d", p.LeagueCode, p.UserID, p.GameID)
}

// HasAnySelection returns true if at least one dimension is picked.
func (p *Pick) HasAnySelection() bool {
	return p.Winner != "" || p.Spread != "" || p.Total != ""
}

// ToggleWinner applies tap semantics to the winner dimension: selecting the
// value already held clears it, anything else replaces it.
func (p *Pick) ToggleWinner(token string, now time.Time) {
	p.Winner = toggle(p.Winner, token)
	p.touch(now)
}

// ToggleSpread applies tap semantics to the spread dimension.
func (p *Pick) ToggleSpread(token string, now time.Time) {
	p.Spread = toggle(p.Spread, token)
	p.touch(now)
}

// ToggleTotal applies tap semantics to the total dimension. Unrecognizable
// directions are ignored rather than stored.
func (p *Pick) ToggleTotal(direction string, now time.Time) {
	dir, ok := NormalizeTotalDirection(direction)
	if !ok {
		return
	}
	p.Total = toggle(p.Total, string(dir))
	p.touch(now)
}

func toggle(current, next string) string {
	if strings.EqualFold(current, next) {
		return ""
	}
	return next
}

func (p *Pick) touch(now time.Time) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
		return
	}
	t := now
	p.EditedAt = &t
}

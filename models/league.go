package models

import "time"

// LeagueType controls which pick dimensions score points.
type LeagueType string

const (
	// LeagueTypeStandard scores winner, spread, and total picks.
	LeagueTypeStandard LeagueType = "standard"
	// LeagueTypeWinnerOnly scores winner picks only; spread/total weights
	// are forced to zero regardless of what is stored.
	LeagueTypeWinnerOnly LeagueType = "winner_only"
)

// ScoringWeights is the per-league point value of a correct pick in each
// dimension. Weights are non-negative.
type ScoringWeights struct {
	Winner float64 `bson:"winner" json:"winner"`
	Spread float64 `bson:"spread" json:"spread"`
	Total  float64 `bson:"total" json:"total"`
}

// DefaultScoringWeights awards one point per correct pick in any dimension.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{Winner: 1, Spread: 1, Total: 1}
}

// League holds the configuration the scoring core needs for one league.
// Membership, invitations, and chat live in the excluded league service.
type League struct {
	Code           string         `bson:"code" json:"code"`
	Name           string         `bson:"name" json:"name"`
	Type           LeagueType     `bson:"type" json:"type"`
	Season         int            `bson:"season" json:"season"`
	Weights        ScoringWeights `bson:"weights" json:"weights"`
	MemberIDs      []int          `bson:"member_ids" json:"member_ids"`
	LockOffsetMins int            `bson:"lock_offset_mins" json:"lock_offset_mins"` // minutes before kickoff lines lock
	CreatedAt      time.Time      `bson:"created_at" json:"created_at"`
}

// EffectiveWeights returns the weights that actually apply given the league
// type. Winner-only leagues zero out spread and total no matter what the
// stored weights say, so a misconfigured league cannot award points for
// dimensions its members never see.
func (l *League) EffectiveWeights() ScoringWeights {
	w := l.Weights
	if l.Type == LeagueTypeWinnerOnly {
		w.Spread = 0
		w.Total = 0
	}
	return w
}

// HasMember reports whether userID belongs to the league.
func (l *League) HasMember(userID int) bool {
	for _, id := range l.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

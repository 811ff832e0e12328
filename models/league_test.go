package models

import "testing"

func TestLeague_EffectiveWeights(t *testing.T) {
	t.Parallel()

	league := &League{
		Code:    "ALPHA",
		Type:    LeagueTypeStandard,
		Weights: ScoringWeights{Winner: 1, Spread: 2, Total: 3},
	}

	if got := league.EffectiveWeights(); got != league.Weights {
		t.Fatalf("standard league weights = %+v, want %+v", got, league.Weights)
	}

	league.Type = LeagueTypeWinnerOnly
	got := league.EffectiveWeights()
	if got.Winner != 1 || got.Spread != 0 || got.Total != 0 {
		t.Fatalf("winner-only weights = %+v, want spread/total zeroed", got)
	}
}

func TestGameResult_ComputeWinner(t *testing.T) {
	t.Parallel()

	game := &GameResult{Home: "KC", Away: "LV", HomeScore: 27, AwayScore: 20}
	if got := game.ComputeWinner(); got != "KC" {
		t.Fatalf("winner = %q, want KC", got)
	}

	game.AwayScore = 30
	if got := game.ComputeWinner(); got != "LV" {
		t.Fatalf("winner = %q, want LV", got)
	}

	game.AwayScore = 27
	if got := game.ComputeWinner(); got != WinnerTie {
		t.Fatalf("winner = %q, want %q", got, WinnerTie)
	}
}

func TestGameResult_SetFallbackLines(t *testing.T) {
	t.Parallel()

	game := &GameResult{}
	game.SetFallbackLines(-3.7, 47.3)

	if game.SpreadLine == nil || *game.SpreadLine != -3.5 {
		t.Fatalf("spread line = %v, want -3.5", game.SpreadLine)
	}
	if game.TotalLine == nil || *game.TotalLine != 47.5 {
		t.Fatalf("total line = %v, want 47.5", game.TotalLine)
	}
}

func TestWeeklyScore_Equivalent(t *testing.T) {
	t.Parallel()

	a := &WeeklyScore{UserID: 1, LeagueCode: "ALPHA", Week: 3, Points: 2, IsComplete: true}
	b := &WeeklyScore{UserID: 1, LeagueCode: "ALPHA", Week: 3, Points: 2, IsComplete: true, ID: "abc"}

	if !a.Equivalent(b) {
		t.Fatal("records differing only in exogenous fields must be equivalent")
	}

	b.Points = 3
	if a.Equivalent(b) {
		t.Fatal("records with different points must not be equivalent")
	}
	if a.Equivalent(nil) {
		t.Fatal("nil is never equivalent")
	}
}

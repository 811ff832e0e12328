package scoring

import (
	"testing"
	"time"

	"pickem-app-go/models"
)

var testNow = time.Date(2025, 9, 8, 9, 0, 0, 0, time.UTC)

func standardLeague() *models.League {
	return &models.League{
		Code:      "ALPHA",
		Name:      "Alpha League",
		Type:      models.LeagueTypeStandard,
		Season:    2025,
		Weights:   models.ScoringWeights{Winner: 1, Spread: 2, Total: 1.5},
		MemberIDs: []int{1, 2},
	}
}

func weekOneInputs(league *models.League) WeekInputs {
	g1 := finalGame("KC", "LV", 27, 20)
	g1.ID = 1001
	g2 := finalGame("DET", "GB", 23, 20)
	g2.ID = 1002

	return WeekInputs{
		League: league,
		Season: 2025,
		Week:   1,
		Picks: []models.Pick{
			{LeagueCode: "ALPHA", UserID: 1, GameID: 1001, Season: 2025, Week: 1, Winner: "KC", Spread: "KC", Total: "under"},
			{LeagueCode: "ALPHA", UserID: 1, GameID: 1002, Season: 2025, Week: 1, Spread: "GB"},
			{LeagueCode: "ALPHA", UserID: 2, GameID: 1001, Season: 2025, Week: 1, Winner: "LV"},
		},
		Results: map[int]*models.GameResult{1001: g1, 1002: g2},
		Lines: map[int]*models.LockedLine{
			1001: {LeagueCode: "ALPHA", GameID: 1001, Spread: "KC -3.5", Total: "47.5"},
			1002: {LeagueCode: "ALPHA", GameID: 1002, Spread: "DET -3.5"},
		},
	}
}

func TestAggregate_StandardWeek(t *testing.T) {
	t.Parallel()

	league := standardLeague()
	ws := Aggregate(weekOneInputs(league), 1, testNow)

	// Game 1001: winner KC correct (+1), spread KC -3.5 with margin 7
	// correct (+2), total under 47.5 with combined 47 correct (+1.5).
	// Game 1002: spread GB against DET -3.5, margin 3, away covers (+2).
	if ws.Points != 6.5 {
		t.Fatalf("points = %v, want 6.5", ws.Points)
	}
	if ws.WinnerCorrect != 1 || ws.SpreadCorrect != 2 || ws.TotalCorrect != 1 {
		t.Fatalf("counters = winner %d spread %d total %d, want 1/2/1",
			ws.WinnerCorrect, ws.SpreadCorrect, ws.TotalCorrect)
	}
	if ws.GamesPicked != 2 || ws.GamesGraded != 2 {
		t.Fatalf("picked/graded = %d/%d, want 2/2", ws.GamesPicked, ws.GamesGraded)
	}
	if !ws.IsComplete {
		t.Fatal("expected complete score")
	}
	if ws.Weights != league.EffectiveWeights() {
		t.Fatalf("weights snapshot = %+v, want %+v", ws.Weights, league.EffectiveWeights())
	}
}

func TestAggregate_FiltersToUser(t *testing.T) {
	t.Parallel()

	ws := Aggregate(weekOneInputs(standardLeague()), 2, testNow)

	if ws.GamesPicked != 1 {
		t.Fatalf("games picked = %d, want 1", ws.GamesPicked)
	}
	if ws.WinnerIncorrect != 1 || ws.Points != 0 {
		t.Fatalf("user 2: winner incorrect = %d points = %v, want 1 and 0", ws.WinnerIncorrect, ws.Points)
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	t.Parallel()

	in := weekOneInputs(standardLeague())
	first := Aggregate(in, 1, testNow)
	for i := 0; i < 50; i++ {
		got := Aggregate(in, 1, testNow)
		if !got.Equivalent(first) {
			t.Fatalf("run %d: %+v != %+v", i, got, first)
		}
	}
}

func TestAggregate_NonFinalResultCountsPickedNotGraded(t *testing.T) {
	t.Parallel()

	in := weekOneInputs(standardLeague())
	in.Results[1002].State = models.GameStateInPlay

	ws := Aggregate(in, 1, testNow)
	if ws.GamesPicked != 2 || ws.GamesGraded != 1 {
		t.Fatalf("picked/graded = %d/%d, want 2/1", ws.GamesPicked, ws.GamesGraded)
	}
	if ws.IsComplete {
		t.Fatal("score with pending game must be incomplete")
	}
	// No counters for the pending game's pick.
	if ws.SpreadCorrect != 1 {
		t.Fatalf("spread correct = %d, want 1 (game 1001 only)", ws.SpreadCorrect)
	}
}

func TestAggregate_MissingResultCountsPickedNotGraded(t *testing.T) {
	t.Parallel()

	in := weekOneInputs(standardLeague())
	delete(in.Results, 1002)

	ws := Aggregate(in, 1, testNow)
	if ws.GamesPicked != 2 || ws.GamesGraded != 1 || ws.IsComplete {
		t.Fatalf("got picked=%d graded=%d complete=%t, want 2/1/false",
			ws.GamesPicked, ws.GamesGraded, ws.IsComplete)
	}
}

func TestAggregate_UngradeableLineTaintsCompleteness(t *testing.T) {
	t.Parallel()

	in := weekOneInputs(standardLeague())
	// Remove the locked line for 1002 and any fallback: the spread pick on
	// that game becomes ungradeable.
	delete(in.Lines, 1002)
	in.Results[1002].SpreadLine = nil

	ws := Aggregate(in, 1, testNow)
	if ws.IsComplete {
		t.Fatal("ungraded dimension must taint completeness")
	}
	if ws.GamesGraded != 1 {
		t.Fatalf("games graded = %d, want 1", ws.GamesGraded)
	}
	if ws.SpreadCorrect != 1 || ws.SpreadIncorrect != 0 {
		t.Fatalf("ungraded pick touched counters: correct=%d incorrect=%d", ws.SpreadCorrect, ws.SpreadIncorrect)
	}
}

func TestAggregate_WinnerOnlyLeagueZeroesOtherWeights(t *testing.T) {
	t.Parallel()

	league := standardLeague()
	league.Type = models.LeagueTypeWinnerOnly

	ws := Aggregate(weekOneInputs(league), 1, testNow)

	// Spread/total picks still grade and count, but contribute no points.
	if ws.SpreadCorrect != 2 || ws.TotalCorrect != 1 {
		t.Fatalf("counters = spread %d total %d, want 2/1", ws.SpreadCorrect, ws.TotalCorrect)
	}
	if ws.Points != 1 {
		t.Fatalf("points = %v, want 1 (winner weight only)", ws.Points)
	}
}

func TestAggregate_WeightScaling(t *testing.T) {
	t.Parallel()

	league := standardLeague()
	base := Aggregate(weekOneInputs(league), 1, testNow)

	doubled := standardLeague()
	doubled.Weights = models.ScoringWeights{Winner: 2, Spread: 4, Total: 3}
	scaled := Aggregate(weekOneInputs(doubled), 1, testNow)

	if scaled.Points != base.Points*2 {
		t.Fatalf("doubled weights: points = %v, want %v", scaled.Points, base.Points*2)
	}
}

func TestAggregate_CompletenessMonotonicity(t *testing.T) {
	t.Parallel()

	in := weekOneInputs(standardLeague())
	before := Aggregate(in, 1, testNow)
	if !before.IsComplete {
		t.Fatal("precondition: baseline must be complete")
	}

	// Add one more resolvable pick for the same user.
	g3 := finalGame("SF", "SEA", 21, 17)
	g3.ID = 1003
	in.Results[1003] = g3
	in.Lines[1003] = &models.LockedLine{LeagueCode: "ALPHA", GameID: 1003, Spread: "SF -3"}
	in.Picks = append(in.Picks, models.Pick{
		LeagueCode: "ALPHA", UserID: 1, GameID: 1003, Season: 2025, Week: 1, Spread: "SF",
	})

	after := Aggregate(in, 1, testNow)
	if after.GamesGraded < before.GamesGraded {
		t.Fatalf("games graded decreased: %d -> %d", before.GamesGraded, after.GamesGraded)
	}
	if !after.IsComplete {
		t.Fatal("adding a resolvable pick must not flip completeness")
	}
}

func TestAggregate_EmptySelectionsIgnored(t *testing.T) {
	t.Parallel()

	in := weekOneInputs(standardLeague())
	// A pick whose dimensions were all toggled off no longer counts.
	in.Picks = append(in.Picks, models.Pick{LeagueCode: "ALPHA", UserID: 1, GameID: 1001, Season: 2025, Week: 1})

	ws := Aggregate(in, 1, testNow)
	if ws.GamesPicked != 2 {
		t.Fatalf("games picked = %d, want 2", ws.GamesPicked)
	}
}

func TestAggregate_TieGamePushesWinnerPick(t *testing.T) {
	t.Parallel()

	tie := finalGame("KC", "LV", 20, 20)
	tie.ID = 1001
	in := WeekInputs{
		League: standardLeague(),
		Season: 2025,
		Week:   1,
		Picks: []models.Pick{
			{LeagueCode: "ALPHA", UserID: 1, GameID: 1001, Season: 2025, Week: 1, Winner: "KC"},
		},
		Results: map[int]*models.GameResult{1001: tie},
		Lines:   map[int]*models.LockedLine{},
	}

	ws := Aggregate(in, 1, testNow)
	if ws.WinnerPush != 1 || ws.Points != 0 {
		t.Fatalf("tie winner pick: push=%d points=%v, want 1 and 0", ws.WinnerPush, ws.Points)
	}
	if !ws.IsComplete || ws.GamesGraded != 1 {
		t.Fatalf("tie game should grade: complete=%t graded=%d", ws.IsComplete, ws.GamesGraded)
	}
}

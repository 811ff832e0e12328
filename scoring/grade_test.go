package scoring

import (
	"testing"

	"pickem-app-go/models"
)

func finalGame(home, away string, homeScore, awayScore int) *models.GameResult {
	g := &models.GameResult{
		ID:        401000001,
		Season:    2025,
		Week:      1,
		Home:      home,
		Away:      away,
		HomeScore: homeScore,
		AwayScore: awayScore,
		State:     models.GameStateFinal,
	}
	g.Winner = g.ComputeWinner()
	return g
}

func TestGradeWinner(t *testing.T) {
	t.Parallel()

	game := finalGame("KC", "LV", 27, 20)

	if got := GradeWinner("KC", game); got != OutcomeCorrect {
		t.Fatalf("picked winner: got %s, want correct", got)
	}
	if got := GradeWinner("LV", game); got != OutcomeIncorrect {
		t.Fatalf("picked loser: got %s, want incorrect", got)
	}
	if got := GradeWinner("kc", game); got != OutcomeCorrect {
		t.Fatalf("case-insensitive token: got %s, want correct", got)
	}
	// A token matching neither team can never be correct.
	if got := GradeWinner("SF", game); got != OutcomeIncorrect {
		t.Fatalf("mismatched token: got %s, want incorrect", got)
	}

	tie := finalGame("KC", "LV", 20, 20)
	if got := GradeWinner("KC", tie); got != OutcomePush {
		t.Fatalf("tie game: got %s, want push", got)
	}
	if got := GradeWinner("LV", tie); got != OutcomePush {
		t.Fatalf("tie game: got %s, want push", got)
	}

	pending := finalGame("KC", "LV", 0, 0)
	pending.State = models.GameStateInPlay
	if got := GradeWinner("KC", pending); got != OutcomeUngraded {
		t.Fatalf("non-final game: got %s, want ungraded", got)
	}
}

func TestGradeSpread(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		picked string
		line   *SpreadLine
		game   *models.GameResult
		want   Outcome
	}{
		{
			// KC -3.5, KC wins by 7: home covers.
			name:   "favorite covers home pick",
			picked: "KC",
			line:   &SpreadLine{Line: 3.5, Favored: SideHome},
			game:   finalGame("KC", "LV", 27, 20),
			want:   OutcomeCorrect,
		},
		{
			name:   "favorite covers away pick",
			picked: "LV",
			line:   &SpreadLine{Line: 3.5, Favored: SideHome},
			game:   finalGame("KC", "LV", 27, 20),
			want:   OutcomeIncorrect,
		},
		{
			// KC -3.5, KC wins by 3: away covers.
			name:   "favorite wins but fails to cover",
			picked: "KC",
			line:   &SpreadLine{Line: 3.5, Favored: SideHome},
			game:   finalGame("KC", "LV", 23, 20),
			want:   OutcomeIncorrect,
		},
		{
			name:   "underdog covers in loss",
			picked: "LV",
			line:   &SpreadLine{Line: 3.5, Favored: SideHome},
			game:   finalGame("KC", "LV", 23, 20),
			want:   OutcomeCorrect,
		},
		{
			// Margin exactly equals the line.
			name:   "exact cover is push for favorite pick",
			picked: "KC",
			line:   &SpreadLine{Line: 3, Favored: SideHome},
			game:   finalGame("KC", "LV", 23, 20),
			want:   OutcomePush,
		},
		{
			name:   "exact cover is push for underdog pick",
			picked: "LV",
			line:   &SpreadLine{Line: 3, Favored: SideHome},
			game:   finalGame("KC", "LV", 23, 20),
			want:   OutcomePush,
		},
		{
			name:   "away favorite covers",
			picked: "LV",
			line:   &SpreadLine{Line: 6.5, Favored: SideAway},
			game:   finalGame("KC", "LV", 13, 24),
			want:   OutcomeCorrect,
		},
		{
			name:   "mismatched token is incorrect",
			picked: "SF",
			line:   &SpreadLine{Line: 3.5, Favored: SideHome},
			game:   finalGame("KC", "LV", 27, 20),
			want:   OutcomeIncorrect,
		},
		{
			name:   "no line is ungraded",
			picked: "KC",
			line:   nil,
			game:   finalGame("KC", "LV", 27, 20),
			want:   OutcomeUngraded,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := GradeSpread(tt.picked, tt.line, tt.game); got != tt.want {
				t.Fatalf("GradeSpread(%q) = %s, want %s", tt.picked, got, tt.want)
			}
		})
	}
}

func TestGradeSpread_SymmetryNeverBothCorrect(t *testing.T) {
	t.Parallel()

	line := &SpreadLine{Line: 2.5, Favored: SideHome}
	for homeScore := 0; homeScore <= 40; homeScore += 4 {
		for awayScore := 0; awayScore <= 40; awayScore += 4 {
			game := finalGame("KC", "LV", homeScore, awayScore)
			homeGrade := GradeSpread("KC", line, game)
			awayGrade := GradeSpread("LV", line, game)
			if homeGrade == OutcomeCorrect && awayGrade == OutcomeCorrect {
				t.Fatalf("both sides correct at %d-%d", homeScore, awayScore)
			}
			if (homeGrade == OutcomePush) != (awayGrade == OutcomePush) {
				t.Fatalf("push not symmetric at %d-%d: home=%s away=%s", homeScore, awayScore, homeGrade, awayGrade)
			}
		}
	}
}

func TestGradeTotal(t *testing.T) {
	t.Parallel()

	line := func(v float64) *float64 { return &v }

	tests := []struct {
		name   string
		picked string
		line   *float64
		game   *models.GameResult
		want   Outcome
	}{
		{"under hits", "under", line(47.5), finalGame("KC", "LV", 27, 20), OutcomeCorrect},
		{"over misses", "over", line(47.5), finalGame("KC", "LV", 27, 20), OutcomeIncorrect},
		{"over hits", "over", line(44), finalGame("KC", "LV", 27, 20), OutcomeCorrect},
		{"exact total is push", "over", line(47), finalGame("KC", "LV", 27, 20), OutcomePush},
		{"exact total is push for under", "under", line(47), finalGame("KC", "LV", 27, 20), OutcomePush},
		{"single-letter alias O", "O", line(44), finalGame("KC", "LV", 27, 20), OutcomeCorrect},
		{"single-letter alias U", "U", line(50), finalGame("KC", "LV", 27, 20), OutcomeCorrect},
		{"unknown direction is incorrect", "sideways", line(44), finalGame("KC", "LV", 27, 20), OutcomeIncorrect},
		{"no line is ungraded", "over", nil, finalGame("KC", "LV", 27, 20), OutcomeUngraded},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := GradeTotal(tt.picked, tt.line, tt.game); got != tt.want {
				t.Fatalf("GradeTotal(%q, %v) = %s, want %s", tt.picked, tt.line, got, tt.want)
			}
		})
	}
}

func TestResolveSpread_Precedence(t *testing.T) {
	t.Parallel()

	game := finalGame("KC", "LV", 27, 20)
	fallback := -3.0
	game.SpreadLine = &fallback

	// Locked line wins when it normalizes.
	lock := &models.LockedLine{LeagueCode: "L1", GameID: game.ID, Spread: "KC -6.5"}
	if got := ResolveSpread(lock, game); got == nil || got.Line != 6.5 || got.Favored != SideHome {
		t.Fatalf("locked line precedence: got %+v, want {6.5 home}", got)
	}

	// Unparseable locked line falls back to the result's numeric line.
	lock = &models.LockedLine{LeagueCode: "L1", GameID: game.ID, Spread: "SF -6.5"}
	if got := ResolveSpread(lock, game); got == nil || got.Line != 3 || got.Favored != SideHome {
		t.Fatalf("fallback after bad lock: got %+v, want {3 home}", got)
	}

	// Missing locked line falls back too.
	if got := ResolveSpread(nil, game); got == nil || got.Line != 3 {
		t.Fatalf("fallback without lock: got %+v, want {3 home}", got)
	}

	// Nothing resolvable at all.
	game.SpreadLine = nil
	if got := ResolveSpread(nil, game); got != nil {
		t.Fatalf("no line anywhere: got %+v, want nil", got)
	}
}

func TestResolveSpread_FallbackPushScenario(t *testing.T) {
	t.Parallel()

	// No locked line, fallback spread -3 (home favored by 3), margin +3: push
	// for any picked team.
	game := finalGame("KC", "LV", 23, 20)
	fallback := -3.0
	game.SpreadLine = &fallback

	line := ResolveSpread(nil, game)
	if got := GradeSpread("KC", line, game); got != OutcomePush {
		t.Fatalf("home pick: got %s, want push", got)
	}
	if got := GradeSpread("LV", line, game); got != OutcomePush {
		t.Fatalf("away pick: got %s, want push", got)
	}
}

func TestResolveTotal_Precedence(t *testing.T) {
	t.Parallel()

	game := finalGame("KC", "LV", 27, 20)
	fallback := 44.5
	game.TotalLine = &fallback

	lock := &models.LockedLine{LeagueCode: "L1", GameID: game.ID, Total: "47.5"}
	if got := ResolveTotal(lock, game); got == nil || *got != 47.5 {
		t.Fatalf("locked total precedence: got %v, want 47.5", got)
	}

	lock = &models.LockedLine{LeagueCode: "L1", GameID: game.ID, Total: "N/A"}
	if got := ResolveTotal(lock, game); got == nil || *got != 44.5 {
		t.Fatalf("fallback after N/A lock: got %v, want 44.5", got)
	}

	game.TotalLine = nil
	if got := ResolveTotal(nil, game); got != nil {
		t.Fatalf("no total anywhere: got %v, want nil", got)
	}
}

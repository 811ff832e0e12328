package scoring

import (
	"testing"

	"pickem-app-go/models"
)

// Golden fixtures pinning exact Aggregate output for fixed inputs. The
// server recomputation job and the client fallback both run this exact code
// path, so these fixtures are the contract either side must keep producing
// byte for byte. Update an expectation here only with a deliberate scoring
// rule change, never to make a refactor pass.

type goldenCase struct {
	name   string
	inputs WeekInputs
	userID int
	want   models.WeeklyScore
}

func goldenCases() []goldenCase {
	league := &models.League{
		Code:    "GOLD",
		Name:    "Golden League",
		Type:    models.LeagueTypeStandard,
		Season:  2025,
		Weights: models.ScoringWeights{Winner: 1, Spread: 1, Total: 1},
	}

	g1 := finalGame("KC", "LV", 27, 20) // margin +7, combined 47
	g1.ID = 2001
	g2 := finalGame("DET", "GB", 23, 20) // margin +3, combined 43
	g2.ID = 2002
	fb := -3.0
	g2.SpreadLine = &fb
	g3 := finalGame("PHI", "DAL", 17, 17) // tie
	g3.ID = 2003
	g4 := finalGame("BUF", "MIA", 31, 10)
	g4.ID = 2004
	g4.State = models.GameStateInPlay // not final

	results := map[int]*models.GameResult{2001: g1, 2002: g2, 2003: g3, 2004: g4}
	lines := map[int]*models.LockedLine{
		2001: {LeagueCode: "GOLD", GameID: 2001, Spread: "KC -3.5", Total: "47.5"},
		2003: {LeagueCode: "GOLD", GameID: 2003, Spread: "-2.5", Total: "Total: 34"},
	}

	return []goldenCase{
		{
			name: "clean sweep with fallback and bare-number lines",
			inputs: WeekInputs{
				League: league, Season: 2025, Week: 9,
				Picks: []models.Pick{
					{LeagueCode: "GOLD", UserID: 7, GameID: 2001, Winner: "KC", Spread: "KC", Total: "under"},
					{LeagueCode: "GOLD", UserID: 7, GameID: 2002, Spread: "KC"}, // token matches neither team
					{LeagueCode: "GOLD", UserID: 7, GameID: 2003, Winner: "PHI", Spread: "DAL", Total: "over"},
				},
				Results: results,
				Lines:   lines,
			},
			userID: 7,
			want: models.WeeklyScore{
				UserID:     7,
				LeagueCode: "GOLD",
				Season:     2025,
				Week:       9,
				Points:     4,
				// 2001: winner KC correct, spread KC correct (7-3.5>0),
				//       total under correct (47<47.5).
				// 2002: fallback -3 against margin +3 adjusts to exactly 0,
				//       a push for any picked token, matching or not.
				// 2003: winner push (tie), spread DAL correct (bare "-2.5"
				//       is home-favored, adjusted 0-2.5<0, away covered),
				//       total push (combined 34 equals the line).
				WinnerCorrect: 1,
				WinnerPush:    1,
				SpreadCorrect: 2,
				SpreadPush:    1,
				TotalCorrect:  1,
				TotalPush:     1,
				GamesPicked:   3,
				GamesGraded:   3,
				IsComplete:    true,
				Weights:       models.ScoringWeights{Winner: 1, Spread: 1, Total: 1},
			},
		},
		{
			name: "pending game blocks completeness",
			inputs: WeekInputs{
				League: league, Season: 2025, Week: 9,
				Picks: []models.Pick{
					{LeagueCode: "GOLD", UserID: 9, GameID: 2001, Winner: "LV"},
					{LeagueCode: "GOLD", UserID: 9, GameID: 2004, Winner: "BUF"},
				},
				Results: results,
				Lines:   lines,
			},
			userID: 9,
			want: models.WeeklyScore{
				UserID:          9,
				LeagueCode:      "GOLD",
				Season:          2025,
				Week:            9,
				Points:          0,
				WinnerIncorrect: 1,
				GamesPicked:     2,
				GamesGraded:     1,
				IsComplete:      false,
				Weights:         models.ScoringWeights{Winner: 1, Spread: 1, Total: 1},
			},
		},
	}
}

func TestAggregate_GoldenFixtures(t *testing.T) {
	t.Parallel()

	for _, tc := range goldenCases() {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Aggregate(tc.inputs, tc.userID, testNow)
			want := tc.want
			if !got.Equivalent(&want) {
				t.Fatalf("golden mismatch:\n got  %+v\n want %+v", *got, want)
			}
		})
	}
}

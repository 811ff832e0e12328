package scoring

import (
	"time"

	"pickem-app-go/models"
)

// WeekInputs is a read-only snapshot of everything one aggregation run
// needs: the league configuration, the league's picks for the week, and the
// results and locked lines keyed by game ID. Both scoring paths build the
// same shape from their own stores and call Aggregate on it.
type WeekInputs struct {
	League  *models.League
	Season  int
	Week    int
	Picks   []models.Pick
	Results map[int]*models.GameResult
	Lines   map[int]*models.LockedLine
}

// Aggregate folds one user's picks for a league/week into a WeeklyScore.
//
// Rules:
//   - every pick with at least one selection counts toward GamesPicked;
//   - a pick counts toward GamesGraded only when its game has a finalized
//     result and at least one of its dimensions graded;
//   - correct picks add the league's effective weight for that dimension;
//   - an ungraded dimension increments nothing and taints completeness;
//   - IsComplete is true iff nothing was ungraded and every picked game
//     graded.
//
// Aggregate is a pure function of its inputs (the now argument only stamps
// ComputedAt): identical inputs produce an identical record, which is what
// the server-path and client-path agreement rests on.
func Aggregate(in WeekInputs, userID int, now time.Time) *models.WeeklyScore {
	ws := &models.WeeklyScore{
		UserID:     userID,
		Season:     in.Season,
		Week:       in.Week,
		IsComplete: true,
		ComputedAt: now,
	}

	weights := models.DefaultScoringWeights()
	if in.League != nil {
		ws.LeagueCode = in.League.Code
		weights = in.League.EffectiveWeights()
	}
	ws.Weights = weights

	for _, pick := range in.Picks {
		if pick.UserID != userID || !pick.HasAnySelection() {
			continue
		}
		ws.GamesPicked++

		result := in.Results[pick.GameID]
		if result == nil || !result.IsFinal() {
			// Counts as picked, never as graded; completeness fails via
			// the GamesGraded == GamesPicked check below.
			continue
		}
		lock := in.Lines[pick.GameID]

		graded := false

		if pick.Winner != "" {
			switch GradeWinner(pick.Winner, result) {
			case OutcomeCorrect:
				ws.WinnerCorrect++
				ws.Points += weights.Winner
				graded = true
			case OutcomeIncorrect:
				ws.WinnerIncorrect++
				graded = true
			case OutcomePush:
				ws.WinnerPush++
				graded = true
			case OutcomeUngraded:
				ws.IsComplete = false
			}
		}

		if pick.Spread != "" {
			switch GradeSpread(pick.Spread, ResolveSpread(lock, result), result) {
			case OutcomeCorrect:
				ws.SpreadCorrect++
				ws.Points += weights.Spread
				graded = true
			case OutcomeIncorrect:
				ws.SpreadIncorrect++
				graded = true
			case OutcomePush:
				ws.SpreadPush++
				graded = true
			case OutcomeUngraded:
				ws.IsComplete = false
			}
		}

		if pick.Total != "" {
			switch GradeTotal(pick.Total, ResolveTotal(lock, result), result) {
			case OutcomeCorrect:
				ws.TotalCorrect++
				ws.Points += weights.Total
				graded = true
			case OutcomeIncorrect:
				ws.TotalIncorrect++
				graded = true
			case OutcomePush:
				ws.TotalPush++
				graded = true
			case OutcomeUngraded:
				ws.IsComplete = false
			}
		}

		if graded {
			ws.GamesGraded++
		}
	}

	if ws.GamesGraded != ws.GamesPicked {
		ws.IsComplete = false
	}

	return ws
}

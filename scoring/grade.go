package scoring

import (
	"strings"

	"pickem-app-go/models"
)

// Outcome is the grade of one pick dimension against a finalized result.
type Outcome string

const (
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
	OutcomePush      Outcome = "push"
	// OutcomeUngraded means the dimension could not be resolved (no usable
	// line, or no finalized result). Ungraded picks never touch counters and
	// taint the weekly score's completeness.
	OutcomeUngraded Outcome = "ungraded"
)

// pushTolerance absorbs floating-point representation noise when comparing
// an adjusted margin or combined score against a line. Both scoring paths
// must use this exact constant; a differing epsilon on either side is a
// dual-path consistency bug.
const pushTolerance = 1e-4

// GradeWinner grades a moneyline pick. A tie game is a push for every picked
// token; otherwise the pick is correct iff it names the winner. A token
// matching neither team can never be correct and grades incorrect rather
// than erroring. Winner picks need no line, so they are never ungraded once
// the result is final.
func GradeWinner(pickedToken string, result *models.GameResult) Outcome {
	if result == nil || !result.IsFinal() {
		return OutcomeUngraded
	}
	winner := result.Winner
	if winner == "" {
		winner = result.ComputeWinner()
	}
	if winner == models.WinnerTie {
		return OutcomePush
	}
	if strings.EqualFold(pickedToken, winner) {
		return OutcomeCorrect
	}
	return OutcomeIncorrect
}

// GradeSpread grades an against-the-spread pick using an already-resolved
// line (see ResolveSpread). A nil line means the dimension is ungradeable.
func GradeSpread(pickedToken string, line *SpreadLine, result *models.GameResult) Outcome {
	if result == nil || !result.IsFinal() {
		return OutcomeUngraded
	}
	if line == nil {
		return OutcomeUngraded
	}

	adjusted := float64(result.Margin()) + line.HomeSigned()
	if abs(adjusted) <= pushTolerance {
		return OutcomePush
	}

	var covered Side
	if adjusted > 0 {
		covered = SideHome
	} else {
		covered = SideAway
	}

	picked := resolveSide(pickedToken, result.Home, result.Away)
	if picked == "" {
		// Unresolvable token cannot have covered anything.
		return OutcomeIncorrect
	}
	if picked == covered {
		return OutcomeCorrect
	}
	return OutcomeIncorrect
}

// GradeTotal grades an over/under pick against a resolved total line. A nil
// line means the dimension is ungradeable; an unrecognizable direction
// grades incorrect.
func GradeTotal(pickedDirection string, line *float64, result *models.GameResult) Outcome {
	if result == nil || !result.IsFinal() {
		return OutcomeUngraded
	}
	if line == nil {
		return OutcomeUngraded
	}

	combined := float64(result.CombinedScore())
	if abs(combined-*line) <= pushTolerance {
		return OutcomePush
	}

	dir, ok := models.NormalizeTotalDirection(pickedDirection)
	if !ok {
		return OutcomeIncorrect
	}
	over := combined > *line
	if (over && dir == models.TotalOver) || (!over && dir == models.TotalUnder) {
		return OutcomeCorrect
	}
	return OutcomeIncorrect
}

// ResolveSpread produces the spread line to grade against: the league's
// locked line when it normalizes, otherwise the result's numeric fallback.
// Both scoring paths share this precedence; nil means no line is resolvable
// and the spread dimension is ungradeable.
func ResolveSpread(lock *models.LockedLine, result *models.GameResult) *SpreadLine {
	if result == nil {
		return nil
	}
	if lock.HasSpread() {
		if line := NormalizeSpread(lock.Spread, result.Home, result.Away); line != nil {
			return line
		}
	}
	if result.SpreadLine != nil {
		line := SpreadFromNumeric(*result.SpreadLine)
		return &line
	}
	return nil
}

// ResolveTotal produces the over/under line to grade against, with the same
// locked-line-then-fallback precedence as ResolveSpread.
func ResolveTotal(lock *models.LockedLine, result *models.GameResult) *float64 {
	if result == nil {
		return nil
	}
	if lock.HasTotal() {
		if value, ok := NormalizeTotal(lock.Total); ok {
			return &value
		}
	}
	if result.TotalLine != nil {
		value := *result.TotalLine
		return &value
	}
	return nil
}

// Package scoring is the shared pick-grading core. Both the server-side
// recomputation job and the client fallback path import this package; any
// change to its rules, tolerances, or fallback precedence changes both paths
// together, which is what keeps the two computations in agreement.
package scoring

import (
	"regexp"
	"strconv"
	"strings"
)

// Side identifies which team a normalized line favors.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// SpreadLine is the canonical favorite-relative form of a spread: a
// non-negative magnitude plus the side it favors.
type SpreadLine struct {
	Line    float64 `json:"line"`
	Favored Side    `json:"favored"`
}

// HomeSigned returns the spread as a home-perspective signed number
// (negative = home favored), the form the grading math consumes.
func (s SpreadLine) HomeSigned() float64 {
	if s.Favored == SideHome {
		return -s.Line
	}
	return s.Line
}

var (
	tokenSpreadRe = regexp.MustCompile(`^\s*([A-Za-z]{2,4})\s+([+-]?\d+(?:\.\d+)?)\s*$`)
	bareSpreadRe  = regexp.MustCompile(`^\s*([+-])(\d+(?:\.\d+)?)\s*$`)
	decimalRe     = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// NormalizeSpread parses a locked spread descriptor into canonical form.
//
// Accepted shapes:
//   - "<TOKEN> <signed-number>" (e.g. "KC -3.5"): a negative number means the
//     named team is favored, a positive number means the other side is. The
//     token is resolved against home/away case-insensitively; a token that
//     matches neither team fails normalization.
//   - a bare signed number (e.g. "-3.5"): by convention a leading "-" means
//     home favored and a leading "+" means away favored. An unsigned bare
//     number carries no side information and fails normalization.
//
// Returns nil for empty input, "N/A", or anything unparseable. Pure: the
// same input always yields the same output.
func NormalizeSpread(text, homeToken, awayToken string) *SpreadLine {
	text = strings.TrimSpace(text)
	if text == "" || strings.EqualFold(text, "N/A") {
		return nil
	}

	if m := tokenSpreadRe.FindStringSubmatch(text); m != nil {
		value, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return nil
		}
		named := resolveSide(m[1], homeToken, awayToken)
		if named == "" {
			return nil
		}
		favored := named
		if value > 0 {
			// Positive number: the named team is the underdog.
			favored = opposite(named)
		}
		return &SpreadLine{Line: abs(value), Favored: favored}
	}

	if m := bareSpreadRe.FindStringSubmatch(text); m != nil {
		value, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return nil
		}
		favored := SideHome
		if m[1] == "+" {
			favored = SideAway
		}
		return &SpreadLine{Line: value, Favored: favored}
	}

	return nil
}

// NormalizeTotal extracts the over/under line from a locked total descriptor:
// the first decimal number found in the string. Returns false for empty
// input, "N/A", or strings containing no number.
func NormalizeTotal(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if text == "" || strings.EqualFold(text, "N/A") {
		return 0, false
	}
	m := decimalRe.FindString(text)
	if m == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// SpreadFromNumeric converts a home-perspective signed line (the fallback
// format carried on game results) into canonical form.
func SpreadFromNumeric(homeSigned float64) SpreadLine {
	if homeSigned <= 0 {
		return SpreadLine{Line: -homeSigned, Favored: SideHome}
	}
	return SpreadLine{Line: homeSigned, Favored: SideAway}
}

func resolveSide(token, homeToken, awayToken string) Side {
	switch {
	case homeToken != "" && strings.EqualFold(token, homeToken):
		return SideHome
	case awayToken != "" && strings.EqualFold(token, awayToken):
		return SideAway
	}
	return ""
}

func opposite(s Side) Side {
	if s == SideHome {
		return SideAway
	}
	return SideHome
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

package scoreboard

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// MaxScore is the largest accepted score.
const MaxScore = math.MaxInt32

// IntegerScore converts an untyped number into a score. Fractional, NaN and
// infinite values fail with ErrInvalidScore, negatives with ErrNegativeScore.
func IntegerScore(v float64) (int, error) {
	raw := strconv.FormatFloat(v, 'g', -1, 64)
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) || math.Abs(v) > MaxScore {
		return 0, &ScoreError{Value: raw, Reason: ErrInvalidScore}
	}
	if v < 0 {
		return 0, &ScoreError{Value: raw, Reason: ErrNegativeScore}
	}
	return int(v), nil
}

// ParseScore reads a score typed as text. Surrounding whitespace is ignored.
func ParseScore(s string) (int, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, &ScoreError{Value: s, Reason: ErrInvalidScore}
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, &ScoreError{Value: s, Reason: ErrInvalidScore}
	}
	score, err := IntegerScore(v)
	if err != nil {
		return 0, &ScoreError{Value: s, Reason: reasonOf(err)}
	}
	return score, nil
}

// validateScores checks a home/away pair as a unit so callers can apply both or neither.
// Out-of-range values are reported before negative ones.
func validateScores(home, away int) error {
	if home > MaxScore {
		return &ScoreError{Side: SideHome, Value: strconv.Itoa(home), Reason: ErrInvalidScore}
	}
	if away > MaxScore {
		return &ScoreError{Side: SideAway, Value: strconv.Itoa(away), Reason: ErrInvalidScore}
	}
	if home < 0 {
		return &ScoreError{Side: SideHome, Value: strconv.Itoa(home), Reason: ErrNegativeScore}
	}
	if away < 0 {
		return &ScoreError{Side: SideAway, Value: strconv.Itoa(away), Reason: ErrNegativeScore}
	}
	return nil
}

// IntegerScores converts a pair of untyped numbers. Both values are checked
// before an error is picked: ErrInvalidScore wins over ErrNegativeScore, then
// home over away. The returned error carries the failing side.
func IntegerScores(home, away float64) (int, int, error) {
	hs, herr := IntegerScore(home)
	as, aerr := IntegerScore(away)
	if err := pickPairError(herr, aerr); err != nil {
		return 0, 0, err
	}
	return hs, as, nil
}

// ParseScores reads a pair of text scores with the same error priority as IntegerScores.
func ParseScores(home, away string) (int, int, error) {
	hs, herr := ParseScore(home)
	as, aerr := ParseScore(away)
	if err := pickPairError(herr, aerr); err != nil {
		return 0, 0, err
	}
	return hs, as, nil
}

func pickPairError(herr, aerr error) error {
	switch {
	case errors.Is(herr, ErrInvalidScore):
		return withSide(herr, SideHome)
	case errors.Is(aerr, ErrInvalidScore):
		return withSide(aerr, SideAway)
	case herr != nil:
		return withSide(herr, SideHome)
	case aerr != nil:
		return withSide(aerr, SideAway)
	}
	return nil
}

func withSide(err error, side Side) error {
	var se *ScoreError
	if errors.As(err, &se) {
		return &ScoreError{Side: side, Value: se.Value, Reason: se.Reason}
	}
	return err
}

func reasonOf(err error) error {
	if se, ok := err.(*ScoreError); ok {
		return se.Reason
	}
	return err
}

package scoreboard

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidScore reports a score that is not a whole number.
	ErrInvalidScore = errors.New("scores must be integers")
	// ErrNegativeScore reports a whole-number score below zero.
	ErrNegativeScore = errors.New("scores cannot be negative")
	// ErrMatchNotFound reports an operation on a match that is not on the board.
	ErrMatchNotFound = errors.New("match not found")
	// ErrDuplicateMatch reports an attempt to add a match that is already on the board.
	ErrDuplicateMatch = errors.New("match already on scoreboard")
	// ErrNilMatch reports a nil match handed to the board.
	ErrNilMatch = errors.New("match is nil")
)

// Side identifies which half of a score pair failed validation.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// ScoreError describes a rejected score. It unwraps to ErrInvalidScore or ErrNegativeScore.
type ScoreError struct {
	Side   Side
	Value  string
	Reason error
}

func (e *ScoreError) Error() string {
	if e.Side == "" {
		return fmt.Sprintf("%v: %s", e.Reason, e.Value)
	}
	return fmt.Sprintf("%s score %s: %v", e.Side, e.Value, e.Reason)
}

func (e *ScoreError) Unwrap() error {
	return e.Reason
}

package carryover

import (
	"errors"
	"fmt"
)

var (
	// ErrPlaceLabelOverflow means the problem needs a place beyond Million.
	// It is fatal for the current problem.
	ErrPlaceLabelOverflow = errors.New("carryover: place label overflow")

	// ErrNegativeOperand is returned when an operand is below zero.
	ErrNegativeOperand = errors.New("carryover: operands must be non-negative")

	// ErrWrongInteraction is returned when the submitted action does not
	// match the interaction the current step requires.
	ErrWrongInteraction = errors.New("carryover: action does not match current step")

	// ErrComplete is returned for submissions after the last step.
	ErrComplete = errors.New("carryover: problem already complete")

	// ErrAborted is returned for submissions after a fatal error.
	ErrAborted = errors.New("carryover: session aborted")
)

// InvalidEntryError reports a wrong digit-entry answer. Nothing changes and
// the learner may retry.
type InvalidEntryError struct {
	Expected int
	Actual   int
}

func (e *InvalidEntryError) Error() string {
	return fmt.Sprintf("carryover: invalid entry %d, expected %d", e.Actual, e.Expected)
}

// IncompleteRegroupError signals partial progress: one unit moved, but the
// target place has not reached the threshold yet.
type IncompleteRegroupError struct {
	CurrentCount int
	Threshold    int
}

func (e *IncompleteRegroupError) Error() string {
	return fmt.Sprintf("carryover: regroup incomplete, %d of %d", e.CurrentCount, e.Threshold)
}

// Remaining returns how many more units must be moved.
func (e *IncompleteRegroupError) Remaining() int {
	return e.Threshold - e.CurrentCount
}

// CountMismatchError reports that the observed block count disagrees with
// the live state. Nothing changes.
type CountMismatchError struct {
	Observed int
	Expected int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("carryover: observed %d blocks at target, state has %d", e.Observed, e.Expected)
}

// IsRecoverable reports whether err is an expected learner-facing outcome
// that leaves the session usable.
func IsRecoverable(err error) bool {
	var invalid *InvalidEntryError
	var incomplete *IncompleteRegroupError
	var mismatch *CountMismatchError
	return errors.As(err, &invalid) || errors.As(err, &incomplete) || errors.As(err, &mismatch)
}

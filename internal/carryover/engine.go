package carryover

import (
	"fmt"
	"slices"
	"sync"
)

// Engine owns the live state and step cursor for one addition problem.
// All methods are safe for concurrent use; submissions are serialized so each
// one finishes its state change and cursor advance before the next starts.
type Engine struct {
	mu sync.Mutex

	problem Problem
	table   PlaceTable
	live    Numbers
	cursor  int
	history []Record
	aborted bool

	// Per-step bookkeeping, reset when the cursor advances.
	stepStart Numbers
	attempts  int
	moves     int

	observers []func(Advance)
}

// New creates an engine for num1 + num2 positioned at the ones place.
func New(num1, num2 int) (*Engine, error) {
	e := &Engine{}
	if err := e.Reset(num1, num2); err != nil {
		return nil, err
	}
	return e, nil
}

// Reset discards all progress and starts a new problem.
// Subscribers are kept.
func (e *Engine) Reset(num1, num2 int) error {
	table, err := BuildPlaceTable(num1, num2)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.problem = Problem{Num1: num1, Num2: num2}
	e.table = table
	e.live = Numbers{Num1: num1, Num2: num2}
	e.cursor = 0
	e.history = nil
	e.aborted = false
	e.beginStep()
	return nil
}

// Subscribe registers fn to be called after every completed step.
// Callbacks run outside the engine lock and may call back into the engine.
func (e *Engine) Subscribe(fn func(Advance)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, fn)
}

// Problem returns the immutable problem.
func (e *Engine) Problem() Problem {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.problem
}

// Table returns the place table.
func (e *Engine) Table() PlaceTable {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.table)
}

// Live returns the current live numbers.
func (e *Engine) Live() Numbers {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.live
}

// Cursor returns the index of the current step.
func (e *Engine) Cursor() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor
}

// CurrentStep computes the step at the cursor from the live state.
// It returns false once every place has been completed.
func (e *Engine) CurrentStep() (Step, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cursor >= len(e.table) {
		return Step{}, false
	}
	return deriveStep(e.table[e.cursor], e.live), true
}

// IsComplete reports whether every place has been completed.
func (e *Engine) IsComplete() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor >= len(e.table)
}

// Aborted reports whether a fatal error ended the session.
func (e *Engine) Aborted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.aborted
}

// Answer returns the problem's sum once complete.
// It is taken from the problem, never from the live state.
func (e *Engine) Answer() (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cursor < len(e.table) {
		return 0, false
	}
	return e.problem.Sum(), true
}

// History returns a copy of the completed step records.
func (e *Engine) History() []Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.history)
}

// SubmitDigitEntry answers a digit-entry step with the sum of its digits.
// A wrong value returns *InvalidEntryError and leaves the state unchanged.
func (e *Engine) SubmitDigitEntry(value int) error {
	e.mu.Lock()
	adv, err := e.submitDigitEntry(value)
	observers := e.observers
	e.mu.Unlock()

	if err != nil {
		return err
	}
	publish(observers, adv)
	return nil
}

func (e *Engine) submitDigitEntry(value int) (Advance, error) {
	if err := e.checkActive(); err != nil {
		return Advance{}, err
	}

	step := deriveStep(e.table[e.cursor], e.live)
	if step.Interaction != DigitEntry {
		return Advance{}, fmt.Errorf("%w: %s needs %s", ErrWrongInteraction, step.PlaceLabel, step.Interaction)
	}
	if value != step.Sum {
		e.attempts++
		return Advance{}, &InvalidEntryError{Expected: step.Sum, Actual: value}
	}

	return e.completeStep(step, 0), nil
}

// SubmitRegroupAction moves one unit of the current place from the source
// operand to the target. observed is the learner's block count at the target
// place before the move. A count that differs from the live target digit is
// rejected with *CountMismatchError and no block moves; in particular an
// observed count of 9 or more does not force the carry.
//
// While the target stays below RegroupThreshold the move is kept and
// *IncompleteRegroupError is returned. The move that reaches the threshold
// carries one unit into the next place and advances the cursor.
func (e *Engine) SubmitRegroupAction(observed int) (RegroupOutcome, error) {
	e.mu.Lock()
	outcome, adv, err := e.submitRegroup(observed)
	observers := e.observers
	e.mu.Unlock()

	if adv != nil {
		publish(observers, *adv)
	}
	return outcome, err
}

func (e *Engine) submitRegroup(observed int) (RegroupOutcome, *Advance, error) {
	if err := e.checkActive(); err != nil {
		return RegroupOutcome{}, nil, err
	}

	place := e.table[e.cursor]
	step := deriveStep(place, e.live)
	if step.Interaction != Regroup {
		return RegroupOutcome{}, nil, fmt.Errorf("%w: %s needs %s", ErrWrongInteraction, step.PlaceLabel, step.Interaction)
	}
	if observed != step.TargetCount() {
		return RegroupOutcome{}, nil, &CountMismatchError{Observed: observed, Expected: step.TargetCount()}
	}

	count := observed + 1
	if count < RegroupThreshold {
		e.move(step, place)
		return RegroupOutcome{CurrentCount: count}, nil, &IncompleteRegroupError{
			CurrentCount: count,
			Threshold:    RegroupThreshold,
		}
	}

	next := e.cursor + 1
	if next >= len(e.table) {
		e.aborted = true
		return RegroupOutcome{}, nil, fmt.Errorf("%w: no place above %s to carry into", ErrPlaceLabelOverflow, place.Label)
	}

	// Ten units at the target roll over into one unit at the next place.
	e.move(step, place)
	carried := deriveStep(place, e.live)
	adv := e.completeStep(carried, 1)
	return RegroupOutcome{
		CurrentCount:       count,
		CarriedAmount:      1,
		NewCarryPlaceLabel: e.table[next].Label,
	}, &adv, nil
}

// move transfers one unit of place from the step's source to its target.
func (e *Engine) move(step Step, place Place) {
	e.live.add(step.Source, -place.Value)
	e.live.add(step.Target, place.Value)
	e.moves++
}

// completeStep records the step at the cursor and advances.
// step must reflect the live state after the step's effect.
func (e *Engine) completeStep(step Step, carried int) Advance {
	rec := Record{
		PlaceIndex:    step.PlaceIndex,
		PlaceLabel:    step.PlaceLabel,
		Before:        e.stepStart,
		After:         e.live,
		Interaction:   DigitEntry,
		CarriedAmount: carried,
		ResultDigit:   step.Sum % 10,
		Moves:         e.moves,
		Attempts:      e.attempts,
	}
	if carried > 0 {
		rec.Interaction = Regroup
	}
	e.history = append(e.history, rec)
	e.cursor++
	e.beginStep()

	adv := Advance{Completed: rec, Problem: e.problem}
	if e.cursor >= len(e.table) {
		adv.Complete = true
		adv.Answer = e.problem.Sum()
	} else {
		adv.NextLabel = e.table[e.cursor].Label
	}
	return adv
}

func (e *Engine) beginStep() {
	e.stepStart = e.live
	e.attempts = 0
	e.moves = 0
}

func (e *Engine) checkActive() error {
	if e.aborted {
		return ErrAborted
	}
	if e.cursor >= len(e.table) {
		return ErrComplete
	}
	return nil
}

func publish(observers []func(Advance), adv Advance) {
	for _, fn := range observers {
		fn(adv)
	}
}

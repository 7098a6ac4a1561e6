package papertrace

import (
	"fmt"
	"strings"
	"sync"

	"github.com/vovakirdan/mathblocks/internal/carryover"
)

// Synchronizer reveals a trace progressively, one place at a time, as the
// step engine completes places. It never reads the engine's live numbers.
type Synchronizer struct {
	mu       sync.Mutex
	trace    Trace
	revealed int // highest revealed entry index, -1 for none
}

// NewSynchronizer builds the trace for p over table with nothing revealed.
func NewSynchronizer(p carryover.Problem, table carryover.PlaceTable) (*Synchronizer, error) {
	trace, err := Build(p.Num1, p.Num2, table)
	if err != nil {
		return nil, err
	}
	return &Synchronizer{trace: trace, revealed: -1}, nil
}

// Trace returns the underlying trace.
func (s *Synchronizer) Trace() Trace {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trace
}

// RevealUpTo reveals the entry for label and returns it. Entries above it
// stay hidden. Revealing an earlier place again does not hide later ones.
func (s *Synchronizer) RevealUpTo(label string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.trace.Lookup(label)
	if err != nil {
		return Entry{}, err
	}
	s.revealed = max(s.revealed, idx)
	return s.trace.entries[idx], nil
}

// Observe handles an engine advance: it reveals the completed place and
// checks that the engine's result digit agrees with the trace. On
// completion any synthetic final carry is revealed too.
func (s *Synchronizer) Observe(adv carryover.Advance) error {
	if _, err := s.RevealUpTo(adv.Completed.PlaceLabel); err != nil {
		return err
	}
	if err := s.Agrees(adv.Completed); err != nil {
		return err
	}
	if adv.Complete {
		s.mu.Lock()
		s.revealed = len(s.trace.entries) - 1
		s.mu.Unlock()
	}
	return nil
}

// Agrees checks a completed step's result digit against the trace.
func (s *Synchronizer) Agrees(rec carryover.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.trace.Entry(rec.PlaceIndex)
	if !ok || entry.PlaceLabel != rec.PlaceLabel {
		return fmt.Errorf("%w: %q", ErrUnknownPlaceLabel, rec.PlaceLabel)
	}
	if entry.ResultDigit != rec.ResultDigit {
		return fmt.Errorf("%w at %s: step %d, trace %d", ErrResultMismatch, rec.PlaceLabel, rec.ResultDigit, entry.ResultDigit)
	}
	return nil
}

// Current returns the most recently revealed entry.
func (s *Synchronizer) Current() (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trace.Entry(s.revealed)
}

// Revealed returns the revealed entries, ones first.
func (s *Synchronizer) Revealed() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, s.revealed+1)
	copy(out, s.trace.entries[:s.revealed+1])
	return out
}

// Lines renders the column addition with only revealed results and carries.
//
//	  1
//	  4 7
//	+ 1 8
//	-----
//	  6 5
func (s *Synchronizer) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.trace.entries
	p := s.trace.problem
	w1 := carryover.DigitCount(p.Num1)
	w2 := carryover.DigitCount(p.Num2)

	var carries, top, bottom, result strings.Builder
	carries.WriteString(" ")
	top.WriteString(" ")
	bottom.WriteString("+")
	result.WriteString(" ")

	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		carries.WriteString(cell(e.CarryIn > 0 && i-1 <= s.revealed, e.CarryIn))
		top.WriteString(cell(!e.Synthetic && e.PlaceIndex < w1, e.Digit1))
		bottom.WriteString(cell(!e.Synthetic && e.PlaceIndex < w2, e.Digit2))
		result.WriteString(cell(i <= s.revealed, e.ResultDigit))
	}

	return []string{
		carries.String(),
		top.String(),
		bottom.String(),
		strings.Repeat("-", 1+2*len(entries)),
		result.String(),
	}
}

func cell(show bool, digit int) string {
	if !show {
		return "  "
	}
	return fmt.Sprintf(" %d", digit)
}

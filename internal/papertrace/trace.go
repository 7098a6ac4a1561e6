// Package papertrace computes the textbook column-addition record for a
// problem and reveals it place by place as the step engine advances.
package papertrace

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/mathblocks/internal/carryover"
)

var (
	// ErrUnknownPlaceLabel is returned when a label is not part of the trace.
	ErrUnknownPlaceLabel = errors.New("papertrace: unknown place label")

	// ErrResultMismatch is returned when a completed step disagrees with the trace.
	ErrResultMismatch = errors.New("papertrace: result digit mismatch")
)

// Entry is one column of the addition.
type Entry struct {
	PlaceIndex  int
	PlaceLabel  string
	Digit1      int
	Digit2      int
	CarryIn     int
	Sum         int
	ResultDigit int
	CarryOut    int
	Synthetic   bool // final carry beyond the place table
}

// Operation renders the column sum, e.g. "7 + 8 + 1 = 16".
func (e Entry) Operation() string {
	if e.CarryIn > 0 {
		return fmt.Sprintf("%d + %d + %d = %d", e.Digit1, e.Digit2, e.CarryIn, e.Sum)
	}
	return fmt.Sprintf("%d + %d = %d", e.Digit1, e.Digit2, e.Sum)
}

// Explain renders the column as a sentence.
func (e Entry) Explain() string {
	if e.Synthetic {
		return fmt.Sprintf("%s: bring down the carried %d.", e.PlaceLabel, e.ResultDigit)
	}
	if e.CarryOut > 0 {
		return fmt.Sprintf("%s: %s. Write %d, carry %d.", e.PlaceLabel, e.Operation(), e.ResultDigit, e.CarryOut)
	}
	return fmt.Sprintf("%s: %s. Write %d.", e.PlaceLabel, e.Operation(), e.ResultDigit)
}

// Trace is the fixed column-addition record of a problem.
type Trace struct {
	problem carryover.Problem
	entries []Entry
}

// Build adds num1 and num2 right to left over the places in table.
// A carry left over after the last place becomes one synthetic entry.
func Build(num1, num2 int, table carryover.PlaceTable) (Trace, error) {
	if num1 < 0 || num2 < 0 {
		return Trace{}, carryover.ErrNegativeOperand
	}

	entries := make([]Entry, 0, len(table)+1)
	carry := 0
	for _, p := range table {
		d1 := carryover.Digit(num1, p.Index)
		d2 := carryover.Digit(num2, p.Index)
		sum := d1 + d2 + carry
		entries = append(entries, Entry{
			PlaceIndex:  p.Index,
			PlaceLabel:  p.Label,
			Digit1:      d1,
			Digit2:      d2,
			CarryIn:     carry,
			Sum:         sum,
			ResultDigit: sum % 10,
			CarryOut:    sum / 10,
		})
		carry = sum / 10
	}

	if carry > 0 {
		index := len(table)
		label, err := carryover.LabelFor(index)
		if err != nil {
			return Trace{}, err
		}
		entries = append(entries, Entry{
			PlaceIndex:  index,
			PlaceLabel:  label,
			CarryIn:     carry,
			Sum:         carry,
			ResultDigit: carry,
			Synthetic:   true,
		})
	}

	return Trace{
		problem: carryover.Problem{Num1: num1, Num2: num2},
		entries: entries,
	}, nil
}

// Len returns the number of entries.
func (t Trace) Len() int {
	return len(t.entries)
}

// Entries returns a copy of all entries, ones first.
func (t Trace) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Entry returns the entry at index.
func (t Trace) Entry(index int) (Entry, bool) {
	if index < 0 || index >= len(t.entries) {
		return Entry{}, false
	}
	return t.entries[index], true
}

// Lookup returns the index of the entry for label.
func (t Trace) Lookup(label string) (int, error) {
	for i, e := range t.entries {
		if e.PlaceLabel == label {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrUnknownPlaceLabel, label)
}

// Result assembles the result digits into the final sum.
func (t Trace) Result() int {
	result := 0
	for i := len(t.entries) - 1; i >= 0; i-- {
		result = result*10 + t.entries[i].ResultDigit
	}
	return result
}

// Problem returns the problem the trace was built from.
func (t Trace) Problem() carryover.Problem {
	return t.problem
}

// Package carryover models multi-digit addition as an ordered sequence of
// per-place steps. Each step is resolved either by entering the digit sum or,
// when the place overflows, by regrouping ten units into the next place.
// The package has no rendering dependencies; callers report block counts and
// typed digits, and re-query the current step after every call.
package carryover

import "fmt"

// placeLabels names each supported place, indexed by power of ten.
var placeLabels = [...]string{
	"Ones",
	"Tens",
	"Hundreds",
	"Thousands",
	"Ten Thousands",
	"Hundred Thousands",
	"Million",
}

// placeUnits is the singular unit name used in explanations. It has one
// entry past the last label for the unit a Million carry would produce.
var placeUnits = [...]string{
	"one",
	"ten",
	"hundred",
	"thousand",
	"ten thousand",
	"hundred thousand",
	"million",
	"ten million",
}

// MaxPlaces is the number of places that have a label.
const MaxPlaces = len(placeLabels)

// MaxOperand is the largest operand whose places are all labelled.
const MaxOperand = 9_999_999

// Place describes one decimal digit position.
type Place struct {
	Index int    // 0 = ones
	Label string // e.g. "Tens"
	Value int    // 10^Index
}

// PlaceTable is the ordered list of places used by a problem, ones first.
type PlaceTable []Place

// LabelFor returns the label of the place at index.
func LabelFor(index int) (string, error) {
	if index < 0 || index >= MaxPlaces {
		return "", fmt.Errorf("%w: no label for place %d", ErrPlaceLabelOverflow, index)
	}
	return placeLabels[index], nil
}

// UnitFor returns the singular unit name of the place at index ("ten" for 1).
func UnitFor(index int) string {
	if index < 0 || index >= len(placeUnits) {
		return ""
	}
	return placeUnits[index]
}

// BuildPlaceTable returns the places needed to add num1 and num2.
// The table covers every digit of the larger operand, plus one extra place
// when the sum has more digits than either operand.
func BuildPlaceTable(num1, num2 int) (PlaceTable, error) {
	if num1 < 0 || num2 < 0 {
		return nil, ErrNegativeOperand
	}

	n := DigitCount(max(num1, num2))
	if DigitCount(num1+num2) > n {
		n++
	}
	if n > MaxPlaces {
		return nil, fmt.Errorf("%w: %d places needed, %d available", ErrPlaceLabelOverflow, n, MaxPlaces)
	}

	table := make(PlaceTable, n)
	value := 1
	for i := range n {
		table[i] = Place{Index: i, Label: placeLabels[i], Value: value}
		value *= 10
	}
	return table, nil
}

// IndexOf returns the index of the place with the given label.
func (t PlaceTable) IndexOf(label string) (int, bool) {
	for _, p := range t {
		if p.Label == label {
			return p.Index, true
		}
	}
	return -1, false
}

// Labels returns the labels of the table in order.
func (t PlaceTable) Labels() []string {
	labels := make([]string, len(t))
	for i, p := range t {
		labels[i] = p.Label
	}
	return labels
}

// DigitCount returns the number of decimal digits in n (1 for zero).
func DigitCount(n int) int {
	if n == 0 {
		return 1
	}
	count := 0
	for n > 0 {
		n /= 10
		count++
	}
	return count
}

// Digit returns the decimal digit of n at the given place index.
func Digit(n, index int) int {
	for range index {
		n /= 10
	}
	return n % 10
}

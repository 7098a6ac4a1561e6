package carryover

import (
	"fmt"
	"strings"
)

// Prompt returns the instruction shown for a step.
func Prompt(s Step) string {
	if s.Interaction == DigitEntry {
		return fmt.Sprintf("%s: add %d + %d and type the answer.", s.PlaceLabel, s.Digit1, s.Digit2)
	}
	noun := "block"
	if s.BlocksNeeded != 1 {
		noun = "blocks"
	}
	return fmt.Sprintf("%s: %d + %d is %d or more. Move %d %s from the %s to the %s to make ten.",
		s.PlaceLabel, s.Digit1, s.Digit2, RegroupThreshold, s.BlocksNeeded, noun, s.Source, s.Target)
}

// Explain describes what happened in a completed step.
func Explain(r Record) string {
	d1 := Digit(r.Before.Num1, r.PlaceIndex)
	d2 := Digit(r.Before.Num2, r.PlaceIndex)
	sum := d1 + d2

	if r.Interaction == DigitEntry {
		return fmt.Sprintf("%s: %d + %d = %d.", r.PlaceLabel, d1, d2, sum)
	}

	unit := UnitFor(r.PlaceIndex)
	next := UnitFor(r.PlaceIndex + 1)
	return fmt.Sprintf("%s: %d + %d = %d. Ten %ss became 1 %s, leaving %d in the %s place.",
		r.PlaceLabel, d1, d2, sum, unit, next, r.ResultDigit, strings.ToLower(r.PlaceLabel))
}

package core

import "time"

// ProblemStep is one completed place-value step of a solved problem.
type ProblemStep struct {
	PlaceIndex  int
	PlaceLabel  string
	Interaction string // "digit-entry" or "regroup"
	Digit1      int
	Digit2      int
	ResultDigit int
	Carried     int
	Moves       int
	Attempts    int
	Explanation string
}

// ProblemResult summarizes one finished tutor problem.
type ProblemResult struct {
	SessionID string
	GameID    string
	Category  string
	Num1      int
	Num2      int
	Answer    int
	Mistakes  int
	Score     int
	Aborted   bool
	StartedAt time.Time
	EndedAt   time.Time
	Steps     []ProblemStep
}

// ResultSink receives finished problems, typically for persistence.
type ResultSink interface {
	RecordProblem(r ProblemResult)
}

// ResultSinkFunc adapts a function to ResultSink.
type ResultSinkFunc func(r ProblemResult)

// RecordProblem calls f(r).
func (f ResultSinkFunc) RecordProblem(r ProblemResult) {
	f(r)
}

package carryover

// Interaction is the kind of learner action a step requires.
type Interaction string

const (
	DigitEntry Interaction = "digit-entry"
	Regroup    Interaction = "regroup"
)

// RegroupThreshold is the count at the target place that triggers a carry.
const RegroupThreshold = 10

// Operand identifies one of the two addends.
type Operand int

const (
	OperandNone Operand = iota
	OperandNum1
	OperandNum2
)

func (o Operand) String() string {
	switch o {
	case OperandNum1:
		return "first number"
	case OperandNum2:
		return "second number"
	default:
		return "none"
	}
}

// Problem is the immutable pair being added.
type Problem struct {
	Num1 int
	Num2 int
}

// Sum returns the answer shown on completion.
func (p Problem) Sum() int {
	return p.Num1 + p.Num2
}

// Numbers is the live arithmetic state: the addends as currently regrouped.
type Numbers struct {
	Num1 int
	Num2 int
}

// Total returns Num1 + Num2.
func (n Numbers) Total() int {
	return n.Num1 + n.Num2
}

// Of returns the value of the given operand.
func (n Numbers) Of(op Operand) int {
	if op == OperandNum1 {
		return n.Num1
	}
	return n.Num2
}

func (n *Numbers) add(op Operand, delta int) {
	if op == OperandNum1 {
		n.Num1 += delta
		return
	}
	n.Num2 += delta
}

// Step is the work required at one place, derived from the live state.
type Step struct {
	PlaceIndex  int
	PlaceLabel  string
	Digit1      int
	Digit2      int
	Sum         int
	Interaction Interaction
	Result      int
	CarryOut    int

	// Regroup steps only. Units move from Source to Target.
	Source       Operand
	Target       Operand
	BlocksNeeded int
}

// TargetCount returns the units currently at the target place.
func (s Step) TargetCount() int {
	if s.Target == OperandNum1 {
		return s.Digit1
	}
	return s.Digit2
}

// SourceCount returns the units currently at the source place.
func (s Step) SourceCount() int {
	if s.Source == OperandNum1 {
		return s.Digit1
	}
	return s.Digit2
}

// deriveStep computes the step at place from the live numbers.
func deriveStep(place Place, live Numbers) Step {
	d1 := Digit(live.Num1, place.Index)
	d2 := Digit(live.Num2, place.Index)
	sum := d1 + d2

	s := Step{
		PlaceIndex:  place.Index,
		PlaceLabel:  place.Label,
		Digit1:      d1,
		Digit2:      d2,
		Sum:         sum,
		Interaction: DigitEntry,
		Result:      sum % 10,
		CarryOut:    sum / 10,
	}
	if sum < RegroupThreshold {
		return s
	}

	// The operand with fewer units gives them up; ties move from num1 to num2.
	s.Interaction = Regroup
	s.Source, s.Target = OperandNum1, OperandNum2
	if d1 > d2 {
		s.Source, s.Target = OperandNum2, OperandNum1
	}
	s.BlocksNeeded = RegroupThreshold - s.TargetCount()
	return s
}

// Record is the history entry for one completed step.
type Record struct {
	PlaceIndex    int
	PlaceLabel    string
	Before        Numbers
	After         Numbers
	Interaction   Interaction
	CarriedAmount int
	ResultDigit   int
	Moves         int // units moved while regrouping
	Attempts      int // wrong digit entries before success
}

// RegroupOutcome describes the effect of one regroup move.
type RegroupOutcome struct {
	CurrentCount       int    // units at the target place after the move
	CarriedAmount      int    // 1 when the move completed the carry
	NewCarryPlaceLabel string // place that received the carry
}

// Advance is published to subscribers each time a step completes.
type Advance struct {
	Completed Record
	NextLabel string // empty when the problem is complete
	Complete  bool
	Problem   Problem
	Answer    int // valid when Complete
}

package carryover

import (
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// solve drives e to completion with correct actions and returns the number of
// completed steps. It checks conservation and cursor movement on the way.
func solve(t *testing.T, e *Engine) int {
	t.Helper()

	total := e.Problem().Sum()
	steps := 0
	for {
		step, ok := e.CurrentStep()
		if !ok {
			break
		}
		before := e.Cursor()

		switch step.Interaction {
		case DigitEntry:
			require.NoError(t, e.SubmitDigitEntry(step.Sum))
		case Regroup:
			for {
				s, _ := e.CurrentStep()
				_, err := e.SubmitRegroupAction(s.TargetCount())
				require.Equal(t, total, e.Live().Total(), "conservation broken mid-regroup")
				if err == nil {
					break
				}
				var incomplete *IncompleteRegroupError
				require.ErrorAs(t, err, &incomplete)
				require.Equal(t, before, e.Cursor(), "partial move advanced the cursor")
			}
		}

		require.Equal(t, before+1, e.Cursor())
		require.Equal(t, total, e.Live().Total())
		steps++
	}
	return steps
}

func TestBuildPlaceTable(t *testing.T) {
	tests := []struct {
		name       string
		num1, num2 int
		want       []string
	}{
		{"two digits", 47, 18, []string{"Ones", "Tens"}},
		{"extra place from sum", 13, 97, []string{"Ones", "Tens", "Hundreds"}},
		{"zero plus zero", 0, 0, []string{"Ones"}},
		{"uneven lengths", 19923, 145, []string{"Ones", "Tens", "Hundreds", "Thousands", "Ten Thousands"}},
		{"all labels", 9_999_998, 1, []string{"Ones", "Tens", "Hundreds", "Thousands", "Ten Thousands", "Hundred Thousands", "Million"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := BuildPlaceTable(tt.num1, tt.num2)
			require.NoError(t, err)
			assert.Equal(t, tt.want, table.Labels())
			for i, p := range table {
				assert.Equal(t, i, p.Index)
			}
		})
	}
}

func TestBuildPlaceTableErrors(t *testing.T) {
	_, err := BuildPlaceTable(9_999_999, 1)
	assert.ErrorIs(t, err, ErrPlaceLabelOverflow)

	_, err = BuildPlaceTable(-1, 5)
	assert.ErrorIs(t, err, ErrNegativeOperand)

	_, err = LabelFor(MaxPlaces)
	assert.ErrorIs(t, err, ErrPlaceLabelOverflow)
}

func TestPlaceValues(t *testing.T) {
	table, err := BuildPlaceTable(4321, 0)
	require.NoError(t, err)

	want := []int{1, 10, 100, 1000}
	for i, p := range table {
		if p.Value != want[i] {
			t.Errorf("table[%d].Value = %d, want %d", i, p.Value, want[i])
		}
	}

	idx, ok := table.IndexOf("Hundreds")
	if !ok || idx != 2 {
		t.Errorf("IndexOf(Hundreds) = %d, %v, want 2, true", idx, ok)
	}
	if _, ok := table.IndexOf("Million"); ok {
		t.Error("IndexOf(Million) should not be found in a four place table")
	}
}

func TestRegroupOnesOnly(t *testing.T) {
	e, err := New(47, 18)
	require.NoError(t, err)

	step, ok := e.CurrentStep()
	require.True(t, ok)
	assert.Equal(t, Regroup, step.Interaction)
	assert.Equal(t, 7, step.Digit1)
	assert.Equal(t, 8, step.Digit2)
	assert.Equal(t, OperandNum1, step.Source)
	assert.Equal(t, OperandNum2, step.Target)
	assert.Equal(t, 2, step.BlocksNeeded)

	// A digit entry is the wrong interaction here.
	assert.ErrorIs(t, e.SubmitDigitEntry(15), ErrWrongInteraction)

	out, err := e.SubmitRegroupAction(8)
	var incomplete *IncompleteRegroupError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, 9, incomplete.CurrentCount)
	assert.Equal(t, RegroupThreshold, incomplete.Threshold)
	assert.Equal(t, 1, incomplete.Remaining())
	assert.Equal(t, 9, out.CurrentCount)
	assert.Equal(t, Numbers{Num1: 46, Num2: 19}, e.Live())
	assert.Equal(t, 0, e.Cursor())

	out, err = e.SubmitRegroupAction(9)
	require.NoError(t, err)
	assert.Equal(t, 1, out.CarriedAmount)
	assert.Equal(t, "Tens", out.NewCarryPlaceLabel)
	assert.Equal(t, Numbers{Num1: 45, Num2: 20}, e.Live())

	step, ok = e.CurrentStep()
	require.True(t, ok)
	assert.Equal(t, "Tens", step.PlaceLabel)
	assert.Equal(t, DigitEntry, step.Interaction)
	assert.Equal(t, 6, step.Sum)

	require.NoError(t, e.SubmitDigitEntry(6))
	assert.True(t, e.IsComplete())

	answer, ok := e.Answer()
	assert.True(t, ok)
	assert.Equal(t, 65, answer)

	history := e.History()
	require.Len(t, history, 2)
	assert.Equal(t, Record{
		PlaceIndex:    0,
		PlaceLabel:    "Ones",
		Before:        Numbers{Num1: 47, Num2: 18},
		After:         Numbers{Num1: 45, Num2: 20},
		Interaction:   Regroup,
		CarriedAmount: 1,
		ResultDigit:   5,
		Moves:         2,
	}, history[0])
	assert.Equal(t, DigitEntry, history[1].Interaction)
	assert.Equal(t, 6, history[1].ResultDigit)
}

func TestRegroupTargetIsLargerOperand(t *testing.T) {
	e, err := New(96, 24)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ones", "Tens", "Hundreds"}, e.Table().Labels())

	step, _ := e.CurrentStep()
	assert.Equal(t, OperandNum2, step.Source)
	assert.Equal(t, OperandNum1, step.Target)

	for _, observed := range []int{6, 7, 8} {
		_, err := e.SubmitRegroupAction(observed)
		var incomplete *IncompleteRegroupError
		require.ErrorAs(t, err, &incomplete, "observed %d", observed)
		assert.Equal(t, 0, e.Cursor())
	}

	_, err = e.SubmitRegroupAction(9)
	require.NoError(t, err)
	assert.Equal(t, Numbers{Num1: 100, Num2: 20}, e.Live())

	step, _ = e.CurrentStep()
	assert.Equal(t, DigitEntry, step.Interaction)
	assert.Equal(t, 2, step.Sum)
	require.NoError(t, e.SubmitDigitEntry(2))

	step, _ = e.CurrentStep()
	assert.Equal(t, "Hundreds", step.PlaceLabel)
	assert.Equal(t, 1, step.Sum)
	require.NoError(t, e.SubmitDigitEntry(1))

	answer, ok := e.Answer()
	assert.True(t, ok)
	assert.Equal(t, 120, answer)
}

func TestRegroupTieMovesFromFirstNumber(t *testing.T) {
	e, err := New(55, 35)
	require.NoError(t, err)

	step, _ := e.CurrentStep()
	assert.Equal(t, OperandNum1, step.Source)
	assert.Equal(t, OperandNum2, step.Target)
	assert.Equal(t, 5, step.BlocksNeeded)

	assert.Equal(t, 2, solve(t, e))
	assert.Equal(t, 5, e.History()[0].Moves)
}

func TestNoCarryProblemUsesDigitEntryOnly(t *testing.T) {
	e, err := New(12345, 21432)
	require.NoError(t, err)

	want := []int{7, 7, 7, 3, 3}
	for i, sum := range want {
		step, ok := e.CurrentStep()
		require.True(t, ok)
		require.Less(t, step.Sum, 10, "place %d must not carry", i)
		assert.Equal(t, DigitEntry, step.Interaction)
		assert.Equal(t, sum, step.Sum)
		require.NoError(t, e.SubmitDigitEntry(sum))
	}

	assert.True(t, e.IsComplete())
	for _, rec := range e.History() {
		assert.Equal(t, 0, rec.CarriedAmount)
		assert.Equal(t, rec.Before, rec.After)
	}
}

func TestCarryingFixtureIsNotNoCarry(t *testing.T) {
	// 19923 + 145 carries at the hundreds place.
	e, err := New(19923, 145)
	require.NoError(t, err)

	require.NoError(t, e.SubmitDigitEntry(8))
	require.NoError(t, e.SubmitDigitEntry(6))

	step, _ := e.CurrentStep()
	assert.Equal(t, "Hundreds", step.PlaceLabel)
	assert.Equal(t, Regroup, step.Interaction)
}

func TestInvalidEntryLeavesStateUnchanged(t *testing.T) {
	e, err := New(12, 34)
	require.NoError(t, err)

	err = e.SubmitDigitEntry(5)
	var invalid *InvalidEntryError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 6, invalid.Expected)
	assert.Equal(t, 5, invalid.Actual)
	assert.True(t, IsRecoverable(err))
	assert.Equal(t, 0, e.Cursor())
	assert.Equal(t, Numbers{Num1: 12, Num2: 34}, e.Live())

	require.Error(t, e.SubmitDigitEntry(17))
	require.NoError(t, e.SubmitDigitEntry(6))
	assert.Equal(t, 1, e.Cursor())
	assert.Equal(t, 2, e.History()[0].Attempts)
}

func TestCountMismatchLeavesStateUnchanged(t *testing.T) {
	e, err := New(47, 18)
	require.NoError(t, err)

	_, err = e.SubmitRegroupAction(9)
	var mismatch *CountMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 8, mismatch.Expected)
	assert.True(t, IsRecoverable(err))
	assert.Equal(t, Numbers{Num1: 47, Num2: 18}, e.Live())
	assert.Equal(t, 0, e.Cursor())

	_, err = e.SubmitRegroupAction(3)
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, Numbers{Num1: 47, Num2: 18}, e.Live())
	assert.Empty(t, e.History())
}

func TestCurrentStepIsStable(t *testing.T) {
	e, err := New(96, 24)
	require.NoError(t, err)

	first, _ := e.CurrentStep()
	second, _ := e.CurrentStep()
	assert.Equal(t, first, second)

	_, _ = e.SubmitRegroupAction(first.TargetCount())
	third, _ := e.CurrentStep()
	assert.NotEqual(t, first, third, "step must be recomputed after a move")
}

func TestSubmitAfterComplete(t *testing.T) {
	e, err := New(0, 0)
	require.NoError(t, err)
	require.NoError(t, e.SubmitDigitEntry(0))

	_, ok := e.CurrentStep()
	assert.False(t, ok)
	assert.ErrorIs(t, e.SubmitDigitEntry(0), ErrComplete)
	_, err = e.SubmitRegroupAction(0)
	assert.ErrorIs(t, err, ErrComplete)
}

func TestAnswerUnavailableUntilComplete(t *testing.T) {
	e, err := New(47, 18)
	require.NoError(t, err)

	_, ok := e.Answer()
	assert.False(t, ok)
}

func TestCarryWithoutHigherPlaceAborts(t *testing.T) {
	e, err := New(47, 18)
	require.NoError(t, err)
	e.table = e.table[:1]

	_, err = e.SubmitRegroupAction(8)
	require.Error(t, err)
	_, err = e.SubmitRegroupAction(9)
	require.ErrorIs(t, err, ErrPlaceLabelOverflow)
	assert.False(t, IsRecoverable(err))
	assert.True(t, e.Aborted())
	assert.Equal(t, 65, e.Live().Total())

	_, err = e.SubmitRegroupAction(9)
	assert.ErrorIs(t, err, ErrAborted)
}

func TestResetClearsProgress(t *testing.T) {
	e, err := New(47, 18)
	require.NoError(t, err)
	solve(t, e)

	require.NoError(t, e.Reset(5, 3))
	assert.Equal(t, 0, e.Cursor())
	assert.Empty(t, e.History())
	assert.Equal(t, Problem{Num1: 5, Num2: 3}, e.Problem())

	assert.ErrorIs(t, e.Reset(-2, 3), ErrNegativeOperand)
}

func TestSubscribersSeeEveryAdvance(t *testing.T) {
	e, err := New(96, 24)
	require.NoError(t, err)

	var advances []Advance
	e.Subscribe(func(a Advance) {
		// Re-entrant reads must not deadlock.
		_, _ = e.CurrentStep()
		advances = append(advances, a)
	})

	solve(t, e)

	require.Len(t, advances, 3)
	assert.Equal(t, "Ones", advances[0].Completed.PlaceLabel)
	assert.Equal(t, "Tens", advances[0].NextLabel)
	assert.False(t, advances[1].Complete)
	assert.True(t, advances[2].Complete)
	assert.Equal(t, 120, advances[2].Answer)
	assert.Equal(t, Problem{Num1: 96, Num2: 24}, advances[2].Problem)
}

func TestTerminationAndConservation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for range 300 {
		n1 := rng.Intn(5_000_000)
		n2 := rng.Intn(5_000_000)

		e, err := New(n1, n2)
		require.NoError(t, err)

		steps := solve(t, e)
		assert.Equal(t, len(e.Table()), steps, "%d + %d", n1, n2)

		answer, ok := e.Answer()
		require.True(t, ok)
		assert.Equal(t, n1+n2, answer)

		for i, rec := range e.History() {
			assert.Equal(t, Digit(n1+n2, i), rec.ResultDigit, "%d + %d place %d", n1, n2, i)
		}
	}
}

func TestConcurrentSubmissionsAreSerialized(t *testing.T) {
	e, err := New(55, 35)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				step, ok := e.CurrentStep()
				if !ok || step.Interaction != Regroup {
					return
				}
				_, err := e.SubmitRegroupAction(step.TargetCount())
				if err != nil && !IsRecoverable(err) && !errors.Is(err, ErrWrongInteraction) {
					t.Errorf("SubmitRegroupAction() unexpected error: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, e.Cursor())
	assert.Equal(t, 90, e.Live().Total())
	require.Len(t, e.History(), 1)
	assert.Equal(t, 5, e.History()[0].Moves)
}

func TestPromptAndExplain(t *testing.T) {
	e, err := New(47, 18)
	require.NoError(t, err)

	step, _ := e.CurrentStep()
	assert.Equal(t, "Ones: 7 + 8 is 10 or more. Move 2 blocks from the first number to the second number to make ten.", Prompt(step))

	solve(t, e)
	history := e.History()
	assert.Equal(t, "Ones: 7 + 8 = 15. Ten ones became 1 ten, leaving 5 in the ones place.", Explain(history[0]))
	assert.Equal(t, "Tens: 4 + 2 = 6.", Explain(history[1]))
}

func TestExplainRegroupAtMillion(t *testing.T) {
	rec := Record{
		PlaceIndex:    6,
		PlaceLabel:    "Million",
		Before:        Numbers{Num1: 5_000_000, Num2: 5_000_000},
		Interaction:   Regroup,
		CarriedAmount: 1,
	}
	assert.Equal(t, "Million: 5 + 5 = 10. Ten millions became 1 ten million, leaving 0 in the million place.", Explain(rec))
	assert.Equal(t, "", UnitFor(8))
}

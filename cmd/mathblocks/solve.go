package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mathblocks/internal/carryover"
	"github.com/vovakirdan/mathblocks/internal/papertrace"
	"github.com/vovakirdan/mathblocks/internal/platform/tui"
)

var solveCmd = &cobra.Command{
	Use:   "solve <num1> <num2>",
	Short: "Print a worked solution for a sum",
	Long: `Solve num1 + num2 column by column, the way a learner would in the
game, and print each step with the finished paper trace.

Examples:
  mathblocks solve 47 18
  mathblocks solve 999 1`,
	Args: cobra.ExactArgs(2),
	RunE: runSolve,
}

func runSolve(_ *cobra.Command, args []string) error {
	p, err := tui.ParseProblem(strings.Join(args, " "))
	if err != nil {
		return err
	}

	engine, err := carryover.New(p.Num1, p.Num2)
	if err != nil {
		return err
	}
	syncer, err := papertrace.NewSynchronizer(p, engine.Table())
	if err != nil {
		return err
	}

	labels := make([]string, len(engine.Table()))
	for i, place := range engine.Table() {
		labels[len(labels)-1-i] = place.Label
	}
	fmt.Printf("%d + %d\n", p.Num1, p.Num2)
	fmt.Printf("Places: %s\n\n", strings.Join(labels, " | "))

	engine.Subscribe(func(adv carryover.Advance) {
		if err := syncer.Observe(adv); err != nil {
			logger.Error("paper trace disagrees with step", "place", adv.Completed.PlaceLabel, "err", err)
		}
		fmt.Printf("   %s\n", carryover.Explain(adv.Completed))
	})

	for !engine.IsComplete() {
		step, ok := engine.CurrentStep()
		if !ok {
			break
		}
		fmt.Printf("%s\n", carryover.Prompt(step))

		if step.Interaction == carryover.DigitEntry {
			err = engine.SubmitDigitEntry(step.Sum)
		} else {
			err = regroup(engine, step)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", step.PlaceLabel, err)
		}
	}

	fmt.Println()
	for _, line := range syncer.Lines() {
		fmt.Println(line)
	}

	answer, _ := engine.Answer()
	fmt.Printf("\nAnswer: %d\n", answer)
	return nil
}

// regroup moves blocks one at a time until the target column holds ten.
func regroup(engine *carryover.Engine, step carryover.Step) error {
	for {
		out, err := engine.SubmitRegroupAction(step.TargetCount())
		var incomplete *carryover.IncompleteRegroupError
		if !errors.As(err, &incomplete) {
			return err
		}
		fmt.Printf("   moved a block: %d in the %s column\n", out.CurrentCount, strings.ToLower(step.PlaceLabel))

		next, ok := engine.CurrentStep()
		if !ok {
			return nil
		}
		step = next
	}
}

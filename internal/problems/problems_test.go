package problems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/mathblocks/internal/carryover"
)

// regroupPlaces solves p and returns the labels of places that needed regrouping.
func regroupPlaces(t *testing.T, p carryover.Problem) []string {
	t.Helper()
	e, err := carryover.New(p.Num1, p.Num2)
	require.NoError(t, err)

	for {
		step, ok := e.CurrentStep()
		if !ok {
			break
		}
		if step.Interaction == carryover.DigitEntry {
			require.NoError(t, e.SubmitDigitEntry(step.Sum))
			continue
		}
		_, err := e.SubmitRegroupAction(step.TargetCount())
		if err != nil {
			require.True(t, carryover.IsRecoverable(err))
		}
	}

	var places []string
	for _, rec := range e.History() {
		if rec.Interaction == carryover.Regroup {
			places = append(places, rec.PlaceLabel)
		}
	}
	return places
}

func TestDefaultCategoriesMatchTheirNames(t *testing.T) {
	set, err := Default()
	require.NoError(t, err)

	want := map[string][]string{
		CategoryNoCarry:   nil,
		CategoryOnesOnly:  {"Ones"},
		CategoryTensOnly:  {"Tens"},
		CategoryBothCarry: {"Ones", "Tens"},
	}

	for _, c := range set.Categories {
		places, ok := want[c.Name]
		if !ok {
			continue
		}
		for _, pair := range c.Pairs {
			got := regroupPlaces(t, carryover.Problem{Num1: pair[0], Num2: pair[1]})
			assert.Equal(t, places, got, "%s: %d + %d", c.Name, pair[0], pair[1])
		}
	}
}

func TestDefaultHasAllCategories(t *testing.T) {
	set, err := Default()
	require.NoError(t, err)

	g := NewGenerator(set, 1)
	for _, name := range []string{CategoryNoCarry, CategoryOnesOnly, CategoryTensOnly, CategoryBothCarry, CategoryRandom, CategoryExample} {
		_, err := g.Category(name)
		assert.NoError(t, err, name)
	}

	example, err := g.Next(CategoryExample)
	require.NoError(t, err)
	assert.Equal(t, carryover.Problem{Num1: 996, Num2: 114}, example)
}

func TestParseRejectsInvalidSets(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"negative operand", "categories:\n  - name: a\n    title: A\n    pairs: [[-1, 2]]\n"},
		{"three operands", "categories:\n  - name: a\n    title: A\n    pairs: [[1, 2, 3]]\n"},
		{"too many digits", "categories:\n  - name: a\n    title: A\n    pairs: [[12345678, 1]]\n"},
		{"sum needs eighth place", "categories:\n  - name: a\n    title: A\n    pairs: [[9999999, 1]]\n"},
		{"missing title", "categories:\n  - name: a\n    pairs: [[1, 2]]\n"},
		{"no pairs", "categories:\n  - name: a\n    title: A\n"},
		{"duplicate name", "categories:\n  - name: a\n    title: A\n    pairs: [[1, 2]]\n  - name: a\n    title: B\n    pairs: [[3, 4]]\n"},
		{"no categories", "categories: []\n"},
		{"not yaml", "categories: [oops"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestGeneratorDeterministic(t *testing.T) {
	set, err := Default()
	require.NoError(t, err)

	g1 := NewGenerator(set, 42)
	g2 := NewGenerator(set, 42)
	for range 20 {
		p1, err := g1.Next(CategoryRandom)
		require.NoError(t, err)
		p2, err := g2.Next(CategoryRandom)
		require.NoError(t, err)
		assert.Equal(t, p1, p2)
	}
}

func TestGeneratorAvoidsImmediateRepeat(t *testing.T) {
	set, err := Default()
	require.NoError(t, err)

	g := NewGenerator(set, 3)
	prev, err := g.Next(CategoryRandom)
	require.NoError(t, err)
	for range 50 {
		next, err := g.Next(CategoryRandom)
		require.NoError(t, err)
		assert.NotEqual(t, prev, next)
		prev = next
	}
}

func TestGeneratorUnknownCategory(t *testing.T) {
	set, err := Default()
	require.NoError(t, err)

	_, err = NewGenerator(set, 1).Next("fractions")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestCustom(t *testing.T) {
	p, err := Custom(47, 18)
	require.NoError(t, err)
	assert.Equal(t, carryover.Problem{Num1: 47, Num2: 18}, p)

	_, err = Custom(-3, 4)
	assert.Error(t, err)

	_, err = Custom(9_999_999, 1)
	assert.ErrorIs(t, err, carryover.ErrPlaceLabelOverflow)
}

func TestLoadCustomFile(t *testing.T) {
	t.Setenv("MATHBLOCKS_HOME", t.TempDir())

	set, err := Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, set.Categories)

	_, err = Load("/nonexistent/problems.yaml")
	assert.Error(t, err)
}

// Package problems supplies addition problems for the carry-over tutor from
// named categories. Problem sets are YAML, validated on load.
package problems

import (
	_ "embed"
	"errors"
	"fmt"
	"math/rand"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/mathblocks/internal/carryover"
	"github.com/vovakirdan/mathblocks/internal/config"
)

// Built-in category names.
const (
	CategoryNoCarry   = "no-carry"
	CategoryOnesOnly  = "ones-only"
	CategoryTensOnly  = "tens-only"
	CategoryBothCarry = "both-carry"
	CategoryRandom    = "random"
	CategoryExample   = "example"
)

// ErrUnknownCategory is returned for a category that is not in the set.
var ErrUnknownCategory = errors.New("problems: unknown category")

//go:embed defaults/problems.yaml
var defaultProblemsYAML []byte

var validate = validator.New()

// Category is a named list of operand pairs.
type Category struct {
	Name        string  `yaml:"name" validate:"required"`
	Title       string  `yaml:"title" validate:"required"`
	Description string  `yaml:"description"`
	Pairs       [][]int `yaml:"pairs" validate:"required,min=1,dive,len=2,dive,gte=0,lte=9999999"`
}

// Set is a collection of categories.
type Set struct {
	Categories []Category `yaml:"categories" validate:"required,min=1,dive"`
}

// customPair validates a learner-typed problem.
type customPair struct {
	Num1 int `validate:"gte=0,lte=9999999"`
	Num2 int `validate:"gte=0,lte=9999999"`
}

// Parse decodes and validates a problem set.
func Parse(data []byte) (Set, error) {
	var set Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return Set{}, fmt.Errorf("problems: cannot parse set: %w", err)
	}
	if err := set.Validate(); err != nil {
		return Set{}, err
	}
	return set, nil
}

// Validate checks field constraints and that every pair fits the place table.
func (s Set) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("problems: invalid set: %w", err)
	}
	seen := make(map[string]bool, len(s.Categories))
	for _, c := range s.Categories {
		if seen[c.Name] {
			return fmt.Errorf("problems: duplicate category %q", c.Name)
		}
		seen[c.Name] = true
		for _, p := range c.Pairs {
			if _, err := carryover.BuildPlaceTable(p[0], p[1]); err != nil {
				return fmt.Errorf("problems: %s pair %d + %d: %w", c.Name, p[0], p[1], err)
			}
		}
	}
	return nil
}

// Default returns the embedded problem set.
func Default() (Set, error) {
	return Parse(defaultProblemsYAML)
}

// Load reads a problem set.
// Search order: customPath -> <home>/configs/problems.yaml -> ./configs/problems.yaml -> embedded.
func Load(customPath string) (Set, error) {
	data, err := config.ReadLayered("problems.yaml", customPath, defaultProblemsYAML)
	if err != nil {
		return Set{}, err
	}
	return Parse(data)
}

// Custom validates a learner-chosen pair.
func Custom(num1, num2 int) (carryover.Problem, error) {
	if err := validate.Struct(customPair{Num1: num1, Num2: num2}); err != nil {
		return carryover.Problem{}, fmt.Errorf("problems: invalid custom problem: %w", err)
	}
	if _, err := carryover.BuildPlaceTable(num1, num2); err != nil {
		return carryover.Problem{}, fmt.Errorf("problems: invalid custom problem: %w", err)
	}
	return carryover.Problem{Num1: num1, Num2: num2}, nil
}

// Generator picks problems from a set with a seeded RNG.
// It is not safe for concurrent use.
type Generator struct {
	set  Set
	rng  *rand.Rand
	last map[string]int
}

// NewGenerator creates a generator over set.
func NewGenerator(set Set, seed int64) *Generator {
	return &Generator{
		set:  set,
		rng:  rand.New(rand.NewSource(seed)),
		last: make(map[string]int),
	}
}

// Categories returns the categories in set order.
func (g *Generator) Categories() []Category {
	return g.set.Categories
}

// Category looks up a category by name.
func (g *Generator) Category(name string) (Category, error) {
	for _, c := range g.set.Categories {
		if c.Name == name {
			return c, nil
		}
	}
	return Category{}, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

// Next returns a problem from the named category. The same pair is not
// returned twice in a row when the category has more than one.
func (g *Generator) Next(category string) (carryover.Problem, error) {
	c, err := g.Category(category)
	if err != nil {
		return carryover.Problem{}, err
	}

	idx := g.rng.Intn(len(c.Pairs))
	if last, ok := g.last[category]; ok && len(c.Pairs) > 1 && idx == last {
		idx = (idx + 1 + g.rng.Intn(len(c.Pairs)-1)) % len(c.Pairs)
	}
	g.last[category] = idx

	pair := c.Pairs[idx]
	return carryover.Problem{Num1: pair[0], Num2: pair[1]}, nil
}

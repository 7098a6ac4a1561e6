package core

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(2, 3, 4, 2)

	tests := []struct {
		p    Point
		want bool
	}{
		{Point{2, 3}, true},
		{Point{5, 4}, true},
		{Point{6, 4}, false},
		{Point{5, 5}, false},
		{Point{1, 3}, false},
	}

	for _, tc := range tests {
		if got := r.ContainsPoint(tc.p); got != tc.want {
			t.Errorf("ContainsPoint(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
	if r.Right() != 6 || r.Bottom() != 5 {
		t.Errorf("edges = (%d, %d), want (6, 5)", r.Right(), r.Bottom())
	}
}

func TestPointAddAndManhattan(t *testing.T) {
	p := Point{X: 3, Y: 4}.Add(Point{X: -1, Y: 2})
	if p != (Point{X: 2, Y: 6}) {
		t.Errorf("Add = %v, want {2 6}", p)
	}
	if d := Manhattan(Point{0, 0}, Point{-3, 4}); d != 7 {
		t.Errorf("Manhattan = %d, want 7", d)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, want int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.lo, tc.hi); got != tc.want {
			t.Errorf("Clamp(%d, %d, %d) = %d, want %d", tc.val, tc.lo, tc.hi, got, tc.want)
		}
	}
}

func TestAbs(t *testing.T) {
	for in, want := range map[int]int{5: 5, -5: 5, 0: 0} {
		if got := Abs(in); got != want {
			t.Errorf("Abs(%d) = %d, want %d", in, got, want)
		}
	}
}

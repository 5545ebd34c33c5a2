package core

import "testing"

func testField() Field {
	return Field{HalfExtent: 3, LineWeight: 0.2}
}

func TestClassifyQuadrant(t *testing.T) {
	tests := []struct {
		name     string
		p        Vec3
		expected Quadrant
	}{
		{"plus x plus z", V(1, 0, 1), Quadrant1},
		{"minus x plus z", V(-1, 0, 1), Quadrant2},
		{"minus x minus z", V(-1, 0, -1), Quadrant3},
		{"plus x minus z", V(1, 0, -1), Quadrant4},
		{"origin", Zero, Quadrant1},
		{"on negative x axis", V(-2, 0, 0), Quadrant2},
		{"height ignored", V(1, -5, -1), Quadrant4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyQuadrant(tc.p); got != tc.expected {
				t.Errorf("ClassifyQuadrant(%v) = %v, expected %v", tc.p, got, tc.expected)
			}
		})
	}
}

func TestRectBasics(t *testing.T) {
	r := NewRect(0, 0, 3, 2)

	if r.Area() != 6 {
		t.Errorf("Area() = %v, expected 6", r.Area())
	}
	if c := r.Center(); c != V(1.5, 0, 1) {
		t.Errorf("Center() = %v, expected (1.5, 0, 1)", c)
	}
	if !r.Contains(V(3, 7, 2)) {
		t.Error("Contains() should include the upper-right corner")
	}
	if r.Contains(V(3.01, 0, 1)) {
		t.Error("Contains() should exclude points beyond the right edge")
	}

	if !NewRect(1, 1, 1, 4).Degenerate() {
		t.Error("zero-width rect should be degenerate")
	}
	if !NewRect(2, 2, 1, 1).Degenerate() {
		t.Error("inverted rect should be degenerate")
	}
}

func TestFieldInBounds(t *testing.T) {
	f := testField()

	tests := []struct {
		name     string
		p        Vec3
		expected bool
	}{
		{"center", Zero, true},
		{"on outer line", V(3, 0, -3), true},
		{"past x", V(3.01, 0, 0), false},
		{"past negative z", V(0, 0, -3.5), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.InBounds(tc.p); got != tc.expected {
				t.Errorf("InBounds(%v) = %v, expected %v", tc.p, got, tc.expected)
			}
		})
	}
}

func TestQuadrantRectCoversQuadrant(t *testing.T) {
	f := testField()
	for _, q := range Quadrants {
		r := f.QuadrantRect(q)
		if got := ClassifyQuadrant(r.Center()); got != q {
			t.Errorf("QuadrantRect(%v) center lies in %v", q, got)
		}
		if r.Area() != 9 {
			t.Errorf("QuadrantRect(%v) area = %v, expected 9", q, r.Area())
		}
	}
}

func TestInOwnedRectangleMiddleLines(t *testing.T) {
	f := testField()

	tests := []struct {
		name     string
		q        Quadrant
		p        Vec3
		expected bool
	}{
		{"q1 inside", Quadrant1, V(1, 0, 1), true},
		{"q1 on mid-line strip", Quadrant1, V(0.1, 0, 1), false},
		{"q1 outer strip still owned", Quadrant1, V(2.9, 0, 2.9), true},
		{"q2 inside", Quadrant2, V(-1, 0, 1), true},
		{"q2 on mid-line strip", Quadrant2, V(-0.1, 0, 1), false},
		{"q2 on z mid-line strip", Quadrant2, V(-1, 0, 0.15), false},
		{"q3 inside", Quadrant3, V(-1, 0, -1), true},
		{"q3 on mid-line strip", Quadrant3, V(-1, 0, -0.1), false},
		{"q4 inside", Quadrant4, V(1, 0, -1), true},
		{"q4 on mid-line strip", Quadrant4, V(0.05, 0, -1), false},
		{"other quadrant", Quadrant1, V(-1, 0, 1), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := f.QuadrantRect(tc.q)
			if got := f.InOwnedRectangle(tc.p, r, true, false); got != tc.expected {
				t.Errorf("InOwnedRectangle(%v, %v, true, false) = %v, expected %v", tc.p, tc.q, got, tc.expected)
			}
		})
	}
}

func TestInOwnedRectangleBothLines(t *testing.T) {
	f := testField()

	tests := []struct {
		name     string
		q        Quadrant
		p        Vec3
		expected bool
	}{
		{"q1 interior", Quadrant1, V(1.5, 0, 1.5), true},
		{"q1 outer strip", Quadrant1, V(2.9, 0, 1.5), false},
		{"q2 outer strip x", Quadrant2, V(-2.9, 0, 1.5), false},
		{"q2 outer strip z", Quadrant2, V(-1.5, 0, 2.9), false},
		{"q3 outer strip", Quadrant3, V(-1.5, 0, -2.95), false},
		{"q3 interior", Quadrant3, V(-1.5, 0, -1.5), true},
		{"q4 outer strip", Quadrant4, V(2.85, 0, -1.5), false},
		{"q4 mid strip", Quadrant4, V(1.5, 0, -0.1), false},
		{"q4 interior", Quadrant4, V(1.5, 0, -1.5), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := f.QuadrantRect(tc.q)
			if got := f.InOwnedRectangle(tc.p, r, true, true); got != tc.expected {
				t.Errorf("InOwnedRectangle(%v, %v, true, true) = %v, expected %v", tc.p, tc.q, got, tc.expected)
			}
		})
	}
}

func TestInOwnedRectangleNoTrim(t *testing.T) {
	f := testField()
	r := f.QuadrantRect(Quadrant1)
	if !f.InOwnedRectangle(V(0.05, 0, 0.05), r, false, false) {
		t.Error("untrimmed rectangle should include the mid-line strip")
	}
}

package coord

import "testing"

func TestIsAdjacentTo(t *testing.T) {
	cases := []struct {
		a, b     Coordinates
		adjacent bool
	}{
		{New(1, 1), New(1, 2), true},
		{New(1, 1), New(2, 1), true},
		{New(1, 1), New(1, 1), false},
		{New(1, 1), New(2, 2), false},
		{New(0, 0), New(0, 1), true},
	}

	for _, c := range cases {
		if got := c.a.IsAdjacentTo(c.b); got != c.adjacent {
			t.Errorf("IsAdjacentTo(%v, %v) = %v, want %v", c.a, c.b, got, c.adjacent)
		}
	}
}

func TestManhattanDistance(t *testing.T) {
	if d := New(0, 0).ManhattanDistance(New(3, 4)); d != 7 {
		t.Errorf("ManhattanDistance = %d, want 7", d)
	}
}

func TestDirectionApplySaturates(t *testing.T) {
	if got := Up.Apply(New(5, 255)); got != New(5, 255) {
		t.Errorf("Up.Apply at max Y = %v, want saturated", got)
	}
	if got := Left.Apply(New(0, 5)); got != New(0, 5) {
		t.Errorf("Left.Apply at min X = %v, want saturated", got)
	}
	if got := Right.Apply(New(5, 5)); got != New(6, 5) {
		t.Errorf("Right.Apply = %v, want (6,5)", got)
	}
}

func TestMudMapBidirectional(t *testing.T) {
	m := NewMudMap()
	a, b := New(1, 1), New(1, 2)
	m.Insert(a, b, 3)

	if v, ok := m.Get(a, b); !ok || v != 3 {
		t.Errorf("Get(a, b) = %d, %v; want 3, true", v, ok)
	}
	if v, ok := m.Get(b, a); !ok || v != 3 {
		t.Errorf("Get(b, a) = %d, %v; want 3, true", v, ok)
	}
}

func TestMudMapInsertPanicsBelowTwo(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic inserting mud value < 2")
		}
	}()
	NewMudMap().Insert(New(0, 0), New(0, 1), 1)
}

func TestMudMapEdgesYieldsEachPairOnce(t *testing.T) {
	m := NewMudMap()
	m.Insert(New(0, 0), New(0, 1), 2)
	m.Insert(New(2, 2), New(2, 3), 4)

	edges := m.Edges()
	if len(edges) != 2 {
		t.Fatalf("len(Edges()) = %d, want 2", len(edges))
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
	for _, e := range edges {
		if !e.A.Less(e.B) {
			t.Errorf("edge %v not in canonical order", e)
		}
	}
}

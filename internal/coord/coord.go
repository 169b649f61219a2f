// Package coord defines the grid primitives PyRat is built on: cell
// coordinates and the four-way (plus stay) direction enum, in the
// mathematical coordinate system where (0,0) is bottom-left and y grows
// upward.
package coord

// Coordinates identifies a single cell on the board. Both axes fit in a
// byte, matching the engine's board-size ceiling.
type Coordinates struct {
	X, Y uint8
}

// New constructs a Coordinates pair.
func New(x, y uint8) Coordinates {
	return Coordinates{X: x, Y: y}
}

// ToIndex returns the row-major linear index of the cell on a board of the
// given width.
func (c Coordinates) ToIndex(width uint8) int {
	return int(c.Y)*int(width) + int(c.X)
}

// IsAdjacentTo reports whether the two cells are 4-neighbors (Manhattan
// distance exactly 1). Diagonal and identical cells are not adjacent.
func (c Coordinates) IsAdjacentTo(other Coordinates) bool {
	dx := absDiff(c.X, other.X)
	dy := absDiff(c.Y, other.Y)
	return (dx == 1 && dy == 0) || (dx == 0 && dy == 1)
}

// ManhattanDistance returns |dx| + |dy| between the two cells.
func (c Coordinates) ManhattanDistance(other Coordinates) int {
	return int(absDiff(c.X, other.X)) + int(absDiff(c.Y, other.Y))
}

// Less orders coordinates lexicographically by (X, Y); used to canonicalize
// unordered mud-edge pairs.
func (c Coordinates) Less(other Coordinates) bool {
	if c.X != other.X {
		return c.X < other.X
	}
	return c.Y < other.Y
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

// Direction is a tagged direction of travel. Up/Right/Down/Left carry the
// fixed tags 0..3 used as move-table bit indices; Stay is never stored in
// the move table.
type Direction uint8

const (
	Up Direction = iota
	Right
	Down
	Left
	Stay
)

// Apply returns the neighbor of pos in direction d, saturating at the grid
// edges (0 and 255). Saturation is a pure arithmetic guard — whether the
// move is actually legal is decided by the move table, not here.
func (d Direction) Apply(pos Coordinates) Coordinates {
	switch d {
	case Up:
		return Coordinates{X: pos.X, Y: satAdd(pos.Y)}
	case Down:
		return Coordinates{X: pos.X, Y: satSub(pos.Y)}
	case Right:
		return Coordinates{X: satAdd(pos.X), Y: pos.Y}
	case Left:
		return Coordinates{X: satSub(pos.X), Y: pos.Y}
	default: // Stay
		return pos
	}
}

func satAdd(v uint8) uint8 {
	if v == 255 {
		return v
	}
	return v + 1
}

func satSub(v uint8) uint8 {
	if v == 0 {
		return v
	}
	return v - 1
}

// MudMap is a bidirectional lookup from an unordered adjacent-cell pair to
// a mud cost (always >= 2; "no mud" is represented by absence, never by a
// stored 1). Iteration yields each edge exactly once, as a canonical
// (smaller, larger) pair.
type MudMap struct {
	values map[Coordinates]map[Coordinates]uint8
}

// NewMudMap returns an empty mud map.
func NewMudMap() *MudMap {
	return &MudMap{values: make(map[Coordinates]map[Coordinates]uint8)}
}

// Insert stores value for the unordered pair (a, b). value must be >= 2.
func (m *MudMap) Insert(a, b Coordinates, value uint8) {
	if value < 2 {
		panic("mudmap: value must be >= 2")
	}
	m.set(a, b, value)
	m.set(b, a, value)
}

func (m *MudMap) set(from, to Coordinates, value uint8) {
	row, ok := m.values[from]
	if !ok {
		row = make(map[Coordinates]uint8)
		m.values[from] = row
	}
	row[to] = value
}

// Get returns the mud cost between a and b regardless of argument order.
func (m *MudMap) Get(a, b Coordinates) (uint8, bool) {
	if row, ok := m.values[a]; ok {
		if v, ok := row[b]; ok {
			return v, true
		}
	}
	return 0, false
}

// Edge is one canonical (a < b) mud edge and its cost.
type Edge struct {
	A, B  Coordinates
	Value uint8
}

// Edges returns every mud edge exactly once, each as a canonical (A < B)
// pair. The order of edges within the returned slice is not defined.
func (m *MudMap) Edges() []Edge {
	edges := make([]Edge, 0, len(m.values))
	for a, row := range m.values {
		for b, v := range row {
			if a.Less(b) {
				edges = append(edges, Edge{A: a, B: b, Value: v})
			}
		}
	}
	return edges
}

// Len returns the number of unique mud edges.
func (m *MudMap) Len() int {
	n := 0
	for a, row := range m.values {
		for b := range row {
			if a.Less(b) {
				n++
			}
		}
	}
	return n
}

// Package observation derives the per-cell tensors learning agents consume:
// a movement-constraint cube (wall/mud cost per cell and direction) and a
// cheese-presence matrix. Both are computed once at construction and kept
// in sync with the owning game incrementally on the hot path, with a full
// refresh reserved for the paths where incremental tracking isn't
// feasible (undo, reset).
package observation

import (
	"pyrat/game"
	"pyrat/internal/coord"
)

// directions is the fixed (Up, Right, Down, Left) axis order the movement
// matrix's last dimension follows, matching coord.Direction's tags.
var directions = [4]coord.Direction{coord.Up, coord.Right, coord.Down, coord.Left}

// MovementConstraints is a [width][height][4]int8 cube: -1 means blocked
// (wall or boundary), 0 means a mud-free passage, k >= 2 means a passage
// with mud cost k. It never changes after construction — walls and mud
// are immutable for a game's lifetime.
type MovementConstraints struct {
	matrix [][][4]int8
	width  uint8
	height uint8
}

// NewMovementConstraints fills the cube in O(width*height) from a game's
// move table and mud map.
func NewMovementConstraints(g *game.State) *MovementConstraints {
	width, height := g.Width(), g.Height()
	matrix := make([][][4]int8, width)
	for x := range matrix {
		matrix[x] = make([][4]int8, height)
	}

	mc := &MovementConstraints{matrix: matrix, width: width, height: height}

	for x := uint8(0); x < width; x++ {
		for y := uint8(0); y < height; y++ {
			pos := coord.New(x, y)
			for dirIdx, dir := range directions {
				if !g.MoveTable().IsMoveValid(pos, dir) {
					matrix[x][y][dirIdx] = -1
					continue
				}
				target := dir.Apply(pos)
				if mudCost, ok := g.Mud().Get(pos, target); ok {
					matrix[x][y][dirIdx] = int8(mudCost)
				}
			}
		}
	}

	return mc
}

// At returns the constraint value for pos in direction dir.
func (m *MovementConstraints) At(pos coord.Coordinates, dir coord.Direction) int8 {
	for dirIdx, d := range directions {
		if d == dir {
			return m.matrix[pos.X][pos.Y][dirIdx]
		}
	}
	return -1
}

// Matrix returns the underlying cube. Callers must not mutate it; Go has
// no borrow checker to enforce this, so treat the return value as
// read-only, the same contract the original's borrowed-reference design
// relies on.
func (m *MovementConstraints) Matrix() [][][4]int8 { return m.matrix }

// Handler manages the movement-constraint cube and cheese matrix for one
// game, keeping the cheese matrix in sync as the game is played.
type Handler struct {
	movement *MovementConstraints
	cheese   [][]uint8
	width    uint8
	height   uint8
}

// New builds a Handler from a game's current state, including an initial
// population of the cheese matrix from the game's cheese board.
func New(g *game.State) *Handler {
	width, height := g.Width(), g.Height()
	cheese := make([][]uint8, width)
	for x := range cheese {
		cheese[x] = make([]uint8, height)
	}

	h := &Handler{
		movement: NewMovementConstraints(g),
		cheese:   cheese,
		width:    width,
		height:   height,
	}
	h.populateCheese(g)
	return h
}

func (h *Handler) populateCheese(g *game.State) {
	for _, pos := range g.Cheese().AllPositions() {
		h.cheese[pos.X][pos.Y] = 1
	}
}

// UpdateCollectedCheese clears the matrix entries for cells whose cheese
// was just collected, the cheap incremental path a caller takes after every
// ProcessTurn by passing in TurnResult.CollectedCheese.
func (h *Handler) UpdateCollectedCheese(collected []coord.Coordinates) {
	for _, pos := range collected {
		h.cheese[pos.X][pos.Y] = 0
	}
}

// RestoreCheese sets a single cell back to present. Used by callers that
// track unmake_move's restored cheese one coordinate at a time instead of
// paying for a full RefreshCheese.
func (h *Handler) RestoreCheese(pos coord.Coordinates) {
	h.cheese[pos.X][pos.Y] = 1
}

// RefreshCheese clears and repopulates the whole matrix from the game's
// current cheese board. Needed after UnmakeMove or Reset, where
// incremental tracking would require bookkeeping this package doesn't
// keep.
func (h *Handler) RefreshCheese(g *game.State) {
	for x := range h.cheese {
		for y := range h.cheese[x] {
			h.cheese[x][y] = 0
		}
	}
	h.populateCheese(g)
}

// CheeseMatrix returns the underlying cheese-presence matrix, read-only by
// convention (see MovementConstraints.Matrix).
func (h *Handler) CheeseMatrix() [][]uint8 { return h.cheese }

// MovementConstraints returns the handler's immutable movement cube.
func (h *Handler) MovementConstraints() *MovementConstraints { return h.movement }

// PlayerView is one player's observable state as seen from their own
// perspective.
type PlayerView struct {
	Position     Coordinates
	MudTurns     uint8
	Score        float32
	NearbyCheese uint16
}

// densityRadius bounds the square window CountInArea scans around a player
// for NearbyCheese: cheap enough for a per-turn call, wide enough to be a
// useful local heuristic.
const densityRadius = 2

// localDensity counts cheese in the square window of densityRadius around
// pos, clamped to the board, via cheeseboard.CountInArea.
func localDensity(g *game.State, pos coord.Coordinates) uint16 {
	width, height := int(g.Width()), int(g.Height())

	minX, maxX := clamp(int(pos.X)-densityRadius, width), clamp(int(pos.X)+densityRadius, width)
	minY, maxY := clamp(int(pos.Y)-densityRadius, height), clamp(int(pos.Y)+densityRadius, height)

	return g.Cheese().CountInArea(coord.New(uint8(minX), uint8(minY)), coord.New(uint8(maxX), uint8(maxY)))
}

func clamp(v, size int) int {
	if v < 0 {
		return 0
	}
	if v > size-1 {
		return size - 1
	}
	return v
}

// Coordinates mirrors coord.Coordinates so this package's exported
// observation shape doesn't force callers to import internal/coord just
// to read a position; it converts trivially at the boundary.
type Coordinates struct {
	X, Y uint8
}

func fromCoord(c coord.Coordinates) Coordinates { return Coordinates{X: c.X, Y: c.Y} }

// GameObservation is the full per-player view: the caller's own state,
// the opponent's, the turn budget, and the two tensors.
type GameObservation struct {
	Player         PlayerView
	Opponent       PlayerView
	CurrentTurn    uint16
	MaxTurns       uint16
	CheeseMatrix   [][]uint8
	MovementMatrix [][][4]int8
}

// GetObservation assembles a GameObservation for player one or player two.
func (h *Handler) GetObservation(g *game.State, isPlayerOne bool) GameObservation {
	p1, p2 := g.Player1(), g.Player2()

	player, opponent := p1, p2
	if !isPlayerOne {
		player, opponent = p2, p1
	}

	return GameObservation{
		Player: PlayerView{
			Position:     fromCoord(player.CurrentPos),
			MudTurns:     player.MudTimer,
			Score:        player.Score,
			NearbyCheese: localDensity(g, player.CurrentPos),
		},
		Opponent: PlayerView{
			Position:     fromCoord(opponent.CurrentPos),
			MudTurns:     opponent.MudTimer,
			Score:        opponent.Score,
			NearbyCheese: localDensity(g, opponent.CurrentPos),
		},
		CurrentTurn:    g.Turn(),
		MaxTurns:       g.MaxTurns(),
		CheeseMatrix:   h.cheese,
		MovementMatrix: h.movement.matrix,
	}
}

package game

import (
	"testing"

	"pyrat/internal/coord"
	"pyrat/internal/movetable"
)

func openBoard3x3(p1, p2 coord.Coordinates) *State {
	return NewWithConfig(Config{
		Width:      3,
		Height:     3,
		Walls:      movetable.WallMap{},
		Player1Pos: p1,
		Player2Pos: p2,
		MaxTurns:   10,
	})
}

// S1 — basic move on an empty 3x3 board.
func TestScenarioBasicMove(t *testing.T) {
	g := openBoard3x3(coord.New(0, 0), coord.New(2, 2))
	result := g.ProcessTurn(coord.Right, coord.Left)

	if g.Player1().CurrentPos != coord.New(1, 0) {
		t.Errorf("P1 = %v, want (1,0)", g.Player1().CurrentPos)
	}
	if g.Player2().CurrentPos != coord.New(1, 2) {
		t.Errorf("P2 = %v, want (1,2)", g.Player2().CurrentPos)
	}
	if len(result.CollectedCheese) != 0 {
		t.Errorf("collected = %v, want none", result.CollectedCheese)
	}
	if g.Turn() != 1 {
		t.Errorf("turn = %d, want 1", g.Turn())
	}
	if result.GameOver {
		t.Error("game_over should be false")
	}
}

// S2 — boundary collision: both players walk into the edge of the board.
func TestScenarioBoundaryCollision(t *testing.T) {
	g := openBoard3x3(coord.New(0, 0), coord.New(2, 2))
	g.ProcessTurn(coord.Left, coord.Right)

	if g.Player1().CurrentPos != coord.New(0, 0) {
		t.Errorf("P1 = %v, want unchanged (0,0)", g.Player1().CurrentPos)
	}
	if g.Player2().CurrentPos != coord.New(2, 2) {
		t.Errorf("P2 = %v, want unchanged (2,2)", g.Player2().CurrentPos)
	}
	if g.Player1().Misses != 1 || g.Player2().Misses != 1 {
		t.Errorf("misses = (%d,%d), want (1,1)", g.Player1().Misses, g.Player2().Misses)
	}
}

// S3 — mud traversal: enter, tick, exit.
func TestScenarioMudTraversal(t *testing.T) {
	mud := coord.NewMudMap()
	mud.Insert(coord.New(1, 1), coord.New(1, 2), 2)

	g := NewWithConfig(Config{
		Width:      3,
		Height:     3,
		Walls:      movetable.WallMap{},
		Mud:        mud,
		Player1Pos: coord.New(1, 1),
		Player2Pos: coord.New(0, 0),
		MaxTurns:   10,
	})

	r1 := g.ProcessTurn(coord.Up, coord.Stay)
	if g.Player1().CurrentPos != coord.New(1, 1) || g.Player1().TargetPos != coord.New(1, 2) {
		t.Fatalf("turn1: pos=%v target=%v, want visible (1,1) target (1,2)", g.Player1().CurrentPos, g.Player1().TargetPos)
	}
	if g.Player1().MudTimer != 2 {
		t.Fatalf("turn1: mud_timer=%d, want 2", g.Player1().MudTimer)
	}
	if r1.P1Moved {
		t.Fatal("turn1: p1_moved should be false while entering mud")
	}

	r2 := g.ProcessTurn(coord.Right, coord.Stay)
	if g.Player1().CurrentPos != coord.New(1, 1) {
		t.Fatalf("turn2: pos=%v, want still (1,1)", g.Player1().CurrentPos)
	}
	if g.Player1().MudTimer != 1 {
		t.Fatalf("turn2: mud_timer=%d, want 1", g.Player1().MudTimer)
	}
	if r2.P1Moved {
		t.Fatal("turn2: p1_moved should be false mid-mud")
	}

	r3 := g.ProcessTurn(coord.Left, coord.Stay)
	if g.Player1().CurrentPos != coord.New(1, 2) {
		t.Fatalf("turn3: pos=%v, want (1,2)", g.Player1().CurrentPos)
	}
	if g.Player1().MudTimer != 0 {
		t.Fatalf("turn3: mud_timer=%d, want 0", g.Player1().MudTimer)
	}
	if !r3.P1Moved {
		t.Fatal("turn3: p1_moved should be true on the exit turn")
	}
}

// S4 — simultaneous collection splits the cheese's value.
func TestScenarioSimultaneousCollection(t *testing.T) {
	g := NewWithConfig(Config{
		Width:           3,
		Height:          3,
		Walls:           movetable.WallMap{},
		CheesePositions: []coord.Coordinates{coord.New(1, 1)},
		Player1Pos:      coord.New(0, 1),
		Player2Pos:      coord.New(2, 1),
		MaxTurns:        10,
	})

	result := g.ProcessTurn(coord.Right, coord.Left)

	if len(result.CollectedCheese) != 1 || result.CollectedCheese[0] != coord.New(1, 1) {
		t.Fatalf("collected = %v, want [(1,1)]", result.CollectedCheese)
	}
	if result.P1Score != 0.5 || result.P2Score != 0.5 {
		t.Fatalf("scores = (%.1f,%.1f), want (0.5,0.5)", result.P1Score, result.P2Score)
	}
	if !result.GameOver {
		t.Fatal("game_over should be true once all cheese is gone")
	}
}

// S5 — win by majority, strict '>' against half the initial cheese.
func TestScenarioWinByMajority(t *testing.T) {
	g := NewWithConfig(Config{
		Width:  3,
		Height: 3,
		Walls:  movetable.WallMap{},
		CheesePositions: []coord.Coordinates{
			coord.New(1, 0), coord.New(1, 1), coord.New(1, 2),
		},
		Player1Pos: coord.New(0, 0),
		Player2Pos: coord.New(2, 2),
		MaxTurns:   10,
	})

	r1 := g.ProcessTurn(coord.Right, coord.Stay)
	if r1.P1Score != 1.0 {
		t.Fatalf("turn1: p1_score=%.1f, want 1.0", r1.P1Score)
	}
	if r1.GameOver {
		t.Fatal("turn1: game_over should be false (1.0 is not > 1.5)")
	}

	r2 := g.ProcessTurn(coord.Up, coord.Stay)
	if r2.P1Score != 2.0 {
		t.Fatalf("turn2: p1_score=%.1f, want 2.0", r2.P1Score)
	}
	if !r2.GameOver {
		t.Fatal("turn2: game_over should be true (2.0 > 1.5)")
	}
}

// S6 — make/unmake across a mud traversal and a collection restores the
// exact setup state. (Crossing a cost-2 mud edge takes an entry turn plus
// two subsequent decrements, so the walk below runs five turns rather than
// three to actually land on and collect the cheese before unwinding.)
func TestScenarioMakeUnmakeAcrossMudAndCollection(t *testing.T) {
	mud := coord.NewMudMap()
	mud.Insert(coord.New(1, 1), coord.New(1, 2), 2)

	g := NewWithConfig(Config{
		Width:           3,
		Height:          3,
		Walls:           movetable.WallMap{},
		Mud:             mud,
		CheesePositions: []coord.Coordinates{coord.New(1, 2)},
		Player1Pos:      coord.New(0, 0),
		Player2Pos:      coord.New(2, 2),
		MaxTurns:        20,
	})

	initialCheese := g.Cheese().Initial()
	initialRemaining := g.Cheese().Remaining()
	p1Start, p2Start := g.Player1(), g.Player2()
	turnStart := g.Turn()

	moves := []coord.Direction{coord.Up, coord.Right, coord.Up, coord.Stay, coord.Stay}
	undos := make([]MoveUndo, len(moves))
	for i, d := range moves {
		undos[i] = g.MakeMove(d, coord.Stay)
	}

	if g.Player1().CurrentPos != coord.New(1, 2) {
		t.Fatalf("after moves: P1 = %v, want (1,2)", g.Player1().CurrentPos)
	}
	if g.Player1().Score != 1.0 {
		t.Fatalf("after moves: p1 score = %.1f, want 1.0", g.Player1().Score)
	}
	if g.Cheese().Remaining() != 0 {
		t.Fatalf("after moves: remaining cheese = %d, want 0", g.Cheese().Remaining())
	}

	for i := len(undos) - 1; i >= 0; i-- {
		g.UnmakeMove(undos[i])
	}

	if g.Player1() != p1Start || g.Player2() != p2Start {
		t.Errorf("after unmake: players = (%v,%v), want (%v,%v)", g.Player1(), g.Player2(), p1Start, p2Start)
	}
	if g.Turn() != turnStart {
		t.Errorf("after unmake: turn = %d, want %d", g.Turn(), turnStart)
	}
	if g.Cheese().Initial() != initialCheese {
		t.Errorf("after unmake: initial cheese = %d, want %d", g.Cheese().Initial(), initialCheese)
	}
	if g.Cheese().Remaining() != initialRemaining {
		t.Errorf("after unmake: remaining cheese = %d, want %d", g.Cheese().Remaining(), initialRemaining)
	}
}

// P7 — a player stuck in mud never collects cheese, even standing on it.
func TestMudTimerBlocksCollection(t *testing.T) {
	mud := coord.NewMudMap()
	mud.Insert(coord.New(0, 0), coord.New(1, 0), 3)

	g := NewWithConfig(Config{
		Width:           3,
		Height:          3,
		Walls:           movetable.WallMap{},
		Mud:             mud,
		CheesePositions: []coord.Coordinates{coord.New(1, 0)},
		Player1Pos:      coord.New(0, 0),
		Player2Pos:      coord.New(2, 2),
		MaxTurns:        10,
	})

	result := g.ProcessTurn(coord.Right, coord.Stay)
	if g.Player1().MudTimer == 0 {
		t.Fatal("expected P1 to have entered mud")
	}
	if len(result.CollectedCheese) != 0 {
		t.Errorf("collected = %v, want none: a player entering mud is not collectible", result.CollectedCheese)
	}
	if g.Cheese().Remaining() != 1 {
		t.Errorf("remaining cheese = %d, want 1 (untouched)", g.Cheese().Remaining())
	}
}

// P6 — initial_cheese_count never decreases, even across collection.
func TestInitialCheeseCountIsMonotone(t *testing.T) {
	g := NewWithConfig(Config{
		Width:           3,
		Height:          3,
		Walls:           movetable.WallMap{},
		CheesePositions: []coord.Coordinates{coord.New(1, 1)},
		Player1Pos:      coord.New(0, 1),
		Player2Pos:      coord.New(2, 2),
		MaxTurns:        10,
	})

	before := g.Cheese().Initial()
	g.ProcessTurn(coord.Right, coord.Stay)
	if g.Cheese().Initial() != before {
		t.Errorf("initial cheese changed from %d to %d after collection", before, g.Cheese().Initial())
	}
}

// Players never block each other from occupying the same cell.
func TestPlayersMayShareACell(t *testing.T) {
	g := openBoard3x3(coord.New(0, 1), coord.New(2, 1))
	g.ProcessTurn(coord.Right, coord.Left)
	if g.Player1().CurrentPos != g.Player2().CurrentPos {
		t.Errorf("players should be able to share a cell: P1=%v P2=%v", g.Player1().CurrentPos, g.Player2().CurrentPos)
	}
}

// Reaching max_turns ends the game regardless of score.
func TestGameOverOnMaxTurns(t *testing.T) {
	g := openBoard3x3(coord.New(0, 0), coord.New(2, 2))
	g.Reset(Config{
		Width:      3,
		Height:     3,
		Walls:      movetable.WallMap{},
		Player1Pos: coord.New(0, 0),
		Player2Pos: coord.New(2, 2),
		MaxTurns:   2,
	})

	r1 := g.ProcessTurn(coord.Stay, coord.Stay)
	if r1.GameOver {
		t.Fatal("turn1 of 2 should not be game over")
	}
	r2 := g.ProcessTurn(coord.Stay, coord.Stay)
	if !r2.GameOver {
		t.Fatal("turn2 of 2 should be game over")
	}
}

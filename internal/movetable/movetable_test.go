package movetable

import (
	"testing"

	"pyrat/internal/coord"
)

func TestBoundaryCellsAreMasked(t *testing.T) {
	mt := New(3, 3, WallMap{})

	if mt.IsMoveValid(coord.New(0, 0), coord.Left) {
		t.Error("Left from x=0 should be invalid")
	}
	if mt.IsMoveValid(coord.New(0, 0), coord.Down) {
		t.Error("Down from y=0 should be invalid")
	}
	if !mt.IsMoveValid(coord.New(0, 0), coord.Right) {
		t.Error("Right from (0,0) on an open 3x3 board should be valid")
	}
	if !mt.IsMoveValid(coord.New(0, 0), coord.Up) {
		t.Error("Up from (0,0) on an open 3x3 board should be valid")
	}
}

func TestWallsAreSymmetric(t *testing.T) {
	// Only list the wall from one side; construction must still block both.
	walls := WallMap{
		coord.New(1, 1): {coord.New(1, 2)},
	}
	mt := New(3, 3, walls)

	if mt.IsMoveValid(coord.New(1, 1), coord.Up) {
		t.Error("(1,1)->Up should be blocked")
	}
	if mt.IsMoveValid(coord.New(1, 2), coord.Down) {
		t.Error("(1,2)->Down should be blocked by the same wall, listed asymmetrically")
	}
}

func TestGetValidMovesMask(t *testing.T) {
	mt := New(3, 3, WallMap{})
	mask := mt.GetValidMoves(coord.New(1, 1))
	// Center cell of an open 3x3 board: all four directions legal.
	if mask != 0x0F {
		t.Errorf("GetValidMoves(1,1) = %#x, want 0x0f", mask)
	}
}

// Package cheeseboard tracks cheese placement over a board as a bitboard,
// in the style of melvinzhang-squava's Bitboard type: one bit per cell,
// packed into 64-bit words, with math/bits used to walk set bits instead
// of scanning cell-by-cell.
package cheeseboard

import (
	"math/bits"

	"pyrat/internal/coord"
)

// Board is a bitboard of cheese presence plus the two counters that make
// make/unmake sound: initial only grows (at setup, via Place) until Clear
// resets it, remaining tracks what's left on the board.
type Board struct {
	words     []uint64
	width     uint8
	height    uint8
	initial   uint16
	remaining uint16
}

// New returns an empty board over a width x height grid.
func New(width, height uint8) *Board {
	totalCells := int(width) * int(height)
	size := (totalCells + 63) / 64
	return &Board{
		words:  make([]uint64, size),
		width:  width,
		height: height,
	}
}

func (b *Board) wordAndBit(pos coord.Coordinates) (int, uint64) {
	idx := pos.ToIndex(b.width)
	return idx / 64, uint64(1) << uint(idx%64)
}

// HasCheese reports whether pos currently holds cheese.
func (b *Board) HasCheese(pos coord.Coordinates) bool {
	word, bit := b.wordAndBit(pos)
	return b.words[word]&bit != 0
}

// Place adds a new cheese piece at pos, succeeding only if the cell was
// empty. On success both initial and remaining counts grow.
func (b *Board) Place(pos coord.Coordinates) bool {
	word, bit := b.wordAndBit(pos)
	if b.words[word]&bit != 0 {
		return false
	}
	b.words[word] |= bit
	b.initial++
	b.remaining++
	return true
}

// Take removes the cheese at pos, succeeding only if one was present.
// Only remaining changes.
func (b *Board) Take(pos coord.Coordinates) bool {
	word, bit := b.wordAndBit(pos)
	if b.words[word]&bit == 0 {
		return false
	}
	b.words[word] &^= bit
	b.remaining--
	return true
}

// Restore puts cheese back at pos during unmake, succeeding only if the
// cell was empty. Never changes initial — this is the invariant that
// makes make/unmake sound.
func (b *Board) Restore(pos coord.Coordinates) bool {
	word, bit := b.wordAndBit(pos)
	if b.words[word]&bit != 0 {
		return false
	}
	b.words[word] |= bit
	b.remaining++
	return true
}

// Initial returns the number of cheese pieces placed at setup time.
func (b *Board) Initial() uint16 { return b.initial }

// Remaining returns the number of cheese pieces currently on the board.
func (b *Board) Remaining() uint16 { return b.remaining }

// AllPositions returns every cell currently holding cheese, via a
// trailing-zero walk over the set bits of each word.
func (b *Board) AllPositions() []coord.Coordinates {
	positions := make([]coord.Coordinates, 0, b.remaining)
	for wordIdx, word := range b.words {
		base := wordIdx * 64
		for word != 0 {
			tz := bits.TrailingZeros64(word)
			idx := base + tz
			x := uint8(idx % int(b.width))
			y := uint8(idx / int(b.width))
			positions = append(positions, coord.New(x, y))
			word &^= uint64(1) << uint(tz)
		}
	}
	return positions
}

// CountInArea counts cheese within the inclusive rectangle bounded by
// topLeft and bottomRight, a cheap local-density query for agents that
// don't want to scan the full observation tensor. topLeft must hold the
// smaller X and the smaller Y of the two corners and bottomRight the larger
// ones; with y growing upward that is the lower-left and upper-right cell.
// A topLeft with a larger X or Y than bottomRight counts nothing.
func (b *Board) CountInArea(topLeft, bottomRight coord.Coordinates) uint16 {
	var count uint16
	for y := topLeft.Y; y <= bottomRight.Y; y++ {
		for x := topLeft.X; x <= bottomRight.X; x++ {
			if b.HasCheese(coord.New(x, y)) {
				count++
			}
		}
		if y == 255 {
			break
		}
	}
	return count
}

// Clear empties the board and resets both counters.
func (b *Board) Clear() {
	for i := range b.words {
		b.words[i] = 0
	}
	b.initial = 0
	b.remaining = 0
}

// Clone returns an independent deep copy.
func (b *Board) Clone() *Board {
	words := make([]uint64, len(b.words))
	copy(words, b.words)
	return &Board{
		words:     words,
		width:     b.width,
		height:    b.height,
		initial:   b.initial,
		remaining: b.remaining,
	}
}

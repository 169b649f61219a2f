// Package cheesegen places cheese pieces on a board, honoring the
// symmetric-placement constraint used by competitive presets: every piece
// off the center gets a 180-degree mirror image.
package cheesegen

import (
	"fmt"
	"math/rand"
	"time"

	"pyrat/internal/coord"
)

// Config mirrors spec.md's CheeseConfig: how many pieces to place and
// whether placement must be point-symmetric.
type Config struct {
	Count    uint16
	Symmetry bool
	Seed     *uint64 // nil means entropy-sourced
}

// Generator places cheese for a single board size, reusable across games
// that share dimensions but want independent placements.
type Generator struct {
	cfg    Config
	rng    *rand.Rand
	width  uint8
	height uint8
}

// New constructs a Generator. Seed nil sources entropy from the clock.
func New(cfg Config, width, height uint8) *Generator {
	var seed int64
	if cfg.Seed != nil {
		seed = int64(*cfg.Seed)
	} else {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(seed)),
		width:  width,
		height: height,
	}
}

// Generate places Count cheese pieces avoiding both players' starting
// cells and, in symmetric mode, cells that are their own mirror image. It
// returns an error instead of panicking when the board can't accommodate
// the request; game.NewRandom passes that error on to its caller as a
// construction failure.
func (g *Generator) Generate(player1, player2 coord.Coordinates) ([]coord.Coordinates, error) {
	var pieces []coord.Coordinates
	remaining := g.cfg.Count

	if g.cfg.Symmetry && remaining%2 == 1 {
		if g.width%2 == 0 || g.height%2 == 0 {
			return nil, fmt.Errorf("cheesegen: cannot place an odd cheese count (%d) in a symmetric maze with even dimensions (%dx%d)", g.cfg.Count, g.width, g.height)
		}
		center := coord.New(g.width/2, g.height/2)
		if center == player1 || center == player2 {
			return nil, fmt.Errorf("cheesegen: cannot place an odd cheese count (%d): board center %v is occupied by a player start position", g.cfg.Count, center)
		}
		pieces = append(pieces, center)
		remaining--
	}

	candidates := g.candidates(player1, player2)

	for remaining > 0 && len(candidates) > 0 {
		idx := g.rng.Intn(len(candidates))
		chosen := candidates[idx]
		candidates[idx] = candidates[len(candidates)-1]
		candidates = candidates[:len(candidates)-1]

		pieces = append(pieces, chosen)

		if g.cfg.Symmetry {
			sym := g.symmetric(chosen)
			pieces = append(pieces, sym)
			candidates = removeCoord(candidates, sym)
			remaining -= 2
		} else {
			remaining--
		}
	}

	if remaining != 0 {
		return nil, fmt.Errorf("cheesegen: too many cheese pieces (%d) requested for a %dx%d maze", g.cfg.Count, g.width, g.height)
	}

	return pieces, nil
}

// candidates enumerates every cell eligible for cheese: not a player's
// start, and (in symmetric mode) neither its own mirror image nor the
// mirror of a player's start, visiting each symmetric pair once.
func (g *Generator) candidates(player1, player2 coord.Coordinates) []coord.Coordinates {
	var out []coord.Coordinates
	considered := make(map[coord.Coordinates]bool)

	for x := uint8(0); x < g.width; x++ {
		for y := uint8(0); y < g.height; y++ {
			pos := coord.New(x, y)
			if g.cfg.Symmetry && considered[pos] {
				continue
			}
			if pos == player1 || pos == player2 || pos == g.symmetric(pos) {
				continue
			}
			if g.cfg.Symmetry && (g.symmetric(pos) == player1 || g.symmetric(pos) == player2) {
				continue
			}
			out = append(out, pos)
			if g.cfg.Symmetry {
				considered[pos] = true
				considered[g.symmetric(pos)] = true
			}
		}
	}
	return out
}

func (g *Generator) symmetric(pos coord.Coordinates) coord.Coordinates {
	return coord.New(g.width-1-pos.X, g.height-1-pos.Y)
}

func removeCoord(cands []coord.Coordinates, target coord.Coordinates) []coord.Coordinates {
	out := cands[:0]
	for _, c := range cands {
		if c != target {
			out = append(out, c)
		}
	}
	return out
}

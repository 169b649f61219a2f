// Package mazegen procedurally generates a wall map and mud map for a
// board, honoring density, connectivity, and 180-degree symmetry
// constraints. Generation is retried concurrently: several independently
// seeded attempts race each other and the first to pass validation wins,
// the same worker-fan-in shape the teacher stack uses for parallel
// Monte-Carlo episode generation (niceyeti/channerics.Merge fed by
// goroutines coordinated with golang.org/x/sync).
package mazegen

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	channerics "github.com/niceyeti/channerics/channels"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"pyrat/internal/coord"
	"pyrat/internal/metrics"
	"pyrat/internal/movetable"
)

// Config mirrors spec.md's MazeConfig: board dimensions, wall/mud
// densities, and the connectivity/symmetry flags.
type Config struct {
	Width         uint8
	Height        uint8
	TargetDensity float32 // probability of a wall, in [0,1]
	Connected     bool
	Symmetric     bool
	MudDensity    float32 // probability of mud on a passage, in [0,1]
	MudRange      uint8   // max mud value (>= 2)
	Seed          *uint64 // nil means entropy-sourced
}

// Result is the generator's output: a wall map ready for movetable.New and
// a mud map over passages. The two are always disjoint.
type Result struct {
	Walls movetable.WallMap
	Mud   *coord.MudMap
}

const (
	workerCount          = 4
	maxConcurrentWorkers = 2
	maxAttemptsPerWorker = 64
)

// Generate races workerCount independently seeded attempts and returns the
// first one to pass validation. Only maxConcurrentWorkers run at a time, the
// semaphore making workerCount safe to raise for a pathological config
// without also raising how many attempt loops run simultaneously. It
// returns an error if every worker exhausts its local retry budget without
// producing a valid maze — the generator-impossibility failure mode in
// spec.md §4.D/§7.
func Generate(ctx context.Context, cfg Config) (*Result, error) {
	genCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := semaphore.NewWeighted(maxConcurrentWorkers)
	group, gctx := errgroup.WithContext(genCtx)

	workerChans := make([]<-chan *Result, workerCount)
	for i := 0; i < workerCount; i++ {
		i := i
		ch := make(chan *Result, 1)
		workerChans[i] = ch

		group.Go(func() error {
			defer close(ch)
			if err := sem.Acquire(gctx, 1); err != nil {
				return nil //nolint:nilerr // cancellation, not a real error
			}
			defer sem.Release(1)

			rng := rand.New(rand.NewSource(workerSeed(cfg.Seed, i)))
			for attempt := 0; attempt < maxAttemptsPerWorker; attempt++ {
				select {
				case <-gctx.Done():
					return nil
				default:
				}

				res, ok := attemptGenerate(cfg, rng)
				metrics.Global.RecordGeneratorAttempt(ok)
				if ok {
					select {
					case ch <- res:
					default:
					}
					return nil
				}
			}
			return nil
		})
	}

	merged := channerics.Merge(gctx.Done(), workerChans...)

	select {
	case res, ok := <-merged:
		cancel()
		_ = group.Wait()
		if ok && res != nil {
			return res, nil
		}
	case <-ctx.Done():
		cancel()
		_ = group.Wait()
		return nil, ctx.Err()
	}

	return nil, fmt.Errorf(
		"mazegen: exhausted retry budget (%d workers x %d attempts each) for %dx%d density=%.2f connected=%v symmetric=%v",
		workerCount, maxAttemptsPerWorker, cfg.Width, cfg.Height, cfg.TargetDensity, cfg.Connected, cfg.Symmetric)
}

func workerSeed(base *uint64, worker int) int64 {
	if base == nil {
		return time.Now().UnixNano() + int64(worker)*1_000_003
	}
	return int64(*base) + int64(worker)*1_000_003
}

// generator holds the mutable state of a single generation attempt.
type generator struct {
	cfg         Config
	rng         *rand.Rand
	connections map[coord.Coordinates][]coord.Coordinates
	mud         *coord.MudMap
}

func attemptGenerate(cfg Config, rng *rand.Rand) (*Result, bool) {
	g := &generator{
		cfg:         cfg,
		rng:         rng,
		connections: make(map[coord.Coordinates][]coord.Coordinates),
		mud:         coord.NewMudMap(),
	}

	g.generateInitialLayout()
	if cfg.Connected {
		g.ensureFullConnectivity()
	}
	g.addBorderConnections()

	if !g.validate() {
		return nil, false
	}

	return &Result{
		Walls: g.connectionsToWalls(),
		Mud:   g.mud,
	}, true
}

// generateInitialLayout is phase 1: visit cells in row-major order, rolling
// a passage (and possibly mud) for the eastward and northward neighbor of
// each cell, mirroring the decision in symmetric mode and skipping cells
// already covered by their mirror.
func (g *generator) generateInitialLayout() {
	notConsidered := make(map[coord.Coordinates]bool)
	for x := uint8(0); x < g.cfg.Width; x++ {
		for y := uint8(0); y < g.cfg.Height; y++ {
			notConsidered[coord.New(x, y)] = true
		}
	}

	for y := uint8(0); y < g.cfg.Height; y++ {
		for x := uint8(0); x < g.cfg.Width; x++ {
			current := coord.New(x, y)
			if g.cfg.Symmetric && !notConsidered[current] {
				continue
			}

			if x+1 < g.cfg.Width && g.rng.Float32() >= g.cfg.TargetDensity {
				g.connectWithMud(current, coord.New(x+1, y))
			}
			if y+1 < g.cfg.Height && g.rng.Float32() >= g.cfg.TargetDensity {
				g.connectWithMud(current, coord.New(x, y+1))
			}

			if g.cfg.Symmetric {
				delete(notConsidered, current)
				delete(notConsidered, g.symmetric(current))
			}
		}
	}
}

// connectWithMud adds a bidirectional passage between from and to, rolling
// an independent mud cost, and mirrors both onto the 180-degree image in
// symmetric mode.
func (g *generator) connectWithMud(from, to coord.Coordinates) {
	mudValue := g.rollMud()
	g.addConnection(from, to)
	if mudValue > 1 {
		g.mud.Insert(from, to, mudValue)
	}

	if g.cfg.Symmetric {
		symFrom, symTo := g.symmetric(from), g.symmetric(to)
		g.addConnection(symFrom, symTo)
		if mudValue > 1 {
			g.mud.Insert(symFrom, symTo, mudValue)
		}
	}
}

func (g *generator) rollMud() uint8 {
	if g.rng.Float32() < g.cfg.MudDensity {
		return uint8(g.rng.Intn(int(g.cfg.MudRange-1)) + 2)
	}
	return 1
}

func (g *generator) addConnection(a, b coord.Coordinates) {
	g.connections[a] = append(g.connections[a], b)
	g.connections[b] = append(g.connections[b], a)
}

func (g *generator) symmetric(pos coord.Coordinates) coord.Coordinates {
	return coord.New(g.cfg.Width-1-pos.X, g.cfg.Height-1-pos.Y)
}

func (g *generator) hasConnection(from, to coord.Coordinates) bool {
	for _, c := range g.connections[from] {
		if c == to {
			return true
		}
	}
	return false
}

// ensureFullConnectivity is phase 2: repeatedly find connected components
// and connect two of them, preferring an adjacent pair (connected
// directly) and falling back to a border-growing search when the nearest
// pair isn't adjacent, until exactly one component remains.
func (g *generator) ensureFullConnectivity() {
	for {
		components := g.findComponents()
		if len(components) <= 1 {
			return
		}

		from, to, adjacent := nearestPair(components[0], components[1])
		if adjacent {
			g.connectWithMud(from, to)
			continue
		}
		g.connectViaBorderGrowth()
	}
}

func (g *generator) findComponents() []map[coord.Coordinates]bool {
	visited := make(map[coord.Coordinates]bool)
	var components []map[coord.Coordinates]bool

	for x := uint8(0); x < g.cfg.Width; x++ {
		for y := uint8(0); y < g.cfg.Height; y++ {
			start := coord.New(x, y)
			if visited[start] {
				continue
			}
			component := make(map[coord.Coordinates]bool)
			stack := []coord.Coordinates{start}
			for len(stack) > 0 {
				cur := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if component[cur] {
					continue
				}
				component[cur] = true
				visited[cur] = true
				for _, next := range g.connections[cur] {
					if !component[next] {
						stack = append(stack, next)
					}
				}
			}
			components = append(components, component)
		}
	}
	return components
}

func nearestPair(a, b map[coord.Coordinates]bool) (from, to coord.Coordinates, adjacent bool) {
	minDist := -1
	for p1 := range a {
		for p2 := range b {
			if p1.IsAdjacentTo(p2) {
				return p1, p2, true
			}
			d := p1.ManhattanDistance(p2)
			if minDist == -1 || d < minDist {
				minDist = d
				from, to = p1, p2
			}
		}
	}
	return from, to, false
}

// connectViaBorderGrowth is the fallback when the two nearest components
// aren't adjacent: grow a connected region outward from the origin,
// opening one random border passage per round, until no more border
// candidates remain. Grounded on the original's connect_region/DFS
// fallback (§5 of SPEC_FULL.md).
func (g *generator) connectViaBorderGrowth() {
	connected := make(map[coord.Coordinates]bool)
	origin := coord.New(0, 0)
	connected[origin] = true
	frontier := []coord.Coordinates{origin}

	for len(frontier) > 0 {
		type candidate struct{ from, to coord.Coordinates }
		var border []candidate
		var nextFrontier []coord.Coordinates

		for _, cur := range frontier {
			isCandidate := false
			for _, to := range g.inBoundsNeighbors(cur) {
				if !g.hasConnection(cur, to) && !connected[to] {
					border = append(border, candidate{cur, to})
					isCandidate = true
				}
			}
			if isCandidate {
				nextFrontier = append(nextFrontier, cur)
			}
		}

		if len(border) == 0 {
			return
		}

		pick := border[g.rng.Intn(len(border))]
		g.connectWithMud(pick.from, pick.to)
		connected[pick.to] = true
		nextFrontier = append(nextFrontier, pick.to)
		frontier = nextFrontier
	}
}

func (g *generator) inBoundsNeighbors(pos coord.Coordinates) []coord.Coordinates {
	var neighbors []coord.Coordinates
	if pos.X+1 < g.cfg.Width {
		neighbors = append(neighbors, coord.New(pos.X+1, pos.Y))
	}
	if pos.X > 0 {
		neighbors = append(neighbors, coord.New(pos.X-1, pos.Y))
	}
	if pos.Y+1 < g.cfg.Height {
		neighbors = append(neighbors, coord.New(pos.X, pos.Y+1))
	}
	if pos.Y > 0 {
		neighbors = append(neighbors, coord.New(pos.X, pos.Y-1))
	}
	return neighbors
}

// addBorderConnections is phase 3: every border cell left with zero
// passages after phases 1-2 gets exactly one passage to a uniformly chosen
// valid neighbor, mirrored in symmetric mode.
func (g *generator) addBorderConnections() {
	for x := uint8(0); x < g.cfg.Width; x++ {
		for y := uint8(0); y < g.cfg.Height; y++ {
			current := coord.New(x, y)
			if !g.isBorderCell(current) || len(g.connections[current]) > 0 {
				continue
			}
			neighbors := g.inBoundsNeighbors(current)
			if len(neighbors) == 0 {
				continue
			}
			neighbor := neighbors[g.rng.Intn(len(neighbors))]
			g.connectWithMud(current, neighbor)

			if g.cfg.Symmetric {
				g.connectWithMud(g.symmetric(current), g.symmetric(neighbor))
			}
		}
	}
}

func (g *generator) isBorderCell(pos coord.Coordinates) bool {
	return pos.X == 0 || pos.Y == 0 || pos.X == g.cfg.Width-1 || pos.Y == g.cfg.Height-1
}

// connectionsToWalls is phase 4: every in-bounds neighbor pair without a
// passage becomes a wall, recorded from both sides.
func (g *generator) connectionsToWalls() movetable.WallMap {
	walls := make(movetable.WallMap)
	for x := uint8(0); x < g.cfg.Width; x++ {
		for y := uint8(0); y < g.cfg.Height; y++ {
			current := coord.New(x, y)
			for _, neighbor := range g.inBoundsNeighbors(current) {
				if !g.hasConnection(current, neighbor) {
					walls[current] = append(walls[current], neighbor)
				}
			}
		}
	}
	return walls
}

// validate checks the invariants spec.md §4.D requires before returning:
// every mud edge is a passage, every passage is bidirectional, and (when
// connectivity was requested) the passage graph is a single component.
func (g *generator) validate() bool {
	for _, edge := range g.mud.Edges() {
		if !g.hasConnection(edge.A, edge.B) {
			return false
		}
	}

	for from, tos := range g.connections {
		for _, to := range tos {
			if !g.hasConnection(to, from) {
				return false
			}
		}
	}

	if g.cfg.Connected {
		components := g.findComponents()
		if len(components) != 1 {
			return false
		}
	}

	return true
}

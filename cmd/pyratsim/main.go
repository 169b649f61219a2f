package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"pyrat/config"
	"pyrat/game"
	"pyrat/game/observation"
	"pyrat/internal/coord"
	"pyrat/internal/metrics"
)

var (
	presetName *string
	seed       *int64
	timeout    *time.Duration
	verbose    *bool
)

func init() {
	presetName = flag.String("preset", "medium", "named board preset (tiny, small, medium, large, huge, open, asymmetric)")
	seed = flag.Int64("seed", 0, "generator seed; 0 means entropy-sourced")
	timeout = flag.Duration("timeout", 0, "abort the simulation after this long; 0 means no deadline")
	verbose = flag.Bool("verbose", false, "print every turn's result instead of just the final score")
	flag.Parse()
}

func runApp() error {
	presets := config.Defaults()
	preset, ok := presets[*presetName]
	if !ok {
		return fmt.Errorf("unknown preset %q", *presetName)
	}

	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	runCtx := appCtx
	if *timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(appCtx, *timeout)
		defer cancel()
	}

	var seedPtr *uint64
	if *seed != 0 {
		s := uint64(*seed)
		seedPtr = &s
	}

	g, err := game.NewRandom(runCtx, preset.RandomConfig(seedPtr))
	if err != nil {
		return fmt.Errorf("constructing game: %w", err)
	}

	playRandomly(runCtx, g)
	return nil
}

// playRandomly drives two agents that pick a uniformly random legal move
// each turn (or Stay if none is available), as a smoke test of the engine
// rather than a serious policy. It also keeps an observation handler in
// sync turn-by-turn, the same way a learning agent's harness would, so the
// handler's incremental-update path runs under real play rather than only
// under test fixtures.
func playRandomly(ctx context.Context, g *game.State) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	obs := observation.New(g)

	for {
		select {
		case <-ctx.Done():
			log.Println("simulation cancelled:", ctx.Err())
			return
		default:
		}

		d1 := randomMove(rng, g, g.Player1().CurrentPos)
		d2 := randomMove(rng, g, g.Player2().CurrentPos)

		result := g.ProcessTurn(d1, d2)
		obs.UpdateCollectedCheese(result.CollectedCheese)

		if *verbose {
			p1View := obs.GetObservation(g, true)
			log.Printf("turn=%d p1=%.1f p2=%.1f collected=%v game_over=%v p1_nearby_cheese=%d",
				g.Turn(), result.P1Score, result.P2Score, result.CollectedCheese, result.GameOver, p1View.Player.NearbyCheese)
		}

		if result.GameOver {
			metrics.Global.RecordFinalScores(result.P1Score, result.P2Score)
			log.Printf("game over after %d turns: p1=%.1f p2=%.1f", g.Turn(), result.P1Score, result.P2Score)
			return
		}
	}
}

func randomMove(rng *rand.Rand, g *game.State, pos coord.Coordinates) coord.Direction {
	candidates := make([]coord.Direction, 0, 4)
	for _, dir := range [4]coord.Direction{coord.Up, coord.Right, coord.Down, coord.Left} {
		if g.MoveTable().IsMoveValid(pos, dir) {
			candidates = append(candidates, dir)
		}
	}
	if len(candidates) == 0 {
		return coord.Stay
	}
	return candidates[rng.Intn(len(candidates))]
}

func main() {
	if err := runApp(); err != nil {
		log.Fatal(err)
	}
}

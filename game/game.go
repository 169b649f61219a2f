// Package game owns the turn-processing state machine: player state,
// mud traversal, simultaneous cheese collection, and the make/unmake
// mechanism tree search relies on. It is the only package that mutates a
// running game; the move table and cheese board beneath it are consulted,
// never bypassed.
package game

import (
	"context"
	"fmt"

	"pyrat/internal/cheeseboard"
	"pyrat/internal/cheesegen"
	"pyrat/internal/coord"
	"pyrat/internal/mazegen"
	"pyrat/internal/metrics"
	"pyrat/internal/movetable"
)

// Default PyRat board dimensions and cheese count, matching the medium
// preset.
const (
	DefaultWidth       uint8  = 21
	DefaultHeight      uint8  = 15
	DefaultCheeseCount uint16 = 41
	DefaultMaxTurns    uint16 = 300
)

// PlayerState is one player's mutable record: where they're visible, where
// they're headed while stuck in mud, how long until they arrive, and their
// running score and miss count.
type PlayerState struct {
	CurrentPos coord.Coordinates
	TargetPos  coord.Coordinates
	MudTimer   uint8
	Score      float32
	Misses     uint16
}

func (p PlayerState) isInMud() bool          { return p.MudTimer > 0 }
func (p PlayerState) canCollectCheese() bool { return !p.isInMud() }

// TurnResult reports what happened during one process_turn call.
type TurnResult struct {
	P1Moved         bool
	P2Moved         bool
	GameOver        bool
	P1Score         float32
	P2Score         float32
	CollectedCheese []coord.Coordinates
}

// MoveUndo is the O(1) snapshot make_move returns: both players' full
// state, the pre-turn turn counter, and the cheese collected by the move
// it records. Applying undos out of LIFO order against their originating
// State is a usage error the engine does not detect.
type MoveUndo struct {
	Player1         PlayerState
	Player2         PlayerState
	CollectedCheese []coord.Coordinates
	Turn            uint16
}

// State is the authoritative game: dimensions, the immutable move table,
// both player records, the mud map, the cheese board, and the turn
// counter. It mutates only through ProcessTurn or the MakeMove/UnmakeMove
// pair.
type State struct {
	width     uint8
	height    uint8
	moveTable *movetable.MoveTable
	player1   PlayerState
	player2   PlayerState
	mud       *coord.MudMap
	cheese    *cheeseboard.Board
	turn      uint16
	maxTurns  uint16
}

// Config gathers every construction input new_with_config takes: explicit
// walls, mud, cheese placement, player starting cells, and the turn
// budget. Builders sitting above this package (named constructors, a
// phased builder) translate friendlier inputs down to this shape; the
// core only needs this one constructor.
type Config struct {
	Width           uint8
	Height          uint8
	Walls           movetable.WallMap
	Mud             *coord.MudMap
	CheesePositions []coord.Coordinates
	Player1Pos      coord.Coordinates
	Player2Pos      coord.Coordinates
	MaxTurns        uint16
}

// NewWithConfig builds a State from fully explicit inputs. It never fails:
// out-of-range construction inputs are a validation collaborator's concern,
// not this package's (see §7 of the game's error-handling design).
func NewWithConfig(cfg Config) *State {
	mud := cfg.Mud
	if mud == nil {
		mud = coord.NewMudMap()
	}

	cheese := cheeseboard.New(cfg.Width, cfg.Height)
	for _, pos := range cfg.CheesePositions {
		cheese.Place(pos)
	}

	s := &State{
		width:     cfg.Width,
		height:    cfg.Height,
		moveTable: movetable.New(cfg.Width, cfg.Height, cfg.Walls),
		player1: PlayerState{
			CurrentPos: cfg.Player1Pos,
			TargetPos:  cfg.Player1Pos,
		},
		player2: PlayerState{
			CurrentPos: cfg.Player2Pos,
			TargetPos:  cfg.Player2Pos,
		},
		mud:      mud,
		cheese:   cheese,
		maxTurns: cfg.MaxTurns,
	}

	metrics.Global.RecordGameCreated()
	return s
}

// New builds a game with players at opposite corners and no cheese,
// useful for tests that only care about movement.
func New(width, height uint8, walls movetable.WallMap, maxTurns uint16) *State {
	return NewWithConfig(Config{
		Width:      width,
		Height:     height,
		Walls:      walls,
		Player1Pos: coord.New(0, 0),
		Player2Pos: coord.New(width-1, height-1),
		MaxTurns:   maxTurns,
	})
}

// RandomConfig bundles the inputs needed to produce a fully randomized
// game: independent maze and cheese generator configs sharing a board
// size.
type RandomConfig struct {
	Width       uint8
	Height      uint8
	Maze        mazegen.Config
	Cheese      cheesegen.Config
	MaxTurns    uint16
	Player1Pos  coord.Coordinates
	Player2Pos  coord.Coordinates
}

// NewRandom drives the maze and cheese generators to produce a playable
// board and wires the result into a fresh State. Generator failure (a
// connectivity or cheese-quota impossibility) is the one construction-time
// error this package surfaces; everything past this call is infallible.
func NewRandom(ctx context.Context, cfg RandomConfig) (*State, error) {
	cfg.Maze.Width, cfg.Maze.Height = cfg.Width, cfg.Height

	mazeResult, err := mazegen.Generate(ctx, cfg.Maze)
	if err != nil {
		return nil, fmt.Errorf("game: maze generation failed: %w", err)
	}

	cheeseGen := cheesegen.New(cfg.Cheese, cfg.Width, cfg.Height)
	cheesePositions, err := cheeseGen.Generate(cfg.Player1Pos, cfg.Player2Pos)
	if err != nil {
		return nil, fmt.Errorf("game: cheese generation failed: %w", err)
	}

	return NewWithConfig(Config{
		Width:           cfg.Width,
		Height:          cfg.Height,
		Walls:           mazeResult.Walls,
		Mud:             mazeResult.Mud,
		CheesePositions: cheesePositions,
		Player1Pos:      cfg.Player1Pos,
		Player2Pos:      cfg.Player2Pos,
		MaxTurns:        cfg.MaxTurns,
	}), nil
}

// classicRandomConfig is shared by NewSymmetric and NewAsymmetric: 70%
// wall density, connected, 10% mud probability, mud range 3.
func classicRandomConfig(width, height uint8, cheeseCount uint16, maxTurns uint16, symmetric bool, seed *uint64) RandomConfig {
	return RandomConfig{
		Width:      width,
		Height:     height,
		MaxTurns:   maxTurns,
		Player1Pos: coord.New(0, 0),
		Player2Pos: coord.New(width-1, height-1),
		Maze: mazegen.Config{
			Width:         width,
			Height:        height,
			TargetDensity: 0.7,
			Connected:     true,
			Symmetric:     symmetric,
			MudDensity:    0.1,
			MudRange:      3,
			Seed:          seed,
		},
		Cheese: cheesegen.Config{
			Count:    cheeseCount,
			Symmetry: symmetric,
			Seed:     seed,
		},
	}
}

// NewSymmetric produces a randomized, 180-degree-symmetric game using
// PyRat's classic defaults, overridable per field via zero-value-means-
// default arguments.
func NewSymmetric(ctx context.Context, width, height uint8, cheeseCount uint16, seed *uint64) (*State, error) {
	width, height, cheeseCount = withDefaults(width, height, cheeseCount)
	return NewRandom(ctx, classicRandomConfig(width, height, cheeseCount, DefaultMaxTurns, true, seed))
}

// NewAsymmetric is NewSymmetric without the mirror constraint.
func NewAsymmetric(ctx context.Context, width, height uint8, cheeseCount uint16, seed *uint64) (*State, error) {
	width, height, cheeseCount = withDefaults(width, height, cheeseCount)
	return NewRandom(ctx, classicRandomConfig(width, height, cheeseCount, DefaultMaxTurns, false, seed))
}

func withDefaults(width, height uint8, cheeseCount uint16) (uint8, uint8, uint16) {
	if width == 0 {
		width = DefaultWidth
	}
	if height == 0 {
		height = DefaultHeight
	}
	if cheeseCount == 0 {
		cheeseCount = DefaultCheeseCount
	}
	return width, height, cheeseCount
}

// Pure accessors.

func (s *State) Width() uint8                    { return s.width }
func (s *State) Height() uint8                   { return s.height }
func (s *State) Turn() uint16                    { return s.turn }
func (s *State) MaxTurns() uint16                { return s.maxTurns }
func (s *State) Player1() PlayerState            { return s.player1 }
func (s *State) Player2() PlayerState            { return s.player2 }
func (s *State) MoveTable() *movetable.MoveTable { return s.moveTable }
func (s *State) Mud() *coord.MudMap              { return s.mud }
func (s *State) Cheese() *cheeseboard.Board      { return s.cheese }

// ProcessTurn advances the game by one turn given both players' chosen
// directions. It never fails: any direction is accepted, and illegal
// intents simply resolve to "did not move".
func (s *State) ProcessTurn(p1Move, p2Move coord.Direction) TurnResult {
	p1Moved, p2Moved := s.processMoves(p1Move, p2Move)
	collected := s.processCheeseCollection()

	s.turn++

	return TurnResult{
		P1Moved:         p1Moved,
		P2Moved:         p2Moved,
		GameOver:        s.checkGameOver(),
		P1Score:         s.player1.Score,
		P2Score:         s.player2.Score,
		CollectedCheese: collected,
	}
}

// MakeMove is ProcessTurn plus an undo snapshot for tree search.
func (s *State) MakeMove(p1Move, p2Move coord.Direction) MoveUndo {
	undo := MoveUndo{
		Player1: s.player1,
		Player2: s.player2,
		Turn:    s.turn,
	}

	result := s.ProcessTurn(p1Move, p2Move)
	undo.CollectedCheese = result.CollectedCheese
	return undo
}

// UnmakeMove restores the state a prior MakeMove snapshot, including
// putting any cheese it collected back on the board. Undos must be
// applied in strict LIFO order against their originating sequence of
// MakeMove calls; the engine does not detect violations of this contract.
func (s *State) UnmakeMove(undo MoveUndo) {
	for _, pos := range undo.CollectedCheese {
		s.cheese.Restore(pos)
	}

	s.player1 = undo.Player1
	s.player2 = undo.Player2
	s.turn = undo.Turn
}

// Reset reconstructs the game from cfg and discards any outstanding
// undos; it takes no seed and runs no generator. Since this package
// does not retain the generator config that produced a random game (only
// the resulting walls/mud/cheese are kept), Reset here takes an explicit
// replacement Config — callers that built a random game and want a fresh
// seed should call NewRandom again with an updated RandomConfig instead.
func (s *State) Reset(cfg Config) {
	*s = *NewWithConfig(cfg)
}

func (s *State) processMoves(p1Move, p2Move coord.Direction) (bool, bool) {
	p1Start := s.player1.CurrentPos
	p2Start := s.player2.CurrentPos

	p1Moved, p1New := s.computePlayerMove(s.player1, p1Move)
	p2Moved, p2New := s.computePlayerMove(s.player2, p2Move)

	s.updatePlayer(&s.player1, p1Moved, p1New)
	s.updatePlayer(&s.player2, p2Moved, p2New)

	p1HasMoved := s.player1.CurrentPos != p1Start
	p2HasMoved := s.player2.CurrentPos != p2Start
	if !p1HasMoved {
		s.player1.Misses++
	}
	if !p2HasMoved {
		s.player2.Misses++
	}

	return p1HasMoved, p2HasMoved
}

// computePlayerMove resolves step-1 intent: mud overrides any input,
// Stay is a no-op, and the move table has the final say on wall/boundary
// collisions.
func (s *State) computePlayerMove(player PlayerState, dir coord.Direction) (bool, coord.Coordinates) {
	if player.isInMud() {
		return false, player.CurrentPos
	}
	if dir == coord.Stay {
		return false, player.CurrentPos
	}
	if !s.moveTable.IsMoveValid(player.CurrentPos, dir) {
		return false, player.CurrentPos
	}
	return true, dir.Apply(player.CurrentPos)
}

// updatePlayer applies step 2: decrement a running mud timer, or commit
// to newPos immediately or enter mud depending on the edge's cost.
func (s *State) updatePlayer(player *PlayerState, moved bool, newPos coord.Coordinates) {
	switch {
	case player.MudTimer > 0:
		player.MudTimer--
		if player.MudTimer == 0 {
			player.CurrentPos = player.TargetPos
		}
	case moved:
		mudCost, _ := s.mud.Get(player.CurrentPos, newPos)
		if mudCost > 1 {
			player.TargetPos = newPos
			player.MudTimer = mudCost
		} else {
			player.CurrentPos = newPos
			player.TargetPos = newPos
		}
	}

	if player.MudTimer == 0 && player.CurrentPos != player.TargetPos {
		player.CurrentPos = player.TargetPos
	}
}

// processCheeseCollection implements the simultaneous-collection split
// rule: a shared collectible cell splits the cheese's value 0.5/0.5 and
// short-circuits the independent-collection path below it.
func (s *State) processCheeseCollection() []coord.Coordinates {
	collected := make([]coord.Coordinates, 0, 2)

	if s.player1.canCollectCheese() && s.player2.canCollectCheese() &&
		s.player1.CurrentPos == s.player2.CurrentPos {
		if s.cheese.Take(s.player1.CurrentPos) {
			s.player1.Score += 0.5
			s.player2.Score += 0.5
			collected = append(collected, s.player1.CurrentPos)
		}
		return collected
	}

	if s.player1.canCollectCheese() && s.cheese.Take(s.player1.CurrentPos) {
		s.player1.Score++
		collected = append(collected, s.player1.CurrentPos)
	}
	if s.player2.canCollectCheese() && s.cheese.Take(s.player2.CurrentPos) {
		s.player2.Score++
		collected = append(collected, s.player2.CurrentPos)
	}

	return collected
}

// checkGameOver fires after the turn counter has already been
// incremented, so a max_turns cutoff counts cheese collected on the final
// turn. Scoring uses strict '>' against half the initial cheese count — a
// perfectly even split never ends the game by score.
func (s *State) checkGameOver() bool {
	totalCheese := float32(s.cheese.Initial())
	halfCheese := totalCheese / 2.0

	if s.player1.Score > halfCheese || s.player2.Score > halfCheese {
		return true
	}
	if s.cheese.Remaining() == 0 && totalCheese > 0 {
		return true
	}
	return s.turn >= s.maxTurns
}

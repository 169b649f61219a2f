// Package config loads named board presets from YAML, the same
// outer/inner two-stage unmarshal viper leans on elsewhere in this stack:
// a thin outer document (kind + def) is read with viper, then its def
// payload is re-marshaled and unmarshaled into the concrete inner type
// with yaml.v3. Presets translate directly into a game.RandomConfig.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"pyrat/game"
	"pyrat/internal/cheesegen"
	"pyrat/internal/coord"
	"pyrat/internal/mazegen"
)

// MazeKind selects which of the three named maze shapes a preset uses.
// Classic is the 70%-density, connected, symmetric PyRat board; Open
// drops the wall density to zero; Asymmetric is Classic without the
// mirror constraint.
type MazeKind string

const (
	MazeClassic    MazeKind = "classic"
	MazeOpen       MazeKind = "open"
	MazeAsymmetric MazeKind = "asymmetric"
)

// Preset is one named board configuration, matching a row of spec.md's
// named-presets table.
type Preset struct {
	Name        string   `yaml:"name"`
	Width       uint8    `yaml:"width"`
	Height      uint8    `yaml:"height"`
	CheeseCount uint16   `yaml:"cheeseCount"`
	MaxTurns    uint16   `yaml:"maxTurns"`
	Maze        MazeKind `yaml:"maze"`
}

// outerConfig is viper's unmarshal target: a discriminator plus an opaque
// payload re-marshaled into the concrete shape below.
type outerConfig struct {
	Kind string      `mapstructure:"kind"`
	Def  interface{} `mapstructure:"def"`
}

// presetsDoc is the inner shape a presets file's def re-marshals into.
type presetsDoc struct {
	Presets []Preset `yaml:"presets"`
}

// Load reads a presets YAML file and returns its presets keyed by name.
func Load(path string) (map[string]Preset, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))

	if err := vp.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	outer := &outerConfig{}
	if err := vp.Unmarshal(outer); err != nil {
		return nil, fmt.Errorf("config: unmarshaling outer document: %w", err)
	}

	spec, err := yaml.Marshal(outer.Def)
	if err != nil {
		return nil, fmt.Errorf("config: re-marshaling preset def: %w", err)
	}

	doc := &presetsDoc{}
	if err := yaml.Unmarshal(spec, doc); err != nil {
		return nil, fmt.Errorf("config: unmarshaling presets: %w", err)
	}

	byName := make(map[string]Preset, len(doc.Presets))
	for _, p := range doc.Presets {
		byName[p.Name] = p
	}
	return byName, nil
}

// Defaults returns the built-in presets from spec.md's table, for callers
// that don't want to ship a YAML file alongside the binary.
func Defaults() map[string]Preset {
	presets := []Preset{
		{Name: "tiny", Width: 11, Height: 9, CheeseCount: 13, MaxTurns: 150, Maze: MazeClassic},
		{Name: "small", Width: 15, Height: 11, CheeseCount: 21, MaxTurns: 200, Maze: MazeClassic},
		{Name: "medium", Width: 21, Height: 15, CheeseCount: 41, MaxTurns: 300, Maze: MazeClassic},
		{Name: "large", Width: 31, Height: 21, CheeseCount: 85, MaxTurns: 400, Maze: MazeClassic},
		{Name: "huge", Width: 41, Height: 31, CheeseCount: 165, MaxTurns: 500, Maze: MazeClassic},
		{Name: "open", Width: 21, Height: 15, CheeseCount: 41, MaxTurns: 300, Maze: MazeOpen},
		{Name: "asymmetric", Width: 21, Height: 15, CheeseCount: 41, MaxTurns: 300, Maze: MazeAsymmetric},
	}
	byName := make(map[string]Preset, len(presets))
	for _, p := range presets {
		byName[p.Name] = p
	}
	return byName
}

// RandomConfig translates a preset into the maze/cheese generator config
// game.NewRandom needs, seeding both generators identically for
// reproducibility and placing players at opposite corners.
func (p Preset) RandomConfig(seed *uint64) game.RandomConfig {
	symmetric := p.Maze != MazeAsymmetric

	targetDensity := float32(0.7)
	if p.Maze == MazeOpen {
		targetDensity = 0.0
	}

	return game.RandomConfig{
		Width:      p.Width,
		Height:     p.Height,
		MaxTurns:   p.MaxTurns,
		Player1Pos: coord.New(0, 0),
		Player2Pos: coord.New(p.Width-1, p.Height-1),
		Maze: mazegen.Config{
			Width:         p.Width,
			Height:        p.Height,
			TargetDensity: targetDensity,
			Connected:     true,
			Symmetric:     symmetric,
			MudDensity:    0.1,
			MudRange:      3,
			Seed:          seed,
		},
		Cheese: cheesegen.Config{
			Count:    p.CheeseCount,
			Symmetry: symmetric,
			Seed:     seed,
		},
	}
}

// Package config holds the tuning parameters of a session: screen geometry,
// physics constants, game rules and the rank chain.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/plus3/planetdrop/ranks"
	"gopkg.in/yaml.v3"
)

// Screen is the play area in pixels. Y grows downward.
type Screen struct {
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	WallThickness float64 `yaml:"wall_thickness"`
}

// Physics holds the simulation constants. Gravity is in px/s².
type Physics struct {
	Gravity        float64 `yaml:"gravity"`
	Friction       float64 `yaml:"friction"`
	Restitution    float64 `yaml:"restitution"`
	Damping        float64 `yaml:"damping"`
	Mass           float64 `yaml:"mass"`
	CollisionRatio float64 `yaml:"collision_ratio"`
}

// Rules holds the game-over, shake and spawn parameters.
type Rules struct {
	DangerLine     float64       `yaml:"danger_line"`
	GracePeriod    time.Duration `yaml:"grace_period"`
	SettleSpeed    float64       `yaml:"settle_speed"`
	ShakeCost      int           `yaml:"shake_cost"`
	ShakeInterval  time.Duration `yaml:"shake_interval"`
	ShakeMinScore  int           `yaml:"shake_min_score"`
	ShakeAmplitude int           `yaml:"shake_amplitude"`
	SpawnY         float64       `yaml:"spawn_y"`
	SpawnableRanks int           `yaml:"spawnable_ranks"`
	DropCooldown   time.Duration `yaml:"drop_cooldown"`
}

// RankDef is one entry of the rank chain as written in a config file.
type RankDef struct {
	Name        string  `yaml:"name"`
	Label       string  `yaml:"label"`
	DisplaySize float64 `yaml:"display_size"`
	Score       int     `yaml:"score"`
	Image       string  `yaml:"image"`
}

type Config struct {
	Screen  Screen    `yaml:"screen"`
	Physics Physics   `yaml:"physics"`
	Rules   Rules     `yaml:"rules"`
	Ranks   []RankDef `yaml:"ranks"`
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	c.Ranks = slices.Clone(c.Ranks)
	return c
}

// RankTable loads the configured chain.
func (c Config) RankTable() (*ranks.Table, error) {
	defs := make([]ranks.Def, len(c.Ranks))
	for i, r := range c.Ranks {
		defs[i] = ranks.Def{
			Name:        r.Name,
			Label:       r.Label,
			DisplaySize: r.DisplaySize,
			Score:       r.Score,
			Image:       r.Image,
		}
	}
	return ranks.NewTable(defs, c.Physics.CollisionRatio)
}

// Validate returns every problem found in c joined into one error.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Screen.Width > 0, "screen.width must be positive")
	check(c.Screen.Height > 0, "screen.height must be positive")
	check(c.Screen.WallThickness > 0, "screen.wall_thickness must be positive")

	check(c.Physics.Mass > 0, "physics.mass must be positive")
	check(c.Physics.CollisionRatio > 0, "physics.collision_ratio must be positive")
	check(c.Physics.Damping > 0 && c.Physics.Damping <= 1, "physics.damping must be in (0, 1]")
	check(c.Physics.Friction >= 0, "physics.friction must not be negative")
	check(c.Physics.Restitution >= 0, "physics.restitution must not be negative")

	check(c.Rules.GracePeriod > 0, "rules.grace_period must be positive")
	check(c.Rules.SettleSpeed > 0, "rules.settle_speed must be positive")
	check(c.Rules.ShakeCost >= 0, "rules.shake_cost must not be negative")
	check(c.Rules.ShakeInterval > 0, "rules.shake_interval must be positive")
	check(c.Rules.ShakeMinScore >= 0, "rules.shake_min_score must not be negative")
	check(c.Rules.ShakeAmplitude >= 0, "rules.shake_amplitude must not be negative")
	check(c.Rules.DropCooldown >= 0, "rules.drop_cooldown must not be negative")
	check(c.Rules.SpawnableRanks > 0 && c.Rules.SpawnableRanks <= len(c.Ranks),
		"rules.spawnable_ranks must be in [1, %d], got %d", len(c.Ranks), c.Rules.SpawnableRanks)

	if _, err := c.RankTable(); err != nil {
		errs = append(errs, fmt.Errorf("ranks: %w", err))
	}
	for i, r := range c.Ranks {
		if 2*r.DisplaySize*c.Physics.CollisionRatio > c.Screen.Width {
			errs = append(errs, fmt.Errorf("ranks[%d] (%s) is wider than the screen", i, r.Name))
		}
	}

	return errors.Join(errs...)
}

// Parse overlays YAML data on base. Fields absent from data keep the value
// from base; a ranks list replaces the base chain entirely.
func Parse(data []byte, base Config) (Config, error) {
	cfg := base.Clone()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads a YAML file and overlays it on base.
func Load(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data, base)
	if err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

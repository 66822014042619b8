package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/plus3/planetdrop/ranks"
)

// DefaultPreset names the preset hosts start from.
const DefaultPreset = "classic"

var presets = map[string]func() Config{
	"classic": Classic,
	"compact": Compact,
}

// Classic is the tall board: 600x860, collision radius half the sprite size,
// three second grace period.
func Classic() Config {
	return Config{
		Screen: Screen{Width: 600, Height: 860, WallThickness: 100},
		Physics: Physics{
			Gravity:        1500,
			Friction:       0.5,
			Restitution:    0.2,
			Damping:        0.95,
			Mass:           1,
			CollisionRatio: 0.5,
		},
		Rules: Rules{
			DangerLine:     102,
			GracePeriod:    3 * time.Second,
			SettleSpeed:    30,
			ShakeCost:      50,
			ShakeInterval:  100 * time.Millisecond,
			ShakeMinScore:  50,
			ShakeAmplitude: 5,
			SpawnY:         50,
			SpawnableRanks: 3,
			DropCooldown:   time.Second,
		},
		Ranks: planetDefs(),
	}
}

// Compact is the shorter board with tighter collision circles and a two
// second grace period.
func Compact() Config {
	c := Classic()
	c.Screen.Height = 800
	c.Physics.CollisionRatio = 0.45
	c.Rules.DangerLine = 100
	c.Rules.GracePeriod = 2 * time.Second
	return c
}

// Preset returns the named preset.
func Preset(name string) (Config, error) {
	fn, ok := presets[name]
	if !ok {
		return Config{}, fmt.Errorf("unknown preset %q (have %v)", name, PresetNames())
	}
	return fn(), nil
}

// PresetNames lists the built-in presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func planetDefs() []RankDef {
	planets := ranks.Planets()
	defs := make([]RankDef, len(planets))
	for i, p := range planets {
		defs[i] = RankDef{
			Name:        p.Name,
			Label:       p.Label,
			DisplaySize: p.DisplaySize,
			Score:       p.Score,
			Image:       p.Image,
		}
	}
	return defs
}

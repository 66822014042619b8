// Package cli holds the flags every planetdrop host shares.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/plus3/planetdrop/config"
	"github.com/plus3/planetdrop/session"
)

// Flags are the common host options.
type Flags struct {
	Preset     string
	ConfigPath string
	LogLevel   string
	Seed       uint64
}

// Register binds the shared flags onto fs.
func Register(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Preset, "preset", config.DefaultPreset,
		fmt.Sprintf("Balance preset (%s).", strings.Join(config.PresetNames(), ", ")))
	fs.StringVar(&f.ConfigPath, "config", "", "YAML file overlaid on the preset.")
	fs.StringVar(&f.LogLevel, "log-level", "info", "Log level (debug, info, warn, error).")
	fs.Uint64Var(&f.Seed, "seed", 0, "Random seed. 0 picks one at random.")
	return f
}

// Config resolves the preset and the optional overlay file.
func (f *Flags) Config() (config.Config, error) {
	cfg, err := config.Preset(f.Preset)
	if err != nil {
		return config.Config{}, err
	}
	if f.ConfigPath == "" {
		return cfg, nil
	}
	return config.Load(f.ConfigPath, cfg)
}

// Logger builds a timestamped logger at the requested level.
func (f *Flags) Logger(w io.Writer, prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(f.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", f.LogLevel, err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          prefix,
		ReportTimestamp: true,
	}), nil
}

// SessionOptions turns the flags into session options.
func (f *Flags) SessionOptions(logger *log.Logger) []session.Option {
	opts := []session.Option{session.WithLogger(logger)}
	if f.Seed != 0 {
		opts = append(opts, session.WithSeed(f.Seed))
	}
	return opts
}

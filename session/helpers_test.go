package session

import (
	"testing"
	"time"

	"github.com/plus3/planetdrop/config"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// abcConfig is a zero-gravity board with a three-rank chain A(1) B(3) C(6).
func abcConfig() config.Config {
	cfg := config.Classic()
	cfg.Physics.Gravity = 0
	cfg.Rules.SpawnableRanks = 2
	cfg.Ranks = []config.RankDef{
		{Name: "A", DisplaySize: 40, Score: 1},
		{Name: "B", DisplaySize: 60, Score: 3},
		{Name: "C", DisplaySize: 80, Score: 6},
	}
	return cfg
}

func newTestSession(t *testing.T, cfg config.Config, opts ...Option) (*Session, *ManualClock) {
	t.Helper()
	clock := NewManualClock(epoch)
	opts = append([]Option{WithClock(clock), WithSeed(1)}, opts...)
	s, err := New(cfg, opts...)
	require.NoError(t, err)
	return s, clock
}

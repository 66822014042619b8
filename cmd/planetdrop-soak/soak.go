package main

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/plus3/planetdrop/config"
	"github.com/plus3/planetdrop/physics"
	"github.com/plus3/planetdrop/session"
)

var stepSeconds float64 = physics.StepSeconds

var stepDuration = time.Duration(stepSeconds * float64(time.Second))

// player drives one headless session with a manual clock and random drops.
type player struct {
	cfg       config.Config
	seed      uint64
	dropEvery int
	maxTicks  int64
	logger    *log.Logger
}

// result is what one player reports back.
type result struct {
	Ticks  int64
	Drops  int
	Merges int
	Games  []int
	Best   int
	Tick   Stats
}

func (p player) run(ctx context.Context) (result, error) {
	var res result
	clock := session.NewManualClock(time.Unix(0, 0))
	rng := rand.New(rand.NewPCG(p.seed, p.seed+1))

	sess, err := session.New(p.cfg,
		session.WithClock(clock),
		session.WithSeed(p.seed),
		session.WithLogger(p.logger),
		session.WithHooks(session.Hooks{
			OnMerge:    func(session.MergeEvent) { res.Merges++ },
			OnGameOver: func(score int) { res.Games = append(res.Games, score) },
		}),
	)
	if err != nil {
		return res, err
	}

	for ctx.Err() == nil && (p.maxTicks <= 0 || res.Ticks < p.maxTicks) {
		start := time.Now()
		sess.Tick()
		res.Tick.Add(time.Since(start))
		res.Ticks++
		clock.Advance(stepDuration)

		if res.Ticks%int64(p.dropEvery) == 0 {
			sess.MovePointer(rng.Float64() * p.cfg.Screen.Width)
			if _, err := sess.Drop(); err == nil {
				res.Drops++
			}
		}

		// Occasionally hold shake for a few ticks when it is affordable.
		if sess.ShakeEnabled() && rng.IntN(600) == 0 {
			sess.StartShake()
		} else if sess.Shaking() && rng.IntN(20) == 0 {
			sess.StopShake()
		}

		if sess.GameOver() {
			p.logger.Debug("game finished", "score", sess.Score(), "ticks", res.Ticks)
			sess.Reset()
		}
	}

	res.Best = sess.Best()
	return res, nil
}

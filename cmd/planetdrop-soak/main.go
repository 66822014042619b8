// Command planetdrop-soak plays many headless sessions with random drops and
// prints a report of scores and tick timings.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/plus3/planetdrop/internal/cli"
)

func main() {
	common := cli.Register(flag.CommandLine)
	duration := flag.Duration("duration", 10*time.Second, "The total duration the soak should run for.")
	sessions := flag.Int("sessions", runtime.NumCPU(), "Number of sessions played in parallel.")
	dropEvery := flag.Int("drop-every", 45, "Ticks between drop attempts.")
	maxTicks := flag.Int64("max-ticks", 0, "Stop each session after this many ticks. 0 means no limit.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	logger, err := common.Logger(os.Stderr, "soak")
	if err != nil {
		log.Fatal("bad flags", "err", err)
	}
	cfg, err := common.Config()
	if err != nil {
		logger.Fatal("load config", "err", err)
	}
	if *sessions < 1 || *dropEvery < 1 {
		logger.Fatal("sessions and drop-every must be positive")
	}

	seed := common.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	report := &Report{
		Duration:       *duration,
		Sessions:       *sessions,
		Preset:         common.Preset,
		DropEvery:      *dropEvery,
		Seed:           seed,
		GCPauseMetrics: *gcPauseMetrics,
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info("starting soak", "sessions", *sessions, "duration", *duration, "seed", seed)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	results := make([]result, *sessions)
	errs := make([]error, *sessions)

	var wg sync.WaitGroup
	for i := range *sessions {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := player{
				cfg:       cfg,
				seed:      seed + uint64(i),
				dropEvery: *dropEvery,
				maxTicks:  *maxTicks,
				logger:    logger.With("session", i),
			}
			results[i], errs[i] = p.run(ctx)
		}()
	}
	wg.Wait()

	report.TotalTime = time.Since(startTime)
	for i, res := range results {
		if errs[i] != nil {
			logger.Fatal("session failed", "session", i, "err", errs[i])
		}
		report.add(res)
	}
	report.TickTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	logger.Info("soak finished", "games", report.GamesFinished, "best", report.BestScore)

	fmt.Println("\n\n--- Soak Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.Fatal("failed to generate report", "err", err)
	}
	fmt.Println("--- End of Report ---")
}

package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"
)

type Report struct {
	// Configuration
	Duration  time.Duration
	Sessions  int
	Preset    string
	DropEvery int
	Seed      uint64

	// Results
	TotalTicks     int64
	TotalDrops     int
	TotalMerges    int
	GamesFinished  int
	BestScore      int
	MeanScore      float64
	TotalTime      time.Duration
	TickTime       Stats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

// Stats folds durations as they arrive so a long run holds no samples.
type Stats struct {
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
	Count int64
	Total time.Duration
}

func (s *Stats) Add(d time.Duration) {
	if s.Count == 0 || d < s.Min {
		s.Min = d
	}
	if d > s.Max {
		s.Max = d
	}
	s.Count++
	s.Total += d
}

// Merge folds another set of samples into s.
func (s *Stats) Merge(o Stats) {
	if o.Count == 0 {
		return
	}
	if s.Count == 0 || o.Min < s.Min {
		s.Min = o.Min
	}
	s.Max = max(s.Max, o.Max)
	s.Count += o.Count
	s.Total += o.Total
}

func (s *Stats) Finalize() {
	if s.Count == 0 {
		return
	}
	s.Avg = s.Total / time.Duration(s.Count)
}

// add folds one player's result into the report.
func (r *Report) add(res result) {
	r.TotalTicks += res.Ticks
	r.TotalDrops += res.Drops
	r.TotalMerges += res.Merges
	r.BestScore = max(r.BestScore, res.Best)
	r.TickTime.Merge(res.Tick)

	if len(res.Games) == 0 {
		return
	}
	total := r.MeanScore * float64(r.GamesFinished)
	for _, score := range res.Games {
		total += float64(score)
	}
	r.GamesFinished += len(res.Games)
	r.MeanScore = total / float64(r.GamesFinished)
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Planetdrop Soak Report

## Run Configuration
- **Run Duration:** {{.Duration}}
- **Sessions:** {{.Sessions}}
- **Preset:** {{.Preset}}
- **Drop Every:** {{.DropEvery}} ticks
- **Seed:** {{.Seed}}

## Game Results
- **Total Ticks:** {{.TotalTicks}} ({{ticktime .TotalTicks}} simulated)
- **Drops:** {{.TotalDrops}}
- **Merges:** {{.TotalMerges}}
- **Games Finished:** {{.GamesFinished}}
- **Best Score:** {{.BestScore}}
- **Mean Final Score:** {{printf "%.1f" .MeanScore}}

## Performance Results
- **Total Run Time:** {{.TotalTime}}
- **Tick Time:**
  - **Avg:** {{.TickTime.Avg}}
  - **Min:** {{.TickTime.Min}}
  - **Max:** {{.TickTime.Max}}

## Memory Usage (MiB)
- Heap Alloc:     {{mb .MemStatsStart.HeapAlloc}} (start) -> {{mb .MemStatsEnd.HeapAlloc}} (end) -> delta: {{mb (bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc)}}
- Total Alloc:    {{mb .MemStatsStart.TotalAlloc}} (start) -> {{mb .MemStatsEnd.TotalAlloc}} (end) -> delta: {{mb (bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc)}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{ns (u64sub .MemStatsEnd.PauseTotalNs .MemStatsStart.PauseTotalNs)}}
- **Num GC Cycles:** {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{end}}`

	fm := template.FuncMap{
		"mb": func(v any) string {
			switch val := v.(type) {
			case uint64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			case int64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			default:
				return "N/A"
			}
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"u64sub": func(a, b uint64) uint64 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
		"ticktime": func(ticks int64) string {
			return (time.Duration(ticks) * stepDuration).Round(time.Second).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}

package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
)

// PerformanceStats plots frame times and lists per-system timings of the
// session scheduler.
type PerformanceStats struct {
	game          Game
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}

func NewPerformanceStats(game Game, historyFrames int) PerformanceStats {
	return PerformanceStats{
		game:          game,
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
	}
}

// record stores one frame time in the ring and returns the running average
// in milliseconds.
func (ps *PerformanceStats) record(deltaTime float32) float32 {
	ps.frameHistory[ps.frameIndex] = deltaTime * 1000.0
	ps.frameIndex = (ps.frameIndex + 1) % ps.historyFrames

	var avg float32
	for _, ft := range ps.frameHistory {
		avg += ft
	}
	return avg / float32(ps.historyFrames)
}

func (ps *PerformanceStats) Render(deltaTime float32) {
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	avgFrameTime := ps.record(deltaTime)
	stats := ps.game.Stats()

	imgui.Text(fmt.Sprintf("Ticks: %d  Steps: %d", stats.Ticks, stats.Steps))
	imgui.Text(fmt.Sprintf("Pieces: %d  Merges: %d  Drops: %d", stats.Pieces, stats.Merges, stats.Drops))
	if avgFrameTime > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avgFrameTime, 1000.0/avgFrameTime))
	}

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &ps.frameHistory[0], int32(len(ps.frameHistory)))

	if sched := stats.Scheduler; sched != nil && imgui.TreeNodeStr("Systems") {
		imgui.Text(fmt.Sprintf("Frames: %d (stopped %d)", sched.Frames, sched.StoppedFrames))
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemStatsTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Runs")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, sys := range sched.Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(sys.Name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", sys.ExecutionCount))
				imgui.TableNextColumn()
				imgui.Text(sys.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.MaxDuration.String())
			}
			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if storage := stats.Storage; storage != nil && imgui.TreeNodeStr("Components") {
		imgui.Text(fmt.Sprintf("Entities: %d", storage.TotalEntityCount))
		for _, c := range storage.Components {
			imgui.BulletText(fmt.Sprintf("%s: %d", c.Type, c.EntityCount))
		}
		for _, singletonType := range storage.SingletonTypes {
			imgui.BulletText(singletonType + " (singleton)")
		}
		imgui.TreePop()
	}

	imgui.End()
}

// FrameTimer measures wall time between calls.
type FrameTimer struct {
	lastFrameTime time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{lastFrameTime: time.Now()}
}

func (ft *FrameTimer) DeltaTime() float32 {
	now := time.Now()
	delta := float32(now.Sub(ft.lastFrameTime).Seconds())
	ft.lastFrameTime = now
	return delta
}

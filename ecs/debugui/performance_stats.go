package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/hotreg/ecs"
)

func NewPerformanceStatsComponent(historyFrames int) PerformanceStatsComponent {
	return PerformanceStatsComponent{
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
		frameIndex:    0,
	}
}

func (ps *PerformanceStatsComponent) Think(frame *ecs.UpdateFrame, e ecs.Entity) error {
	ps.Render(frame.World, float32(frame.DeltaTime))
	return nil
}

// record adds one frame time and returns the average over the history.
func (ps *PerformanceStatsComponent) record(deltaTime float32) float32 {
	if ps.historyFrames <= 0 || len(ps.frameHistory) != ps.historyFrames {
		*ps = NewPerformanceStatsComponent(120)
	}
	ps.frameHistory[ps.frameIndex] = deltaTime * 1000.0
	ps.frameIndex = (ps.frameIndex + 1) % ps.historyFrames

	var avgFrameTime float32
	for _, ft := range ps.frameHistory {
		avgFrameTime += ft
	}
	return avgFrameTime / float32(ps.historyFrames)
}

func (ps *PerformanceStatsComponent) Render(w *ecs.World, deltaTime float32) {
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	avgFrameTime := ps.record(deltaTime)
	stats := w.CollectStats()
	lifecycle := w.GetStats()

	imgui.Text(fmt.Sprintf("Frame: %d", lifecycle.Frames))
	imgui.Text(fmt.Sprintf("Total Components: %d", stats.TotalComponents))
	imgui.Text(fmt.Sprintf("Singletons: %d", stats.SingletonCount))
	imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avgFrameTime, 1000.0/avgFrameTime))

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &ps.frameHistory[0], int32(len(ps.frameHistory)))

	if imgui.TreeNodeStr("Lifecycle Passes") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("PassStatsTable", 6, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Pass")
			imgui.TableSetupColumn("Runs")
			imgui.TableSetupColumn("Callbacks")
			imgui.TableSetupColumn("Failures")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Last")
			imgui.TableHeadersRow()

			for _, pass := range lifecycle.Passes {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(pass.Name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", pass.ExecutionCount))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", pass.Callbacks))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", pass.Failures))
				imgui.TableNextColumn()
				imgui.Text(pass.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(pass.LastDuration.String())
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}

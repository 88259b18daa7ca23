package debugui

import (
	"fmt"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/hotreg/ecs"
)

func NewRegistryViewerComponent() RegistryViewerComponent {
	return RegistryViewerComponent{
		sortColumn:    0,
		sortAscending: true,
	}
}

func (rv *RegistryViewerComponent) Think(frame *ecs.UpdateFrame, e ecs.Entity) error {
	rv.Render(frame.World)
	return nil
}

// Render lists every live pool with its slot, capabilities and size, and
// how much of the registry's slot budget is in use.
func (rv *RegistryViewerComponent) Render(w *ecs.World) {
	if !imgui.BeginV("Component Registry", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	stats := w.CollectStats()
	imgui.Text(fmt.Sprintf("Slots: %d / %d", stats.RegisteredTypes, stats.Capacity))
	imgui.ProgressBar(float32(stats.RegisteredTypes) / float32(stats.Capacity))
	imgui.Text(fmt.Sprintf("Pools: %d  Components: %d  Pending destroy: %d", stats.PoolCount, stats.TotalComponents, stats.PendingDestroy))

	pools := stats.Pools
	maxCount := 0
	for _, pool := range pools {
		maxCount = max(maxCount, pool.Count)
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("PoolTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Slot")
		imgui.TableSetupColumn("Name")
		imgui.TableSetupColumn("Capabilities")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			rv.sortColumn = int(spec.ColumnIndex())
			rv.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			sortSpecs.SetSpecsDirty(false)
		}
		sortPools(pools, rv.sortColumn, rv.sortAscending)

		for _, pool := range pools {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", pool.Slot))

			imgui.TableNextColumn()
			imgui.Text(pool.Name)

			imgui.TableNextColumn()
			imgui.Text(pool.Capabilities.String())

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", pool.Count))

			if maxCount > 0 {
				barWidth := float32(pool.Count) / float32(maxCount) * 80.0
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}
		}

		imgui.EndTable()
	}

	imgui.End()
}

func sortPools(pools []ecs.PoolStats, column int, ascending bool) {
	sort.SliceStable(pools, func(i, j int) bool {
		a, b := pools[i], pools[j]
		var less bool

		switch column {
		case 1:
			less = a.Name < b.Name
		case 2:
			less = a.Capabilities < b.Capabilities
		case 3:
			less = a.Count < b.Count
		default:
			less = a.Slot < b.Slot
		}

		if !ascending {
			return !less
		}
		return less
	})
}

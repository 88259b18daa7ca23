package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/hotreg/ecs"
)

type EntityInfo struct {
	ID             ecs.Entity
	Name           string
	ComponentTypes []string
}

type EntityBrowserCache struct {
	entities      []EntityInfo
	lastFrame     uint64
	sortColumn    int
	sortAscending bool
}

func NewEntityBrowserComponent(maxEntitiesPerPage int) EntityBrowserComponent {
	return EntityBrowserComponent{
		cache: &EntityBrowserCache{
			sortColumn:    0,
			sortAscending: true,
		},
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

func (eb *EntityBrowserComponent) Think(frame *ecs.UpdateFrame, e ecs.Entity) error {
	eb.Render(frame.World)
	return nil
}

func (eb *EntityBrowserComponent) Render(w *ecs.World) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.rebuildCacheIfNeeded(w)
	selected := selection(w)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
	}

	filteredEntities := eb.filteredEntities()

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity")
		imgui.TableSetupColumn("Name")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.cache.sortColumn = int(spec.ColumnIndex())
			eb.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			eb.sortEntities()
			sortSpecs.SetSpecsDirty(false)
		}

		startIdx := eb.currentPage * eb.maxEntitiesPerPage
		endIdx := min(startIdx+eb.maxEntitiesPerPage, len(filteredEntities))

		for i := startIdx; i < endIdx; i++ {
			entity := filteredEntities[i]
			imgui.TableNextRow()

			imgui.TableNextColumn()
			if imgui.SelectableBoolV(entity.ID.String(), selected.Entity == entity.ID, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				selected.Entity = entity.ID
			}

			imgui.TableNextColumn()
			imgui.Text(entity.Name)

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentTypes, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", len(entity.ComponentTypes)))
		}

		imgui.EndTable()
	}

	if len(filteredEntities) > eb.maxEntitiesPerPage {
		totalPages := (len(filteredEntities) + eb.maxEntitiesPerPage - 1) / eb.maxEntitiesPerPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filteredEntities)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filteredEntities)))
	}

	imgui.End()
}

// rebuildCacheIfNeeded refreshes the entity list once per frame. Restored
// components come back without a cache or page size.
func (eb *EntityBrowserComponent) rebuildCacheIfNeeded(w *ecs.World) {
	if eb.cache == nil {
		eb.cache = &EntityBrowserCache{sortAscending: true}
	}
	if eb.maxEntitiesPerPage <= 0 {
		eb.maxEntitiesPerPage = 100
	}
	if eb.cache.entities != nil && eb.cache.lastFrame == w.Frame() {
		return
	}
	eb.cache.lastFrame = w.Frame()
	eb.cache.entities = collectEntities(w)
	eb.sortEntities()
}

func collectEntities(w *ecs.World) []EntityInfo {
	pools := w.Pools()
	entities := make([]EntityInfo, 0, 1024)
	w.Host().Each(func(e ecs.Entity) {
		info := EntityInfo{ID: e}
		info.Name, _ = w.Host().Name(e)
		for _, pool := range pools {
			if pool.Contains(e) {
				info.ComponentTypes = append(info.ComponentTypes, pool.Name())
			}
		}
		entities = append(entities, info)
	})
	return entities
}

func (eb *EntityBrowserComponent) sortEntities() {
	sort.SliceStable(eb.cache.entities, func(i, j int) bool {
		a, b := eb.cache.entities[i], eb.cache.entities[j]
		var less bool

		switch eb.cache.sortColumn {
		case 1:
			less = a.Name < b.Name
		case 2:
			less = strings.Join(a.ComponentTypes, ",") < strings.Join(b.ComponentTypes, ",")
		case 3:
			less = len(a.ComponentTypes) < len(b.ComponentTypes)
		default:
			less = a.ID < b.ID
		}

		if !eb.cache.sortAscending {
			return !less
		}
		return less
	})
}

func (eb *EntityBrowserComponent) filteredEntities() []EntityInfo {
	if eb.filterText == "" {
		return eb.cache.entities
	}
	return filterEntities(eb.cache.entities, eb.filterText)
}

// filterEntities keeps entities whose id, name or component names contain text.
func filterEntities(entities []EntityInfo, text string) []EntityInfo {
	filtered := make([]EntityInfo, 0, len(entities))
	filterLower := strings.ToLower(text)

	for _, entity := range entities {
		componentsStr := strings.ToLower(strings.Join(entity.ComponentTypes, " "))
		if !strings.Contains(entity.ID.String(), filterLower) &&
			!strings.Contains(strings.ToLower(entity.Name), filterLower) &&
			!strings.Contains(componentsStr, filterLower) {
			continue
		}
		filtered = append(filtered, entity)
	}
	return filtered
}

package debugui

import "github.com/plus3/hotreg/ecs"

// SpawnDebugUI instantiates one entity per debug window.
func SpawnDebugUI(w *ecs.World) error {
	_, err := w.Instantiate(ecs.Template{
		Name: "debugui",
		Components: []any{
			NewEntityBrowserComponent(100),
			NewComponentInspectorComponent(),
			NewRegistryViewerComponent(),
			NewPerformanceStatsComponent(120),
		},
	})
	return err
}

func RegisterDebugUIComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
	ecs.RegisterComponent[EntityBrowserComponent](registry)
	ecs.RegisterComponent[ComponentInspectorComponent](registry)
	ecs.RegisterComponent[RegistryViewerComponent](registry)
	ecs.RegisterComponent[PerformanceStatsComponent](registry)
}

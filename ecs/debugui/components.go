package debugui

type EntityBrowserComponent struct {
	cache              *EntityBrowserCache
	filterText         string
	maxEntitiesPerPage int
	currentPage        int
}

type ComponentInspectorComponent struct{}

type RegistryViewerComponent struct {
	sortColumn    int
	sortAscending bool
}

type PerformanceStatsComponent struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}

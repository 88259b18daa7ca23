package ecs

// RegistryStats is a point-in-time summary of a world's storages.
type RegistryStats struct {
	Capacity        int
	RegisteredTypes int
	PoolCount       int
	TotalComponents int
	SingletonCount  int
	PendingDestroy  int
	Pools           []PoolStats
}

// PoolStats summarizes one storage.
type PoolStats struct {
	Slot         Slot
	Name         string
	Capabilities Capability
	Count        int
}

// CollectStats summarizes the world's storages in creation order.
func (w *World) CollectStats() RegistryStats {
	stats := RegistryStats{
		Capacity:        w.registry.Capacity(),
		RegisteredTypes: w.registry.Len(),
		PoolCount:       len(w.order),
		SingletonCount:  len(w.singletons),
		PendingDestroy:  len(w.destroyQueue),
		Pools:           make([]PoolStats, 0, len(w.order)),
	}
	for _, s := range w.order {
		stats.TotalComponents += s.Len()
		stats.Pools = append(stats.Pools, PoolStats{
			Slot:         s.Slot(),
			Name:         s.Name(),
			Capabilities: s.Capabilities(),
			Count:        s.Len(),
		})
	}
	return stats
}

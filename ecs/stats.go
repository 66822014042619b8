package ecs

import (
	"reflect"
	"sort"
)

// StorageStats summarizes the contents of a Storage.
type StorageStats struct {
	TotalEntityCount int
	ComponentCount   int
	SingletonCount   int
	Components       []ComponentStats
	SingletonTypes   []string
}

// ComponentStats reports how many entities carry one component type.
type ComponentStats struct {
	Type        string
	EntityCount int
}

// CollectStats walks the storage and returns a snapshot of its contents.
// Component and singleton entries are sorted by type name.
func (s *Storage) CollectStats() *StorageStats {
	stats := &StorageStats{
		TotalEntityCount: s.entities.Len(),
		SingletonCount:   len(s.singletons),
	}

	for t, store := range s.stores {
		if store.len() == 0 {
			continue
		}
		stats.Components = append(stats.Components, ComponentStats{
			Type:        t.String(),
			EntityCount: store.len(),
		})
	}
	sort.Slice(stats.Components, func(i, j int) bool {
		return stats.Components[i].Type < stats.Components[j].Type
	})
	stats.ComponentCount = len(stats.Components)

	types := make([]reflect.Type, 0, len(s.singletons))
	for t := range s.singletons {
		types = append(types, t)
	}
	sort.Sort(byTypeName(types))
	for _, t := range types {
		stats.SingletonTypes = append(stats.SingletonTypes, t.String())
	}

	return stats
}

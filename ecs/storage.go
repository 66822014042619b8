package ecs

import (
	"reflect"
	"slices"
	"sort"

	"github.com/kamstrup/intmap"
)

// Storage holds every entity, its components and the singleton components of
// one ECS instance.
type Storage struct {
	registry   *ComponentRegistry
	stores     map[reflect.Type]componentStore
	entities   *intmap.Map[EntityId, []reflect.Type]
	singletons map[reflect.Type]reflect.Value
	lastId     EntityId
}

// NewStorage creates a new ECS storage with the given component registry.
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		registry:   registry,
		stores:     make(map[reflect.Type]componentStore),
		entities:   intmap.New[EntityId, []reflect.Type](256),
		singletons: make(map[reflect.Type]reflect.Value),
	}
}

// Spawn creates a new entity with the provided components and returns its id.
// Components may be passed by value or by pointer; the storage keeps a copy.
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}

	types := extractComponentTypes(components)

	s.lastId++
	id := s.lastId
	for i, comp := range components {
		s.storeFor(types[i]).put(id, comp)
	}

	sorted := slices.Clone(types)
	sort.Sort(byTypeName(sorted))
	s.entities.Put(id, slices.Compact(sorted))
	return id
}

// Delete removes the entity and all of its components.
// Deleting an unknown or already deleted entity is a no-op.
func (s *Storage) Delete(id EntityId) bool {
	types, ok := s.entities.Get(id)
	if !ok {
		return false
	}
	for _, t := range types {
		if store, ok := s.stores[t]; ok {
			store.del(id)
		}
	}
	s.entities.Del(id)
	return true
}

// Alive reports whether the entity exists.
func (s *Storage) Alive(id EntityId) bool {
	_, ok := s.entities.Get(id)
	return ok
}

// Len returns the number of live entities.
func (s *Storage) Len() int {
	return s.entities.Len()
}

// Clear deletes every entity. Singletons are kept.
func (s *Storage) Clear() {
	for _, store := range s.stores {
		for _, id := range slices.Clone(store.owners()) {
			store.del(id)
		}
	}
	s.entities.Clear()
}

// AddComponent attaches (or overwrites) a component on a live entity.
func (s *Storage) AddComponent(id EntityId, component any) bool {
	types, ok := s.entities.Get(id)
	if !ok {
		return false
	}

	compType := componentType(component)
	s.storeFor(compType).put(id, component)
	if !slices.Contains(types, compType) {
		types = append(slices.Clone(types), compType)
		sort.Sort(byTypeName(types))
		s.entities.Put(id, types)
	}
	return true
}

// RemoveComponent detaches a component. An entity left without components is
// deleted.
func (s *Storage) RemoveComponent(id EntityId, compType reflect.Type) bool {
	types, ok := s.entities.Get(id)
	if !ok || !slices.Contains(types, compType) {
		return false
	}

	s.stores[compType].del(id)
	remaining := slices.DeleteFunc(slices.Clone(types), func(t reflect.Type) bool {
		return t == compType
	})
	if len(remaining) == 0 {
		s.entities.Del(id)
		return true
	}
	s.entities.Put(id, remaining)
	return true
}

// GetComponent returns a pointer to the component of the given type, or nil.
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	store, ok := s.stores[compType]
	if !ok {
		return nil
	}
	return store.get(id)
}

// HasComponent checks if an entity has a specific component type.
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	return s.GetComponent(id, compType) != nil
}

// Types returns the sorted component types of an entity.
func (s *Storage) Types(id EntityId) []reflect.Type {
	types, _ := s.entities.Get(id)
	return slices.Clone(types)
}

// AddSingleton stores a value as the singleton of its type, replacing the
// previous value in place so cached Singleton pointers stay valid.
func (s *Storage) AddSingleton(value any) {
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}

	if existing, ok := s.singletons[v.Type()]; ok {
		existing.Elem().Set(v)
		return
	}

	ptr := reflect.New(v.Type())
	ptr.Elem().Set(v)
	s.singletons[v.Type()] = ptr
}

// ReadSingleton points *target at the stored singleton of type T, where
// target is a **T. Returns false if no such singleton exists.
func (s *Storage) ReadSingleton(target any) bool {
	out := reflect.ValueOf(target)
	if out.Kind() != reflect.Pointer || out.Elem().Kind() != reflect.Pointer {
		panic("ReadSingleton target must be a pointer to a pointer")
	}

	ptr, ok := s.singletons[out.Elem().Type().Elem()]
	if !ok {
		return false
	}
	out.Elem().Set(ptr)
	return true
}

func (s *Storage) singleton(t reflect.Type) (reflect.Value, bool) {
	ptr, ok := s.singletons[t]
	return ptr, ok
}

func (s *Storage) storeFor(t reflect.Type) componentStore {
	if store, ok := s.stores[t]; ok {
		return store
	}
	factory := s.registry.factory(t)
	if factory == nil {
		panic("component type " + t.String() + " not registered")
	}
	store := factory()
	s.stores[t] = store
	return store
}

type byTypeName []reflect.Type

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return a[i].String() < a[j].String() }

func componentType(component any) reflect.Type {
	compType := reflect.TypeOf(component)
	if compType.Kind() == reflect.Pointer {
		compType = compType.Elem()
	}
	return compType
}

// extractComponentTypes resolves the component type of every argument in order.
func extractComponentTypes(components []any) []reflect.Type {
	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		compType := componentType(comp)

		// Components are value types; nested pointers, maps, channels and
		// functions are not storable as a component on their own.
		switch compType.Kind() {
		case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func:
			panic("components cannot be pointers, maps, channels, or functions")
		}

		types = append(types, compType)
	}
	return types
}

type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns the typed component of an entity, or nil.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp, _ := reader.GetComponent(entityId, reflect.TypeFor[T]()).(*T)
	return comp
}

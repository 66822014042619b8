package ecs

import (
	"reflect"
	"unsafe"

	"github.com/kamstrup/intmap"
)

// ComponentRegistry manages component type registration for an ECS instance.
// Each Storage has its own registry so independent game sessions never share
// component storage.
type ComponentRegistry struct {
	factories map[reflect.Type]func() componentStore
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() componentStore),
	}
}

// RegisterComponent registers a component type with the registry.
// This must be called for each component type before it can be spawned.
func RegisterComponent[T any](r *ComponentRegistry) {
	r.factories[reflect.TypeFor[T]()] = func() componentStore {
		return newGenericStore[T]()
	}
}

// Registered reports whether a type has been registered.
func (r *ComponentRegistry) Registered(t reflect.Type) bool {
	_, ok := r.factories[t]
	return ok
}

func (r *ComponentRegistry) factory(t reflect.Type) func() componentStore {
	return r.factories[t]
}

// componentStore is a type-erased sparse set of components of one type.
type componentStore interface {
	put(id EntityId, item any) bool
	get(id EntityId) any
	pointer(id EntityId) unsafe.Pointer
	del(id EntityId) bool
	len() int
	owners() []EntityId
}

// genericStore keeps components densely packed with a swap-remove on delete.
// Items are heap allocated individually so pointers handed out to systems stay
// valid while other entities are added or removed.
type genericStore[T any] struct {
	index *intmap.Map[EntityId, int]
	ids   []EntityId
	items []*T
}

func newGenericStore[T any]() *genericStore[T] {
	return &genericStore[T]{
		index: intmap.New[EntityId, int](64),
	}
}

func (cs *genericStore[T]) put(id EntityId, item any) bool {
	var value T
	switch v := item.(type) {
	case *T:
		value = *v
	case T:
		value = v
	default:
		return false
	}

	if pos, ok := cs.index.Get(id); ok {
		*cs.items[pos] = value
		return true
	}

	cs.index.Put(id, len(cs.ids))
	cs.ids = append(cs.ids, id)
	cs.items = append(cs.items, &value)
	return true
}

func (cs *genericStore[T]) get(id EntityId) any {
	pos, ok := cs.index.Get(id)
	if !ok {
		return nil
	}
	return cs.items[pos]
}

func (cs *genericStore[T]) pointer(id EntityId) unsafe.Pointer {
	pos, ok := cs.index.Get(id)
	if !ok {
		return nil
	}
	return unsafe.Pointer(cs.items[pos])
}

func (cs *genericStore[T]) del(id EntityId) bool {
	pos, ok := cs.index.Get(id)
	if !ok {
		return false
	}

	last := len(cs.ids) - 1
	if pos != last {
		moved := cs.ids[last]
		cs.ids[pos] = moved
		cs.items[pos] = cs.items[last]
		cs.index.Put(moved, pos)
	}
	cs.ids[last] = 0
	cs.items[last] = nil
	cs.ids = cs.ids[:last]
	cs.items = cs.items[:last]
	cs.index.Del(id)
	return true
}

func (cs *genericStore[T]) len() int {
	return len(cs.ids)
}

func (cs *genericStore[T]) owners() []EntityId {
	return cs.ids
}

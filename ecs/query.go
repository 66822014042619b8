package ecs

import (
	"iter"
	"reflect"
	"slices"
	"unsafe"
)

// Query iterates entities that carry a combination of components.
//
// T must be a struct. Every field is either a pointer to a component type or an
// EntityId, which receives the id of the matched entity. Embedded pointer
// fields are always required; named pointer fields may be tagged
// `ecs:"optional"` and are set to nil when the entity lacks the component.
//
//	type movers struct {
//		ecs.EntityId
//		*Position
//		*Velocity
//		Name *Name `ecs:"optional"`
//	}
type Query[T any] struct {
	storage *Storage
	layout  *queryLayout
}

type queryLayout struct {
	types    []reflect.Type
	optional []bool
	offsets  []uintptr
	idOffset uintptr
	hasId    bool
}

var entityIdType = reflect.TypeFor[EntityId]()

// NewQuery creates a query over the given storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init binds the query to a storage. The Scheduler calls this for every Query
// field of a registered system.
func (q *Query[T]) Init(storage *Storage) {
	q.storage = storage
	q.layout = buildLayout(reflect.TypeFor[T]())
}

func buildLayout(structType reflect.Type) *queryLayout {
	if structType.Kind() != reflect.Struct {
		panic("Query type parameter must be a struct")
	}

	layout := &queryLayout{}
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if field.Type == entityIdType {
			layout.idOffset = field.Offset
			layout.hasId = true
			continue
		}

		if field.Type.Kind() != reflect.Pointer {
			panic("Query struct fields must be pointer types or EntityId")
		}

		isOptional := false
		if !field.Anonymous {
			switch tag := field.Tag.Get("ecs"); tag {
			case "":
			case "optional":
				isOptional = true
			default:
				panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
			}
		}

		layout.types = append(layout.types, field.Type.Elem())
		layout.optional = append(layout.optional, isOptional)
		layout.offsets = append(layout.offsets, field.Offset)
	}
	return layout
}

// driver picks the smallest store among the required components. Returns
// false when a required component has never been stored.
func (q *Query[T]) driver() (componentStore, bool) {
	var best componentStore
	for i, t := range q.layout.types {
		if q.layout.optional[i] {
			continue
		}
		store, ok := q.storage.stores[t]
		if !ok {
			return nil, false
		}
		if best == nil || store.len() < best.len() {
			best = store
		}
	}
	return best, best != nil
}

func (q *Query[T]) fill(id EntityId, result *T) bool {
	base := unsafe.Pointer(result)
	for i, t := range q.layout.types {
		var ptr unsafe.Pointer
		if store, ok := q.storage.stores[t]; ok {
			ptr = store.pointer(id)
		}
		if ptr == nil && !q.layout.optional[i] {
			return false
		}
		*(*unsafe.Pointer)(unsafe.Add(base, q.layout.offsets[i])) = ptr
	}
	if q.layout.hasId {
		*(*EntityId)(unsafe.Add(base, q.layout.idOffset)) = id
	}
	return true
}

// Iter yields every matching entity. The set of candidates is captured when
// iteration starts, so entities deleted mid-iteration are skipped and entities
// spawned mid-iteration are not visited.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		store, ok := q.driver()
		if !ok {
			return
		}

		var result T
		for _, id := range slices.Clone(store.owners()) {
			if !q.fill(id, &result) {
				continue
			}
			if !yield(id, result) {
				return
			}
		}
	}
}

// Values yields only the populated structs.
func (q *Query[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range q.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}

// Get populates the struct for one entity. Returns false if the entity does
// not carry every required component.
func (q *Query[T]) Get(id EntityId) (T, bool) {
	var result T
	if !q.storage.Alive(id) {
		return result, false
	}
	return result, q.fill(id, &result)
}

// Count returns the number of matching entities.
func (q *Query[T]) Count() int {
	n := 0
	for range q.Iter() {
		n++
	}
	return n
}

package ecs

// EntityId identifies an entity for as long as it is alive.
// Ids are handed out in increasing order by a Storage and are never reused,
// so a stale id can never alias a newer entity. The zero value is never valid.
type EntityId uint64

// Valid reports whether the id could refer to an entity.
func (e EntityId) Valid() bool {
	return e != 0
}

package engine

import "github.com/lixenwraith/voxforge/core"

// AnyStore provides type-erased operations for lifecycle management.
// World uses it to clean up all stores uniformly on entity destruction
type AnyStore interface {
	Remove(e core.Entity)
	RemoveBatch(entities []core.Entity)
	Has(e core.Entity) bool
	Count() int
	Clear()
}

// QueryableStore extends AnyStore with the snapshot operation the query
// builder needs to intersect component sets
type QueryableStore interface {
	AnyStore
	All() []core.Entity
}

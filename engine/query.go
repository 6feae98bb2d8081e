package engine

import (
	"sort"

	"github.com/lixenwraith/voxforge/core"
)

// QueryBuilder provides a fluent interface for finding entities that hold
// a specific component combination. The intersection starts from the
// smallest store to minimize membership checks
type QueryBuilder struct {
	world    *World
	stores   []QueryableStore
	executed bool
	results  []core.Entity
}

// Query creates a QueryBuilder.
//
// Example:
//
//	entities := world.Query().
//	    With(world.Transforms).
//	    With(world.Renders).
//	    Execute()
func (w *World) Query() *QueryBuilder {
	return &QueryBuilder{
		world:  w,
		stores: make([]QueryableStore, 0, 4),
	}
}

// With adds a component store to the query filter.
// Panics if called after Execute()
func (qb *QueryBuilder) With(store QueryableStore) *QueryBuilder {
	if qb.executed {
		panic("query already executed - cannot modify after Execute()")
	}
	qb.stores = append(qb.stores, store)
	return qb
}

// Execute runs the query and returns all entities present in every
// specified store. Repeated calls return the cached result
func (qb *QueryBuilder) Execute() []core.Entity {
	if qb.executed {
		return qb.results
	}
	qb.executed = true

	if len(qb.stores) == 0 {
		qb.results = make([]core.Entity, 0)
		return qb.results
	}

	if len(qb.stores) == 1 {
		qb.results = qb.stores[0].All()
		return qb.results
	}

	// Smallest store first minimizes Has() checks
	sort.Slice(qb.stores, func(i, j int) bool {
		return qb.stores[i].Count() < qb.stores[j].Count()
	})

	candidates := qb.stores[0].All()

	for i := 1; i < len(qb.stores); i++ {
		store := qb.stores[i]
		filtered := candidates[:0] // Reuse underlying array
		for _, e := range candidates {
			if store.Has(e) {
				filtered = append(filtered, e)
			}
		}
		candidates = filtered

		if len(candidates) == 0 {
			break
		}
	}

	qb.results = candidates
	return qb.results
}

package core

// Entity is a generation-checked handle to an entity slot.
// Low 32 bits hold the slot index, high 32 bits the generation.
// A freed slot increments its generation, so a stale handle can never
// alias the entity that later reuses the slot.
// The zero value is "no entity".
type Entity uint64

// NewEntity packs an index and generation into a handle
func NewEntity(index, generation uint32) Entity {
	return Entity(uint64(generation)<<32 | uint64(index))
}

// Index returns the slot index of the handle
func (e Entity) Index() uint32 { return uint32(e) }

// Generation returns the generation of the handle
func (e Entity) Generation() uint32 { return uint32(e >> 32) }

// IsZero reports whether the handle refers to no entity
func (e Entity) IsZero() bool { return e == 0 }

// EntityState is the lifecycle state of an entity
type EntityState uint8

const (
	StateActive EntityState = iota
	StateInactive
	StatePendingDestroy
	StateDestroyed
)

func (s EntityState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateInactive:
		return "inactive"
	case StatePendingDestroy:
		return "pending-destroy"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// EntityPool allocates entity handles from a slot arena with a free list.
// Generations start at 1 so that handle 0 stays invalid.
// The pool itself is not synchronized; the owning manager guards it.
type EntityPool struct {
	generations []uint32
	freeList    []uint32
	nextIndex   uint32
}

// NewEntityPool creates an empty pool
func NewEntityPool() *EntityPool {
	return &EntityPool{
		generations: make([]uint32, 0, 1024),
		freeList:    make([]uint32, 0, 256),
	}
}

// Create returns a fresh handle, reusing a freed slot when available
func (p *EntityPool) Create() Entity {
	if n := len(p.freeList); n > 0 {
		idx := p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		return NewEntity(idx, p.generations[idx])
	}
	idx := p.nextIndex
	p.nextIndex++
	if int(idx) >= len(p.generations) {
		p.generations = append(p.generations, 1)
	}
	return NewEntity(idx, p.generations[idx])
}

// Alive reports whether the handle refers to a live slot
func (p *EntityPool) Alive(e Entity) bool {
	idx := e.Index()
	if idx >= p.nextIndex {
		return false
	}
	return p.generations[idx] == e.Generation() && e.Generation() != 0
}

// Destroy frees the handle's slot. Returns false on a stale or unknown handle
func (p *EntityPool) Destroy(e Entity) bool {
	idx := e.Index()
	if idx >= p.nextIndex {
		return false
	}
	if p.generations[idx] != e.Generation() {
		return false // stale handle, slot already reused or freed
	}
	p.generations[idx]++
	p.freeList = append(p.freeList, idx)
	return true
}

// LiveCount returns the number of allocated slots currently in use
func (p *EntityPool) LiveCount() int {
	return int(p.nextIndex) - len(p.freeList)
}

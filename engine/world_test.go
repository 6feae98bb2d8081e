package engine

import (
	"testing"
	"time"

	"github.com/lixenwraith/voxforge/component"
	"github.com/lixenwraith/voxforge/core"
	"github.com/lixenwraith/voxforge/event"
	"github.com/lixenwraith/voxforge/vmath"
)

func TestCreateEntityUniqueHandles(t *testing.T) {
	w := NewWorld(nil)
	seen := make(map[core.Entity]bool)

	// Churn creates and destroys so slots get reused with new generations
	for round := 0; round < 5; round++ {
		var batch []core.Entity
		for i := 0; i < 100; i++ {
			e := w.CreateEntity("churn")
			if seen[e] {
				t.Fatalf("handle %v issued twice", e)
			}
			seen[e] = true
			batch = append(batch, e)
		}
		for _, e := range batch {
			w.DestroyEntity(e)
		}
	}
}

func TestNameDisambiguation(t *testing.T) {
	w := NewWorld(nil)
	a := w.CreateEntity("block")
	b := w.CreateEntity("block")

	na, _ := w.EntityName(a)
	nb, _ := w.EntityName(b)
	if na == nb {
		t.Fatalf("duplicate stored names %q", na)
	}
	if na != "block" {
		t.Errorf("first entity name = %q, want the plain name", na)
	}

	// Both resolvable through the registry
	if got, ok := w.FindEntity(na); !ok || got != a {
		t.Errorf("FindEntity(%q) = %v, %v", na, got, ok)
	}
	if got, ok := w.FindEntity(nb); !ok || got != b {
		t.Errorf("FindEntity(%q) = %v, %v", nb, got, ok)
	}
}

func TestDestroyEntity(t *testing.T) {
	w := NewWorld(nil)
	e := w.CreateEntity("doomed")
	w.Transforms.Set(e, component.NewTransform(vmath.Vec3{}))
	w.Renders.Set(e, component.NewRender(1, 0xFF0000, 12, 1))

	if !w.DestroyEntity(e) {
		t.Fatal("destroy of live entity failed")
	}
	if w.DestroyEntity(e) {
		t.Error("second destroy of same handle succeeded")
	}
	if w.EntityExists(e) {
		t.Error("destroyed entity still exists")
	}
	if w.Transforms.Has(e) || w.Renders.Has(e) {
		t.Error("components survived entity destruction")
	}
	if _, ok := w.FindEntity("doomed"); ok {
		t.Error("name registry still resolves destroyed entity")
	}
}

func TestStaleHandleAfterSlotReuse(t *testing.T) {
	w := NewWorld(nil)
	old := w.CreateEntity("first")
	w.DestroyEntity(old)

	// The slot is reused with a bumped generation
	fresh := w.CreateEntity("second")
	if fresh.Index() != old.Index() {
		t.Skip("slot not reused, free list behavior changed")
	}
	if w.EntityExists(old) {
		t.Error("stale handle resolves to the entity reusing its slot")
	}
	if !w.EntityExists(fresh) {
		t.Error("fresh handle does not resolve")
	}
}

func TestDeferredDestruction(t *testing.T) {
	w := NewWorld(nil)
	a := w.CreateEntity("a")
	b := w.CreateEntity("b")
	c := w.CreateEntity("c")

	if !w.MarkForDestruction(a) {
		t.Fatal("mark failed")
	}
	if w.MarkForDestruction(a) {
		t.Error("second mark on same entity succeeded")
	}
	w.MarkForDestruction(b)

	// Marked entities leave the active set but stay resolvable
	if !w.EntityExists(a) {
		t.Error("pending entity no longer resolvable")
	}
	if st, _ := w.EntityState(a); st != core.StatePendingDestroy {
		t.Errorf("state = %v, want pending-destroy", st)
	}
	if len(w.ActiveEntities()) != 1 {
		t.Errorf("active = %d, want only %v", len(w.ActiveEntities()), c)
	}

	// An entity destroyed directly in the interim is not double-counted
	w.DestroyEntity(b)

	if n := w.CleanupDestroyed(); n != 1 {
		t.Errorf("cleanup destroyed %d, want 1", n)
	}
	if w.EntityExists(a) {
		t.Error("pending entity survived cleanup")
	}
	if !w.EntityExists(c) {
		t.Error("unmarked entity destroyed by cleanup")
	}
	if w.PendingCount() != 0 {
		t.Errorf("pending queue = %d after cleanup", w.PendingCount())
	}
}

func TestClearForce(t *testing.T) {
	w := NewWorld(nil)
	for i := 0; i < 10; i++ {
		e := w.CreateEntity("e")
		w.Transforms.Set(e, component.NewTransform(vmath.Vec3{}))
	}
	w.MarkForDestruction(w.AllEntities()[0])

	w.Clear(true)

	if len(w.AllEntities()) != 0 {
		t.Error("entities survived forced clear")
	}
	if w.Transforms.Count() != 0 {
		t.Error("components survived forced clear")
	}
	st := w.Stats()
	if st.Total != 0 || st.Active != 0 || st.Inactive != 0 || st.Pending != 0 {
		t.Errorf("gauges not zero after forced clear: %+v", st)
	}
}

func TestClearDeferred(t *testing.T) {
	w := NewWorld(nil)
	a := w.CreateEntity("a")
	b := w.CreateEntity("b")
	w.SetEntityActive(b, false)

	w.Clear(false)

	// Nothing destroyed yet, everything pending
	if !w.EntityExists(a) || !w.EntityExists(b) {
		t.Fatal("deferred clear destroyed entities immediately")
	}
	if st, _ := w.EntityState(a); st != core.StatePendingDestroy {
		t.Errorf("active entity state after clear = %v", st)
	}
	if st, _ := w.EntityState(b); st != core.StatePendingDestroy {
		t.Errorf("inactive entity state after clear = %v", st)
	}

	if n := w.CleanupDestroyed(); n != 2 {
		t.Errorf("cleanup destroyed %d, want 2", n)
	}
}

func TestSetEntityActive(t *testing.T) {
	w := NewWorld(nil)
	e := w.CreateEntity("toggle")

	if !w.SetEntityActive(e, false) {
		t.Fatal("deactivate failed")
	}
	if st, _ := w.EntityState(e); st != core.StateInactive {
		t.Errorf("state = %v, want inactive", st)
	}
	if len(w.ActiveEntities()) != 0 {
		t.Error("inactive entity in active snapshot")
	}
	if !w.SetEntityActive(e, true) {
		t.Fatal("reactivate failed")
	}

	w.MarkForDestruction(e)
	if w.SetEntityActive(e, true) {
		t.Error("toggle on pending entity succeeded")
	}
}

func TestStatsGaugesMatchRecount(t *testing.T) {
	w := NewWorld(nil)
	var entities []core.Entity
	for i := 0; i < 20; i++ {
		entities = append(entities, w.CreateEntity("e"))
	}
	for i := 0; i < 5; i++ {
		w.SetEntityActive(entities[i], false)
	}
	for i := 5; i < 10; i++ {
		w.MarkForDestruction(entities[i])
	}
	for i := 10; i < 13; i++ {
		w.DestroyEntity(entities[i])
	}

	st := w.Stats()
	active := len(w.ActiveEntities())
	inactive := len(w.EntitiesWhere(func(_ core.Entity, s core.EntityState) bool { return s == core.StateInactive }))
	pending := len(w.EntitiesWhere(func(_ core.Entity, s core.EntityState) bool { return s == core.StatePendingDestroy }))

	if st.Active != active || st.Inactive != inactive || st.Pending != pending {
		t.Errorf("gauges %+v disagree with recount active=%d inactive=%d pending=%d",
			st, active, inactive, pending)
	}
	if st.Total != len(w.AllEntities()) {
		t.Errorf("total gauge %d, recount %d", st.Total, len(w.AllEntities()))
	}
	if st.Created != 20 || st.Destroyed != 3 {
		t.Errorf("counters created=%d destroyed=%d, want 20/3", st.Created, st.Destroyed)
	}
}

func TestWorldEventEmission(t *testing.T) {
	w := NewWorld(nil)
	q := event.NewQueue()
	frame := int64(7)
	w.SetEventSink(q, func() int64 { return frame })

	e := w.CreateEntity("observed")
	w.DestroyEntity(e)

	events := q.Consume()
	if len(events) != 2 {
		t.Fatalf("got %d events, want created+destroyed", len(events))
	}
	if events[0].Type != event.EventEntityCreated || events[0].Payload.(core.Entity) != e {
		t.Errorf("first event = %+v", events[0])
	}
	if events[1].Type != event.EventEntityDestroyed {
		t.Errorf("second event = %+v", events[1])
	}
	if events[0].Frame != 7 {
		t.Errorf("event frame = %d, want 7", events[0].Frame)
	}
}

type orderProbe struct {
	name     string
	priority int
	log      *[]string
}

func (p *orderProbe) Name() string            { return p.name }
func (p *orderProbe) Priority() int           { return p.priority }
func (p *orderProbe) Update(dt time.Duration) { *p.log = append(*p.log, p.name) }

func TestSystemOrdering(t *testing.T) {
	w := NewWorld(nil)
	var order []string
	w.AddSystem(&orderProbe{name: "render", priority: 80, log: &order})
	w.AddSystem(&orderProbe{name: "physics", priority: 10, log: &order})
	w.AddSystem(&orderProbe{name: "cleanup", priority: 100, log: &order})
	w.AddSystem(&orderProbe{name: "player", priority: 20, log: &order})

	w.Update(time.Millisecond)

	want := []string{"physics", "player", "render", "cleanup"}
	if len(order) != len(want) {
		t.Fatalf("ran %d systems, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("position %d = %s, want %s", i, order[i], want[i])
		}
	}
}

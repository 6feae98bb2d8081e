package engine

import (
	"testing"

	"github.com/lixenwraith/voxforge/component"
	"github.com/lixenwraith/voxforge/core"
	"github.com/lixenwraith/voxforge/vmath"
)

func TestStoreSetGet(t *testing.T) {
	s := NewStore[component.TransformComponent]()
	e := core.NewEntity(1, 1)

	if _, ok := s.Get(e); ok {
		t.Error("get on empty store succeeded")
	}

	s.Set(e, component.NewTransform(vmath.V3(1, 2, 3)))
	tc, ok := s.Get(e)
	if !ok {
		t.Fatal("component not found after set")
	}
	if tc.Position != vmath.V3(1, 2, 3) {
		t.Errorf("position = %v", tc.Position)
	}
	if !s.Has(e) || s.Count() != 1 {
		t.Error("has/count wrong after set")
	}
}

func TestStoreSetReplaces(t *testing.T) {
	s := NewStore[component.TransformComponent]()
	e := core.NewEntity(1, 1)

	s.Set(e, component.NewTransform(vmath.V3(1, 0, 0)))
	s.Set(e, component.NewTransform(vmath.V3(9, 0, 0)))

	if s.Count() != 1 {
		t.Errorf("count = %d after replacing set, want 1", s.Count())
	}
	tc, _ := s.Get(e)
	if tc.Position.X != 9 {
		t.Errorf("position.X = %v, want the replacement value 9", tc.Position.X)
	}
}

func TestStoreUpdateInPlace(t *testing.T) {
	s := NewStore[component.PhysicsComponent]()
	e := core.NewEntity(3, 1)

	if s.Update(e, func(pc *component.PhysicsComponent) { pc.GravityScale = 2 }) {
		t.Error("update on absent component reported success")
	}

	s.Set(e, component.PhysicsComponent{Body: component.BodyDynamic, GravityScale: 1})
	if !s.Update(e, func(pc *component.PhysicsComponent) { pc.GravityScale = 2 }) {
		t.Fatal("update on present component failed")
	}
	pc, _ := s.Get(e)
	if pc.GravityScale != 2 {
		t.Errorf("gravity scale = %v, want 2", pc.GravityScale)
	}
}

func TestStoreRemove(t *testing.T) {
	s := NewStore[component.RenderComponent]()
	a := core.NewEntity(1, 1)
	b := core.NewEntity(2, 1)

	s.Set(a, component.NewRender(1, 0xFFFFFF, 12, 1))
	s.Set(b, component.NewRender(2, 0x000000, 12, 1))
	s.Remove(a)
	s.Remove(a) // no-op

	if s.Has(a) {
		t.Error("removed component still present")
	}
	if !s.Has(b) || s.Count() != 1 {
		t.Error("unrelated component disturbed by remove")
	}
}

func TestStoreRemoveBatch(t *testing.T) {
	s := NewStore[component.TransformComponent]()
	var all []core.Entity
	for i := uint32(0); i < 10; i++ {
		e := core.NewEntity(i, 1)
		s.Set(e, component.NewTransform(vmath.Vec3{}))
		all = append(all, e)
	}

	s.RemoveBatch(all[:5])
	if s.Count() != 5 {
		t.Fatalf("count = %d after batch remove, want 5", s.Count())
	}
	for _, e := range all[:5] {
		if s.Has(e) {
			t.Errorf("entity %v survived batch remove", e)
		}
	}
	for _, e := range all[5:] {
		if !s.Has(e) {
			t.Errorf("entity %v lost in batch remove", e)
		}
	}
}

func TestStoreAllIsSnapshot(t *testing.T) {
	s := NewStore[component.TransformComponent]()
	e := core.NewEntity(1, 1)
	s.Set(e, component.NewTransform(vmath.Vec3{}))

	snap := s.All()
	s.Remove(e)
	if len(snap) != 1 || snap[0] != e {
		t.Error("snapshot mutated by later remove")
	}
}

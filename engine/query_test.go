package engine

import (
	"testing"

	"github.com/lixenwraith/voxforge/component"
	"github.com/lixenwraith/voxforge/vmath"
)

func TestQueryIntersection(t *testing.T) {
	w := NewWorld(nil)

	both := w.CreateEntity("both")
	w.Transforms.Set(both, component.NewTransform(vmath.Vec3{}))
	w.Renders.Set(both, component.NewRender(1, 0xFFFFFF, 12, 1))

	onlyT := w.CreateEntity("transform-only")
	w.Transforms.Set(onlyT, component.NewTransform(vmath.Vec3{}))

	onlyR := w.CreateEntity("render-only")
	w.Renders.Set(onlyR, component.NewRender(1, 0xFFFFFF, 12, 1))

	results := w.Query().With(w.Transforms).With(w.Renders).Execute()
	if len(results) != 1 || results[0] != both {
		t.Errorf("query = %v, want exactly [%v]", results, both)
	}
}

func TestQuerySingleStore(t *testing.T) {
	w := NewWorld(nil)
	e := w.CreateEntity("e")
	w.Physics.Set(e, component.PhysicsComponent{Body: component.BodyDynamic})

	results := w.Query().With(w.Physics).Execute()
	if len(results) != 1 || results[0] != e {
		t.Errorf("query = %v, want [%v]", results, e)
	}
}

func TestQueryEmpty(t *testing.T) {
	w := NewWorld(nil)
	if got := w.Query().Execute(); len(got) != 0 {
		t.Errorf("empty query returned %v", got)
	}
	if got := w.Query().With(w.Players).Execute(); len(got) != 0 {
		t.Errorf("query on empty store returned %v", got)
	}
}

func TestQueryResultCached(t *testing.T) {
	w := NewWorld(nil)
	e := w.CreateEntity("e")
	w.Transforms.Set(e, component.NewTransform(vmath.Vec3{}))

	q := w.Query().With(w.Transforms)
	first := q.Execute()
	w.Transforms.Remove(e)
	second := q.Execute()
	if len(first) != len(second) {
		t.Error("repeated Execute recomputed instead of returning the cached result")
	}
}

func TestQueryWithAfterExecutePanics(t *testing.T) {
	w := NewWorld(nil)
	q := w.Query().With(w.Transforms)
	q.Execute()

	defer func() {
		if recover() == nil {
			t.Error("With after Execute did not panic")
		}
	}()
	q.With(w.Renders)
}

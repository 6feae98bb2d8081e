package system

import (
	"math"
	"testing"
	"time"

	"github.com/lixenwraith/voxforge/component"
	"github.com/lixenwraith/voxforge/engine"
	"github.com/lixenwraith/voxforge/vmath"
)

func TestPhysicsDynamicBodyFalls(t *testing.T) {
	w := engine.NewWorld(nil)
	ps := NewPhysicsSystem(w, nil)

	e := w.CreateEntity("faller")
	w.Transforms.Set(e, component.NewTransform(vmath.V3(0, 100, 0)))
	w.Physics.Set(e, component.PhysicsComponent{Body: component.BodyDynamic, GravityScale: 1})

	// One second of simulation at 10ms steps
	for i := 0; i < 100; i++ {
		ps.FixedUpdate(10 * time.Millisecond)
	}

	pc, _ := w.Physics.Get(e)
	if math.Abs(pc.Velocity.Y-Gravity.Y) > 0.01 {
		t.Errorf("velocity.Y after 1s = %v, want about %v", pc.Velocity.Y, Gravity.Y)
	}
	tc, _ := w.Transforms.Get(e)
	if tc.Position.Y >= 100 {
		t.Errorf("position.Y = %v, body never fell", tc.Position.Y)
	}
}

func TestPhysicsStaticBodyStays(t *testing.T) {
	w := engine.NewWorld(nil)
	ps := NewPhysicsSystem(w, nil)

	e := w.CreateEntity("wall")
	w.Transforms.Set(e, component.NewTransform(vmath.V3(1, 2, 3)))
	w.Physics.Set(e, component.PhysicsComponent{
		Body:     component.BodyStatic,
		Velocity: vmath.V3(5, 5, 5), // ignored for static bodies
	})

	ps.FixedUpdate(100 * time.Millisecond)

	tc, _ := w.Transforms.Get(e)
	if tc.Position != vmath.V3(1, 2, 3) {
		t.Errorf("static body moved to %v", tc.Position)
	}
}

func TestPhysicsKinematicIgnoresGravity(t *testing.T) {
	w := engine.NewWorld(nil)
	ps := NewPhysicsSystem(w, nil)

	e := w.CreateEntity("platform")
	w.Transforms.Set(e, component.NewTransform(vmath.V3(0, 10, 0)))
	w.Physics.Set(e, component.PhysicsComponent{
		Body:         component.BodyKinematic,
		Velocity:     vmath.V3(2, 0, 0),
		GravityScale: 1,
	})

	ps.FixedUpdate(500 * time.Millisecond)

	pc, _ := w.Physics.Get(e)
	if pc.Velocity.Y != 0 {
		t.Errorf("kinematic body gained vertical velocity %v", pc.Velocity.Y)
	}
	tc, _ := w.Transforms.Get(e)
	if math.Abs(tc.Position.X-1) > 1e-9 {
		t.Errorf("position.X = %v, want 1 after 0.5s at 2u/s", tc.Position.X)
	}
	if tc.Position.Y != 10 {
		t.Errorf("kinematic body changed height to %v", tc.Position.Y)
	}
}

func TestPhysicsZeroGravityScale(t *testing.T) {
	w := engine.NewWorld(nil)
	ps := NewPhysicsSystem(w, nil)

	e := w.CreateEntity("floater")
	w.Transforms.Set(e, component.NewTransform(vmath.Vec3{}))
	w.Physics.Set(e, component.PhysicsComponent{Body: component.BodyDynamic, GravityScale: 0})

	ps.FixedUpdate(time.Second)

	pc, _ := w.Physics.Get(e)
	if pc.Velocity != (vmath.Vec3{}) {
		t.Errorf("zero gravity scale body accelerated to %v", pc.Velocity)
	}
}

func TestCleanupSystemReaps(t *testing.T) {
	w := engine.NewWorld(nil)
	cs := NewCleanupSystem(w, nil)

	a := w.CreateEntity("a")
	w.CreateEntity("b")
	w.MarkForDestruction(a)

	cs.Update(time.Millisecond)

	if w.EntityExists(a) {
		t.Error("marked entity survived the cleanup system")
	}
	if len(w.AllEntities()) != 1 {
		t.Errorf("entity count = %d, want 1", len(w.AllEntities()))
	}
}

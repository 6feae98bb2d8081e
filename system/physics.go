package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/voxforge/component"
	"github.com/lixenwraith/voxforge/engine"
	"github.com/lixenwraith/voxforge/parameter"
	"github.com/lixenwraith/voxforge/vmath"
)

// Gravity is world gravity in units per second squared, scaled per body
var Gravity = vmath.V3(0, -9.81, 0)

// PhysicsSystem integrates velocities for dynamic bodies on the fixed
// timestep. Kinematic bodies move only through external velocity writes;
// static bodies never move
type PhysicsSystem struct {
	log   *zap.Logger
	world *engine.World
}

func NewPhysicsSystem(world *engine.World, log *zap.Logger) *PhysicsSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &PhysicsSystem{log: log, world: world}
}

func (ps *PhysicsSystem) Name() string  { return "physics" }
func (ps *PhysicsSystem) Priority() int { return parameter.PriorityPhysics }

// Update is a no-op: physics runs only on the fixed step
func (ps *PhysicsSystem) Update(dt time.Duration) {}

// FixedUpdate applies gravity and integrates positions with a constant dt
func (ps *PhysicsSystem) FixedUpdate(dt time.Duration) {
	step := dt.Seconds()

	for _, e := range ps.world.Query().
		With(ps.world.Transforms).
		With(ps.world.Physics).
		Execute() {

		pc, ok := ps.world.Physics.Get(e)
		if !ok || pc.Body == component.BodyStatic {
			continue
		}

		if pc.Body == component.BodyDynamic && pc.GravityScale != 0 {
			pc.Velocity = vmath.V3Add(pc.Velocity, vmath.V3Scale(Gravity, pc.GravityScale*step))
			ps.world.Physics.Set(e, pc)
		}

		if pc.Velocity == (vmath.Vec3{}) {
			continue
		}
		delta := vmath.V3Scale(pc.Velocity, step)
		ps.world.Transforms.Update(e, func(tc *component.TransformComponent) {
			tc.Position = vmath.V3Add(tc.Position, delta)
		})
	}
}

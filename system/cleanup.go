package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/voxforge/engine"
	"github.com/lixenwraith/voxforge/parameter"
)

// CleanupSystem destroys entities marked for deferred destruction.
// Runs last so every earlier system saw a stable entity set this frame
type CleanupSystem struct {
	log   *zap.Logger
	world *engine.World
}

func NewCleanupSystem(world *engine.World, log *zap.Logger) *CleanupSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &CleanupSystem{log: log, world: world}
}

func (cs *CleanupSystem) Name() string  { return "cleanup" }
func (cs *CleanupSystem) Priority() int { return parameter.PriorityCleanup }

func (cs *CleanupSystem) Update(dt time.Duration) {
	if n := cs.world.CleanupDestroyed(); n > 0 {
		cs.log.Debug("entities reaped", zap.Int("count", n))
	}
}

package event

// Type identifies an engine event
type Type int

const (
	// === Lifecycle Event ===

	// EventEntityCreated signals entity creation
	// Trigger: World.CreateEntity
	// Consumer: telemetry, audio | Payload: core.Entity
	EventEntityCreated Type = iota

	// EventEntityDestroyed signals entity removal
	// Trigger: World.DestroyEntity, cleanup sweep
	// Consumer: telemetry, audio | Payload: core.Entity
	EventEntityDestroyed

	// EventWorldClear signals mass entity cleanup
	// Trigger: World.Clear
	// Consumer: systems holding entity caches | Payload: nil
	EventWorldClear

	// === Engine Event ===

	// EventEngineStateChanged signals an engine state transition
	// Trigger: Engine lifecycle methods
	// Consumer: application shell | Payload: EngineStatePayload
	EventEngineStateChanged

	// EventGameStateChanged signals a game state transition
	// Trigger: Engine.SetGameState
	// Consumer: application shell, audio | Payload: GameStatePayload
	EventGameStateChanged

	// EventShutdownRequest asks the engine to exit with a code
	// Trigger: input layer, Exiting game state
	// Consumer: Engine | Payload: int exit code
	EventShutdownRequest

	// === Audio Event ===

	// EventSoundRequest requests a procedural audio cue
	// Trigger: systems requiring audio feedback
	// Consumer: audio.Engine | Payload: SoundPayload
	EventSoundRequest
)

// GameEvent is a single event with its submission frame
type GameEvent struct {
	Type    Type
	Payload any
	Frame   int64
}

// EngineStatePayload carries old and new engine state values
type EngineStatePayload struct {
	Old, New int32
}

// GameStatePayload carries old and new game state values
type GameStatePayload struct {
	Old, New int32
}

// SoundPayload selects a procedural cue by index
type SoundPayload struct {
	Cue int
}

package component

// PlayerRole distinguishes control modes for player-bound entities
type PlayerRole uint8

const (
	RoleSurvival PlayerRole = iota
	RoleCreative
	RoleSpectator
)

// PlayerComponent tags an entity as player-controlled.
// Input handling lives outside the core; application code writes processed
// input into this component and systems read it during Update
type PlayerComponent struct {
	Name string
	Role PlayerRole
}

package component

// MeshHandle identifies a mesh owned by the external renderer.
// The engine core never dereferences it
type MeshHandle uint32

// RenderComponent marks an entity as drawable
type RenderComponent struct {
	Mesh        MeshHandle
	Color       uint32 // 0xRRGGBB
	Visible     bool
	Transparent bool

	// Triangles feeds the render statistics; the core does not own geometry
	Triangles int

	// BoundingRadius is the world-space sphere used for frustum culling
	BoundingRadius float64
}

// NewRender creates a visible opaque renderable
func NewRender(mesh MeshHandle, color uint32, triangles int, radius float64) RenderComponent {
	return RenderComponent{
		Mesh:           mesh,
		Color:          color,
		Visible:        true,
		Triangles:      triangles,
		BoundingRadius: radius,
	}
}

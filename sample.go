package glow

// SurfaceSample is the per-evaluation geometric input, produced by the
// renderer for one vertex or fragment and never retained.
type SurfaceSample struct {
	// Position is the world-space surface position.
	Position Vec3

	// Normal is the world-space surface normal. It need not be unit length.
	Normal Vec3

	// Camera is the world-space camera position.
	Camera Vec3

	// UV is the texture coordinate, conventionally in [0, 1].
	UV Vec2
}

// ViewDirection returns the unit vector from the surface towards the camera,
// or the zero vector when the camera sits on the surface.
func (s SurfaceSample) ViewDirection() Vec3 {
	return s.Camera.Sub(s.Position).Normalize()
}

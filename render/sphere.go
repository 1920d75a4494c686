// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/glow"
)

// Sphere is the preview geometry.
type Sphere struct {
	Center glow.Vec3
	Radius float32
}

// UnitSphere is a sphere of radius 1 at the origin.
func UnitSphere() Sphere {
	return Sphere{Radius: 1}
}

// Intersect returns the distance along a unit ray to the nearest hit in
// front of the origin.
func (s Sphere) Intersect(origin, dir glow.Vec3) (float32, bool) {
	oc := origin.Sub(s.Center)
	b := oc.Dot(dir)
	c := oc.Dot(oc) - s.Radius*s.Radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math32.Sqrt(disc)
	t := -b - sq
	if t <= 0 {
		// Origin inside the sphere: take the far hit.
		t = -b + sq
	}
	if t <= 0 {
		return 0, false
	}
	return t, true
}

// Sample builds the surface sample for the hit at distance t.
//
// UV is an equirectangular mapping of the outward normal, oriented so the
// point facing +Z sits at (0.5, 0.5): a camera on the +Z axis sees the
// radial glow centered on the sphere.
func (s Sphere) Sample(origin, dir glow.Vec3, t float32, camera glow.Vec3) glow.SurfaceSample {
	p := origin.Add(dir.Mul(t))
	n := p.Sub(s.Center).Normalize()
	return glow.SurfaceSample{
		Position: p,
		Normal:   n,
		Camera:   camera,
		UV:       SphereUV(n),
	}
}

// SphereUV maps a unit normal to texture coordinates in [0, 1].
func SphereUV(n glow.Vec3) glow.Vec2 {
	u := 0.5 + math32.Atan2(n.X, n.Z)/(2*math32.Pi)
	v := 0.5 - math32.Asin(clampUnit(n.Y))/math32.Pi
	return glow.V2(u, v)
}

func clampUnit(x float32) float32 {
	return math32.Max(-1, math32.Min(1, x))
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/glow"
)

// Camera is a pinhole camera.
type Camera struct {
	// Position is the eye position in world space.
	Position glow.Vec3

	// Target is the point the camera looks at.
	Target glow.Vec3

	// Up is the approximate up direction. Zero selects +Y.
	Up glow.Vec3

	// FOV is the vertical field of view in degrees.
	FOV float32
}

// DefaultCamera looks at the origin from 3 units down +Z.
func DefaultCamera() Camera {
	return Camera{
		Position: glow.V3(0, 0, 3),
		Target:   glow.V3(0, 0, 0),
		Up:       glow.V3(0, 1, 0),
		FOV:      45,
	}
}

// basis is the camera frame precomputed once per frame.
type basis struct {
	origin        glow.Vec3
	forward       glow.Vec3
	right, up     glow.Vec3
	halfH, aspect float32
	width, height float32
}

func (c Camera) basis(width, height int) basis {
	up := c.Up
	if up.LengthSq() == 0 {
		up = glow.V3(0, 1, 0)
	}
	forward := c.Target.Sub(c.Position).Normalize()
	right := forward.Cross(up).Normalize()
	trueUp := right.Cross(forward)

	fov := c.FOV
	if !(fov > 0 && fov < 180) {
		fov = 45
	}
	return basis{
		origin:  c.Position,
		forward: forward,
		right:   right,
		up:      trueUp,
		halfH:   math32.Tan(fov * math32.Pi / 360),
		aspect:  float32(width) / float32(height),
		width:   float32(width),
		height:  float32(height),
	}
}

// ray returns the unit direction through the center of pixel (x, y), with
// y growing downwards.
func (b basis) ray(x, y int) glow.Vec3 {
	sx := (2*(float32(x)+0.5)/b.width - 1) * b.halfH * b.aspect
	sy := (1 - 2*(float32(y)+0.5)/b.height) * b.halfH
	return b.forward.Add(b.right.Mul(sx)).Add(b.up.Mul(sy)).Normalize()
}

// Ray returns the origin and unit direction of the primary ray through
// pixel (x, y) of a width x height image.
func (c Camera) Ray(x, y, width, height int) (origin, dir glow.Vec3) {
	b := c.basis(width, height)
	return b.origin, b.ray(x, y)
}

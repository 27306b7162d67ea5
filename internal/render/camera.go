// Package render turns the cloth's committed positions into screen-space
// geometry shared by the terminal and window viewers.
package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const nearPlane = 0.1

// Camera orbits Target at Distance. Scale is the number of screen units one
// world unit covers at the target's depth. Aspect squashes the vertical axis
// for terminals whose cells are taller than they are wide.
type Camera struct {
	Target   mgl64.Vec3
	Yaw      float64
	Pitch    float64
	Distance float64
	Scale    float64
	Aspect   float64
}

// FitCamera frames an edgeCount grid hanging below its pinned edge in a
// width x height viewport.
func FitCamera(edgeCount int, width, height, aspect float64) Camera {
	span := math.Max(float64(edgeCount-1), 1)

	cam := Camera{
		Target:   mgl64.Vec3{span / 2, -span / 3, span / 2},
		Yaw:      0.6,
		Pitch:    0.35,
		Distance: 3 * span,
		Aspect:   aspect,
	}
	cam.Scale = 0.6 * math.Min(width, height/aspect) / span

	return cam
}

func (c Camera) rotation() mgl64.Mat3 {
	return mgl64.Rotate3DX(c.Pitch).Mul3(mgl64.Rotate3DY(c.Yaw))
}

// Project maps p to viewport coordinates. depth is the distance along the
// view axis; ok is false for points at or behind the near plane.
func (c Camera) Project(p mgl64.Vec3, width, height float64) (x, y, depth float64, ok bool) {
	v := c.rotation().Mul3x1(p.Sub(c.Target))

	depth = v.Z() + c.Distance
	if depth < nearPlane {
		return 0, 0, depth, false
	}

	s := c.Scale * c.Distance / depth
	x = width/2 + v.X()*s
	y = height/2 - v.Y()*s*c.Aspect

	return x, y, depth, true
}

// ScaleAt is the screen size of one world unit at the given depth.
func (c Camera) ScaleAt(depth float64) float64 {
	return c.Scale * c.Distance / depth
}

// Orbit rotates the camera, keeping the pitch short of the poles.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw = math.Mod(c.Yaw+dYaw, 2*math.Pi)
	c.Pitch = mgl64.Clamp(c.Pitch+dPitch, -1.4, 1.4)
}

// Zoom multiplies the scale by factor.
func (c *Camera) Zoom(factor float64) {
	c.Scale *= factor
}

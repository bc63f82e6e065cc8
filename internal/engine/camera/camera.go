// Package camera provides the free-flying first-person camera.
package camera

import (
	gomath "math"

	"github.com/Faultbox/lightlab/pkg/math"
)

// WorldUp is the fixed up direction used to build the camera basis.
var WorldUp = math.Vec3{X: 0, Y: 1, Z: 0}

// Camera is a first-person camera oriented by yaw and pitch.
//
// Yaw is measured in the XZ plane from +X towards +Z and pitch is the
// elevation above the XZ plane, so yaw = pitch = 0 faces +X.
type Camera struct {
	// Eye is the world-space position.
	Eye math.Vec3

	// Orientation (radians)
	Yaw   float32
	Pitch float32

	// Projection parameters
	FOV    float32 // Vertical field of view (radians)
	Aspect float32
	Near   float32
	Far    float32

	// PitchLimit bounds |Pitch| when rotating via Rotate (radians).
	PitchLimit float32

	// Derived basis, always rebuilt from Yaw/Pitch
	front math.Vec3
	right math.Vec3
	up    math.Vec3

	target     math.Vec3
	view       math.Mat4
	projection math.Mat4
}

// New creates a camera at eye facing target. The initial yaw and pitch are
// recovered from the facing direction so later updates continue smoothly.
// A target straight above or below the eye is clamped to PitchLimit.
func New(eye, target math.Vec3) *Camera {
	c := &Camera{
		Eye:        eye,
		FOV:        math.Radians(45),
		Aspect:     1024.0 / 768.0,
		Near:       0.2,
		Far:        100.0,
		PitchLimit: math.Radians(89),
	}

	c.front = target.Sub(eye).Normalize()
	c.Yaw = float32(gomath.Atan2(float64(c.front.Z), float64(c.front.X)))
	c.Pitch = float32(gomath.Asin(float64(c.front.Y)))
	if c.clampPitch() {
		c.CalculateCameraVectors()
	} else {
		c.basisFromFront()
	}
	c.CalculateMatrices()

	return c
}

// CalculateCameraVectors rebuilds front, right and up from Yaw and Pitch.
func (c *Camera) CalculateCameraVectors() {
	cy, sy := gomath.Cos(float64(c.Yaw)), gomath.Sin(float64(c.Yaw))
	cp, sp := gomath.Cos(float64(c.Pitch)), gomath.Sin(float64(c.Pitch))

	c.front = math.Vec3{
		X: float32(cp * cy),
		Y: float32(sp),
		Z: float32(cp * sy),
	}
	c.basisFromFront()
}

func (c *Camera) basisFromFront() {
	c.right = c.front.Cross(WorldUp).Normalize()
	c.up = c.right.Cross(c.front)
}

// CalculateMatrices updates target, view and projection from the current
// eye and basis. Call once per frame after any eye/yaw/pitch change.
func (c *Camera) CalculateMatrices() {
	c.target = c.Eye.Add(c.front)
	c.view = math.LookAt(c.Eye, c.target, WorldUp)
	c.projection = math.Perspective(c.FOV, c.Aspect, c.Near, c.Far)
}

// Rotate applies yaw/pitch deltas, clamps pitch to PitchLimit, and
// rebuilds the basis.
func (c *Camera) Rotate(deltaYaw, deltaPitch float32) {
	c.Yaw += deltaYaw
	c.Pitch += deltaPitch
	c.clampPitch()
	c.CalculateCameraVectors()
}

// SetPitchLimit changes the pitch bound, re-clamping the current pitch.
func (c *Camera) SetPitchLimit(limit float32) {
	c.PitchLimit = limit
	if c.clampPitch() {
		c.CalculateCameraVectors()
	}
}

// clampPitch reports whether Pitch was outside the limit.
func (c *Camera) clampPitch() bool {
	switch {
	case c.Pitch > c.PitchLimit:
		c.Pitch = c.PitchLimit
	case c.Pitch < -c.PitchLimit:
		c.Pitch = -c.PitchLimit
	default:
		return false
	}
	return true
}

// Move translates the eye along the current front and right vectors.
func (c *Camera) Move(forward, right float32) {
	c.Eye = c.Eye.Add(c.front.Scale(forward)).Add(c.right.Scale(right))
}

// SetViewport updates the aspect ratio from a framebuffer size.
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// Front returns the unit facing direction.
func (c *Camera) Front() math.Vec3 { return c.front }

// Right returns the unit right direction.
func (c *Camera) Right() math.Vec3 { return c.right }

// Up returns the unit camera-up direction.
func (c *Camera) Up() math.Vec3 { return c.up }

// Target returns eye + front as of the last CalculateMatrices.
func (c *Camera) Target() math.Vec3 { return c.target }

// View returns the world-to-camera matrix.
func (c *Camera) View() math.Mat4 { return c.view }

// Projection returns the camera-to-clip matrix.
func (c *Camera) Projection() math.Mat4 { return c.projection }

package camera

import (
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/lightlab/pkg/math"
)

const eps = 1e-5

func assertOrthonormal(t *testing.T, c *Camera) {
	t.Helper()
	basis := []math.Vec3{c.Front(), c.Right(), c.Up()}
	for i, v := range basis {
		assert.InDelta(t, 1, v.Length(), eps, "basis %d length", i)
		for j := i + 1; j < len(basis); j++ {
			assert.InDelta(t, 0, v.Dot(basis[j]), eps, "basis %d,%d dot", i, j)
		}
	}
}

func TestNewDerivesOrientation(t *testing.T) {
	c := New(math.Vec3{X: 0, Y: 0, Z: 4}, math.Vec3{})

	assert.Equal(t, math.Vec3{X: 0, Y: 0, Z: -1}, c.Front())
	assert.InDelta(t, -gomath.Pi/2, c.Yaw, eps)
	assert.InDelta(t, 0, c.Pitch, eps)
	assert.Equal(t, math.Vec3{X: 0, Y: 0, Z: 3}, c.Target())
	assertOrthonormal(t, c)

	// Recomputing from the recovered angles keeps the same facing
	c.CalculateCameraVectors()
	assert.InDelta(t, 0, c.Front().X, eps)
	assert.InDelta(t, -1, c.Front().Z, eps)
}

func TestCalculateCameraVectorsZeroReference(t *testing.T) {
	c := New(math.Vec3{}, math.Vec3{X: 0, Y: 0, Z: -1})
	c.Yaw, c.Pitch = 0, 0
	c.CalculateCameraVectors()

	assert.Equal(t, math.Vec3{X: 1, Y: 0, Z: 0}, c.Front())
	assert.Equal(t, math.Vec3{X: 0, Y: 0, Z: 1}, c.Right())
	assert.Equal(t, math.Vec3{X: 0, Y: 1, Z: 0}, c.Up())
}

func TestCalculateCameraVectorsOrthonormal(t *testing.T) {
	c := New(math.Vec3{}, math.Vec3{X: 1})
	for _, yaw := range []float32{-3, -1, 0, 0.4, 2, 7} {
		for _, pitch := range []float32{-1.5, -0.7, 0, 0.3, 1.5} {
			c.Yaw, c.Pitch = yaw, pitch
			c.CalculateCameraVectors()
			assertOrthonormal(t, c)
		}
	}
}

func TestCalculateMatricesIdempotent(t *testing.T) {
	c := New(math.Vec3{X: 1, Y: 2, Z: 3}, math.Vec3{X: -1})
	c.Rotate(0.3, -0.2)
	c.CalculateMatrices()
	view, proj := c.View(), c.Projection()

	c.CalculateMatrices()
	assert.Equal(t, view, c.View())
	assert.Equal(t, proj, c.Projection())
}

func TestCalculateMatricesTracksEye(t *testing.T) {
	c := New(math.Vec3{X: 0, Y: 0, Z: 4}, math.Vec3{})
	c.Move(1, 0)
	c.CalculateMatrices()

	assert.InDelta(t, 3, c.Eye.Z, eps)
	assert.InDelta(t, 2, c.Target().Z, eps)

	// The eye is the view-space origin
	origin := c.View().TransformPoint(c.Eye)
	assert.InDelta(t, 0, origin.Length(), eps)
}

func TestRotateClampsPitch(t *testing.T) {
	c := New(math.Vec3{}, math.Vec3{X: 1})

	c.Rotate(0, 10)
	assert.Equal(t, c.PitchLimit, c.Pitch)
	assertOrthonormal(t, c)

	c.Rotate(0, -20)
	assert.Equal(t, -c.PitchLimit, c.Pitch)
	assertOrthonormal(t, c)
}

func TestNewClampsVerticalTarget(t *testing.T) {
	for _, eye := range []math.Vec3{{X: 0, Y: 4, Z: 0}, {X: 0, Y: -4, Z: 0}} {
		c := New(eye, math.Vec3{})

		assert.LessOrEqual(t, gomath.Abs(float64(c.Pitch)), float64(c.PitchLimit)+eps)
		assertOrthonormal(t, c)
		// The view maps the right vector onto +X
		p := c.View().TransformPoint(c.Eye.Add(c.Right()))
		assert.InDelta(t, 1, p.X, eps)

		// Still looking towards the target
		assert.Less(t, c.Front().Dot(eye.Normalize()), float32(-0.99))
	}
}

func TestSetPitchLimit(t *testing.T) {
	c := New(math.Vec3{}, math.Vec3{X: 1, Y: 1})
	assert.InDelta(t, gomath.Pi/4, c.Pitch, eps)

	c.SetPitchLimit(math.Radians(30))
	assert.InDelta(t, math.Radians(30), c.Pitch, eps)
	assert.InDelta(t, 0.5, c.Front().Y, eps)
	assertOrthonormal(t, c)
}

func TestMoveAlongBasis(t *testing.T) {
	c := New(math.Vec3{X: 0, Y: 0, Z: 4}, math.Vec3{})

	c.Move(0, 2)
	assert.InDelta(t, 2, c.Eye.X, eps)
	assert.InDelta(t, 4, c.Eye.Z, eps)

	c.Move(-1, 0)
	assert.InDelta(t, 5, c.Eye.Z, eps)
}

func TestSetViewport(t *testing.T) {
	c := New(math.Vec3{}, math.Vec3{X: 1})
	c.SetViewport(1920, 1080)
	assert.InDelta(t, 1920.0/1080.0, c.Aspect, eps)

	c.SetViewport(0, 0)
	assert.InDelta(t, 1920.0/1080.0, c.Aspect, eps)
}

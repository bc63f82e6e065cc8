package scene

import (
	"github.com/Faultbox/lightlab/internal/engine/lighting"
	"github.com/Faultbox/lightlab/pkg/math"
)

// Controls is the input sampled for one frame.
type Controls struct {
	Forward bool
	Back    bool
	Left    bool
	Right   bool

	// Cursor motion since the previous frame, in pixels (y grows downwards).
	CursorDX float32
	CursorDY float32

	Screenshot bool
	Exit       bool
}

// Clock measures the time between frames.
type Clock struct {
	previous float64
	now      float64
}

// Tick records the current time in seconds and returns the elapsed time
// since the previous tick. The first tick measures from zero; time running
// backwards yields zero.
func (c *Clock) Tick(now float64) float32 {
	dt := now - c.previous
	if dt < 0 {
		dt = 0
	}
	c.previous = now
	c.now = now
	return float32(dt)
}

// Now returns the time of the last tick.
func (c *Clock) Now() float64 {
	return c.now
}

// Object is everything the lit program needs to draw one instance.
type Object struct {
	Mesh      Mesh
	Model     math.Mat4
	ModelView math.Mat4
	MVP       math.Mat4
	Material  lighting.Material
}

// Marker is a flat-coloured light visualization.
type Marker struct {
	MVP    math.Mat4
	Colour math.Vec3
}

// Frame is the composed output of one Update. Its slices are reused by the
// next Update.
type Frame struct {
	Time      float64
	DeltaTime float32

	View       math.Mat4
	Projection math.Mat4

	Objects []Object
	// Lights holds the view-space light records in light-list order.
	Lights  *lighting.Buffer
	Markers []Marker
	// MarkerMesh is the geometry every marker is drawn with.
	MarkerMesh Mesh

	Screenshot bool
	Exit       bool
}

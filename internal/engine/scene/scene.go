// Package scene composes each frame: it advances the camera from input,
// builds per-instance transforms and moves the lights into view space.
package scene

import (
	"errors"
	"fmt"

	"github.com/Faultbox/lightlab/internal/engine/camera"
	"github.com/Faultbox/lightlab/internal/engine/lighting"
	"github.com/Faultbox/lightlab/pkg/math"
)

// Scene setup errors.
var (
	ErrNoLights      = errors.New("scene has no lights")
	ErrTooManyLights = fmt.Errorf("scene has more than %d lights", lighting.MaxLights)
	ErrZeroAxis      = errors.New("instance rotation axis is zero")
)

// Settings tune how input drives the camera and how markers are drawn.
type Settings struct {
	MoveSpeed        float32 // World units per second
	MouseSensitivity float32 // Radians per pixel
	MarkerScale      float32
}

// DefaultSettings returns the reference movement and marker settings.
func DefaultSettings() Settings {
	return Settings{
		MoveSpeed:        5.0,
		MouseSensitivity: 0.005,
		MarkerScale:      0.1,
	}
}

// Scene owns the camera, lights and instances for the lifetime of a run.
type Scene struct {
	Camera    *camera.Camera
	Lights    []lighting.Light
	Instances []*Instance

	// MarkerMesh draws the positional light markers; nil disables them.
	MarkerMesh Mesh

	settings Settings
	clock    Clock
	frame    Frame
	inView   []lighting.Light
}

// New validates the scene and prepares the frame buffers.
func New(cam *camera.Camera, lights []lighting.Light, instances []*Instance, settings Settings) (*Scene, error) {
	if len(lights) == 0 {
		return nil, ErrNoLights
	}
	if len(lights) > lighting.MaxLights {
		return nil, ErrTooManyLights
	}
	for i, l := range lights {
		if err := lighting.Validate(l); err != nil {
			return nil, fmt.Errorf("light %d: %w", i, err)
		}
	}
	for _, inst := range instances {
		if inst.Axis == (math.Vec3{}) {
			return nil, fmt.Errorf("instance %q: %w", inst.Name, ErrZeroAxis)
		}
	}

	s := &Scene{
		Camera:    cam,
		Lights:    lights,
		Instances: instances,
		settings:  settings,
		inView:    make([]lighting.Light, len(lights)),
	}
	s.frame.Objects = make([]Object, 0, len(instances))
	s.frame.Lights = lighting.NewBuffer(len(lights))
	s.frame.Markers = make([]Marker, 0, len(lights))

	return s, nil
}

// Update advances the scene to time now (seconds) using this frame's
// controls and returns the composed frame.
func (s *Scene) Update(now float64, in Controls) *Frame {
	dt := s.clock.Tick(now)

	s.applyControls(in, dt)
	s.Camera.CalculateMatrices()

	view := s.Camera.View()
	projection := s.Camera.Projection()

	f := &s.frame
	f.Time = now
	f.DeltaTime = dt
	f.View = view
	f.Projection = projection
	f.Screenshot = in.Screenshot
	f.Exit = in.Exit

	f.Objects = f.Objects[:0]
	for _, inst := range s.Instances {
		inst.Angle += inst.Spin * dt

		model := inst.Model()
		modelView := view.Mul(model)
		f.Objects = append(f.Objects, Object{
			Mesh:      inst.Mesh,
			Model:     model,
			ModelView: modelView,
			MVP:       projection.Mul(modelView),
			Material:  inst.Material,
		})
	}

	for i, l := range s.Lights {
		s.inView[i] = l.InView(view)
	}
	f.Lights.SetLights(s.inView)

	f.Markers = f.Markers[:0]
	f.MarkerMesh = s.MarkerMesh
	if s.MarkerMesh != nil {
		viewProjection := projection.Mul(view)
		size := s.settings.MarkerScale
		for _, l := range s.Lights {
			pos, ok := lighting.PositionOf(l)
			if !ok {
				continue
			}
			model := math.Translate(pos).Mul(math.Scale(math.Vec3{X: size, Y: size, Z: size}))
			f.Markers = append(f.Markers, Marker{
				MVP:    viewProjection.Mul(model),
				Colour: l.Emission(),
			})
		}
	}

	return f
}

// Resize updates the projection aspect ratio.
func (s *Scene) Resize(width, height int) {
	s.Camera.SetViewport(width, height)
}

// applyControls moves the eye (scaled by dt) and turns the camera (unscaled).
func (s *Scene) applyControls(in Controls, dt float32) {
	step := s.settings.MoveSpeed * dt

	var forward, right float32
	if in.Forward {
		forward += step
	}
	if in.Back {
		forward -= step
	}
	if in.Right {
		right += step
	}
	if in.Left {
		right -= step
	}
	s.Camera.Move(forward, right)

	sens := s.settings.MouseSensitivity
	s.Camera.Rotate(sens*in.CursorDX, -sens*in.CursorDY)
}

// Package renderer draws composed scene frames with OpenGL.
package renderer

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/lightlab/internal/engine/lighting"
	"github.com/Faultbox/lightlab/internal/engine/scene"
	"github.com/Faultbox/lightlab/internal/engine/shader"
	"github.com/Faultbox/lightlab/internal/engine/shader/shaders"
	"github.com/Faultbox/lightlab/internal/logger"
)

// lightBlockBinding is the uniform buffer binding point of LightBlock.
const lightBlockBinding = 0

// ErrLightBlockSize is returned when the driver's LightBlock layout does
// not match the packed light records.
var ErrLightBlockSize = errors.New("LightBlock size mismatch")

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int

	// NumLights sizes the light array the lit program is compiled for.
	NumLights int

	ClearColour [3]float32
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config

	litProgram    uint32
	markerProgram uint32
	lightUBO      uint32

	lit    litUniforms
	marker markerUniforms
}

type litUniforms struct {
	mvp       int32
	modelView int32
	ka        int32
	kd        int32
	ks        int32
	ns        int32
}

type markerUniforms struct {
	mvp    int32
	colour int32
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	if cfg.NumLights < 1 || cfg.NumLights > lighting.MaxLights {
		return nil, fmt.Errorf("light count %d outside 1..%d", cfg.NumLights, lighting.MaxLights)
	}

	r := &Renderer{
		config: cfg,
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.Enable(gl.MULTISAMPLE)
	c := cfg.ClearColour
	gl.ClearColor(c[0], c[1], c[2], 1.0)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	if err := r.createPrograms(); err != nil {
		r.Close()
		return nil, err
	}

	if err := r.createLightBuffer(); err != nil {
		r.Close()
		return nil, err
	}

	return r, nil
}

func (r *Renderer) createPrograms() error {
	defs := shader.Defines{"NUM_LIGHTS": strconv.Itoa(r.config.NumLights)}

	var err error
	r.litProgram, err = shader.CompileProgramWithDefines(shaders.LitVertexShader, shaders.LitFragmentShader, defs)
	if err != nil {
		return fmt.Errorf("lit program: %w", err)
	}
	loc, err := shader.RequireUniforms(r.litProgram, "uMVP", "uModelView", "ka", "kd", "ks", "Ns")
	if err != nil {
		return fmt.Errorf("lit program: %w", err)
	}
	r.lit = litUniforms{
		mvp:       loc["uMVP"],
		modelView: loc["uModelView"],
		ka:        loc["ka"],
		kd:        loc["kd"],
		ks:        loc["ks"],
		ns:        loc["Ns"],
	}

	r.markerProgram, err = shader.CompileProgram(shaders.MarkerVertexShader, shaders.MarkerFragmentShader)
	if err != nil {
		return fmt.Errorf("marker program: %w", err)
	}
	loc, err = shader.RequireUniforms(r.markerProgram, "uMVP", "lightColour")
	if err != nil {
		return fmt.Errorf("marker program: %w", err)
	}
	r.marker = markerUniforms{
		mvp:    loc["uMVP"],
		colour: loc["lightColour"],
	}

	logger.Debug("shader programs created",
		zap.Uint32("lit", r.litProgram),
		zap.Uint32("marker", r.markerProgram),
		zap.Int("numLights", r.config.NumLights),
	)
	return nil
}

// createLightBuffer allocates the LightBlock uniform buffer and checks that
// the driver's block size matches the packed record layout.
func (r *Renderer) createLightBuffer() error {
	size, err := shader.BindUniformBlock(r.litProgram, "LightBlock", lightBlockBinding)
	if err != nil {
		return err
	}

	if err := checkLightBlockSize(int(size), r.config.NumLights); err != nil {
		return err
	}
	want := r.config.NumLights * lighting.SourceStride

	gl.GenBuffers(1, &r.lightUBO)
	gl.BindBuffer(gl.UNIFORM_BUFFER, r.lightUBO)
	gl.BufferData(gl.UNIFORM_BUFFER, want, nil, gl.DYNAMIC_DRAW)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, lightBlockBinding, r.lightUBO)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)

	logger.Debug("light buffer created", zap.Int("bytes", want))
	return nil
}

func checkLightBlockSize(size, numLights int) error {
	want := numLights * lighting.SourceStride
	if size != want {
		return fmt.Errorf("%w: driver reports %d bytes, records pack to %d", ErrLightBlockSize, size, want)
	}
	return nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	if r.lightUBO != 0 {
		gl.DeleteBuffers(1, &r.lightUBO)
		r.lightUBO = 0
	}
	if r.litProgram != 0 {
		gl.DeleteProgram(r.litProgram)
		r.litProgram = 0
	}
	if r.markerProgram != 0 {
		gl.DeleteProgram(r.markerProgram)
		r.markerProgram = 0
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the current viewport size.
func (r *Renderer) Size() (width, height int) {
	return r.config.Width, r.config.Height
}

// Draw clears the target and renders every object and light marker of f.
func (r *Renderer) Draw(f *scene.Frame) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.uploadLights(f.Lights)

	gl.UseProgram(r.litProgram)
	for i := range f.Objects {
		obj := &f.Objects[i]
		gl.UniformMatrix4fv(r.lit.mvp, 1, false, obj.MVP.Ptr())
		gl.UniformMatrix4fv(r.lit.modelView, 1, false, obj.ModelView.Ptr())
		gl.Uniform1f(r.lit.ka, obj.Material.Ka)
		gl.Uniform1f(r.lit.kd, obj.Material.Kd)
		gl.Uniform1f(r.lit.ks, obj.Material.Ks)
		gl.Uniform1f(r.lit.ns, obj.Material.Ns)
		obj.Mesh.Draw(r.litProgram)
	}

	if len(f.Markers) > 0 && f.MarkerMesh != nil {
		gl.UseProgram(r.markerProgram)
		for i := range f.Markers {
			m := &f.Markers[i]
			gl.UniformMatrix4fv(r.marker.mvp, 1, false, m.MVP.Ptr())
			gl.Uniform3f(r.marker.colour, m.Colour.X, m.Colour.Y, m.Colour.Z)
			f.MarkerMesh.Draw(r.markerProgram)
		}
	}

	gl.UseProgram(0)
}

// uploadLights replaces the LightBlock contents. Records beyond the
// compiled light count are dropped.
func (r *Renderer) uploadLights(b *lighting.Buffer) {
	data := b.Bytes()
	if limit := r.config.NumLights * lighting.SourceStride; len(data) > limit {
		data = data[:limit]
	}
	if len(data) == 0 {
		return
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, r.lightUBO)
	gl.BufferSubData(gl.UNIFORM_BUFFER, 0, len(data), gl.Ptr(data))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
}

// ReadPixels reads the back buffer as tightly packed RGBA rows, bottom row
// first.
func (r *Renderer) ReadPixels() []byte {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

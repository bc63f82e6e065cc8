// Package game wires the window, scene and renderer into the main loop.
package game

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/lightlab/internal/assets"
	"github.com/Faultbox/lightlab/internal/config"
	"github.com/Faultbox/lightlab/internal/engine/debug"
	"github.com/Faultbox/lightlab/internal/engine/input"
	"github.com/Faultbox/lightlab/internal/engine/model"
	"github.com/Faultbox/lightlab/internal/engine/renderer"
	"github.com/Faultbox/lightlab/internal/engine/scene"
	"github.com/Faultbox/lightlab/internal/engine/texture"
	"github.com/Faultbox/lightlab/internal/engine/window"
	"github.com/Faultbox/lightlab/internal/logger"
	"github.com/Faultbox/lightlab/pkg/formats"
)

// Title is the window title.
const Title = "Lighting"

// Game is the running application.
type Game struct {
	config   *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	scene    *scene.Scene
	assets   *assets.Manager

	meshes   []*model.GPUMesh
	textures []uint32

	screenshots *debug.ScreenshotCapture
	fps         debug.FPSCounter
	start       time.Time
}

// New opens the window, loads the assets and builds the scene.
func New(cfg *config.Config) (*Game, error) {
	logger.Info("initializing",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Int("lights", len(cfg.Scene.Lights)),
		zap.Int("instances", len(cfg.Scene.Instances)),
	)

	g := &Game{
		config:      cfg,
		input:       input.New(),
		assets:      assets.NewManager(),
		screenshots: debug.NewScreenshotCapture(cfg.Debug.ScreenshotDir, "lightlab"),
	}

	for _, dir := range cfg.Scene.AssetDirs {
		if err := g.assets.AddDir(dir); err != nil {
			return nil, err
		}
	}

	// Create window (this also creates OpenGL context)
	var err error
	g.window, err = window.New(window.Config{
		Title:        Title,
		Width:        cfg.Graphics.Width,
		Height:       cfg.Graphics.Height,
		Fullscreen:   cfg.Graphics.Fullscreen,
		VSync:        cfg.Graphics.VSync,
		MSAA:         cfg.Graphics.MSAA,
		CaptureMouse: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	width, height := g.window.GetDrawableSize()
	winWidth, winHeight := g.window.GetSize()
	logger.Debug("window created",
		zap.Int("width", winWidth),
		zap.Int("height", winHeight),
		zap.Int("drawableWidth", width),
		zap.Int("drawableHeight", height),
	)

	// Create renderer (AFTER window, since OpenGL context must exist)
	g.renderer, err = renderer.New(renderer.Config{
		Width:       width,
		Height:      height,
		NumLights:   len(cfg.Scene.Lights),
		ClearColour: cfg.Graphics.ClearColour,
	})
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	mesh, marker, err := g.loadAssets()
	if err != nil {
		g.Close()
		return nil, err
	}

	g.scene, err = cfg.BuildScene(mesh, marker, width, height)
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("failed to build scene: %w", err)
	}

	logger.Info("initialized successfully",
		logger.Vec3("eye", g.scene.Camera.Eye),
		zap.Float32("yaw", g.scene.Camera.Yaw),
		zap.Float32("pitch", g.scene.Camera.Pitch),
	)
	return g, nil
}

// loadAssets uploads the scene model with its diffuse texture and the
// marker geometry.
func (g *Game) loadAssets() (mesh, marker *model.GPUMesh, err error) {
	sc := g.config.Scene

	m, err := loadMesh(g.assets, sc.Model)
	if err != nil {
		return nil, nil, err
	}
	if mesh, err = g.upload(m); err != nil {
		return nil, nil, err
	}

	img, err := loadTexture(g.assets, sc.Texture)
	if err != nil {
		return nil, nil, err
	}
	if img != nil {
		mesh.DiffuseMap = g.track(texture.Upload(img))
	} else {
		mesh.DiffuseMap = g.track(texture.White())
	}

	m = model.Cube()
	if sc.MarkerModel != "" {
		if m, err = loadMesh(g.assets, sc.MarkerModel); err != nil {
			return nil, nil, err
		}
	}
	if marker, err = g.upload(m); err != nil {
		return nil, nil, err
	}

	return mesh, marker, nil
}

// loadMesh parses the OBJ at path. A file missing from every asset root
// yields a cube so a checkout without assets still renders.
func loadMesh(am *assets.Manager, path string) (*model.Mesh, error) {
	data, err := am.Load(path)
	if errors.Is(err, assets.ErrNotFound) {
		logger.Warn("model not found, using a cube", zap.String("path", path))
		return model.Cube(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}

	obj, err := formats.ParseOBJ(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse model %s: %w", path, err)
	}
	m := model.FromOBJ(obj)
	logger.Debug("model loaded",
		zap.String("path", path),
		zap.Int("triangles", obj.TriangleCount()),
		zap.Int("vertices", len(m.Vertices)),
	)
	return m, nil
}

// loadTexture decodes the image at path. It returns nil without error when
// path is empty or missing, and the caller substitutes plain white.
func loadTexture(am *assets.Manager, path string) (*image.RGBA, error) {
	if path == "" {
		return nil, nil
	}

	data, err := am.Load(path)
	if errors.Is(err, assets.ErrNotFound) {
		logger.Warn("texture not found, using white", zap.String("path", path))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load texture: %w", err)
	}

	img, err := texture.Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load texture %s: %w", path, err)
	}
	logger.Debug("texture loaded",
		zap.String("path", path),
		zap.Int("width", img.Rect.Dx()),
		zap.Int("height", img.Rect.Dy()),
	)
	return img, nil
}

func (g *Game) upload(m *model.Mesh) (*model.GPUMesh, error) {
	gpu, err := model.Upload(m)
	if err != nil {
		return nil, fmt.Errorf("failed to upload mesh: %w", err)
	}
	g.meshes = append(g.meshes, gpu)
	return gpu, nil
}

func (g *Game) track(tex uint32) uint32 {
	g.textures = append(g.textures, tex)
	return tex
}

// Run executes the render loop until the window closes or Escape is pressed.
func (g *Game) Run() error {
	g.running = true
	g.start = time.Now()

	logger.Info("starting render loop")

	for g.running {
		g.input.Update()

		for _, event := range g.input.Events() {
			if event.Type == input.EventWindowResize {
				g.resize()
			}
		}

		frame := g.scene.Update(time.Since(g.start).Seconds(), g.input.Controls())
		if frame.Exit {
			g.running = false
			break
		}

		g.renderer.Draw(frame)

		// Read back before the swap leaves the back buffer undefined.
		if frame.Screenshot {
			g.screenshot()
		}

		g.window.SwapBuffers()

		if fps, ok := g.fps.Frame(frame.Time); ok {
			g.window.SetTitle(windowTitle(fps))
			if g.config.Debug.LogFPS {
				cam := g.scene.Camera
				logger.Debug("fps",
					zap.Float64("fps", fps),
					zap.Float32("dt", frame.DeltaTime),
					logger.Vec3("eye", cam.Eye),
					zap.Float32("yaw", cam.Yaw),
					zap.Float32("pitch", cam.Pitch),
				)
			}
		}
	}

	return nil
}

// windowTitle shows the frame rate next to the title.
func windowTitle(fps float64) string {
	return fmt.Sprintf("%s - %.0f FPS", Title, fps)
}

func (g *Game) resize() {
	width, height := g.window.GetDrawableSize()
	g.renderer.Resize(width, height)
	g.scene.Resize(width, height)
}

func (g *Game) screenshot() {
	width, height := g.renderer.Size()
	path, err := g.screenshots.CaptureFromPixels(g.renderer.ReadPixels(), width, height)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// Close cleans up all resources.
func (g *Game) Close() {
	logger.Info("closing")

	for _, m := range g.meshes {
		m.Delete()
	}
	g.meshes = nil
	for _, tex := range g.textures {
		texture.Delete(tex)
	}
	g.textures = nil
	g.assets.Close()

	if g.renderer != nil {
		g.renderer.Close()
		g.renderer = nil
	}
	if g.window != nil {
		g.window.Close()
		g.window = nil
	}
}

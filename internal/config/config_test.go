package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/lightlab/internal/engine/lighting"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 1024, cfg.Graphics.Width)
	assert.Equal(t, 768, cfg.Graphics.Height)
	assert.False(t, cfg.Graphics.Fullscreen)

	assert.Equal(t, Vec3{0, 0, 4}, cfg.Camera.Eye)
	assert.Equal(t, float32(45), cfg.Camera.FOVDegrees)
	assert.Equal(t, float32(0.2), cfg.Camera.Near)
	assert.Equal(t, float32(100), cfg.Camera.Far)
	assert.Equal(t, float32(5), cfg.Camera.MoveSpeed)

	require.Len(t, cfg.Scene.Instances, 10)
	assert.Equal(t, float32(60), cfg.Scene.Instances[3].AngleDegrees)
	assert.Len(t, cfg.Scene.Lights, 4)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestMerge(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  msaa: 8

camera:
  eye: [1, 2, 3]
  fov_degrees: 60

scene:
  model: teapot.obj
  lights:
    - type: spot
      position: [0, 4, 0]
      direction: [0, -1, 0]
      colour: [1, 1, 1]
      constant: 1
      cutoff_degrees: 30
    - type: directional
      direction: [0, 0, -1]
      colour: [0.5, 0.5, 0.5]

logging:
  level: "debug"
  log_file: "lightlab.log"
`)

	cfg := Default()
	require.NoError(t, cfg.merge(path))

	assert.Equal(t, 1920, cfg.Graphics.Width)
	assert.Equal(t, 8, cfg.Graphics.MSAA)
	assert.False(t, cfg.Graphics.VSync)

	assert.Equal(t, Vec3{1, 2, 3}, cfg.Camera.Eye)
	// Keys missing from the file keep their defaults
	assert.Equal(t, float32(100), cfg.Camera.Far)

	assert.Equal(t, "teapot.obj", cfg.Scene.Model)
	require.Len(t, cfg.Scene.Lights, 2, "the file's lights replace the defaults")
	assert.Equal(t, float32(30), cfg.Scene.Lights[0].CutoffDegrees)

	assert.Equal(t, "lightlab.log", cfg.Logging.LogFile)
}

func TestMergeInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"syntax", "graphics:\n  width: not a number\n  invalid syntax here\n"},
		{"short vector", "camera:\n  eye: [1, 2]\n"},
		{"vector not a list", "camera:\n  eye: 4\n"},
		{"misspelled key", "camera:\n  fov_degree: 60\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "invalid.yaml", tt.yaml)
			assert.Error(t, Default().merge(path))
		})
	}
}

func TestMergeMissing(t *testing.T) {
	assert.Error(t, Default().merge("/nonexistent/path/config.yaml"))
}

func TestMergeEmptyFile(t *testing.T) {
	path := writeConfig(t, "config.yaml", "")

	cfg := Default()
	require.NoError(t, cfg.merge(path))
	assert.Equal(t, 1024, cfg.Graphics.Width)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Camera.Eye = Vec3{3, 1, -2}
	cfg.Scene.Lights = cfg.Scene.Lights[:1]
	require.NoError(t, cfg.SaveTo(path))

	loaded := Default()
	require.NoError(t, loaded.merge(path))
	assert.Equal(t, cfg.Camera.Eye, loaded.Camera.Eye)
	require.Len(t, loaded.Scene.Lights, 1)
	assert.Equal(t, Vec3{2, 2, 2}, loaded.Scene.Lights[0].Position)
	assert.Len(t, loaded.Scene.Instances, 10)
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	assert.True(t, filepath.IsAbs(dir), "ConfigDir should be absolute, got %s", dir)
	assert.Equal(t, "lightlab", filepath.Base(dir))
}

func TestFindConfigFile(t *testing.T) {
	origDir, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	require.NoError(t, os.Chdir(tmpDir))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", tmpDir)

	assert.Empty(t, findConfigFile())

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, FileName), []byte("graphics:\n  width: 800\n"), 0644))
	assert.NotEmpty(t, findConfigFile())
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		flags  overrides
		verify func(*testing.T, *Config)
	}{
		{
			name:  "debug",
			flags: overrides{debug: true},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.True(t, cfg.Debug.LogFPS, "debug turns on the frame report")
			},
		},
		{
			name:  "fov",
			flags: overrides{fov: 70},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, float32(70), cfg.Camera.FOVDegrees)
			},
		},
		{
			name:  "fullscreen",
			flags: overrides{fullscreen: true},
			verify: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.Graphics.Fullscreen)
			},
		},
		{
			name:  "windowed wins over fullscreen",
			flags: overrides{windowed: true, fullscreen: true},
			verify: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.Graphics.Fullscreen)
			},
		},
		{
			name:  "size and msaa",
			flags: overrides{width: 2560, height: 1440, msaa: 8},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 2560, cfg.Graphics.Width)
				assert.Equal(t, 1440, cfg.Graphics.Height)
				assert.Equal(t, 8, cfg.Graphics.MSAA)
			},
		},
		{
			name:  "output paths",
			flags: overrides{logFile: "run.log", screenshots: "shots"},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "run.log", cfg.Logging.LogFile)
				assert.Equal(t, "shots", cfg.Debug.ScreenshotDir)
			},
		},
		{
			name:  "zero values keep defaults",
			flags: overrides{},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Default(), cfg)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.flags.apply(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	path := writeConfig(t, "config.yaml", "graphics:\n  width: 1600\n  height: 900\n")

	flags.config = path
	flags.width = 1920
	defer func() {
		flags.config = ""
		flags.width = 0
	}()

	cfg, err := Load()
	require.NoError(t, err)

	// Width from the flag, height from the file
	assert.Equal(t, 1920, cfg.Graphics.Width)
	assert.Equal(t, 900, cfg.Graphics.Height)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv(EnvConfig, writeConfig(t, "env.yaml", "graphics:\n  height: 600\n"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 600, cfg.Graphics.Height)
}

func TestLoadRejectsInvalid(t *testing.T) {
	flags.config = writeConfig(t, "config.yaml", "scene:\n  lights: []\n")
	defer func() { flags.config = "" }()

	_, err := Load()
	assert.ErrorIs(t, err, ErrNoLights)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"no lights", func(c *Config) { c.Scene.Lights = nil }, ErrNoLights},
		{"too many lights", func(c *Config) {
			for len(c.Scene.Lights) <= lighting.MaxLights {
				c.Scene.Lights = append(c.Scene.Lights, c.Scene.Lights[0])
			}
		}, ErrTooManyLights},
		{"zero axis", func(c *Config) { c.Scene.Instances[2].Axis = Vec3{} }, ErrZeroAxis},
		{"pitch limit 90", func(c *Config) { c.Camera.PitchLimitDegrees = 90 }, ErrInvalidPitchLimit},
		{"pitch limit 0", func(c *Config) { c.Camera.PitchLimitDegrees = 0 }, ErrInvalidPitchLimit},
		{"unknown light", func(c *Config) { c.Scene.Lights[0].Type = "area" }, ErrUnknownLightType},
		{"spot cutoff", func(c *Config) { c.Scene.Lights[2].CutoffDegrees = 0 }, ErrInvalidCutoff},
		{"quadratic only attenuation", func(c *Config) {
			c.Scene.Lights[0].Constant, c.Scene.Lights[0].Linear, c.Scene.Lights[0].Quadratic = 0, 0, 1
		}, ErrInvalidAttenuation},
		{"negative constant", func(c *Config) { c.Scene.Lights[1].Constant = -1 }, ErrInvalidAttenuation},
		{"negative linear", func(c *Config) { c.Scene.Lights[2].Linear = -1 }, ErrInvalidAttenuation},
		{"directional zero", func(c *Config) { c.Scene.Lights[3].Direction = Vec3{} }, ErrZeroDirection},
		{"eye at target", func(c *Config) { c.Camera.Target = c.Camera.Eye }, ErrEyeAtTarget},
		{"far before near", func(c *Config) { c.Camera.Far = 0.1 }, ErrInvalidProjection},
		{"zero width", func(c *Config) { c.Graphics.Width = 0 }, ErrInvalidViewport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}

func TestValidateAcceptsVerticalCamera(t *testing.T) {
	cfg := Default()
	cfg.Camera.Eye = Vec3{0, 4, 0}
	require.NoError(t, cfg.Validate())

	cam := cfg.Camera.NewCamera(cfg.Graphics.Width, cfg.Graphics.Height)
	assert.InDelta(t, -cam.PitchLimit, cam.Pitch, tolerance)
	assert.InDelta(t, 1, cam.Right().Length(), tolerance)
}

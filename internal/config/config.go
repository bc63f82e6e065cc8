// Package config handles configuration loading and management.
package config

// Config holds all application settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Camera   CameraConfig   `yaml:"camera"`
	Scene    SceneConfig    `yaml:"scene"`
	Logging  LoggingConfig  `yaml:"logging"`
	Debug    DebugConfig    `yaml:"debug"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width       int  `yaml:"width"`
	Height      int  `yaml:"height"`
	Fullscreen  bool `yaml:"fullscreen"`
	VSync       bool `yaml:"vsync"`
	MSAA        int  `yaml:"msaa"`
	ClearColour Vec3 `yaml:"clear_colour"`
}

// CameraConfig holds the initial view and how input drives it.
type CameraConfig struct {
	Eye               Vec3    `yaml:"eye"`
	Target            Vec3    `yaml:"target"`
	FOVDegrees        float32 `yaml:"fov_degrees"`
	Near              float32 `yaml:"near"`
	Far               float32 `yaml:"far"`
	MoveSpeed         float32 `yaml:"move_speed"`        // World units per second
	MouseSensitivity  float32 `yaml:"mouse_sensitivity"` // Radians per pixel
	PitchLimitDegrees float32 `yaml:"pitch_limit_degrees"`
}

// SceneConfig lists the assets, instances and lights to render.
type SceneConfig struct {
	// AssetDirs are searched last to first for relative asset paths.
	AssetDirs   []string         `yaml:"asset_dirs"`
	Model       string           `yaml:"model"`
	Texture     string           `yaml:"texture"`
	MarkerModel string           `yaml:"marker_model"` // Empty draws markers as cubes
	MarkerScale float32          `yaml:"marker_scale"`
	Instances   []InstanceConfig `yaml:"instances"`
	Lights      []LightConfig    `yaml:"lights"`
}

// InstanceConfig places one copy of the scene model.
type InstanceConfig struct {
	Name         string         `yaml:"name,omitempty"`
	Position     Vec3           `yaml:"position"`
	Axis         Vec3           `yaml:"axis"`
	AngleDegrees float32        `yaml:"angle_degrees"`
	Scale        float32        `yaml:"scale"`
	SpinDegrees  float32        `yaml:"spin_degrees,omitempty"` // Per second
	Material     MaterialConfig `yaml:"material"`
}

// MaterialConfig holds Phong coefficients.
type MaterialConfig struct {
	Ka float32 `yaml:"ka"`
	Kd float32 `yaml:"kd"`
	Ks float32 `yaml:"ks"`
	Ns float32 `yaml:"ns"`
}

// LightConfig describes one light. Type is point, spot or directional;
// fields that do not apply to the type are ignored.
type LightConfig struct {
	Type          string  `yaml:"type"`
	Position      Vec3    `yaml:"position,omitempty"`
	Direction     Vec3    `yaml:"direction,omitempty"`
	Colour        Vec3    `yaml:"colour"`
	Constant      float32 `yaml:"constant,omitempty"`
	Linear        float32 `yaml:"linear,omitempty"`
	Quadratic     float32 `yaml:"quadratic,omitempty"`
	CutoffDegrees float32 `yaml:"cutoff_degrees,omitempty"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// DebugConfig holds diagnostics settings.
type DebugConfig struct {
	ScreenshotDir string `yaml:"screenshot_dir"`
	LogFPS        bool   `yaml:"log_fps"`
}

// Default returns a Config with the reference teapot scene.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1024,
			Height:     768,
			Fullscreen: false,
			VSync:      true,
			MSAA:       4,
		},
		Camera: CameraConfig{
			Eye:               Vec3{0, 0, 4},
			Target:            Vec3{0, 0, 0},
			FOVDegrees:        45,
			Near:              0.2,
			Far:               100,
			MoveSpeed:         5,
			MouseSensitivity:  0.005,
			PitchLimitDegrees: 89,
		},
		Scene: SceneConfig{
			AssetDirs:   []string{"."},
			Model:       "assets/teapot.obj",
			Texture:     "assets/blue.bmp",
			MarkerScale: 0.1,
			Instances:   defaultInstances(),
			Lights:      defaultLights(),
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Debug: DebugConfig{
			ScreenshotDir: "screenshots",
		},
	}
}

var instancePositions = []Vec3{
	{0, 0, 0},
	{2, 5, -10},
	{-3, -2, -3},
	{-4, -2, -8},
	{2, 2, -6},
	{-4, 3, -10},
	{0, -2, -5},
	{4, 2, -4},
	{2, 0, -2},
	{-1, 1, -2},
}

func defaultInstances() []InstanceConfig {
	instances := make([]InstanceConfig, len(instancePositions))
	for i, pos := range instancePositions {
		instances[i] = InstanceConfig{
			Position:     pos,
			Axis:         Vec3{1, 0.3, 0.5},
			AngleDegrees: 20 * float32(i),
			Scale:        0.75,
			Material: MaterialConfig{
				Ka: 0.2,
				Kd: 0.7,
				Ks: 1.0,
				Ns: 20,
			},
		}
	}
	return instances
}

func defaultLights() []LightConfig {
	return []LightConfig{
		{
			Type:      "point",
			Position:  Vec3{2, 2, 2},
			Colour:    Vec3{1, 1, 1},
			Constant:  1,
			Linear:    0.1,
			Quadratic: 0.02,
		},
		{
			Type:      "point",
			Position:  Vec3{1, 1, -8},
			Colour:    Vec3{1, 0, 0},
			Constant:  1,
			Linear:    0.1,
			Quadratic: 0.02,
		},
		{
			Type:          "spot",
			Position:      Vec3{0, 3, 0},
			Direction:     Vec3{0, -1, 0},
			Colour:        Vec3{0, 1, 1},
			Constant:      1,
			Linear:        0.1,
			Quadratic:     0.02,
			CutoffDegrees: 45,
		},
		{
			Type:      "directional",
			Direction: Vec3{1, -1, 0},
			Colour:    Vec3{1, 1, 0},
		},
	}
}

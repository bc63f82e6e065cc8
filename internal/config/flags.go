package config

import "flag"

// overrides holds command-line settings. Zero values keep the file or
// default setting.
type overrides struct {
	config      string
	logFile     string
	screenshots string
	debug       bool
	windowed    bool
	fullscreen  bool
	width       int
	height      int
	msaa        int
	fov         float64
}

var flags overrides

func init() {
	flag.StringVar(&flags.config, "config", "", "YAML config file (overrides $"+EnvConfig+" and the search path)")
	flag.StringVar(&flags.logFile, "log-file", "", "Write a rotating log to this file")
	flag.StringVar(&flags.screenshots, "screenshots", "", "Directory for F12 screenshots")
	flag.BoolVar(&flags.debug, "debug", false, "Debug logging with a once-per-second frame report")
	flag.BoolVar(&flags.windowed, "windowed", false, "Force a window")
	flag.BoolVar(&flags.fullscreen, "fullscreen", false, "Force desktop fullscreen")
	flag.IntVar(&flags.width, "width", 0, "Window width in screen coordinates")
	flag.IntVar(&flags.height, "height", 0, "Window height in screen coordinates")
	flag.IntVar(&flags.msaa, "msaa", 0, "Multisample count")
	flag.Float64Var(&flags.fov, "fov", 0, "Vertical field of view in degrees")
}

// ParseFlags reads the command line. Call it before Load.
func ParseFlags() {
	flag.Parse()
}

func (o overrides) apply(cfg *Config) {
	if o.debug {
		cfg.Logging.Level = "debug"
		cfg.Debug.LogFPS = true
	}
	if o.logFile != "" {
		cfg.Logging.LogFile = o.logFile
	}
	if o.screenshots != "" {
		cfg.Debug.ScreenshotDir = o.screenshots
	}

	// --windowed wins when both are given.
	switch {
	case o.windowed:
		cfg.Graphics.Fullscreen = false
	case o.fullscreen:
		cfg.Graphics.Fullscreen = true
	}

	if o.width > 0 {
		cfg.Graphics.Width = o.width
	}
	if o.height > 0 {
		cfg.Graphics.Height = o.height
	}
	if o.msaa > 0 {
		cfg.Graphics.MSAA = o.msaa
	}
	if o.fov > 0 {
		cfg.Camera.FOVDegrees = float32(o.fov)
	}
}

package debug

// FPSCounter counts frames over one-second windows.
type FPSCounter struct {
	frames      int
	windowStart float64
	started     bool
}

// Frame records a frame at time now (seconds). When a full second has
// passed since the window opened it returns the average frame rate over
// the window and true, and opens a new window.
func (c *FPSCounter) Frame(now float64) (float64, bool) {
	if !c.started {
		c.started = true
		c.windowStart = now
	}
	c.frames++

	elapsed := now - c.windowStart
	if elapsed < 1 {
		return 0, false
	}

	fps := float64(c.frames) / elapsed
	c.frames = 0
	c.windowStart = now
	return fps, true
}

// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/lightlab/internal/engine/scene"
)

// Event types for game use
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
}

// Input handles all input processing.
type Input struct {
	events []Event
	held   map[sdl.Scancode]bool

	// Relative cursor motion accumulated since the last Update.
	dx, dy float32
	quit   bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
		held:   make(map[sdl.Scancode]bool),
	}
}

// Update polls SDL events and converts them to game events.
// Returns true if the game should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	i.dx, i.dy = 0, 0

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			i.quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Repeat != 0 {
				continue
			}
			if e.Type == sdl.KEYDOWN {
				i.held[e.Keysym.Scancode] = true
				i.events = append(i.events, Event{
					Type: EventKeyDown,
					Key:  e.Keysym.Scancode,
				})
				if e.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
					i.quit = true
				}
			} else if e.Type == sdl.KEYUP {
				delete(i.held, e.Keysym.Scancode)
				i.events = append(i.events, Event{
					Type: EventKeyUp,
					Key:  e.Keysym.Scancode,
				})
			}

		case *sdl.MouseMotionEvent:
			i.dx += float32(e.XRel)
			i.dy += float32(e.YRel)
		}
	}

	return i.quit
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}

// IsKeyHeld reports whether a key is currently down.
func (i *Input) IsKeyHeld(scancode sdl.Scancode) bool {
	return i.held[scancode]
}

// Controls returns the camera controls sampled by the last Update. WASD
// or the arrow keys move, the mouse turns, F12 requests a screenshot and
// Escape or closing the window exits.
func (i *Input) Controls() scene.Controls {
	return scene.Controls{
		Forward:    i.IsKeyHeld(sdl.SCANCODE_W) || i.IsKeyHeld(sdl.SCANCODE_UP),
		Back:       i.IsKeyHeld(sdl.SCANCODE_S) || i.IsKeyHeld(sdl.SCANCODE_DOWN),
		Left:       i.IsKeyHeld(sdl.SCANCODE_A) || i.IsKeyHeld(sdl.SCANCODE_LEFT),
		Right:      i.IsKeyHeld(sdl.SCANCODE_D) || i.IsKeyHeld(sdl.SCANCODE_RIGHT),
		CursorDX:   i.dx,
		CursorDY:   i.dy,
		Screenshot: i.IsKeyPressed(sdl.SCANCODE_F12),
		Exit:       i.quit,
	}
}

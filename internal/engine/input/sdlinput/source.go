// Package sdlinput feeds SDL2 events into an input.Dispatcher.
package sdlinput

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/showroom/internal/engine/input"
)

// Source polls the SDL event queue.
type Source struct {
	dispatcher *input.Dispatcher
}

// New creates a source that dispatches to d.
func New(d *input.Dispatcher) *Source {
	return &Source{dispatcher: d}
}

// Pump drains pending SDL events and dispatches them.
// Returns false once a quit event has been seen.
func (s *Source) Pump() bool {
	running := true
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		ev, ok := translate(event)
		if !ok {
			continue
		}
		if ev.Kind == input.KindQuit {
			running = false
		}
		s.dispatcher.Dispatch(ev)
	}
	return running
}

func translate(event sdl.Event) (input.Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return input.Event{Kind: input.KindQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return input.Event{
				Kind:   input.KindResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			}, true
		}

	case *sdl.KeyboardEvent:
		if e.Repeat != 0 {
			return input.Event{}, false
		}
		kind := input.KindKeyDown
		if e.Type == sdl.KEYUP {
			kind = input.KindKeyUp
		}
		return input.Event{Kind: kind, Key: key(e.Keysym.Scancode)}, true

	case *sdl.MouseMotionEvent:
		return input.Event{
			Kind: input.KindPointerMove,
			X:    float32(e.X),
			Y:    float32(e.Y),
			DX:   float32(e.XRel),
			DY:   float32(e.YRel),
		}, true

	case *sdl.MouseButtonEvent:
		kind := input.KindButtonDown
		if e.Type == sdl.MOUSEBUTTONUP {
			kind = input.KindButtonUp
		}
		return input.Event{
			Kind:   kind,
			X:      float32(e.X),
			Y:      float32(e.Y),
			Button: e.Button,
		}, true

	case *sdl.MouseWheelEvent:
		y := float32(e.Y)
		if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
			y = -y
		}
		return input.Event{Kind: input.KindWheel, WheelY: y}, true
	}
	return input.Event{}, false
}

func key(sc sdl.Scancode) input.Key {
	switch sc {
	case sdl.SCANCODE_ESCAPE:
		return input.KeyEscape
	case sdl.SCANCODE_SPACE:
		return input.KeySpace
	case sdl.SCANCODE_RETURN:
		return input.KeyEnter
	case sdl.SCANCODE_F12:
		return input.KeyF12
	default:
		return input.KeyUnknown
	}
}

// Package input is the window-level event bus. Platform sources translate
// native events into Event values and Dispatch them; components subscribe
// per event kind and keep the returned function to unsubscribe.
package input

import "sort"

// Kind classifies an event.
type Kind int

const (
	KindNone Kind = iota
	KindQuit
	KindResize
	KindKeyDown
	KindKeyUp
	KindPointerMove
	KindButtonDown
	KindButtonUp
	KindWheel
)

func (k Kind) String() string {
	switch k {
	case KindQuit:
		return "quit"
	case KindResize:
		return "resize"
	case KindKeyDown:
		return "key-down"
	case KindKeyUp:
		return "key-up"
	case KindPointerMove:
		return "pointer-move"
	case KindButtonDown:
		return "button-down"
	case KindButtonUp:
		return "button-up"
	case KindWheel:
		return "wheel"
	default:
		return "none"
	}
}

// Key is a platform-independent key code.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeySpace
	KeyEnter
	KeyF12
)

// Button numbers follow SDL.
const (
	ButtonLeft   uint8 = 1
	ButtonMiddle uint8 = 2
	ButtonRight  uint8 = 3
)

// Event is a processed input event. Pointer coordinates are window pixels
// with the origin at the top left.
type Event struct {
	Kind Kind

	X, Y   float32
	DX, DY float32
	Button uint8

	// WheelY is positive when scrolling away from the user.
	WheelY float32

	Key Key

	Width, Height int
}

type listener struct {
	id   uint64
	kind Kind
	fn   func(Event)
}

// Dispatcher fans events out to subscribers. It is used from the loop
// goroutine only.
type Dispatcher struct {
	nextID    uint64
	listeners map[uint64]listener
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{listeners: make(map[uint64]listener)}
}

// Subscribe registers fn for events of kind. The returned function removes
// the subscription and may be called more than once.
func (d *Dispatcher) Subscribe(kind Kind, fn func(Event)) (unsubscribe func()) {
	d.nextID++
	id := d.nextID
	d.listeners[id] = listener{id: id, kind: kind, fn: fn}
	return func() { delete(d.listeners, id) }
}

// Listeners returns the number of active subscriptions.
func (d *Dispatcher) Listeners() int {
	return len(d.listeners)
}

// Dispatch delivers ev to its subscribers in subscription order.
// Subscriptions removed during delivery are skipped.
func (d *Dispatcher) Dispatch(ev Event) {
	var targets []listener
	for _, l := range d.listeners {
		if l.kind == ev.Kind {
			targets = append(targets, l)
		}
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].id < targets[j].id })

	for _, l := range targets {
		if _, ok := d.listeners[l.id]; !ok {
			continue
		}
		l.fn(ev)
	}
}

package scene

import (
	"github.com/Faultbox/geoscene/internal/engine/picking"
	"github.com/Faultbox/geoscene/pkg/math"
)

// BoxListener receives (old, new) values when a bounding box changes.
// The pointers are only valid for the duration of the call and must not
// be retained or mutated.
type BoxListener func(oldBox, newBox *math.Box3)

// SphereListener receives (old, new) values when a bounding sphere changes.
type SphereListener func(oldSphere, newSphere *math.Sphere)

// boxSignal is a per-channel listener registry. Listeners are invoked
// inline during the triggering mutation; listener code must not re-enter
// the same node's setters with diverging values.
type boxSignal struct {
	next int
	subs map[int]BoxListener
}

func (s *boxSignal) add(fn BoxListener) int {
	if s.subs == nil {
		s.subs = make(map[int]BoxListener)
	}
	id := s.next
	s.next++
	s.subs[id] = fn
	return id
}

func (s *boxSignal) remove(id int) { delete(s.subs, id) }

func (s *boxSignal) emit(oldBox, newBox *math.Box3) {
	for _, fn := range s.subs {
		fn(oldBox, newBox)
	}
}

type sphereSignal struct {
	next int
	subs map[int]SphereListener
}

func (s *sphereSignal) add(fn SphereListener) int {
	if s.subs == nil {
		s.subs = make(map[int]SphereListener)
	}
	id := s.next
	s.next++
	s.subs[id] = fn
	return id
}

func (s *sphereSignal) remove(id int) { delete(s.subs, id) }

func (s *sphereSignal) emit(oldSphere, newSphere *math.Sphere) {
	for _, fn := range s.subs {
		fn(oldSphere, newSphere)
	}
}

// PointerKind discriminates pointer interaction events.
type PointerKind int

const (
	PointerPress PointerKind = iota
	PointerRelease
	PointerMove
)

// Viewport identifies the view a pointer event originated from.
type Viewport interface {
	Size() (width, height int)
}

// PointerEvent is the payload delivered to a node's pointer callbacks.
// The host fires these after performing its own scene-wide hit-test
// sweep; the node itself never emits them.
type PointerEvent struct {
	Kind     PointerKind
	Hit      picking.HitResult
	X, Y     int
	Viewport Viewport
}

// NodeCallbacks holds the pointer interaction callbacks a host invokes
// on the node that won the picking sweep. Nil callbacks are skipped.
type NodeCallbacks struct {
	OnPointerPress   func(PointerEvent)
	OnPointerRelease func(PointerEvent)
	OnPointerMove    func(PointerEvent)
}

// Dispatch invokes the callback matching the event kind.
func (c *NodeCallbacks) Dispatch(ev PointerEvent) {
	switch ev.Kind {
	case PointerPress:
		if c.OnPointerPress != nil {
			c.OnPointerPress(ev)
		}
	case PointerRelease:
		if c.OnPointerRelease != nil {
			c.OnPointerRelease(ev)
		}
	case PointerMove:
		if c.OnPointerMove != nil {
			c.OnPointerMove(ev)
		}
	}
}

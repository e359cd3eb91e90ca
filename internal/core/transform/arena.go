package transform

import "github.com/go-gl/mathgl/mgl64"

// ID is a stable handle into an Arena. The low 32 bits hold the slot index,
// the high 32 bits the slot generation. The zero ID never refers to a live transform.
type ID uint64

// None is the parent ID of a root transform.
const None ID = 0

func makeID(index, gen uint32) ID { return ID(uint64(gen)<<32 | uint64(index)) }

func (id ID) index() uint32 { return uint32(id) }
func (id ID) gen() uint32   { return uint32(id >> 32) }

type slot struct {
	gen       uint32
	transform *Transform
}

// Arena owns every transform of a scene. Parent links are IDs into the arena,
// so children never keep their parent alive and teardown order does not matter.
type Arena struct {
	slots []slot
	free  []uint32
	live  int
}

func NewArena() *Arena {
	return &Arena{}
}

// New allocates a transform. A parent that is None or no longer live makes a root.
func (a *Arena) New(parent ID, position, rotation, scale mgl64.Vec3) *Transform {
	var index uint32
	if n := len(a.free); n > 0 {
		index = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		index = uint32(len(a.slots))
		a.slots = append(a.slots, slot{})
	}

	s := &a.slots[index]
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}

	t := &Transform{
		arena:    a,
		id:       makeID(index, s.gen),
		parent:   parent,
		position: position,
		rotation: rotation,
		scale:    scale,
		forward:  initialForward,
		right:    initialRight,
		up:       initialUp,
	}
	s.transform = t
	a.live++
	return t
}

// NewRoot allocates a parentless transform with identity rotation and unit scale.
func (a *Arena) NewRoot(position mgl64.Vec3) *Transform {
	return a.New(None, position, mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})
}

// Get resolves an ID. Stale IDs of destroyed transforms resolve to false.
func (a *Arena) Get(id ID) (*Transform, bool) {
	if id == None {
		return nil, false
	}
	idx := id.index()
	if int(idx) >= len(a.slots) {
		return nil, false
	}
	s := a.slots[idx]
	if s.transform == nil || s.gen != id.gen() {
		return nil, false
	}
	return s.transform, true
}

// Destroy releases the slot. Children keep their stale parent ID and from then on
// behave as roots.
func (a *Arena) Destroy(id ID) bool {
	t, ok := a.Get(id)
	if !ok {
		return false
	}
	idx := id.index()
	a.slots[idx].transform = nil
	a.free = append(a.free, idx)
	a.live--
	t.arena = nil
	return true
}

// Len returns the number of live transforms.
func (a *Arena) Len() int {
	return a.live
}

// Children returns the live direct children of id in slot order.
func (a *Arena) Children(id ID) []*Transform {
	var out []*Transform
	for _, s := range a.slots {
		if s.transform != nil && s.transform.parent == id {
			out = append(out, s.transform)
		}
	}
	return out
}

func (a *Arena) isAncestor(ancestor, of ID) bool {
	for cur, ok := a.Get(of); ok; cur, ok = a.Get(cur.parent) {
		if cur.id == ancestor {
			return true
		}
	}
	return false
}

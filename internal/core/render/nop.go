package render

import "github.com/zeusync/matix/internal/core/transform"

var _ Renderer = (*Nop)(nil)

// Nop accepts registrations and draws nothing. Headless runs and tests use it.
type Nop struct {
	Registered map[string]Type
	Frames     int
}

func NewNop() *Nop {
	return &Nop{Registered: make(map[string]Type)}
}

func (n *Nop) Register(name string, _ *transform.Transform, typ Type, _ []*Texture) Drawable {
	n.Registered[name] = typ
	return nopDrawable{}
}

func (n *Nop) Clear()       {}
func (n *Nop) Present()     { n.Frames++ }
func (n *Nop) Close() error { return nil }

type nopDrawable struct{}

func (nopDrawable) Update()  {}
func (nopDrawable) Render()  {}
func (nopDrawable) Destroy() {}

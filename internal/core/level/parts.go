package level

import "sort"

// Part describes what a tile id spawns when a level is loaded.
type Part struct {
	Texture string
	Type    string
	Static  bool
}

// Parts maps tile ids to parts. The Empty tile is always known and spawns nothing.
type Parts struct {
	parts map[TileID]Part
}

func NewParts() *Parts {
	return &Parts{parts: make(map[TileID]Part)}
}

// Assign registers a part for id. It returns false when id is already taken.
func (p *Parts) Assign(id TileID, part Part) bool {
	if id == Empty {
		return false
	}
	if _, ok := p.parts[id]; ok {
		return false
	}
	p.parts[id] = part
	return true
}

// Lookup returns the part of id. known is false for ids nobody assigned;
// the Empty tile is known but has no part.
func (p *Parts) Lookup(id TileID) (part Part, spawn bool, known bool) {
	if id == Empty {
		return Part{}, false, true
	}
	part, ok := p.parts[id]
	return part, ok, ok
}

func (p *Parts) Len() int { return len(p.parts) }

// IDs lists assigned tile ids in ascending order.
func (p *Parts) IDs() []TileID {
	ids := make([]TileID, 0, len(p.parts))
	for id := range p.parts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

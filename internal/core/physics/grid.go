package physics

// Grid is one level of a GridMap: a dense width x height array of cells, each
// empty (nil) or holding the static body registered there.
type Grid struct {
	Width  int
	Height int
	Cells  []*Static // 1D array: index = z*Width + x
}

func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Cells:  make([]*Static, width*height),
	}
}

func (g *Grid) inBounds(x, z int) bool {
	return x >= 0 && x < g.Width && z >= 0 && z < g.Height
}

// Set stores s in cell (x, z). It returns false when the cell is out of bounds.
func (g *Grid) Set(x, z int, s *Static) bool {
	if !g.inBounds(x, z) {
		return false
	}
	g.Cells[z*g.Width+x] = s
	return true
}

// At returns the body in cell (x, z), nil for empty or out of bounds cells.
func (g *Grid) At(x, z int) *Static {
	if g == nil || !g.inBounds(x, z) {
		return nil
	}
	return g.Cells[z*g.Width+x]
}

// Clear empties every cell.
func (g *Grid) Clear() {
	for i := range g.Cells {
		g.Cells[i] = nil
	}
}

// Occupied counts the non-empty cells.
func (g *Grid) Occupied() int {
	n := 0
	for _, c := range g.Cells {
		if c != nil {
			n++
		}
	}
	return n
}

// GridMap holds one Grid per level index, all of the same size.
// Levels are created on first registration.
type GridMap struct {
	width  int
	height int
	levels map[int]*Grid
}

func NewGridMap(width, height int) *GridMap {
	return &GridMap{width: width, height: height, levels: make(map[int]*Grid)}
}

func (m *GridMap) Size() (width, height int) { return m.width, m.height }

// Level returns the grid of a level, creating it when missing.
func (m *GridMap) Level(level int) *Grid {
	g, ok := m.levels[level]
	if !ok {
		g = NewGrid(m.width, m.height)
		m.levels[level] = g
	}
	return g
}

// Lookup reads a cell without creating its level.
func (m *GridMap) Lookup(level, x, z int) *Static {
	return m.levels[level].At(x, z)
}

// Fill clears one level.
func (m *GridMap) Fill(level int) {
	if g, ok := m.levels[level]; ok {
		g.Clear()
	}
}

// Resize drops every level and changes the size of the ones created afterwards.
func (m *GridMap) Resize(width, height int) {
	m.width, m.height = width, height
	m.levels = make(map[int]*Grid)
}

package worldmap

// Map is the flat rectangular grid of terrain and elevation backing a
// GameState.
type Map struct {
	Width, Height int
	Terrain       []Terrain
	Elevation     []byte
}

func New(width, height int) *Map {
	return &Map{
		Width:     width,
		Height:    height,
		Terrain:   make([]Terrain, width*height),
		Elevation: make([]byte, width*height),
	}
}

func (m *Map) InBounds(c Coord) bool {
	return c.Q >= 0 && c.Q < m.Width && c.R >= 0 && c.R < m.Height
}

func (m *Map) index(c Coord) int { return c.R*m.Width + c.Q }

func (m *Map) TerrainAt(c Coord) Terrain {
	if !m.InBounds(c) {
		return DeepWater
	}
	return m.Terrain[m.index(c)]
}

func (m *Map) SetTerrain(c Coord, t Terrain) {
	if m.InBounds(c) {
		m.Terrain[m.index(c)] = t
	}
}

func (m *Map) ElevationAt(c Coord) byte {
	if !m.InBounds(c) {
		return 0
	}
	return m.Elevation[m.index(c)]
}

func (m *Map) SetElevation(c Coord, e byte) {
	if m.InBounds(c) {
		m.Elevation[m.index(c)] = e
	}
}

// Passable reports whether the movement system may enter c: in bounds and
// neither water nor mountain under the coarse taxonomy.
func (m *Map) Passable(c Coord) bool {
	if !m.InBounds(c) {
		return false
	}
	coarse := Coarse(m.TerrainAt(c))
	return coarse != 0 && coarse != 5
}

// Land reports whether c is dry land at all (any non-water terrain),
// used by settlement founding and spawn placement.
func (m *Map) Land(c Coord) bool {
	if !m.InBounds(c) {
		return false
	}
	t := m.TerrainAt(c)
	return t != DeepWater && t != ShallowWater
}

// Package worldmap holds the rectangular hex grid and the two neighbour
// conventions the rest of the core uses: axial offsets for gameplay
// geometry (distance, adjacency, neutral stepping) and odd/even-row
// offset neighbours for the movement system's pathing.
package worldmap

// Terrain is the canonical ten-value taxonomy stored for every tile.
type Terrain byte

const (
	DeepWater Terrain = iota
	ShallowWater
	Beach
	Desert
	Plains
	Grassland
	Forest
	Hills
	Mountain
	Snow
)

// Coarse derives the legacy six-value taxonomy used by movement, combat
// and unit-AI. It is computed on demand rather than stored, resolving the
// terrain-taxonomy inconsistency by keeping both interpretations without
// persisting a second array: water=0 and mountain=5 remain impassable,
// forest=3 and hills=2 remain the values those systems branch on.
func Coarse(t Terrain) byte {
	switch t {
	case DeepWater, ShallowWater:
		return 0
	case Beach, Desert:
		return 1
	case Hills:
		return 2
	case Forest:
		return 3
	case Mountain:
		return 5
	default: // Plains, Grassland, Snow
		return 4
	}
}

// Coord is an axial hex coordinate.
type Coord struct {
	Q, R int
}

func (c Coord) S() int { return -c.Q - c.R }

// axialDirections are the six gameplay-logic neighbour offsets.
var axialDirections = [6]Coord{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, -1}, {-1, 1},
}

// Neighbors returns the six axially-adjacent coordinates, used by the
// neutral system (stepping, wandering, camp placement); the mover uses
// MovementNeighbors instead.
func (c Coord) Neighbors() [6]Coord {
	var out [6]Coord
	for i, d := range axialDirections {
		out[i] = Coord{c.Q + d.Q, c.R + d.R}
	}
	return out
}

// Distance is the hex grid distance between two axial coordinates.
func Distance(a, b Coord) int {
	dq := a.Q - b.Q
	dr := a.R - b.R
	ds := a.S() - b.S()
	return maxAbs3(dq, dr, ds)
}

func maxAbs3(a, b, c int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	if c < 0 {
		c = -c
	}
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

// offsetEvenNeighbors / offsetOddNeighbors are the movement system's
// distinct neighbour set, indexed by the parity of the row (r). This is
// intentionally a different convention from Neighbors: the mover's BFS
// must never be swapped with the axial one, per design.
var offsetEvenNeighbors = [6]Coord{
	{1, 0}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}, {0, 1},
}
var offsetOddNeighbors = [6]Coord{
	{1, 0}, {1, -1}, {0, -1}, {-1, 0}, {0, 1}, {1, 1},
}

// MovementNeighbors returns the movement system's neighbour set for c.
func MovementNeighbors(c Coord) [6]Coord {
	dirs := offsetEvenNeighbors
	if c.R%2 != 0 {
		dirs = offsetOddNeighbors
	}
	var out [6]Coord
	for i, d := range dirs {
		out[i] = Coord{c.Q + d.Q, c.R + d.R}
	}
	return out
}

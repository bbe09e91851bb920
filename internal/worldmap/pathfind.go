package worldmap

type pathNode struct {
	c    Coord
	prev int
}

// ShortestPath returns a path of coordinates from start to goal
// (inclusive of both endpoints) over the map's passable tiles using
// breadth-first search over the movement system's offset-neighbour
// convention. Returns nil if no path exists; start==goal returns
// []Coord{start}.
func ShortestPath(m *Map, start, goal Coord) []Coord {
	if !m.InBounds(start) || !m.InBounds(goal) {
		return nil
	}
	if start == goal {
		return []Coord{start}
	}
	if !m.Passable(goal) {
		return nil
	}

	visited := map[Coord]bool{start: true}
	nodes := []pathNode{{start, -1}}

	for qi := 0; qi < len(nodes); qi++ {
		cur := nodes[qi]
		if cur.c == goal {
			return reconstruct(nodes, qi)
		}
		for _, n := range MovementNeighbors(cur.c) {
			if !m.Passable(n) || visited[n] {
				continue
			}
			visited[n] = true
			nodes = append(nodes, pathNode{n, qi})
		}
	}
	return nil
}

func reconstruct(nodes []pathNode, idx int) []Coord {
	var rev []Coord
	for idx >= 0 {
		rev = append(rev, nodes[idx].c)
		idx = nodes[idx].prev
	}
	out := make([]Coord, len(rev))
	for i, c := range rev {
		out[len(rev)-1-i] = c
	}
	return out
}

package worldmap

import "testing"

func TestShortestPathStraightLine(t *testing.T) {
	m := New(10, 10)
	for i := range m.Terrain {
		m.Terrain[i] = Plains
	}
	path := ShortestPath(m, Coord{0, 0}, Coord{4, 0})
	if path == nil {
		t.Fatal("expected a path")
	}
	if path[0] != (Coord{0, 0}) || path[len(path)-1] != (Coord{4, 0}) {
		t.Fatalf("path endpoints wrong: %+v", path)
	}
}

func TestShortestPathBlockedByWater(t *testing.T) {
	m := New(5, 5)
	for i := range m.Terrain {
		m.Terrain[i] = Plains
	}
	for r := 0; r < 5; r++ {
		m.SetTerrain(Coord{2, r}, DeepWater)
	}
	if path := ShortestPath(m, Coord{0, 2}, Coord{4, 2}); path != nil {
		t.Fatalf("expected no path across a full water column, got %+v", path)
	}
}

func TestShortestPathGoalImpassable(t *testing.T) {
	m := New(5, 5)
	for i := range m.Terrain {
		m.Terrain[i] = Plains
	}
	m.SetTerrain(Coord{3, 3}, Mountain)
	if path := ShortestPath(m, Coord{0, 0}, Coord{3, 3}); path != nil {
		t.Fatalf("expected nil path to impassable goal, got %+v", path)
	}
}

package worldmap

import "testing"

func TestDistanceSelf(t *testing.T) {
	if d := Distance(Coord{3, 4}, Coord{3, 4}); d != 0 {
		t.Fatalf("distance to self = %d, want 0", d)
	}
}

func TestDistanceNeighbor(t *testing.T) {
	c := Coord{5, 5}
	for _, n := range c.Neighbors() {
		if d := Distance(c, n); d != 1 {
			t.Fatalf("distance to axial neighbour %+v = %d, want 1", n, d)
		}
	}
}

func TestCoarseWaterAndMountainImpassable(t *testing.T) {
	if Coarse(DeepWater) != 0 {
		t.Fatalf("deep water coarse = %d, want 0", Coarse(DeepWater))
	}
	if Coarse(ShallowWater) != 0 {
		t.Fatalf("shallow water coarse = %d, want 0", Coarse(ShallowWater))
	}
	if Coarse(Mountain) != 5 {
		t.Fatalf("mountain coarse = %d, want 5", Coarse(Mountain))
	}
	if Coarse(Forest) != 3 {
		t.Fatalf("forest coarse = %d, want 3", Coarse(Forest))
	}
	if Coarse(Hills) != 2 {
		t.Fatalf("hills coarse = %d, want 2", Coarse(Hills))
	}
}

func TestMovementNeighborsDistinctFromAxial(t *testing.T) {
	c := Coord{4, 4}
	axial := c.Neighbors()
	offset := MovementNeighbors(c)
	same := true
	for i := range axial {
		if axial[i] != offset[i] {
			same = false
		}
	}
	if same {
		t.Fatalf("movement neighbours must not equal axial neighbours at even row")
	}
}

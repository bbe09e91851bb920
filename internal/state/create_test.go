package state

import (
	"testing"

	"github.com/talgya/hexrealm/internal/worldmap"
)

func plainsMap(w, h int) ([]worldmap.Terrain, []byte) {
	terrain := make([]worldmap.Terrain, w*h)
	for i := range terrain {
		terrain[i] = worldmap.Plains
	}
	return terrain, make([]byte, w*h)
}

func TestCreateOnePlayerCapitalAndView(t *testing.T) {
	terrain, elev := plainsMap(20, 20)
	gs := Create(Config{
		GameID: "g1", MapWidth: 20, MapHeight: 20,
		Terrain: terrain, Elevation: elev,
		Players: []PlayerConfig{{UserID: "p1", FactionID: "crown"}},
		Speed:   1,
	})

	if len(gs.Settlements) != 1 {
		t.Fatalf("expected one capital settlement, got %d", len(gs.Settlements))
	}
	view, err := GetPlayerView(gs, "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.FogMap) != 20*20 {
		t.Fatalf("fog map length = %d, want %d", len(view.FogMap), 400)
	}
	if len(view.VisibleSettlements) != 1 {
		t.Fatalf("expected capital visible to its own owner, got %d", len(view.VisibleSettlements))
	}
	if view.Resources["gold"] <= 0 {
		t.Fatalf("expected starting gold > 0")
	}
	visibleCount := 0
	for _, f := range view.FogMap {
		if f == FogVisible {
			visibleCount++
		}
	}
	if visibleCount == 0 {
		t.Fatal("expected some tiles visible around the capital")
	}
}

func TestCreateUnknownPlayerViewNotFound(t *testing.T) {
	terrain, elev := plainsMap(10, 10)
	gs := Create(Config{GameID: "g1", MapWidth: 10, MapHeight: 10, Terrain: terrain, Elevation: elev})
	if _, err := GetPlayerView(gs, "ghost"); err == nil {
		t.Fatal("expected NotFound for unknown player")
	}
}

func TestCreateTwoPlayersSpawnSeparated(t *testing.T) {
	terrain, elev := plainsMap(30, 30)
	gs := Create(Config{
		GameID: "g1", MapWidth: 30, MapHeight: 30,
		Terrain: terrain, Elevation: elev,
		Players: []PlayerConfig{{UserID: "p1", FactionID: "crown"}, {UserID: "p2", FactionID: "compact"}},
		Speed:   1,
	})
	var coords []worldmap.Coord
	for _, s := range gs.Settlements {
		coords = append(coords, worldmap.Coord{Q: s.Q, R: s.R})
	}
	if len(coords) != 2 {
		t.Fatalf("expected 2 settlements, got %d", len(coords))
	}
	if coords[0] == coords[1] {
		t.Fatal("two players must not spawn on the same tile")
	}
	if len(gs.Diplomacy) != 1 {
		t.Fatalf("expected exactly one diplomacy entry for 2 players, got %d", len(gs.Diplomacy))
	}
	if gs.Diplomacy[0].Status != DiploPeace {
		t.Fatalf("initial diplomacy should be peace, got %s", gs.Diplomacy[0].Status)
	}
}

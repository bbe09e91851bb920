package registry

import (
	"testing"
	"time"

	"github.com/talgya/hexrealm/internal/eventbus"
	"github.com/talgya/hexrealm/internal/state"
	"github.com/talgya/hexrealm/internal/worldmap"
)

func newTestGame(w, h int) *state.GameState {
	terrain := make([]worldmap.Terrain, w*h)
	for i := range terrain {
		terrain[i] = worldmap.Plains
	}
	return state.Create(state.Config{
		GameID: "g1", MapWidth: w, MapHeight: h,
		Terrain: terrain, Elevation: make([]byte, w*h),
		Players: []state.PlayerConfig{{UserID: "p1", FactionID: "crown"}},
		Speed:   3,
	})
}

func TestStartGameAdvancesTicks(t *testing.T) {
	bus := eventbus.New()
	r := New(bus)
	gs := newTestGame(10, 10)
	r.StartGame("g1", gs, 3)
	defer r.StopGame("g1")

	time.Sleep(400 * time.Millisecond)

	got, err := r.GetGame("g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Tick == 0 {
		t.Fatal("expected tick counter to have advanced")
	}
}

func TestPauseStopsAdvancement(t *testing.T) {
	bus := eventbus.New()
	r := New(bus)
	gs := newTestGame(10, 10)
	r.StartGame("g1", gs, 3)
	defer r.StopGame("g1")

	time.Sleep(250 * time.Millisecond)
	if err := r.PauseGame("g1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := r.GetGame("g1")
	tickAtPause := got.Tick
	time.Sleep(250 * time.Millisecond)
	if got.Tick != tickAtPause {
		t.Fatalf("expected tick to stay at %d while paused, got %d", tickAtPause, got.Tick)
	}
}

func TestStopGameRemovesEntry(t *testing.T) {
	bus := eventbus.New()
	r := New(bus)
	gs := newTestGame(10, 10)
	r.StartGame("g1", gs, 1)

	if err := r.StopGame("g1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.GetGame("g1"); err == nil {
		t.Fatal("expected NotFound after stop")
	}
}

func TestUnknownGameReturnsNotFound(t *testing.T) {
	r := New(eventbus.New())
	if _, err := r.GetGame("nope"); err == nil {
		t.Fatal("expected error for unknown game")
	}
	if err := r.PauseGame("nope"); err == nil {
		t.Fatal("expected error pausing unknown game")
	}
}

func TestWithGameSerializesAgainstTick(t *testing.T) {
	bus := eventbus.New()
	r := New(bus)
	gs := newTestGame(10, 10)
	r.StartGame("g1", gs, 3)
	defer r.StopGame("g1")

	err := r.WithGame("g1", func(gs *state.GameState) error {
		gs.Players["p1"].Resources["gold"] += 5
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

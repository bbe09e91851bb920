package service

import (
	"context"
	"testing"
	"time"

	"github.com/talgya/hexrealm/internal/eventbus"
	"github.com/talgya/hexrealm/internal/registry"
	"github.com/talgya/hexrealm/internal/state"
	"github.com/talgya/hexrealm/internal/staticdata"
	"github.com/talgya/hexrealm/internal/worldmap"
)

func newService() *Service {
	bus := eventbus.New()
	reg := registry.New(bus)
	return New(reg, bus)
}

func startTestGame(t *testing.T, s *Service) string {
	t.Helper()
	terrain := make([]worldmap.Terrain, 20*20)
	for i := range terrain {
		terrain[i] = worldmap.Plains
	}
	gameID, err := s.Start(StartConfig{
		MapWidth: 20, MapHeight: 20, Terrain: terrain, Elevation: make([]byte, 20*20),
		Players: []state.PlayerConfig{{UserID: "p1", FactionID: "crown"}}, Speed: 3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return gameID
}

func TestStartAndSubscribeReceivesMapReady(t *testing.T) {
	s := newService()
	gameID := startTestGame(t, s)
	defer s.reg.StopGame(gameID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub, err := s.Subscribe(ctx, gameID, "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sub.Cancel()

	if sub.MapReady["width"] != 20 {
		t.Fatalf("expected mapReady width 20, got %v", sub.MapReady["width"])
	}
}

func TestSubscribeUnknownPlayerFails(t *testing.T) {
	s := newService()
	gameID := startTestGame(t, s)
	defer s.reg.StopGame(gameID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if _, err := s.Subscribe(ctx, gameID, "nobody"); err == nil {
		t.Fatal("expected error for unknown player")
	}
}

func TestBuyUnitInsufficientGold(t *testing.T) {
	s := newService()
	gameID := startTestGame(t, s)
	defer s.reg.StopGame(gameID)

	gs, _ := s.reg.GetGame(gameID)
	var settID uint64
	for id, set := range gs.Settlements {
		if set.OwnerID == "p1" {
			settID = id
		}
	}
	// Mutate under the game's own exclusion so this doesn't race the
	// background tick goroutine's concurrent resource writes.
	if err := s.reg.WithGame(gameID, func(gs *state.GameState) error {
		gs.Players["p1"].Resources["gold"] = 0
		return nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.BuyUnit(gameID, "p1", settID, staticdata.Warrior); err == nil {
		t.Fatal("expected error buying warrior without barracks/gold")
	}
}

func TestSetPoliciesRejectsBadCombatPolicy(t *testing.T) {
	s := newService()
	gameID := startTestGame(t, s)
	defer s.reg.StopGame(gameID)

	err := s.SetPolicies(gameID, "p1", state.Policies{CombatPolicy: "berserk"})
	if err == nil {
		t.Fatal("expected error for invalid combat policy")
	}
}

func TestSetPoliciesAccepted(t *testing.T) {
	s := newService()
	gameID := startTestGame(t, s)
	defer s.reg.StopGame(gameID)

	err := s.SetPolicies(gameID, "p1", state.Policies{
		Aggression: 40, Expansion: 60, Spending: 20, CombatPolicy: state.CombatDefensive,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRequestPauseResume(t *testing.T) {
	s := newService()
	gameID := startTestGame(t, s)
	defer s.reg.StopGame(gameID)

	if err := s.RequestPause(gameID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gs, _ := s.reg.GetGame(gameID)
	if !gs.Paused {
		t.Fatal("expected game paused")
	}
	if err := s.RequestResume(gameID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if gs.Paused {
		t.Fatal("expected game resumed")
	}
}

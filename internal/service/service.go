// Package service exposes one method per player-facing procedure,
// translating RPC-shaped requests into registry and tick calls executed
// under the target game's exclusion.
package service

import (
	"context"

	"github.com/talgya/hexrealm/internal/apperr"
	"github.com/talgya/hexrealm/internal/audit"
	"github.com/talgya/hexrealm/internal/eventbus"
	"github.com/talgya/hexrealm/internal/registry"
	"github.com/talgya/hexrealm/internal/state"
	"github.com/talgya/hexrealm/internal/staticdata"
	"github.com/talgya/hexrealm/internal/tick"
	"github.com/talgya/hexrealm/internal/worldmap"
)

// Service is the single entry point the gateway layer calls into.
type Service struct {
	reg   *registry.Registry
	bus   *eventbus.Bus
	audit *audit.DB // optional; nil disables the history procedure
}

func New(reg *registry.Registry, bus *eventbus.Bus) *Service {
	return &Service{reg: reg, bus: bus}
}

// WithAudit attaches the operational audit log that History reads from.
func (s *Service) WithAudit(db *audit.DB) *Service {
	s.audit = db
	return s
}

// History returns up to limit recent tick summaries for a game, most
// recent first. Returns an empty slice if no audit log is attached.
func (s *Service) History(gameID string, limit int) ([]audit.TickRow, error) {
	if s.audit == nil {
		return nil, nil
	}
	return s.audit.History(gameID, limit)
}

// StartConfig is the input to Start: a pre-generated map plus joining
// players.
type StartConfig struct {
	MapWidth, MapHeight int
	Terrain             []worldmap.Terrain
	Elevation           []byte
	Players             []state.PlayerConfig
	Speed               float64
}

// Start constructs a new game, spawns its initial neutrals, registers it
// with the scheduler, and returns its id.
func (s *Service) Start(cfg StartConfig) (string, error) {
	gameID := registry.NewGameID()
	speed := cfg.Speed
	if speed <= 0 {
		speed = 1
	}
	gs := state.Create(state.Config{
		GameID:    gameID,
		MapWidth:  cfg.MapWidth,
		MapHeight: cfg.MapHeight,
		Terrain:   cfg.Terrain,
		Elevation: cfg.Elevation,
		Players:   cfg.Players,
		Speed:     speed,
	})
	tick.SpawnInitialNeutrals(gs)
	s.reg.StartGame(gameID, gs, speed)
	return gameID, nil
}

// Subscription carries the channel-shaped stream a caller drains until
// ctx is cancelled.
type Subscription struct {
	MapReady map[string]any
	Next     func() (any, bool)
	Cancel   func()
}

// Subscribe returns a mapReady snapshot plus a live stream of tick and
// discrete events for one player in one game.
func (s *Service) Subscribe(ctx context.Context, gameID, playerID string) (Subscription, error) {
	gs, err := s.reg.GetGame(gameID)
	if err != nil {
		return Subscription{}, err
	}
	if _, ok := gs.Players[playerID]; !ok {
		return Subscription{}, apperr.New(apperr.NotFound, "unknown player")
	}

	m := gs.Map()
	mapReady := map[string]any{
		"kind": "mapReady", "width": m.Width, "height": m.Height,
		"terrain": m.Terrain, "elevation": m.Elevation,
	}

	playerNext, playerUnsub := s.bus.Subscribe(ctx, "game:"+gameID+":"+playerID)
	broadcastNext, broadcastUnsub := s.bus.Subscribe(ctx, "game:"+gameID)

	merged := make(chan any, 64)
	go pump(ctx, playerNext, merged)
	go pump(ctx, broadcastNext, merged)

	next := func() (any, bool) {
		select {
		case v, ok := <-merged:
			return v, ok
		case <-ctx.Done():
			return nil, false
		}
	}
	cancel := func() {
		playerUnsub()
		broadcastUnsub()
	}

	return Subscription{MapReady: mapReady, Next: next, Cancel: cancel}, nil
}

func pump(ctx context.Context, next func() (any, bool), out chan<- any) {
	for {
		v, ok := next()
		if !ok {
			return
		}
		select {
		case out <- v:
		case <-ctx.Done():
			return
		}
	}
}

// BuyUnit validates cost and building prerequisites, then inserts a new
// unit at the settlement's tile.
func (s *Service) BuyUnit(gameID, playerID string, settlementID uint64, unitType staticdata.UnitType) error {
	return s.reg.WithGame(gameID, func(gs *state.GameState) error {
		p, ok := gs.Players[playerID]
		if !ok {
			return apperr.New(apperr.NotFound, "unknown player")
		}
		if p.Eliminated {
			return apperr.New(apperr.Eliminated, "player eliminated")
		}
		set, ok := gs.Settlements[settlementID]
		if !ok {
			return apperr.New(apperr.NotFound, "unknown settlement")
		}
		if set.OwnerID != playerID {
			return apperr.New(apperr.Forbidden, "settlement not owned by caller")
		}
		def, ok := staticdata.FindUnitDef(unitType)
		if !ok {
			return apperr.New(apperr.NotFound, "unknown unit type")
		}
		if def.RequiresBldg != "" {
			has := false
			for _, b := range set.Buildings {
				if b == def.RequiresBldg {
					has = true
					break
				}
			}
			if !has {
				return apperr.New(apperr.BadRequest, "missing required building")
			}
		}
		if p.Resources["gold"] < def.GoldCost || p.Resources["production"] < def.ProductionCost {
			return apperr.New(apperr.BadRequest, "insufficient resources")
		}
		p.Resources["gold"] -= def.GoldCost
		p.Resources["production"] -= def.ProductionCost

		u := &state.Unit{
			ID: gs.NextUnitID(), Type: def.Type, OwnerID: playerID,
			Q: set.Q, R: set.R, HP: def.MaxHP, MaxHP: def.MaxHP,
			Strength: def.Strength, VisionRange: def.VisionRange,
			MoveSpeed: def.MoveSpeed, State: state.UnitIdle,
		}
		gs.Units[u.ID] = u
		return nil
	})
}

// BuildBuilding delegates to the settlement system's construction rules.
func (s *Service) BuildBuilding(gameID, playerID string, settlementID uint64, buildingType string) error {
	return s.reg.WithGame(gameID, func(gs *state.GameState) error {
		return tick.ConstructBuilding(gs, settlementID, buildingType, playerID)
	})
}

// SetPolicies overwrites a player's policy record.
func (s *Service) SetPolicies(gameID, playerID string, policies state.Policies) error {
	return s.reg.WithGame(gameID, func(gs *state.GameState) error {
		p, ok := gs.Players[playerID]
		if !ok {
			return apperr.New(apperr.NotFound, "unknown player")
		}
		switch policies.CombatPolicy {
		case state.CombatAggressive, state.CombatDefensive, state.CombatAvoidance:
		default:
			return apperr.New(apperr.BadRequest, "invalid combat policy")
		}
		for _, v := range []float64{policies.Aggression, policies.Expansion, policies.Spending} {
			if v < 0 || v > 100 {
				return apperr.New(apperr.BadRequest, "policy values must be 0..100")
			}
		}
		p.Policies = policies
		return nil
	})
}

// StartResearch delegates to the research system.
func (s *Service) StartResearch(gameID, playerID, techID string) error {
	return s.reg.WithGame(gameID, func(gs *state.GameState) error {
		return tick.StartResearch(gs, playerID, techID)
	})
}

// ProposeLaw delegates to the council system.
func (s *Service) ProposeLaw(gameID, playerID, lawID, targetPlayerID string) (tick.LawResult, error) {
	var result tick.LawResult
	err := s.reg.WithGame(gameID, func(gs *state.GameState) error {
		r, err := tick.ProposeLaw(gs, playerID, lawID, targetPlayerID)
		result = r
		return err
	})
	return result, err
}

// RequestPause stops a game's clock.
func (s *Service) RequestPause(gameID string) error {
	return s.reg.PauseGame(gameID)
}

// RequestResume restarts a paused game's clock.
func (s *Service) RequestResume(gameID string) error {
	return s.reg.ResumeGame(gameID)
}

// SetSpeed changes a game's tick interval.
func (s *Service) SetSpeed(gameID string, speed float64) error {
	return s.reg.ChangeSpeed(gameID, speed)
}

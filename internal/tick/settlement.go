package tick

import (
	"math"

	"github.com/talgya/hexrealm/internal/apperr"
	"github.com/talgya/hexrealm/internal/staticdata"
	"github.com/talgya/hexrealm/internal/state"
	"github.com/talgya/hexrealm/internal/worldmap"
)

// FoundSettlement places a new outpost on a land tile at Euclidean
// distance at least 5 from every existing settlement.
func FoundSettlement(gs *state.GameState, playerID string, q, r int, name string) (*state.Settlement, error) {
	p, ok := gs.Players[playerID]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "unknown player")
	}
	if p.Eliminated {
		return nil, apperr.New(apperr.Eliminated, "player eliminated")
	}
	c := worldmap.Coord{Q: q, R: r}
	m := gs.Map()
	if !m.Land(c) {
		return nil, apperr.New(apperr.BadRequest, "tile is not land")
	}
	for _, s := range gs.Settlements {
		if dist := euclideanF(float64(c.Q), float64(c.R), float64(s.Q), float64(s.R)); dist < 5 {
			return nil, apperr.New(apperr.BadRequest, "too close to an existing settlement")
		}
	}

	stats := staticdata.StatsFor(staticdata.TierOutpost)
	settlement := &state.Settlement{
		ID:            gs.NextSettlementID(),
		OwnerID:       playerID,
		Name:          name,
		Tier:          staticdata.TierOutpost,
		Q:             q,
		R:             r,
		BuildingSlots: stats.BuildingSlots,
		GatherRadius:  stats.GatherRadius,
		IsCapital:     false,
		HP:            stats.MaxHP,
		MaxHP:         stats.MaxHP,
		Defense:       stats.Defense,
	}
	gs.Settlements[settlement.ID] = settlement
	return settlement, nil
}

func euclideanF(aq, ar, bq, br float64) float64 {
	dq, dr := aq-bq, ar-br
	return math.Hypot(dq, dr)
}

// ConstructBuilding spends production to add a building to a settlement
// with a free slot.
func ConstructBuilding(gs *state.GameState, settlementID uint64, buildingType, playerID string) error {
	p, ok := gs.Players[playerID]
	if !ok {
		return apperr.New(apperr.NotFound, "unknown player")
	}
	if p.Eliminated {
		return apperr.New(apperr.Eliminated, "player eliminated")
	}
	s, ok := gs.Settlements[settlementID]
	if !ok {
		return apperr.New(apperr.NotFound, "unknown settlement")
	}
	if s.OwnerID != playerID {
		return apperr.New(apperr.Forbidden, "settlement not owned by caller")
	}
	if len(s.Buildings) >= s.BuildingSlots {
		return apperr.New(apperr.BadRequest, "no building slot available")
	}
	def, ok := staticdata.FindBuildingDef(buildingType)
	if !ok {
		return apperr.New(apperr.NotFound, "unknown building type")
	}
	if p.Resources["production"] < def.ProductionCost {
		return apperr.New(apperr.BadRequest, "insufficient production")
	}
	p.Resources["production"] -= def.ProductionCost
	s.Buildings = append(s.Buildings, buildingType)
	return nil
}

// runSettlements promotes settlements whose owner has accumulated enough
// food, healing them fully on promotion.
func runSettlements(gs *state.GameState) []state.GameEvent {
	var events []state.GameEvent
	for _, s := range gs.Settlements {
		owner, ok := gs.Players[s.OwnerID]
		if !ok || owner.Eliminated {
			continue
		}
		switch s.Tier {
		case staticdata.TierOutpost:
			if owner.Resources["food"] >= 200 {
				promote(s, staticdata.TierSettlement)
			}
		case staticdata.TierSettlement:
			if owner.Resources["food"] >= 500 {
				promote(s, staticdata.TierCity)
			}
		}
	}
	return events
}

func promote(s *state.Settlement, tier staticdata.SettlementTier) {
	stats := staticdata.StatsFor(tier)
	s.Tier = tier
	s.BuildingSlots = stats.BuildingSlots
	s.GatherRadius = stats.GatherRadius
	s.MaxHP = stats.MaxHP
	s.Defense = stats.Defense
	s.HP = s.MaxHP
}

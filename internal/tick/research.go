package tick

import (
	"github.com/talgya/hexrealm/internal/apperr"
	"github.com/talgya/hexrealm/internal/staticdata"
	"github.com/talgya/hexrealm/internal/state"
)

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

// StartResearch switches a player's active research to an available tech.
func StartResearch(gs *state.GameState, playerID, techID string) error {
	p, ok := gs.Players[playerID]
	if !ok {
		return apperr.New(apperr.NotFound, "unknown player")
	}
	if p.Eliminated {
		return apperr.New(apperr.Eliminated, "player eliminated")
	}
	if _, ok := staticdata.FindTech(techID); !ok {
		return apperr.New(apperr.NotFound, "unknown tech")
	}
	available := staticdata.GetAvailableTechs(p.ResearchedTechs, p.FactionID)
	found := false
	for _, t := range available {
		if t.ID == techID {
			found = true
			break
		}
	}
	if !found {
		return apperr.New(apperr.BadRequest, "tech unavailable")
	}
	p.CurrentResearch = techID
	p.ResearchProgress = 0
	return nil
}

// runResearch accumulates science toward the active tech and completes
// it once enough has been banked.
func runResearch(gs *state.GameState) []state.GameEvent {
	var events []state.GameEvent
	for _, pid := range gs.PlayerOrder {
		p := gs.Players[pid]
		if p.Eliminated || p.CurrentResearch == "" {
			continue
		}
		p.ResearchProgress += p.ResourceIncome["science"]
		tech, ok := staticdata.FindTech(p.CurrentResearch)
		if !ok {
			continue
		}
		if p.ResearchProgress >= tech.ScienceCost {
			p.ResearchedTechs = append(p.ResearchedTechs, p.CurrentResearch)
			completed := p.CurrentResearch
			p.CurrentResearch = ""
			p.ResearchProgress = 0
			events = append(events, state.NewEvent(KindTechResearched, gs.Tick, map[string]any{
				"techId": completed, "playerId": pid,
			}))
		}
	}
	return events
}

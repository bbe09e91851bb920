package tick

import (
	"github.com/talgya/hexrealm/internal/staticdata"
	"github.com/talgya/hexrealm/internal/state"
)

// runCheckElimination marks a player eliminated once they own no settlements.
func runCheckElimination(gs *state.GameState) []state.GameEvent {
	var events []state.GameEvent
	for _, pid := range gs.PlayerOrder {
		p := gs.Players[pid]
		if p.Eliminated {
			continue
		}
		owns := false
		for _, s := range gs.Settlements {
			if s.OwnerID == pid {
				owns = true
				break
			}
		}
		if !owns {
			p.Eliminated = true
			events = append(events, state.NewEvent(KindPlayerEliminated, gs.Tick, map[string]any{"playerId": pid}))
		}
	}
	return events
}

// runVictory runs elimination first, then checks for a win in priority
// order: a single surviving player wins outright; otherwise each
// remaining player is scanned in turn order for domination, prosperity,
// influence, then enlightenment.
func runVictory(gs *state.GameState) []state.GameEvent {
	events := runCheckElimination(gs)

	var alive []string
	for _, pid := range gs.PlayerOrder {
		if !gs.Players[pid].Eliminated {
			alive = append(alive, pid)
		}
	}
	if len(alive) == 1 {
		events = append(events, state.NewEvent(KindVictory, gs.Tick, map[string]any{
			"winnerId": alive[0], "victoryType": "last_standing",
		}))
		return events
	}
	if len(alive) == 0 {
		return events
	}

	totalCapitals := 0
	for _, s := range gs.Settlements {
		if s.IsCapital {
			totalCapitals++
		}
	}

	for _, pid := range gs.PlayerOrder {
		p := gs.Players[pid]
		if p.Eliminated {
			continue
		}
		if totalCapitals >= 1 && ownsAllCapitals(gs, pid, totalCapitals) {
			events = append(events, state.NewEvent(KindVictory, gs.Tick, map[string]any{"winnerId": pid, "victoryType": "domination"}))
			return events
		}
		if p.Resources["gold"] >= 10000 {
			events = append(events, state.NewEvent(KindVictory, gs.Tick, map[string]any{"winnerId": pid, "victoryType": "prosperity"}))
			return events
		}
		if p.Resources["culture"] >= 10000 {
			events = append(events, state.NewEvent(KindVictory, gs.Tick, map[string]any{"winnerId": pid, "victoryType": "influence"}))
			return events
		}
		if hasEnlightenment(p) {
			events = append(events, state.NewEvent(KindVictory, gs.Tick, map[string]any{"winnerId": pid, "victoryType": "enlightenment"}))
			return events
		}
	}
	return events
}

func ownsAllCapitals(gs *state.GameState, pid string, totalCapitals int) bool {
	owned := 0
	for _, s := range gs.Settlements {
		if s.IsCapital {
			if s.OwnerID != pid {
				return false
			}
			owned++
		}
	}
	return owned == totalCapitals
}

func hasEnlightenment(p *state.Player) bool {
	for _, t := range staticdata.Techs() {
		if t.FactionOnly != "" && t.FactionOnly != p.FactionID {
			continue
		}
		if !contains(p.ResearchedTechs, t.ID) {
			return false
		}
	}
	return true
}

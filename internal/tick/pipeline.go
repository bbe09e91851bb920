package tick

import (
	"github.com/talgya/hexrealm/internal/rng"
	"github.com/talgya/hexrealm/internal/state"
)

// ExecuteTick advances a game by one tick, running resources, unit AI,
// neutrals, movement, combat, settlement growth, research, advisor
// loyalty, fog, and victory checks in that fixed order. src is the
// injectable random source combat consumes; pass rng.Default() in
// production and a rng.Deterministic value in tests.
func ExecuteTick(gs *state.GameState, src rng.Source) []state.GameEvent {
	if gs.Paused {
		return nil
	}
	gs.Tick++

	var events []state.GameEvent
	events = append(events, runResources(gs)...)
	events = append(events, runUnitAI(gs)...)
	events = append(events, runNeutrals(gs)...)
	events = append(events, runBarbarianCamps(gs)...)
	events = append(events, runMovement(gs)...)
	events = append(events, runCombat(gs, src)...)
	events = append(events, runSettlements(gs)...)
	events = append(events, runResearch(gs)...)
	events = append(events, runAdvisorLoyalty(gs)...)
	events = append(events, runFog(gs)...)
	events = append(events, runVictory(gs)...)

	return events
}

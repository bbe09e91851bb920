package tick

import (
	"github.com/talgya/hexrealm/internal/state"
	"github.com/talgya/hexrealm/internal/worldmap"
)

var movableStates = map[state.UnitState]bool{
	state.UnitMoving:    true,
	state.UnitReturning: true,
	state.UnitGathering: true,
	state.UnitBuilding:  true,
}

// runMovement advances every moving unit along its pathfound route by
// its effective speed, accounting for road bonuses.
func runMovement(gs *state.GameState) []state.GameEvent {
	m := gs.Map()
	var events []state.GameEvent

	for _, u := range gs.Units {
		if !movableStates[u.State] || !u.HasTarget {
			continue
		}

		if u.Coord() == u.Target() {
			u.State = state.UnitIdle
			u.ClearTarget()
			continue
		}

		path := worldmap.ShortestPath(m, u.Coord(), u.Target())
		if len(path) <= 1 {
			continue
		}

		effectiveSpeed := u.MoveSpeed
		if imp, ok := gs.ImprovementAt(u.Coord()); ok && imp == state.ImprovementRoad {
			effectiveSpeed++
		}

		idx := effectiveSpeed
		if idx > len(path)-1 {
			idx = len(path) - 1
		}
		newPos := path[idx]

		if newPos != u.Coord() {
			u.Q, u.R = newPos.Q, newPos.R
			events = append(events, state.NewEvent(KindUnitMoved, gs.Tick, map[string]any{
				"unitId": u.ID, "q": u.Q, "r": u.R,
			}))
		}

		if u.Coord() == u.Target() {
			u.State = state.UnitIdle
			u.ClearTarget()
		}
	}
	return events
}

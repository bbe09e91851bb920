package tick

import (
	"github.com/talgya/hexrealm/internal/rng"
	"github.com/talgya/hexrealm/internal/state"
	"github.com/talgya/hexrealm/internal/worldmap"
)

func defenderTerrainMod(gs *state.GameState, c worldmap.Coord) float64 {
	m := gs.Map()
	if !m.InBounds(c) {
		return 1.0
	}
	switch worldmap.Coarse(m.TerrainAt(c)) {
	case 3:
		return 1 / 1.2
	case 5:
		return 1 / 1.3
	default:
		return 1.0
	}
}

func alliesWithin(gs *state.GameState, self *state.Unit, all []*state.Unit, dist int) int {
	count := 0
	for _, other := range all {
		if other.ID == self.ID || other.OwnerID != self.OwnerID {
			continue
		}
		if worldmap.Distance(self.Coord(), other.Coord()) <= dist {
			count++
		}
	}
	return count
}

func computeDamage(gs *state.GameState, attacker, defender *state.Unit, all []*state.Unit, src rng.Source) float64 {
	if attacker.Strength <= 0 {
		return 0
	}
	terrainMod := defenderTerrainMod(gs, defender.Coord())
	healthMod := attacker.HP / attacker.MaxHP
	groupMod := 1 + 0.1*float64(alliesWithin(gs, attacker, all, 2))
	randomFactor := rng.FloatIn(src, 0.8, 1.2)
	damage := attacker.Strength * terrainMod * healthMod * groupMod * randomFactor
	if damage < 1 {
		damage = 1
	}
	return damage
}

// runCombat resolves simultaneous damage between every adjacent hostile
// unit pair and removes units whose HP drops to zero.
func runCombat(gs *state.GameState, src rng.Source) []state.GameEvent {
	all := gs.AllUnits()
	var events []state.GameEvent

	type pairKey struct{ a, b uint64 }
	seen := map[pairKey]bool{}

	for _, a := range all {
		for _, b := range all {
			if a.ID == b.ID || a.OwnerID == b.OwnerID {
				continue
			}
			if worldmap.Distance(a.Coord(), b.Coord()) > 1 {
				continue
			}
			if a.Strength <= 0 || b.Strength <= 0 {
				continue
			}
			if !gs.IsHostile(a.OwnerID, b.OwnerID) {
				continue
			}
			lo, hi := a.ID, b.ID
			if lo > hi {
				lo, hi = hi, lo
			}
			key := pairKey{lo, hi}
			if seen[key] {
				continue
			}
			seen[key] = true

			dmgAB := computeDamage(gs, a, b, all, src)
			dmgBA := computeDamage(gs, b, a, all, src)

			b.HP -= dmgAB
			a.HP -= dmgBA

			events = append(events, state.NewEvent(KindCombatResult, gs.Tick, map[string]any{
				"attackerId": a.ID, "defenderId": b.ID, "damage": dmgAB, "killed": b.HP <= 0,
			}))
			events = append(events, state.NewEvent(KindCombatResult, gs.Tick, map[string]any{
				"attackerId": b.ID, "defenderId": a.ID, "damage": dmgBA, "killed": a.HP <= 0,
			}))
		}
	}

	removeDeadUnits(gs)

	return events
}

func removeDeadUnits(gs *state.GameState) {
	for id, u := range gs.Units {
		if u.HP <= 0 {
			delete(gs.Units, id)
		}
	}
	for id, u := range gs.NeutralUnits {
		if u.HP <= 0 {
			delete(gs.NeutralUnits, id)
		}
	}
}

package tick

import (
	"math"

	"github.com/talgya/hexrealm/internal/staticdata"
	"github.com/talgya/hexrealm/internal/state"
	"github.com/talgya/hexrealm/internal/worldmap"
)

// runUnitAI ticks hunger and safety, then decides each unit's next
// target by role, using the axial neighbour/distance convention
// throughout (never the mover's offset convention).
func runUnitAI(gs *state.GameState) []state.GameEvent {
	hostiles := gs.AllUnits()

	for _, pid := range gs.PlayerOrder {
		p := gs.Players[pid]
		if p.Eliminated {
			continue
		}
		faction, _ := staticdata.FindFaction(p.FactionID)

		for _, u := range gs.Units {
			if u.OwnerID != pid {
				continue
			}

			u.Hunger = math.Min(100, u.Hunger+1)
			u.Safety = recomputeSafety(u, hostiles, gs)

			if u.Hunger > 80 {
				target, ok := nearestOwnSettlementCoord(gs, pid, u.Coord())
				if ok {
					u.State = state.UnitReturning
					u.SetTarget(target)
				} else {
					u.State = state.UnitIdle
					u.ClearTarget()
				}
				continue
			}

			threshold := 20 * faction.AIModifiers.Safety * (1 - p.Policies.Aggression/200)
			if u.Safety < threshold {
				target := retreatTarget(u, hostiles, gs)
				if target == u.Coord() {
					u.State = state.UnitIdle
					u.ClearTarget()
				} else {
					u.State = state.UnitMoving
					u.SetTarget(target)
				}
				continue
			}

			decideByType(gs, pid, u, hostiles)
		}
	}

	runBuilderImprovements(gs)
	return nil
}

func recomputeSafety(u *state.Unit, all []*state.Unit, gs *state.GameState) float64 {
	safety := 100.0
	for _, other := range all {
		if other == u {
			continue
		}
		if !gs.IsHostile(u.OwnerID, other.OwnerID) {
			continue
		}
		dist := worldmap.Distance(u.Coord(), other.Coord())
		if dist > u.VisionRange {
			continue
		}
		ratio := other.Strength / math.Max(1, u.Strength)
		falloff := float64(u.VisionRange-dist+1) / float64(u.VisionRange)
		safety -= math.Round(ratio * 20 * falloff)
	}
	if safety < 0 {
		safety = 0
	}
	if safety > 100 {
		safety = 100
	}
	return safety
}

func nearestOwnSettlementCoord(gs *state.GameState, owner string, from worldmap.Coord) (worldmap.Coord, bool) {
	best := worldmap.Coord{}
	bestDist := math.MaxInt32
	found := false
	for _, s := range gs.Settlements {
		if s.OwnerID != owner {
			continue
		}
		c := worldmap.Coord{Q: s.Q, R: s.R}
		if d := worldmap.Distance(from, c); d < bestDist {
			best, bestDist, found = c, d, true
		}
	}
	return best, found
}

func retreatTarget(u *state.Unit, all []*state.Unit, gs *state.GameState) worldmap.Coord {
	var sumQ, sumR, n float64
	for _, other := range all {
		if !gs.IsHostile(u.OwnerID, other.OwnerID) {
			continue
		}
		if worldmap.Distance(u.Coord(), other.Coord()) > u.VisionRange {
			continue
		}
		sumQ += float64(other.Q)
		sumR += float64(other.R)
		n++
	}
	if n == 0 {
		return u.Coord()
	}
	meanQ, meanR := sumQ/n, sumR/n
	vq, vr := float64(u.Q)-meanQ, float64(u.R)-meanR
	length := math.Hypot(vq, vr)
	if length == 0 {
		return u.Coord()
	}
	scale := float64(u.MoveSpeed)
	nq := u.Q + int(math.Round(vq/length*scale))
	nr := u.R + int(math.Round(vr/length*scale))
	nq = clampInt(nq, 0, gs.MapWidth-1)
	nr = clampInt(nr, 0, gs.MapHeight-1)
	return worldmap.Coord{Q: nq, R: nr}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func decideByType(gs *state.GameState, pid string, u *state.Unit, hostiles []*state.Unit) {
	p := gs.Players[pid]
	switch u.Type {
	case staticdata.Scout:
		if target, ok := nearestUnexplored(p.FogMap, gs.MapWidth, gs.MapHeight, u.Coord()); ok {
			u.State = state.UnitMoving
			u.SetTarget(target)
		} else {
			u.State = state.UnitIdle
			u.ClearTarget()
		}

	case staticdata.Gatherer:
		if target, ok := nearestForestInOwnGatherRadius(gs, pid, u.Coord()); ok {
			u.State = state.UnitGathering
			u.SetTarget(target)
		} else if target, ok := anyLandInOwnGatherRadius(gs, pid, u.Coord()); ok {
			u.State = state.UnitGathering
			u.SetTarget(target)
		} else {
			u.State = state.UnitIdle
			u.ClearTarget()
		}

	case staticdata.Warrior:
		if target, ok := closestVisibleHostile(u, hostiles, gs); ok {
			u.State = state.UnitFighting
			u.SetTarget(target)
		} else if target, ok := patrolTile(gs, pid, u.Coord()); ok {
			u.State = state.UnitMoving
			u.SetTarget(target)
		} else {
			u.State = state.UnitIdle
			u.ClearTarget()
		}

	case staticdata.Settler:
		if target, ok := settleTarget(gs, u.Coord()); ok {
			u.State = state.UnitMoving
			u.SetTarget(target)
		} else {
			u.State = state.UnitIdle
			u.ClearTarget()
		}

	case staticdata.Builder:
		if target, ok := buildTarget(gs, pid, u.Coord()); ok {
			u.State = state.UnitBuilding
			u.SetTarget(target)
		} else {
			u.State = state.UnitIdle
			u.ClearTarget()
		}
	}
}

func nearestUnexplored(fog []state.FogValue, w, h int, from worldmap.Coord) (worldmap.Coord, bool) {
	best := worldmap.Coord{}
	bestDist := math.MaxInt32
	found := false
	for r := 0; r < h; r++ {
		for q := 0; q < w; q++ {
			if fog[r*w+q] != state.FogUnexplored {
				continue
			}
			c := worldmap.Coord{Q: q, R: r}
			if d := worldmap.Distance(from, c); d < bestDist {
				best, bestDist, found = c, d, true
			}
		}
	}
	return best, found
}

func ownSettlements(gs *state.GameState, owner string) []*state.Settlement {
	var out []*state.Settlement
	for _, s := range gs.Settlements {
		if s.OwnerID == owner {
			out = append(out, s)
		}
	}
	return out
}

func nearestForestInOwnGatherRadius(gs *state.GameState, owner string, from worldmap.Coord) (worldmap.Coord, bool) {
	m := gs.Map()
	best := worldmap.Coord{}
	bestDist := math.MaxInt32
	found := false
	for _, s := range ownSettlements(gs, owner) {
		center := worldmap.Coord{Q: s.Q, R: s.R}
		forEachInRadius(center, s.GatherRadius, m, func(c worldmap.Coord) {
			if worldmap.Coarse(m.TerrainAt(c)) != 3 {
				return
			}
			if d := worldmap.Distance(from, c); d < bestDist {
				best, bestDist, found = c, d, true
			}
		})
	}
	return best, found
}

func anyLandInOwnGatherRadius(gs *state.GameState, owner string, from worldmap.Coord) (worldmap.Coord, bool) {
	m := gs.Map()
	best := worldmap.Coord{}
	bestDist := math.MaxInt32
	found := false
	for _, s := range ownSettlements(gs, owner) {
		center := worldmap.Coord{Q: s.Q, R: s.R}
		forEachInRadius(center, s.GatherRadius, m, func(c worldmap.Coord) {
			if c == center || !m.Land(c) {
				return
			}
			if d := worldmap.Distance(from, c); d < bestDist {
				best, bestDist, found = c, d, true
			}
		})
	}
	return best, found
}

func forEachInRadius(center worldmap.Coord, radius int, m *worldmap.Map, fn func(worldmap.Coord)) {
	for dq := -radius; dq <= radius; dq++ {
		for dr := -radius; dr <= radius; dr++ {
			c := worldmap.Coord{Q: center.Q + dq, R: center.R + dr}
			if !m.InBounds(c) {
				continue
			}
			if worldmap.Distance(center, c) > radius {
				continue
			}
			fn(c)
		}
	}
}

func closestVisibleHostile(u *state.Unit, all []*state.Unit, gs *state.GameState) (worldmap.Coord, bool) {
	best := worldmap.Coord{}
	bestDist := math.MaxInt32
	found := false
	for _, other := range all {
		if other.ID == u.ID || !gs.IsHostile(u.OwnerID, other.OwnerID) {
			continue
		}
		d := worldmap.Distance(u.Coord(), other.Coord())
		if d > u.VisionRange {
			continue
		}
		if d < bestDist {
			best, bestDist, found = other.Coord(), d, true
		}
	}
	return best, found
}

func patrolTile(gs *state.GameState, owner string, from worldmap.Coord) (worldmap.Coord, bool) {
	m := gs.Map()
	settlement, ok := nearestOwnSettlementCoord(gs, owner, from)
	if !ok {
		return worldmap.Coord{}, false
	}
	best := worldmap.Coord{}
	bestDist := math.MaxInt32
	found := false
	forEachInRadius(settlement, 3, m, func(c worldmap.Coord) {
		if worldmap.Distance(settlement, c) != 3 || !m.Land(c) {
			return
		}
		if d := worldmap.Distance(from, c); d < bestDist {
			best, bestDist, found = c, d, true
		}
	})
	return best, found
}

func settleTarget(gs *state.GameState, from worldmap.Coord) (worldmap.Coord, bool) {
	m := gs.Map()
	best := worldmap.Coord{}
	bestDist := math.MaxInt32
	found := false
	for r := 0; r < gs.MapHeight; r++ {
		for q := 0; q < gs.MapWidth; q++ {
			c := worldmap.Coord{Q: q, R: r}
			if !m.Land(c) {
				continue
			}
			if !farFromAllSettlements(gs, c, 5) {
				continue
			}
			if d := worldmap.Distance(from, c); d < bestDist {
				best, bestDist, found = c, d, true
			}
		}
	}
	return best, found
}

func farFromAllSettlements(gs *state.GameState, c worldmap.Coord, minDist int) bool {
	for _, s := range gs.Settlements {
		if worldmap.Distance(c, worldmap.Coord{Q: s.Q, R: s.R}) < minDist {
			return false
		}
	}
	return true
}

func buildTarget(gs *state.GameState, owner string, from worldmap.Coord) (worldmap.Coord, bool) {
	m := gs.Map()
	best := worldmap.Coord{}
	bestDist := math.MaxInt32
	found := false
	for _, s := range ownSettlements(gs, owner) {
		center := worldmap.Coord{Q: s.Q, R: s.R}
		forEachInRadius(center, s.GatherRadius, m, func(c worldmap.Coord) {
			if !m.Land(c) {
				return
			}
			if _, exists := gs.ImprovementAt(c); exists {
				return
			}
			if d := worldmap.Distance(from, c); d < bestDist {
				best, bestDist, found = c, d, true
			}
		})
	}
	return best, found
}

// runBuilderImprovements finishes tile improvements that builders are
// currently working on.
func runBuilderImprovements(gs *state.GameState) {
	m := gs.Map()
	for _, u := range gs.Units {
		if u.Type != staticdata.Builder || u.State != state.UnitBuilding {
			continue
		}
		if !u.HasTarget || u.Coord() != u.Target() {
			continue
		}
		if _, exists := gs.ImprovementAt(u.Coord()); exists {
			u.State = state.UnitIdle
			u.ClearTarget()
			continue
		}
		var imp state.ImprovementType
		switch worldmap.Coarse(m.TerrainAt(u.Coord())) {
		case 3:
			imp = state.ImprovementFarm
		case 2:
			imp = state.ImprovementMine
		default:
			imp = state.ImprovementRoad
		}
		gs.SetImprovement(u.Coord(), imp)
		u.State = state.UnitIdle
		u.ClearTarget()
	}
}

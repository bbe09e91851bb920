package tick

import (
	"math"
	mathrand "math/rand"

	"github.com/talgya/hexrealm/internal/staticdata"
	"github.com/talgya/hexrealm/internal/state"
	"github.com/talgya/hexrealm/internal/worldmap"
)

// SpawnInitialNeutrals scatters wild animals on forest tiles and
// barbarian camps on distant land tiles. Called immediately after
// state.Create (see internal/state/create.go's doc comment).
func SpawnInitialNeutrals(gs *state.GameState) {
	seed := int64(gs.MapWidth)*int64(gs.MapHeight) + int64(gs.Tick)
	r := mathrand.New(mathrand.NewSource(seed))
	m := gs.Map()

	var forestTiles []worldmap.Coord
	for row := 0; row < gs.MapHeight; row++ {
		for q := 0; q < gs.MapWidth; q++ {
			c := worldmap.Coord{Q: q, R: row}
			if m.TerrainAt(c) == worldmap.Forest {
				forestTiles = append(forestTiles, c)
			}
		}
	}
	r.Shuffle(len(forestTiles), func(i, j int) { forestTiles[i], forestTiles[j] = forestTiles[j], forestTiles[i] })

	animalCount := 5 + r.Intn(6)
	if animalCount > len(forestTiles) {
		animalCount = len(forestTiles)
	}
	for i := 0; i < animalCount; i++ {
		spawnNeutral(gs, forestTiles[i], staticdata.Gatherer, state.NeutralAnimal, 3, 15, 2, 1)
	}

	var farLand []worldmap.Coord
	for row := 0; row < gs.MapHeight; row++ {
		for q := 0; q < gs.MapWidth; q++ {
			c := worldmap.Coord{Q: q, R: row}
			if !m.Land(c) {
				continue
			}
			if farFromAllSettlements(gs, c, 10) {
				farLand = append(farLand, c)
			}
		}
	}
	r.Shuffle(len(farLand), func(i, j int) { farLand[i], farLand[j] = farLand[j], farLand[i] })

	numCamps := 2 + r.Intn(2)
	for _, c := range farLand {
		if len(gs.BarbarianCamps) >= numCamps {
			break
		}
		if !farFromAllCamps(gs, c, 8) {
			continue
		}
		gs.BarbarianCamps = append(gs.BarbarianCamps, c)
		placeCampBarbarians(gs, m, c)
	}
}

func farFromAllCamps(gs *state.GameState, c worldmap.Coord, minDist int) bool {
	for _, camp := range gs.BarbarianCamps {
		if worldmap.Distance(c, camp) < minDist {
			return false
		}
	}
	return true
}

func placeCampBarbarians(gs *state.GameState, m *worldmap.Map, camp worldmap.Coord) {
	candidates := []worldmap.Coord{camp}
	neighbors := camp.Neighbors()
	candidates = append(candidates, neighbors[:]...)

	placed := 0
	for _, c := range candidates {
		if placed >= 2 {
			break
		}
		if !m.Land(c) {
			continue
		}
		spawnNeutral(gs, c, staticdata.Warrior, state.NeutralBarbarian, 8, 30, 3, 1)
		placed++
	}
}

func spawnNeutral(gs *state.GameState, c worldmap.Coord, unitType staticdata.UnitType, owner string, strength, hp float64, vision, move int) {
	u := &state.Unit{
		ID:          gs.NextUnitID(),
		Type:        unitType,
		OwnerID:     owner,
		Q:           c.Q,
		R:           c.R,
		HP:          hp,
		MaxHP:       hp,
		Strength:    strength,
		VisionRange: vision,
		MoveSpeed:   move,
		State:       state.UnitIdle,
	}
	gs.NeutralUnits[u.ID] = u
}

// runNeutrals steps every animal and barbarian one hex per tick,
// moving directly toward its current goal rather than through the
// movement system's BFS target mechanism.
func runNeutrals(gs *state.GameState) []state.GameEvent {
	all := gs.AllUnits()
	m := gs.Map()

	for _, u := range gs.NeutralUnits {
		if u.OwnerID == state.NeutralAnimal {
			tickAnimal(gs, u, all)
		} else {
			tickBarbarian(gs, u, all, m)
		}
	}
	return nil
}

func tickAnimal(gs *state.GameState, u *state.Unit, all []*state.Unit) {
	if u.HP >= u.MaxHP {
		u.State = state.UnitIdle
		return
	}
	if target, ok := nearestHostileWithin(gs, u, all, u.VisionRange); ok {
		u.State = state.UnitFighting
		step := stepToward(u.Coord(), target)
		if gs.Map().InBounds(step) {
			u.Q, u.R = step.Q, step.R
		}
		return
	}
	u.State = state.UnitIdle
}

func nearestHostileWithin(gs *state.GameState, u *state.Unit, all []*state.Unit, vision int) (worldmap.Coord, bool) {
	best := worldmap.Coord{}
	bestDist := math.MaxInt32
	found := false
	for _, other := range all {
		if other.ID == u.ID || other.OwnerID == u.OwnerID {
			continue
		}
		d := worldmap.Distance(u.Coord(), other.Coord())
		if d > vision {
			continue
		}
		if d < bestDist {
			best, bestDist, found = other.Coord(), d, true
		}
	}
	return best, found
}

func stepToward(from, to worldmap.Coord) worldmap.Coord {
	best := from
	bestDist := worldmap.Distance(from, to)
	for _, n := range from.Neighbors() {
		if d := worldmap.Distance(n, to); d < bestDist {
			best, bestDist = n, d
		}
	}
	return best
}

func tickBarbarian(gs *state.GameState, u *state.Unit, all []*state.Unit, m *worldmap.Map) {
	if target, ok := nearestHostileWithin(gs, u, all, u.VisionRange); ok {
		u.State = state.UnitFighting
		step := stepToward(u.Coord(), target)
		if m.InBounds(step) {
			u.Q, u.R = step.Q, step.R
		}
		return
	}
	if target, ok := nearestEnemySettlementWithin(gs, u, u.VisionRange); ok {
		u.State = state.UnitMoving
		step := stepToward(u.Coord(), target)
		if m.InBounds(step) {
			u.Q, u.R = step.Q, step.R
		}
		return
	}

	camp, ok := nearestCamp(gs, u.Coord())
	if !ok {
		u.State = state.UnitIdle
		return
	}
	if worldmap.Distance(u.Coord(), camp) >= 5 {
		step := stepToward(u.Coord(), camp)
		if m.InBounds(step) {
			u.Q, u.R = step.Q, step.R
		}
		return
	}

	dirs := u.Coord().Neighbors()
	idx := (int(gs.Tick) + u.Q*7 + u.R*13) % 6
	if idx < 0 {
		idx += 6
	}
	candidate := dirs[idx]
	if m.InBounds(candidate) && m.Land(candidate) && worldmap.Distance(candidate, camp) <= 5 {
		u.Q, u.R = candidate.Q, candidate.R
		u.State = state.UnitMoving
	} else {
		u.State = state.UnitIdle
	}
}

func nearestEnemySettlementWithin(gs *state.GameState, u *state.Unit, vision int) (worldmap.Coord, bool) {
	best := worldmap.Coord{}
	bestDist := math.MaxInt32
	found := false
	for _, s := range gs.Settlements {
		c := worldmap.Coord{Q: s.Q, R: s.R}
		d := worldmap.Distance(u.Coord(), c)
		if d > vision {
			continue
		}
		if d < bestDist {
			best, bestDist, found = c, d, true
		}
	}
	return best, found
}

func nearestCamp(gs *state.GameState, from worldmap.Coord) (worldmap.Coord, bool) {
	best := worldmap.Coord{}
	bestDist := math.MaxInt32
	found := false
	for _, c := range gs.BarbarianCamps {
		if d := worldmap.Distance(from, c); d < bestDist {
			best, bestDist, found = c, d, true
		}
	}
	return best, found
}

// runBarbarianCamps adds a camp every 50 ticks while fewer than 5 exist,
// at the land tile furthest from existing camps among those at least 8
// from every settlement and every camp.
func runBarbarianCamps(gs *state.GameState) []state.GameEvent {
	if gs.Tick%50 != 0 || len(gs.BarbarianCamps) >= 5 {
		return nil
	}
	m := gs.Map()
	var best worldmap.Coord
	bestScore := -1
	found := false
	for row := 0; row < gs.MapHeight; row++ {
		for q := 0; q < gs.MapWidth; q++ {
			c := worldmap.Coord{Q: q, R: row}
			if !m.Land(c) || !farFromAllSettlements(gs, c, 8) || !farFromAllCamps(gs, c, 8) {
				continue
			}
			score := minDistToCamps(gs, c)
			if score > bestScore {
				best, bestScore, found = c, score, true
			}
		}
	}
	if !found {
		return nil
	}
	gs.BarbarianCamps = append(gs.BarbarianCamps, best)
	placeCampBarbarians(gs, m, best)
	return nil
}

func minDistToCamps(gs *state.GameState, c worldmap.Coord) int {
	if len(gs.BarbarianCamps) == 0 {
		return math.MaxInt32
	}
	min := math.MaxInt32
	for _, camp := range gs.BarbarianCamps {
		if d := worldmap.Distance(c, camp); d < min {
			min = d
		}
	}
	return min
}

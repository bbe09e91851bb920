package state

import (
	"math"

	"github.com/talgya/hexrealm/internal/staticdata"
	"github.com/talgya/hexrealm/internal/worldmap"
)

// settlementNames is the fixed 20-entry pool cycled by index per §4.B
// step 3; the cycling index resets on every Create call.
var settlementNames = [20]string{
	"Ashford", "Bellmoor", "Cairnholt", "Dunmire", "Eldergate",
	"Fenwick", "Greywater", "Hollowmere", "Ironspire", "Jadeport",
	"Kestrelfall", "Larkhaven", "Millbrook", "Norwick", "Oakenvale",
	"Pinecrest", "Quarrow", "Redholt", "Stonebridge", "Thornwick",
}

// PlayerConfig is one entry of the players[] list supplied to Create.
type PlayerConfig struct {
	UserID    string
	FactionID string
}

// Config is the input to Create: a pre-generated map plus the roster
// of players joining the new game.
type Config struct {
	GameID    string
	MapWidth  int
	MapHeight int
	Terrain   []worldmap.Terrain
	Elevation []byte
	Players   []PlayerConfig
	Speed     float64
}

// Create builds a GameState per §4.B steps 1-5. Step 6 (spawning initial
// neutrals) is the tick pipeline's E.10 system and is invoked by the
// caller immediately after Create returns, to keep state's dependency
// direction one-way (tick depends on state, not the reverse).
func Create(cfg Config) *GameState {
	gs := &GameState{
		GameID:       cfg.GameID,
		Tick:         0,
		Paused:       false,
		Speed:        cfg.Speed,
		MapWidth:     cfg.MapWidth,
		MapHeight:    cfg.MapHeight,
		Terrain:      cfg.Terrain,
		Elevation:    cfg.Elevation,
		Players:      map[string]*Player{},
		Settlements:  map[uint64]*Settlement{},
		Units:        map[uint64]*Unit{},
		NeutralUnits: map[uint64]*Unit{},
		Improvements: map[string]ImprovementType{},
	}

	m := gs.Map()
	var spawns []worldmap.Coord
	nameIdx := 0

	for _, pc := range cfg.Players {
		p := newPlayer(pc.UserID, pc.FactionID, cfg.MapWidth, cfg.MapHeight)
		gs.Players[pc.UserID] = p
		gs.PlayerOrder = append(gs.PlayerOrder, pc.UserID)

		spawn := chooseSpawn(m, spawns)
		spawns = append(spawns, spawn)

		tier := staticdata.TierOutpost
		stats := staticdata.StatsFor(tier)
		settlement := &Settlement{
			ID:            gs.NextSettlementID(),
			OwnerID:       pc.UserID,
			Name:          settlementNames[nameIdx%len(settlementNames)],
			Tier:          tier,
			Q:             spawn.Q,
			R:             spawn.R,
			BuildingSlots: stats.BuildingSlots,
			GatherRadius:  stats.GatherRadius,
			IsCapital:     true,
			HP:            stats.MaxHP,
			MaxHP:         stats.MaxHP,
			Defense:       stats.Defense,
		}
		nameIdx++
		gs.Settlements[settlement.ID] = settlement

		revealDisc(p.FogMap, cfg.MapWidth, cfg.MapHeight, spawn, float64(stats.GatherRadius+1))
	}

	for i := 0; i < len(gs.PlayerOrder); i++ {
		for j := i + 1; j < len(gs.PlayerOrder); j++ {
			gs.Diplomacy = append(gs.Diplomacy, DiplomacyState{
				PlayerA: gs.PlayerOrder[i],
				PlayerB: gs.PlayerOrder[j],
				Status:  DiploPeace,
			})
		}
	}

	return gs
}

func innerFrameLand(m *worldmap.Map) []worldmap.Coord {
	var out []worldmap.Coord
	for r := 2; r < m.Height-2; r++ {
		for q := 2; q < m.Width-2; q++ {
			c := worldmap.Coord{Q: q, R: r}
			if m.Land(c) {
				out = append(out, c)
			}
		}
	}
	return out
}

func euclidean(a, b worldmap.Coord) float64 {
	dq := float64(a.Q - b.Q)
	dr := float64(a.R - b.R)
	return math.Hypot(dq, dr)
}

// chooseSpawn implements §4.B step 2's deterministic placement rule.
func chooseSpawn(m *worldmap.Map, existing []worldmap.Coord) worldmap.Coord {
	candidates := innerFrameLand(m)
	if len(candidates) == 0 {
		return worldmap.Coord{Q: m.Width / 2, R: m.Height / 2}
	}

	if len(existing) == 0 {
		target := worldmap.Coord{Q: m.Width / 4, R: m.Height / 4}
		best := candidates[0]
		bestDist := euclidean(best, target)
		for _, c := range candidates[1:] {
			if d := euclidean(c, target); d < bestDist {
				best, bestDist = c, d
			}
		}
		return best
	}

	best := candidates[0]
	bestMinDist := minDistanceTo(best, existing)
	for _, c := range candidates[1:] {
		d := minDistanceTo(c, existing)
		if d > bestMinDist {
			best, bestMinDist = c, d
		}
	}
	return best
}

func minDistanceTo(c worldmap.Coord, pts []worldmap.Coord) float64 {
	min := math.MaxFloat64
	for _, p := range pts {
		if d := euclidean(c, p); d < min {
			min = d
		}
	}
	return min
}

// revealDisc promotes every tile within Euclidean radius of center to
// visible, clamped to map bounds.
func revealDisc(fog []FogValue, width, height int, center worldmap.Coord, radius float64) {
	minQ, maxQ := clampRange(center.Q, radius, width)
	minR, maxR := clampRange(center.R, radius, height)
	for r := minR; r <= maxR; r++ {
		for q := minQ; q <= maxQ; q++ {
			c := worldmap.Coord{Q: q, R: r}
			if euclidean(c, center) <= radius {
				fog[r*width+q] = FogVisible
			}
		}
	}
}

func clampRange(center int, radius float64, limit int) (int, int) {
	lo := center - int(math.Ceil(radius))
	hi := center + int(math.Ceil(radius))
	if lo < 0 {
		lo = 0
	}
	if hi > limit-1 {
		hi = limit - 1
	}
	return lo, hi
}

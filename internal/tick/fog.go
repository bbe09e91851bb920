package tick

import (
	"math"

	"github.com/talgya/hexrealm/internal/state"
	"github.com/talgya/hexrealm/internal/worldmap"
)

// runFog demotes every player's visible tiles to explored, then
// re-promotes whatever their units and settlements currently see.
func runFog(gs *state.GameState) []state.GameEvent {
	for _, pid := range gs.PlayerOrder {
		p := gs.Players[pid]
		if p.Eliminated {
			continue
		}
		for i, v := range p.FogMap {
			if v == state.FogVisible {
				p.FogMap[i] = state.FogExplored
			}
		}
		for _, u := range gs.Units {
			if u.OwnerID == pid {
				revealDiscInto(p.FogMap, gs.MapWidth, gs.MapHeight, u.Coord(), float64(u.VisionRange))
			}
		}
		for _, s := range gs.Settlements {
			if s.OwnerID == pid {
				revealDiscInto(p.FogMap, gs.MapWidth, gs.MapHeight, worldmap.Coord{Q: s.Q, R: s.R}, float64(s.GatherRadius))
			}
		}
	}
	return nil
}

func revealDiscInto(fog []state.FogValue, width, height int, center worldmap.Coord, radius float64) {
	loQ, hiQ := clampWindow(center.Q, radius, width)
	loR, hiR := clampWindow(center.R, radius, height)
	for r := loR; r <= hiR; r++ {
		for q := loQ; q <= hiQ; q++ {
			dq, dr := float64(q-center.Q), float64(r-center.R)
			if math.Hypot(dq, dr) <= radius {
				fog[r*width+q] = state.FogVisible
			}
		}
	}
}

func clampWindow(center int, radius float64, limit int) (int, int) {
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

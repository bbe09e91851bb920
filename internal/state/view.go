package state

import (
	"github.com/talgya/hexrealm/internal/apperr"
	"github.com/talgya/hexrealm/internal/worldmap"
)

// ClientPlayerState is the fog-filtered projection returned by
// GetPlayerView.
type ClientPlayerState struct {
	Tick             uint64
	Paused           bool
	Speed            float64
	FactionID        string
	Resources        map[string]float64
	ResourceIncome   map[string]float64
	ResourceUpkeep   map[string]float64
	Advisors         [5]Advisor
	CurrentResearch  string
	ResearchProgress float64
	ResearchedTechs  []string
	PassedLaws       []string
	Policies         Policies
	Diplomacy        []DiplomacyState
	VisibleSettlements []Settlement
	VisibleUnits       []Unit
	FogMap             []FogValue
}

// GetPlayerView returns userId's fog-filtered view of the game: the
// player's own units and settlements, plus others only on tiles that
// player currently sees (explored tiles do not count).
func GetPlayerView(gs *GameState, userID string) (ClientPlayerState, error) {
	p, ok := gs.Players[userID]
	if !ok {
		return ClientPlayerState{}, apperr.New(apperr.NotFound, "unknown player "+userID)
	}

	fogCopy := make([]FogValue, len(p.FogMap))
	copy(fogCopy, p.FogMap)

	view := ClientPlayerState{
		Tick:             gs.Tick,
		Paused:           gs.Paused,
		Speed:            gs.Speed,
		FactionID:        p.FactionID,
		Resources:        copyFloatMap(p.Resources),
		ResourceIncome:   copyFloatMap(p.ResourceIncome),
		ResourceUpkeep:   copyFloatMap(p.ResourceUpkeep),
		Advisors:         p.Advisors,
		CurrentResearch:  p.CurrentResearch,
		ResearchProgress: p.ResearchProgress,
		ResearchedTechs:  append([]string(nil), p.ResearchedTechs...),
		PassedLaws:       append([]string(nil), p.PassedLaws...),
		Policies:         p.Policies,
		Diplomacy:        append([]DiplomacyState(nil), gs.Diplomacy...),
		FogMap:           fogCopy,
	}

	for _, s := range gs.Settlements {
		if s.OwnerID == userID || isVisibleTile(p, gs, s.Q, s.R) {
			view.VisibleSettlements = append(view.VisibleSettlements, *s)
		}
	}
	for _, u := range gs.Units {
		if u.OwnerID == userID || isVisibleTile(p, gs, u.Q, u.R) {
			view.VisibleUnits = append(view.VisibleUnits, *u)
		}
	}
	for _, u := range gs.NeutralUnits {
		if isVisibleTile(p, gs, u.Q, u.R) {
			view.VisibleUnits = append(view.VisibleUnits, *u)
		}
	}

	return view, nil
}

func isVisibleTile(p *Player, gs *GameState, q, r int) bool {
	c := worldmap.Coord{Q: q, R: r}
	if !gs.Map().InBounds(c) {
		return false
	}
	idx := r*gs.MapWidth + q
	return p.FogMap[idx] == FogVisible
}

func copyFloatMap(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

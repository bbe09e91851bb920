package tick

import (
	"github.com/talgya/hexrealm/internal/apperr"
	"github.com/talgya/hexrealm/internal/staticdata"
	"github.com/talgya/hexrealm/internal/state"
)

type Vote struct {
	Advisor string
	Yes     bool
	Reason  string
}

// LawResult is returned by ProposeLaw.
type LawResult struct {
	Passed bool
	Votes  []Vote
	LawID  string
}

func loyaltyBand(loyalty float64) string {
	switch {
	case loyalty >= 70:
		return "high"
	case loyalty < 30:
		return "low"
	default:
		return "mid"
	}
}

func countOwnWarriors(gs *state.GameState, playerID string) int {
	n := 0
	for _, u := range gs.Units {
		if u.OwnerID == playerID && u.Type == staticdata.Warrior {
			n++
		}
	}
	return n
}

func playerAtWar(gs *state.GameState, playerID string) bool {
	for _, d := range gs.Diplomacy {
		if (d.PlayerA == playerID || d.PlayerB == playerID) && d.Status == state.DiploWar {
			return true
		}
	}
	return false
}

func reducesScience(law staticdata.Law) bool {
	for _, e := range law.Effects {
		if e.Kind == staticdata.EffectResourceModifier && e.Resource == "science" && e.Value < 1 {
			return true
		}
	}
	return false
}

func voteGeneral(gs *state.GameState, p *state.Player, law staticdata.Law, loyalty float64) Vote {
	band := loyaltyBand(loyalty)
	strongArmy := countOwnWarriors(gs, p.UserID) >= 3
	switch {
	case band == "high":
		return Vote{"general", true, "high loyalty"}
	case band == "low":
		return Vote{"general", false, "low loyalty"}
	case law.Branch == staticdata.BranchMilitary && strongArmy:
		return Vote{"general", true, "military branch, strong army"}
	case law.Branch == staticdata.BranchMilitary:
		return Vote{"general", false, "military branch, weak army"}
	default:
		return Vote{"general", true, "mid loyalty, non-military"}
	}
}

func voteTreasurer(p *state.Player, law staticdata.Law, loyalty float64) Vote {
	if loyaltyBand(loyalty) == "low" {
		return Vote{"treasurer", false, "low loyalty"}
	}
	if p.Resources["gold"] <= 0 {
		return Vote{"treasurer", false, "no gold"}
	}
	return Vote{"treasurer", true, "solvent"}
}

func votePriest(p *state.Player, law staticdata.Law, loyalty float64) Vote {
	if loyaltyBand(loyalty) == "low" {
		return Vote{"priest", false, "low loyalty"}
	}
	if law.Branch == staticdata.BranchMilitary {
		return Vote{"priest", false, "military branch"}
	}
	if p.ResourceIncome["culture"] > 0 {
		return Vote{"priest", true, "culture income positive"}
	}
	return Vote{"priest", false, "no culture income"}
}

func voteScholar(law staticdata.Law, loyalty float64) Vote {
	if loyaltyBand(loyalty) == "low" {
		return Vote{"scholar", false, "low loyalty"}
	}
	if reducesScience(law) && loyalty < 90 {
		return Vote{"scholar", false, "reduces science"}
	}
	return Vote{"scholar", true, "no science concern"}
}

func voteTribune(gs *state.GameState, p *state.Player, loyalty float64) Vote {
	if loyaltyBand(loyalty) == "low" {
		return Vote{"tribune", false, "low loyalty"}
	}
	if p.Resources["food"] <= 0 {
		return Vote{"tribune", false, "no food"}
	}
	if playerAtWar(gs, p.UserID) && loyalty < 70 {
		return Vote{"tribune", false, "at war"}
	}
	return Vote{"tribune", true, "stable"}
}

// ProposeLaw validates and prices a law, puts it to the five advisors
// for a vote, and applies its effects if at least three vote yes.
func ProposeLaw(gs *state.GameState, playerID, lawID string, targetPlayerID string) (LawResult, error) {
	p, ok := gs.Players[playerID]
	if !ok {
		return LawResult{}, apperr.New(apperr.NotFound, "unknown player")
	}
	if p.Eliminated {
		return LawResult{}, apperr.New(apperr.Eliminated, "player eliminated")
	}
	law, ok := staticdata.FindLaw(lawID)
	if !ok {
		return LawResult{}, apperr.New(apperr.NotFound, "unknown law")
	}
	available := staticdata.GetAvailableLaws(p.PassedLaws, p.FactionID)
	found := false
	for _, l := range available {
		if l.ID == lawID {
			found = true
		}
	}
	if !found {
		return LawResult{}, apperr.New(apperr.BadRequest, "law unavailable")
	}
	if p.Resources["culture"] < law.CultureCost {
		return LawResult{}, apperr.New(apperr.BadRequest, "insufficient culture")
	}

	// Culture is spent on the proposal itself, win or lose.
	p.Resources["culture"] -= law.CultureCost

	votes := []Vote{
		voteGeneral(gs, p, law, p.Advisor("general").Loyalty),
		voteTreasurer(p, law, p.Advisor("treasurer").Loyalty),
		votePriest(p, law, p.Advisor("priest").Loyalty),
		voteScholar(law, p.Advisor("scholar").Loyalty),
		voteTribune(gs, p, p.Advisor("tribune").Loyalty),
	}

	yesCount := 0
	for _, v := range votes {
		if v.Yes {
			yesCount++
		}
	}
	passed := yesCount >= 3

	if passed {
		p.PassedLaws = append(p.PassedLaws, lawID)
		applyLawEffects(gs, p, law, targetPlayerID)
	}

	return LawResult{Passed: passed, Votes: votes, LawID: lawID}, nil
}

func applyLawEffects(gs *state.GameState, p *state.Player, law staticdata.Law, targetPlayerID string) {
	for _, e := range law.Effects {
		switch e.Kind {
		case staticdata.EffectLoyaltyChange:
			if e.Advisor == "" {
				for i := range p.Advisors {
					p.Advisors[i].Loyalty = clampFloat(p.Advisors[i].Loyalty+e.Value, 0, 100)
				}
			} else if a := p.Advisor(e.Advisor); a != nil {
				a.Loyalty = clampFloat(a.Loyalty+e.Value, 0, 100)
			}
		case staticdata.EffectDiplomacyChange:
			if targetPlayerID == "" {
				continue
			}
			if e.Target != "peace" && e.Target != "tension" && e.Target != "war" {
				continue
			}
			if d, ok := gs.DiplomacyBetween(p.UserID, targetPlayerID); ok {
				d.Status = state.DiplomacyStatus(e.Target)
			}
		// resource_modifier / unit_modifier / settlement_modifier / special
		// are recorded via PassedLaws only; no system consumes them yet.
		default:
		}
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// runAdvisorLoyalty raises an advisor's loyalty by one per tick while
// that advisor's condition holds (general: 3+ warriors, treasurer: gold,
// priest: culture income, scholar: active research, tribune: food).
// Loyalty is never lowered here when a condition does not hold.
func runAdvisorLoyalty(gs *state.GameState) []state.GameEvent {
	for _, pid := range gs.PlayerOrder {
		p := gs.Players[pid]
		if p.Eliminated {
			continue
		}
		if countOwnWarriors(gs, pid) >= 3 {
			bump(p, "general")
		}
		if p.Resources["gold"] > 0 {
			bump(p, "treasurer")
		}
		if p.ResourceIncome["culture"] > 0 {
			bump(p, "priest")
		}
		if p.CurrentResearch != "" {
			bump(p, "scholar")
		}
		if p.Resources["food"] > 0 {
			bump(p, "tribune")
		}
	}
	return nil
}

func bump(p *state.Player, advisor string) {
	if a := p.Advisor(advisor); a != nil {
		a.Loyalty = clampFloat(a.Loyalty+1, 0, 100)
	}
}

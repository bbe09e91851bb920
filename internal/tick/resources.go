package tick

import (
	"github.com/talgya/hexrealm/internal/staticdata"
	"github.com/talgya/hexrealm/internal/state"
)

var resourceNames = []string{"food", "production", "gold", "science", "culture"}

// runResources accumulates building income, applies faction resource
// modifiers, and subtracts unit food upkeep for every active player.
func runResources(gs *state.GameState) []state.GameEvent {
	for _, pid := range gs.PlayerOrder {
		p := gs.Players[pid]
		if p.Eliminated {
			continue
		}

		income := map[string]float64{}
		for _, s := range gs.Settlements {
			if s.OwnerID != pid {
				continue
			}
			for _, b := range s.Buildings {
				def, ok := staticdata.FindBuildingDef(b)
				if !ok {
					continue
				}
				for res, amt := range def.Income {
					income[res] += amt
				}
			}
		}
		faction, _ := staticdata.FindFaction(p.FactionID)
		for _, res := range resourceNames {
			if mod, ok := faction.ResourceModifiers[res]; ok {
				income[res] *= mod
			}
		}

		foodUpkeep := 0.0
		for _, u := range gs.Units {
			if u.OwnerID == pid {
				def, ok := staticdata.FindUnitDef(u.Type)
				if ok {
					foodUpkeep += def.FoodUpkeep
				}
			}
		}

		p.ResourceIncome = income
		p.ResourceUpkeep = map[string]float64{"food": foodUpkeep}

		for _, res := range resourceNames {
			p.Resources[res] += income[res]
		}
		p.Resources["food"] -= foodUpkeep

		if p.Resources["food"] < 0 {
			for _, u := range gs.Units {
				if u.OwnerID == pid && u.MoveSpeed > 1 {
					u.MoveSpeed--
				}
			}
		}
	}
	return nil
}

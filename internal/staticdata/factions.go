// Package staticdata holds every read-only lookup table the core
// consults: factions, unit types, buildings, settlement tiers, the tech
// tree and the law tree. Nothing in this package mutates at runtime.
package staticdata

// Faction is a selectable player archetype with fixed AI and resource
// modifiers.
type Faction struct {
	ID                string
	Name              string
	ResourceModifiers map[string]float64
	AIModifiers       AIModifiers
}

// AIModifiers bias a faction's unit-AI decision thresholds.
type AIModifiers struct {
	Safety     float64
	Aggression float64
	Expansion  float64
}

var factions = []Faction{
	{
		ID:   "crown",
		Name: "The Crown",
		ResourceModifiers: map[string]float64{
			"gold": 1.15, "culture": 1.0,
		},
		AIModifiers: AIModifiers{Safety: 0.5, Aggression: 0.4, Expansion: 0.6},
	},
	{
		ID:   "compact",
		Name: "Merchant's Compact",
		ResourceModifiers: map[string]float64{
			"gold": 1.3, "production": 0.9,
		},
		AIModifiers: AIModifiers{Safety: 0.6, Aggression: 0.2, Expansion: 0.7},
	},
	{
		ID:   "brotherhood",
		Name: "Iron Brotherhood",
		ResourceModifiers: map[string]float64{
			"production": 1.25, "science": 0.85,
		},
		AIModifiers: AIModifiers{Safety: 0.3, Aggression: 0.8, Expansion: 0.5},
	},
	{
		ID:   "circle",
		Name: "Verdant Circle",
		ResourceModifiers: map[string]float64{
			"food": 1.2, "culture": 1.1,
		},
		AIModifiers: AIModifiers{Safety: 0.7, Aggression: 0.2, Expansion: 0.4},
	},
	{
		ID:   "path",
		Name: "Ashen Path",
		ResourceModifiers: map[string]float64{
			"science": 1.2, "gold": 0.9,
		},
		AIModifiers: AIModifiers{Safety: 0.4, Aggression: 0.6, Expansion: 0.6},
	},
}

// Factions returns every playable faction.
func Factions() []Faction {
	out := make([]Faction, len(factions))
	copy(out, factions)
	return out
}

// FindFaction looks a faction up by id.
func FindFaction(id string) (Faction, bool) {
	for _, f := range factions {
		if f.ID == id {
			return f, true
		}
	}
	return Faction{}, false
}

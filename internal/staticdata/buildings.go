package staticdata

// BuildingDef is a constructable building row: production cost and the
// per-tick resource income it grants once built.
type BuildingDef struct {
	Type           string
	ProductionCost float64
	Income         map[string]float64 // resource -> amount per tick
}

var buildingDefs = map[string]BuildingDef{
	"farm":       {Type: "farm", ProductionCost: 20, Income: map[string]float64{"food": 6}},
	"mine":       {Type: "mine", ProductionCost: 30, Income: map[string]float64{"production": 5}},
	"market":     {Type: "market", ProductionCost: 25, Income: map[string]float64{"gold": 5}},
	"library":    {Type: "library", ProductionCost: 35, Income: map[string]float64{"science": 4}},
	"temple":     {Type: "temple", ProductionCost: 30, Income: map[string]float64{"culture": 4}},
	"barracks":   {Type: "barracks", ProductionCost: 40, Income: map[string]float64{}},
	"walls":      {Type: "walls", ProductionCost: 45, Income: map[string]float64{}},
	"granary":    {Type: "granary", ProductionCost: 20, Income: map[string]float64{"food": 3}},
	"workshop":   {Type: "workshop", ProductionCost: 35, Income: map[string]float64{"production": 3}},
	"amphitheat": {Type: "amphitheat", ProductionCost: 30, Income: map[string]float64{"culture": 3}},
}

func FindBuildingDef(t string) (BuildingDef, bool) {
	d, ok := buildingDefs[t]
	return d, ok
}

package staticdata

// UnitType identifies one of the five playable unit kinds.
type UnitType string

const (
	Scout    UnitType = "scout"
	Gatherer UnitType = "gatherer"
	Warrior  UnitType = "warrior"
	Settler  UnitType = "settler"
	Builder  UnitType = "builder"
)

// UnitDef is the static stat row buyUnit consults.
type UnitDef struct {
	Type           UnitType
	GoldCost       float64
	ProductionCost float64
	RequiresBldg   string // "" if none, else a building type that must exist
	MaxHP          float64
	Strength       float64
	VisionRange    int
	MoveSpeed      int
	FoodUpkeep     float64
}

var unitDefs = map[UnitType]UnitDef{
	Scout:    {Type: Scout, GoldCost: 20, ProductionCost: 10, MaxHP: 10, Strength: 0, VisionRange: 3, MoveSpeed: 2, FoodUpkeep: 1},
	Gatherer: {Type: Gatherer, GoldCost: 15, ProductionCost: 15, MaxHP: 15, Strength: 2, VisionRange: 2, MoveSpeed: 1, FoodUpkeep: 1},
	Warrior:  {Type: Warrior, GoldCost: 40, ProductionCost: 30, RequiresBldg: "barracks", MaxHP: 30, Strength: 10, VisionRange: 2, MoveSpeed: 1, FoodUpkeep: 2},
	Settler:  {Type: Settler, GoldCost: 60, ProductionCost: 40, MaxHP: 20, Strength: 0, VisionRange: 2, MoveSpeed: 1, FoodUpkeep: 2},
	Builder:  {Type: Builder, GoldCost: 25, ProductionCost: 20, MaxHP: 12, Strength: 1, VisionRange: 2, MoveSpeed: 1, FoodUpkeep: 1},
}

func FindUnitDef(t UnitType) (UnitDef, bool) {
	d, ok := unitDefs[t]
	return d, ok
}

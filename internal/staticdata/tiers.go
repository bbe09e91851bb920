package staticdata

// SettlementTier is one of the three growth stages.
type SettlementTier string

const (
	TierOutpost    SettlementTier = "outpost"
	TierSettlement SettlementTier = "settlement"
	TierCity       SettlementTier = "city"
)

// TierStats are the derived numbers refreshed on growth.
type TierStats struct {
	BuildingSlots int
	GatherRadius  int
	MaxHP         float64
	Defense       float64
}

var tierStats = map[SettlementTier]TierStats{
	TierOutpost:    {BuildingSlots: 2, GatherRadius: 2, MaxHP: 20, Defense: 2},
	TierSettlement: {BuildingSlots: 4, GatherRadius: 3, MaxHP: 50, Defense: 5},
	TierCity:       {BuildingSlots: 7, GatherRadius: 4, MaxHP: 120, Defense: 10},
}

func StatsFor(t SettlementTier) TierStats { return tierStats[t] }

// Next returns the growth target for t, and whether t can grow further.
func Next(t SettlementTier) (SettlementTier, bool) {
	switch t {
	case TierOutpost:
		return TierSettlement, true
	case TierSettlement:
		return TierCity, true
	default:
		return TierCity, false
	}
}

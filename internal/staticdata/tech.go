package staticdata

// Tech is one row of the tech tree. FactionOnly, when set, restricts the
// tech to one faction; such techs are faction-branch techs and carry
// Epoch 0, exempting them from the common-epoch gating rule.
type Tech struct {
	ID             string
	Epoch          int
	ScienceCost    float64
	Requires       []string
	FactionOnly    string
	ScienceMult    float64 // 1.0 = no change; no system reads it (the scholar's vote looks at law effects)
}

var techs = []Tech{
	{ID: "agriculture", Epoch: 1, ScienceCost: 20, ScienceMult: 1.0},
	{ID: "bronze_working", Epoch: 1, ScienceCost: 25, ScienceMult: 1.0},
	{ID: "pottery", Epoch: 1, ScienceCost: 20, ScienceMult: 1.0},
	{ID: "writing", Epoch: 1, ScienceCost: 30, ScienceMult: 1.0},

	{ID: "currency", Epoch: 2, ScienceCost: 45, Requires: []string{"bronze_working"}, ScienceMult: 1.0},
	{ID: "philosophy", Epoch: 2, ScienceCost: 50, Requires: []string{"writing"}, ScienceMult: 1.0},
	{ID: "masonry", Epoch: 2, ScienceCost: 40, Requires: []string{"agriculture"}, ScienceMult: 1.0},
	{ID: "irrigation", Epoch: 2, ScienceCost: 40, Requires: []string{"pottery"}, ScienceMult: 1.0},

	{ID: "mathematics", Epoch: 3, ScienceCost: 70, Requires: []string{"currency"}, ScienceMult: 1.0},
	{ID: "theology", Epoch: 3, ScienceCost: 75, Requires: []string{"philosophy"}, ScienceMult: 0.9},
	{ID: "engineering", Epoch: 3, ScienceCost: 80, Requires: []string{"masonry"}, ScienceMult: 1.0},

	// Faction-branch techs carry Epoch 0 and are exempt from epoch gating.
	{ID: "ironclad_doctrine", Epoch: 0, ScienceCost: 35, FactionOnly: "brotherhood", ScienceMult: 1.0},
	{ID: "merchant_guilds", Epoch: 0, ScienceCost: 35, FactionOnly: "compact", ScienceMult: 1.0},
}

func Techs() []Tech {
	out := make([]Tech, len(techs))
	copy(out, techs)
	return out
}

func FindTech(id string) (Tech, bool) {
	for _, t := range techs {
		if t.ID == id {
			return t, true
		}
	}
	return Tech{}, false
}

func techsOfEpoch(epoch int) []Tech {
	var out []Tech
	for _, t := range techs {
		if t.Epoch == epoch {
			out = append(out, t)
		}
	}
	return out
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

// GetAvailableTechs returns every tech that can currently be started.
func GetAvailableTechs(researched []string, faction string) []Tech {
	var out []Tech
	for _, t := range techs {
		if contains(researched, t.ID) {
			continue
		}
		if t.FactionOnly != "" && t.FactionOnly != faction {
			continue
		}
		ok := true
		for _, req := range t.Requires {
			if !contains(researched, req) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		if t.Epoch >= 2 {
			prevEpoch := techsOfEpoch(t.Epoch - 1)
			count := 0
			for _, pt := range prevEpoch {
				if pt.FactionOnly == "" && contains(researched, pt.ID) {
					count++
				}
			}
			if count < 3 {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

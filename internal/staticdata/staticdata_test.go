package staticdata

import "testing"

func TestGetAvailableTechsRequiresPrereq(t *testing.T) {
	avail := GetAvailableTechs(nil, "crown")
	for _, tech := range avail {
		if tech.ID == "currency" {
			t.Fatal("currency should not be available before bronze_working is researched")
		}
	}
}

func TestGetAvailableTechsEpochGating(t *testing.T) {
	researched := []string{"currency", "bronze_working"}
	avail := GetAvailableTechs(researched, "crown")
	for _, tech := range avail {
		if tech.ID == "mathematics" {
			t.Fatal("mathematics (epoch 3) should require >=3 epoch-2 techs researched")
		}
	}
}

func TestGetAvailableTechsFactionBranchExempt(t *testing.T) {
	avail := GetAvailableTechs(nil, "brotherhood")
	found := false
	for _, tech := range avail {
		if tech.ID == "ironclad_doctrine" {
			found = true
		}
	}
	if !found {
		t.Fatal("faction branch tech should be available to its own faction with no prior research")
	}
}

func TestGetAvailableLawsExcludesPassed(t *testing.T) {
	avail := GetAvailableLaws([]string{"taxation"}, "crown")
	for _, l := range avail {
		if l.ID == "taxation" {
			t.Fatal("passed law should not reappear as available")
		}
	}
}

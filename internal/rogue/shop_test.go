package rogue

import (
	"math/rand"
	"testing"
	"time"
)

func TestInventoryExcludesOwnedPermanents(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	exclude := []string{ItemEfficientNavigator, ItemSpeedReader}

	for i := 0; i < 50; i++ {
		offer := Inventory(rng, 4, exclude)
		if len(offer) != 4 {
			t.Fatalf("offer size = %d, want 4", len(offer))
		}
		for _, it := range offer {
			if it.ID == ItemEfficientNavigator || it.ID == ItemSpeedReader {
				t.Fatalf("excluded item %s was offered", it.ID)
			}
		}
	}
}

func TestBonusClicks(t *testing.T) {
	s := NewState()
	if got := BonusClicks(s, 3); got != 0 {
		t.Errorf("no upgrades: bonus = %d, want 0", got)
	}

	nav, _ := GetItem(ItemEfficientNavigator)
	s.AddItem(nav)
	if got := BonusClicks(s, 0); got != 2 {
		t.Errorf("efficientNavigator: bonus = %d, want 2", got)
	}

	puppets, _ := GetItem(ItemMasterOfPuppets)
	s.AddItem(puppets)
	if got := BonusClicks(s, 3); got != 8 {
		t.Errorf("both upgrades, 3 mods: bonus = %d, want 8", got)
	}
}

func TestEffectiveTimeLimit(t *testing.T) {
	s := NewState()
	if got := EffectiveTimeLimit(s, 60*time.Second); got != 60*time.Second {
		t.Errorf("no speedReader: limit = %v, want 60s", got)
	}
	reader, _ := GetItem(ItemSpeedReader)
	s.AddItem(reader)
	if got := EffectiveTimeLimit(s, 60*time.Second); got != 75*time.Second {
		t.Errorf("speedReader: limit = %v, want 75s", got)
	}
}

func TestEffectiveDisabledLinks(t *testing.T) {
	s := NewState()
	if got := EffectiveDisabledLinks(s, 30, 20); got != 30 {
		t.Errorf("no readingGlasses: disabled = %d, want 30", got)
	}

	glasses, _ := GetItem(ItemReadingGlasses)
	s.AddItem(glasses)
	if got := EffectiveDisabledLinks(s, 30, 20); got != 15 {
		t.Errorf("readingGlasses, 20 links: disabled = %d, want 15", got)
	}
	if got := EffectiveDisabledLinks(s, 10, 40); got != 10 {
		t.Errorf("readingGlasses, plenty of links: disabled = %d, want 10", got)
	}
	if got := EffectiveDisabledLinks(s, 10, 3); got != 0 {
		t.Errorf("readingGlasses, 3 links: disabled = %d, want 0", got)
	}
}

func TestCatalogShape(t *testing.T) {
	if len(Items) != 8 {
		t.Fatalf("catalog has %d items, want 8", len(Items))
	}
	permanents, consumables := 0, 0
	for _, it := range Items {
		if it.Permanent {
			permanents++
		} else {
			consumables++
		}
		if it.Cost <= 0 {
			t.Errorf("%s: cost %d", it.ID, it.Cost)
		}
	}
	if permanents != 4 || consumables != 4 {
		t.Errorf("got %d permanent / %d consumable, want 4/4", permanents, consumables)
	}
}

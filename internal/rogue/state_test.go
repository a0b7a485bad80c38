package rogue

import "testing"

func TestResetRestoresInitialValues(t *testing.T) {
	s := NewState()
	s.CurrentStage = 7
	s.ClickBalance = 3
	s.TotalScore = 900
	s.WikiPoints = 12
	s.AddModifier(Modifiers[0])
	s.AddItem(Items[0])
	s.AddItem(Items[4])
	s.AddVisitedPage("France")

	s.Reset()

	if s.CurrentStage != 1 {
		t.Errorf("stage = %d, want 1", s.CurrentStage)
	}
	if s.ClickBalance != StartingBalance {
		t.Errorf("balance = %d, want %d", s.ClickBalance, StartingBalance)
	}
	if s.TotalScore != 0 || s.WikiPoints != 0 {
		t.Errorf("scores = %d/%d, want 0/0", s.TotalScore, s.WikiPoints)
	}
	if len(s.ActiveModifiers) != 0 || len(s.OwnedItems) != 0 || len(s.PermanentUpgrades) != 0 || len(s.VisitedPages) != 0 {
		t.Error("collections not emptied on reset")
	}
	if s.ClicksAtStageStart != StartingBalance {
		t.Errorf("clicksAtStageStart = %d, want %d", s.ClicksAtStageStart, StartingBalance)
	}
}

func TestItemRouting(t *testing.T) {
	s := NewState()

	second, _ := GetItem(ItemSecondChance)
	nav, _ := GetItem(ItemEfficientNavigator)
	s.AddItem(second)
	s.AddItem(nav)

	if len(s.OwnedItems) != 1 || s.OwnedItems[0].ID != ItemSecondChance {
		t.Errorf("consumable not routed to OwnedItems: %v", s.OwnedItems)
	}
	if len(s.PermanentUpgrades) != 1 || s.PermanentUpgrades[0].ID != ItemEfficientNavigator {
		t.Errorf("permanent not routed to PermanentUpgrades: %v", s.PermanentUpgrades)
	}

	if !s.HasItem(ItemSecondChance) || !s.HasItem(ItemEfficientNavigator) {
		t.Error("HasItem should see both collections")
	}

	s.RemoveItem(ItemSecondChance)
	if s.HasItem(ItemSecondChance) {
		t.Error("consumable not removed")
	}

	// RemoveItem must not touch permanent upgrades.
	s.RemoveItem(ItemEfficientNavigator)
	if !s.HasUpgrade(ItemEfficientNavigator) {
		t.Error("permanent upgrade must survive RemoveItem")
	}
}

func TestVisitedPagesSetSemantics(t *testing.T) {
	s := NewState()
	s.AddVisitedPage("France")
	s.AddVisitedPage("Paris")
	s.AddVisitedPage("France")

	if len(s.VisitedPages) != 2 {
		t.Errorf("visited = %v, want 2 distinct entries", s.VisitedPages)
	}
	if !s.HasVisited("Paris") || s.HasVisited("Helsinki") {
		t.Error("HasVisited mismatch")
	}

	s.ClearVisitedPages()
	if len(s.VisitedPages) != 0 {
		t.Error("ClearVisitedPages did not empty the set")
	}
}

func TestRemoveLastModifier(t *testing.T) {
	s := NewState()
	if _, ok := s.RemoveLastModifier(); ok {
		t.Error("expected no modifier to remove")
	}

	a, _ := GetModifier("fogOfWarEasy")
	b, _ := GetModifier("dontLookBack")
	s.AddModifier(a)
	s.AddModifier(b)

	removed, ok := s.RemoveLastModifier()
	if !ok || removed.ID != "dontLookBack" {
		t.Errorf("removed = %v, want dontLookBack", removed.ID)
	}
	if len(s.ActiveModifiers) != 1 || s.ActiveModifiers[0].ID != "fogOfWarEasy" {
		t.Errorf("remaining = %v", s.ActiveModifiers)
	}
}

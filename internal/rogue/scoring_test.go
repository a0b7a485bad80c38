package rogue

import "testing"

func TestStageScore(t *testing.T) {
	tests := []struct {
		unused, mods, want int
	}{
		{0, 0, 100},
		{5, 2, 300},
		{10, 3, 600},
		{3, 1, 195},
		{0, 5, 100}, // out-of-range count falls back to x1.0
	}
	for _, tt := range tests {
		if got := StageScore(tt.unused, tt.mods); got != tt.want {
			t.Errorf("StageScore(%d, %d) = %d, want %d", tt.unused, tt.mods, got, tt.want)
		}
	}
}

func TestDifficultyMultiplier(t *testing.T) {
	want := map[int]float64{0: 1.0, 1: 1.5, 2: 2.0, 3: 3.0, 4: 1.0, -1: 1.0}
	for count, expected := range want {
		if got := DifficultyMultiplier(count); got != expected {
			t.Errorf("DifficultyMultiplier(%d) = %v, want %v", count, got, expected)
		}
	}
}

func TestClickReward(t *testing.T) {
	if got := ClickReward(0, nil); got != 10 {
		t.Errorf("ClickReward(0, nil) = %d, want 10", got)
	}
	if got := ClickReward(3, nil); got != 18 {
		t.Errorf("ClickReward(3, nil) = %d, want 18", got)
	}

	s := NewState()
	nav, _ := GetItem(ItemEfficientNavigator)
	s.AddItem(nav)
	for _, mods := range []int{0, 1, 2, 3} {
		base := ClickReward(mods, nil)
		if got := ClickReward(mods, s); got != base+2 {
			t.Errorf("ClickReward(%d) with efficientNavigator = %d, want %d", mods, got, base+2)
		}
	}

	puppets, _ := GetItem(ItemMasterOfPuppets)
	s.AddItem(puppets)
	for _, mods := range []int{0, 1, 2, 3} {
		base := ClickReward(mods, nil)
		if got := ClickReward(mods, s); got != base+2+2*mods {
			t.Errorf("ClickReward(%d) with both upgrades = %d, want %d", mods, got, base+2+2*mods)
		}
	}
}

func TestWikiPoints(t *testing.T) {
	want := map[int]int{0: 1, 1: 2, 2: 2, 3: 3}
	for count, expected := range want {
		if got := WikiPoints(count); got != expected {
			t.Errorf("WikiPoints(%d) = %d, want %d", count, got, expected)
		}
	}
}

func TestFinalScore(t *testing.T) {
	if got := FinalScore(600, 4); got != 800 {
		t.Errorf("FinalScore(600, 4) = %d, want 800", got)
	}
	if got := FinalScore(0, 0); got != 0 {
		t.Errorf("FinalScore(0, 0) = %d, want 0", got)
	}
}

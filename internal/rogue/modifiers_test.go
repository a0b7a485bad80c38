package rogue

import (
	"math/rand"
	"testing"
	"time"
)

func TestCatalogRewardsByTier(t *testing.T) {
	wantReward := map[Difficulty]int{DifficultyEasy: 2, DifficultyMedium: 4, DifficultyHard: 6}
	wantMult := map[Difficulty]float64{DifficultyEasy: 1.5, DifficultyMedium: 2.0, DifficultyHard: 3.0}

	if len(Modifiers) != 11 {
		t.Fatalf("catalog has %d entries, want 11", len(Modifiers))
	}
	for _, m := range Modifiers {
		if m.ClickReward != wantReward[m.Difficulty] {
			t.Errorf("%s: clickReward = %d, want %d", m.ID, m.ClickReward, wantReward[m.Difficulty])
		}
		if m.ScoreMultiplier != wantMult[m.Difficulty] {
			t.Errorf("%s: scoreMultiplier = %v, want %v", m.ID, m.ScoreMultiplier, wantMult[m.Difficulty])
		}
	}
}

func TestRandomModifiersExcludes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	exclude := []string{"fogOfWarEasy", "dontLookBack", "timePressureHard"}

	for i := 0; i < 50; i++ {
		mods := RandomModifiers(rng, 3, exclude)
		if len(mods) != 3 {
			t.Fatalf("got %d modifiers, want 3", len(mods))
		}
		seen := map[string]bool{}
		for _, m := range mods {
			for _, ex := range exclude {
				if m.ID == ex {
					t.Fatalf("excluded modifier %s was drawn", ex)
				}
			}
			if seen[m.ID] {
				t.Fatalf("modifier %s drawn twice in one sample", m.ID)
			}
			seen[m.ID] = true
		}
	}
}

func TestRandomModifiersCapsAtAvailable(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	mods := RandomModifiers(rng, 100, nil)
	if len(mods) != len(Modifiers) {
		t.Errorf("got %d, want full catalog of %d", len(mods), len(Modifiers))
	}
}

func TestClickMultiplier(t *testing.T) {
	if got := ClickMultiplier(nil); got != 1 {
		t.Errorf("no modifiers: multiplier = %d, want 1", got)
	}

	medium, _ := GetModifier("buttonSmasherMedium")
	hard, _ := GetModifier("buttonSmasherHard")

	if got := ClickMultiplier([]Modifier{medium}); got != 2 {
		t.Errorf("medium smasher: multiplier = %d, want 2", got)
	}
	// Last-applied wins when both are somehow active.
	if got := ClickMultiplier([]Modifier{medium, hard}); got != 4 {
		t.Errorf("medium then hard: multiplier = %d, want 4", got)
	}
	if got := ClickMultiplier([]Modifier{hard, medium}); got != 2 {
		t.Errorf("hard then medium: multiplier = %d, want 2", got)
	}
}

func TestTimePressureHelpers(t *testing.T) {
	easy, _ := GetModifier("timePressureEasy")
	fog, _ := GetModifier("fogOfWarEasy")

	if HasTimePressure([]Modifier{fog}) {
		t.Error("fog alone should not report time pressure")
	}
	limit, ok := TimeLimit([]Modifier{fog, easy})
	if !ok || limit != 60*time.Second {
		t.Errorf("TimeLimit = %v, %v; want 60s, true", limit, ok)
	}
}

func TestScenicAndFogHelpers(t *testing.T) {
	scenic, _ := GetModifier("scenicRouteMedium")
	fog, _ := GetModifier("fogOfWarHard")
	back, _ := GetModifier("dontLookBack")

	if MinClicks([]Modifier{scenic}) != 14 {
		t.Errorf("MinClicks = %d, want 14", MinClicks([]Modifier{scenic}))
	}
	if MinClicks(nil) != 0 || HasScenicRoute(nil) {
		t.Error("no scenic route should report 0/false")
	}
	if DisabledLinkCount([]Modifier{fog}) != 30 {
		t.Errorf("DisabledLinkCount = %d, want 30", DisabledLinkCount([]Modifier{fog}))
	}
	if !BlocksVisited([]Modifier{back}) || BlocksVisited([]Modifier{fog}) {
		t.Error("BlocksVisited mismatch")
	}
}

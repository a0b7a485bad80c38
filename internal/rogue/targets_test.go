package rogue

import (
	"math/rand"
	"testing"
)

func TestTargetForStageBrackets(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	contains := func(pool []string, title string) bool {
		for _, p := range pool {
			if p == title {
				return true
			}
		}
		return false
	}

	tests := []struct {
		stage int
		pool  []string
	}{
		{1, poolStage1to3},
		{3, poolStage1to3},
		{4, poolStage4to6},
		{6, poolStage4to6},
		{7, poolStage7to10},
		{10, poolStage7to10},
		{11, poolStage11plus},
		{25, poolStage11plus},
	}
	for _, tt := range tests {
		for i := 0; i < 20; i++ {
			title := TargetForStage(rng, tt.stage)
			if !contains(tt.pool, title) {
				t.Errorf("stage %d: %q not in its bracket pool", tt.stage, title)
			}
		}
	}
}

func TestRandomStartPageUsesEasiestPool(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		title := RandomStartPage(rng)
		found := false
		for _, p := range poolStage1to3 {
			if p == title {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("start page %q not from the easy pool", title)
		}
	}
}

func TestStartAndTargetDistinct(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		start, target, err := StartAndTarget(rng, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if start == target {
			t.Fatalf("start == target == %q", start)
		}
	}
}

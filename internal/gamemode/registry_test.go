package gamemode

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/wikihop/wikihop/internal/rogue"
	"github.com/wikihop/wikihop/internal/wikihop"
)

func newRegistryForTest() *Registry {
	r := NewRegistry()
	for _, m := range allModes() {
		r.Register(m)
	}
	return r
}

func TestRegistryGet(t *testing.T) {
	r := newRegistryForTest()

	m, err := r.Get(wikihop.ModeRogue)
	if err != nil {
		t.Fatalf("get rogue: %v", err)
	}
	if m.Info().ID != wikihop.ModeRogue {
		t.Errorf("got %s, want rogue", m.Info().ID)
	}

	if _, err := r.Get("bogus"); !errors.Is(err, ErrModeNotFound) {
		t.Errorf("err = %v, want ErrModeNotFound", err)
	}
}

func TestRegistryCurrentSlot(t *testing.T) {
	r := newRegistryForTest()

	if _, err := r.Current(); !errors.Is(err, ErrNoCurrentMode) {
		t.Fatalf("err = %v, want ErrNoCurrentMode", err)
	}

	if _, err := r.SetCurrent(wikihop.ModeTimed); err != nil {
		t.Fatalf("set current: %v", err)
	}
	m, err := r.Current()
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if m.Info().ID != wikihop.ModeTimed {
		t.Errorf("current = %s, want timed", m.Info().ID)
	}

	if _, err := r.SetCurrent("bogus"); !errors.Is(err, ErrModeNotFound) {
		t.Errorf("err = %v, want ErrModeNotFound", err)
	}

	r.ClearCurrent()
	if _, err := r.Current(); !errors.Is(err, ErrNoCurrentMode) {
		t.Errorf("after clear: err = %v, want ErrNoCurrentMode", err)
	}
}

func TestRegistryRegisterOverwrites(t *testing.T) {
	r := newRegistryForTest()
	replacement := NewRogue(rogue.NewState(), rand.New(rand.NewSource(9)))
	r.Register(replacement)

	m, err := r.Get(wikihop.ModeRogue)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if m != Mode(replacement) {
		t.Error("re-registration should overwrite by id")
	}
}

func TestRegistryPartitions(t *testing.T) {
	r := newRegistryForTest()

	single := r.SinglePlayer()
	multi := r.Multiplayer()
	if len(single) != 4 {
		t.Errorf("single-player count = %d, want 4", len(single))
	}
	if len(multi) != 2 {
		t.Errorf("multiplayer count = %d, want 2", len(multi))
	}
	if len(r.All()) != 6 {
		t.Errorf("all count = %d, want 6", len(r.All()))
	}
	for _, info := range multi {
		if !info.Multiplayer {
			t.Errorf("%s in multiplayer partition but not multiplayer", info.ID)
		}
	}
}

func TestRegistryIsRuleEnabled(t *testing.T) {
	r := newRegistryForTest()

	tests := []struct {
		id   wikihop.ModeID
		rule string
		want bool
	}{
		{wikihop.ModeTeamwork, "sharedClicks", true},
		{wikihop.ModeTeamwork, "allowCollaboration", true},
		{wikihop.ModeCompetition, "allowCollaboration", false},
		{wikihop.ModeCompetition, "competitiveScoring", true},
		{wikihop.ModeRandom, "competitiveScoring", true},
		{wikihop.ModeSetRun, "sharedTimer", false},
		{wikihop.ModeSetRun, "unknownRule", false},
	}
	for _, tt := range tests {
		got, err := r.IsRuleEnabled(tt.id, tt.rule)
		if err != nil {
			t.Fatalf("IsRuleEnabled(%s, %s): %v", tt.id, tt.rule, err)
		}
		if got != tt.want {
			t.Errorf("IsRuleEnabled(%s, %s) = %v, want %v", tt.id, tt.rule, got, tt.want)
		}
	}

	if _, err := r.IsRuleEnabled("bogus", "sharedClicks"); !errors.Is(err, ErrModeNotFound) {
		t.Errorf("err = %v, want ErrModeNotFound", err)
	}
}

package gamemode

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/wikihop/wikihop/internal/rogue"
	"github.com/wikihop/wikihop/internal/wikihop"
)

func stubTitles(titles ...string) TitleSource {
	i := 0
	return func(context.Context) (string, error) {
		t := titles[i%len(titles)]
		i++
		return t, nil
	}
}

func paramsFor(m Mode) Params {
	switch m.Info().ID {
	case wikihop.ModeSetRun:
		return SetRunParams{StartPage: "Finland", TargetPage: "Helsinki"}
	case wikihop.ModeRandom:
		return RandomParams{Titles: stubTitles("A", "B")}
	case wikihop.ModeTimed:
		return TimedParams{StartPage: "Finland", TargetPage: "Helsinki"}
	case wikihop.ModeRogue:
		return RogueParams{}
	default:
		return PartyParams{StartPage: "Finland", TargetPage: "Helsinki", PartyCode: "ABC123"}
	}
}

func allModes() []Mode {
	return []Mode{
		NewSetRun(),
		NewRandom(),
		NewTimed(),
		NewRogue(rogue.NewState(), rand.New(rand.NewSource(1))),
		NewTeamwork(),
		NewCompetition(),
	}
}

func TestInitializeThenWinClicks(t *testing.T) {
	// Without any navigation, the win result's clicks must equal what
	// Initialize set: 0 for count-up modes, the starting balance for Rogue.
	for _, m := range allModes() {
		var gs wikihop.GameState
		if err := m.Initialize(context.Background(), &gs, paramsFor(m)); err != nil {
			t.Fatalf("%s: initialize: %v", m.Info().ID, err)
		}

		want := 0
		if m.Info().ID == wikihop.ModeRogue {
			want = rogue.StartingBalance
		}
		if gs.Clicks != want {
			t.Errorf("%s: clicks after initialize = %d, want %d", m.Info().ID, gs.Clicks, want)
		}
		if got := m.OnWin(&gs).Clicks; got != want {
			t.Errorf("%s: OnWin clicks = %d, want %d", m.Info().ID, got, want)
		}
		m.Cleanup()
	}
}

func TestInitializeSetsCategory(t *testing.T) {
	want := map[wikihop.ModeID]wikihop.ModeCategory{
		wikihop.ModeSetRun:      wikihop.CategorySet,
		wikihop.ModeRandom:      wikihop.CategoryRandom,
		wikihop.ModeTimed:       wikihop.CategoryTimed,
		wikihop.ModeRogue:       wikihop.CategoryIndividual,
		wikihop.ModeTeamwork:    wikihop.CategoryParty,
		wikihop.ModeCompetition: wikihop.CategoryParty,
	}
	for _, m := range allModes() {
		var gs wikihop.GameState
		if err := m.Initialize(context.Background(), &gs, paramsFor(m)); err != nil {
			t.Fatalf("%s: initialize: %v", m.Info().ID, err)
		}
		if gs.Category != want[m.Info().ID] {
			t.Errorf("%s: category = %q, want %q", m.Info().ID, gs.Category, want[m.Info().ID])
		}
		m.Cleanup()
	}
}

func TestInitializeRejectsWrongParams(t *testing.T) {
	for _, m := range allModes() {
		var gs wikihop.GameState
		err := m.Initialize(context.Background(), &gs, struct{ Params }{})
		var cv *ContractViolationError
		if !errors.As(err, &cv) {
			t.Errorf("%s: wrong params: err = %v, want ContractViolationError", m.Info().ID, err)
		}
		m.Cleanup()
	}
}

func TestRandomRequiresTitleSource(t *testing.T) {
	var gs wikihop.GameState
	err := NewRandom().Initialize(context.Background(), &gs, RandomParams{})
	var cv *ContractViolationError
	if !errors.As(err, &cv) {
		t.Fatalf("err = %v, want ContractViolationError", err)
	}
}

func TestRandomPairAlwaysDistinct(t *testing.T) {
	m := NewRandom()
	// A source that repeats the start a few times before yielding a
	// distinct target.
	src := stubTitles("A", "A", "A", "A", "B")

	var gs wikihop.GameState
	if err := m.Initialize(context.Background(), &gs, RandomParams{Titles: src}); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if gs.StartPage == gs.TargetPage {
		t.Fatalf("start == target == %q", gs.StartPage)
	}
	if gs.StartPage != "A" || gs.TargetPage != "B" {
		t.Errorf("pair = (%q, %q), want (A, B)", gs.StartPage, gs.TargetPage)
	}
}

func TestRandomPairGivesUpOnDegenerateSource(t *testing.T) {
	var gs wikihop.GameState
	err := NewRandom().Initialize(context.Background(), &gs, RandomParams{Titles: stubTitles("A")})
	if !errors.Is(err, ErrTitleGeneration) {
		t.Fatalf("err = %v, want ErrTitleGeneration", err)
	}
}

func TestTimedDefaultsToFiveMinutes(t *testing.T) {
	m := NewTimed()
	var gs wikihop.GameState
	if err := m.Initialize(context.Background(), &gs, TimedParams{StartPage: "A", TargetPage: "B"}); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	defer m.Cleanup()
	if m.Limit() != 5*time.Minute {
		t.Errorf("limit = %v, want 5m", m.Limit())
	}
}

func TestTimedTimeoutFiresAndIsNotScored(t *testing.T) {
	m := NewTimed()
	fired := make(chan struct{})

	var gs wikihop.GameState
	err := m.Initialize(context.Background(), &gs, TimedParams{
		StartPage:  "A",
		TargetPage: "B",
		Limit:      5 * time.Millisecond,
		OnTimeout:  func() { close(fired) },
	})
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	defer m.Cleanup()

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timeout callback never fired")
	}

	res := m.OnTimeOut(&gs)
	if !res.TimedOut {
		t.Error("expected TimedOut=true")
	}
	if res.SaveLeaderboard {
		t.Error("timeouts must not be scored")
	}
}

func TestTimedCleanupCancelsTimer(t *testing.T) {
	m := NewTimed()
	fired := make(chan struct{}, 1)

	var gs wikihop.GameState
	if err := m.Initialize(context.Background(), &gs, TimedParams{
		StartPage:  "A",
		TargetPage: "B",
		Limit:      20 * time.Millisecond,
		OnTimeout:  func() { fired <- struct{}{} },
	}); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	m.Cleanup()
	// Safe to call again with no timer running.
	m.Cleanup()

	select {
	case <-fired:
		t.Fatal("cancelled timer still fired")
	case <-time.After(60 * time.Millisecond):
	}
}

func TestCollaborationDisclosure(t *testing.T) {
	gs := wikihop.GameState{PartyCode: "ABC123", StartTime: time.Now()}

	if res := NewTeamwork().OnWin(&gs); !res.NotifyOthers {
		t.Error("teamwork OnWin must set notifyOthers")
	}
	if res := NewCompetition().OnWin(&gs); res.NotifyOthers {
		t.Error("competition OnWin must not set notifyOthers")
	}
}

func TestPartyModesRequireCode(t *testing.T) {
	for _, m := range []Mode{NewTeamwork(), NewCompetition()} {
		var gs wikihop.GameState
		err := m.Initialize(context.Background(), &gs, PartyParams{StartPage: "A", TargetPage: "B"})
		var cv *ContractViolationError
		if !errors.As(err, &cv) {
			t.Errorf("%s: missing party code: err = %v, want ContractViolationError", m.Info().ID, err)
		}
	}
}

func TestLeaderboardEligibility(t *testing.T) {
	gs := wikihop.GameState{StartTime: time.Now()}

	if !NewRandom().OnWin(&gs).SaveLeaderboard {
		t.Error("random wins should be saved to the leaderboard")
	}
	if !NewTimed().OnWin(&gs).SaveLeaderboard {
		t.Error("timed wins should be saved to the leaderboard")
	}
	if NewSetRun().OnWin(&gs).SaveLeaderboard {
		t.Error("set run wins should not be saved to the leaderboard")
	}
}

func TestRank(t *testing.T) {
	standings := []PlayerStanding{
		{Player: "slow", Clicks: 5, TimeMs: 9000, Finished: true},
		{Player: "dnf", Clicks: 2, Finished: false},
		{Player: "fast", Clicks: 5, TimeMs: 4000, Finished: true},
		{Player: "best", Clicks: 3, TimeMs: 8000, Finished: true},
	}
	ranked := Rank(standings)
	want := []string{"best", "fast", "slow", "dnf"}
	for i, name := range want {
		if ranked[i].Player != name {
			t.Errorf("rank[%d] = %s, want %s", i, ranked[i].Player, name)
		}
	}
}

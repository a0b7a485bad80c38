package gamemode

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/wikihop/wikihop/internal/rogue"
	"github.com/wikihop/wikihop/internal/wikihop"
)

// Rogue is the multi-stage progression mode: a countdown click balance,
// per-stage modifiers, a shop economy, and a run that ends when the
// balance is exhausted without a revival.
type Rogue struct {
	state *rogue.State
	rng   *rand.Rand

	mu        sync.Mutex
	timer     *time.Timer
	onTimeout func()
}

// NewRogue returns the Rogue mode backed by the given run state.
func NewRogue(state *rogue.State, rng *rand.Rand) *Rogue {
	return &Rogue{state: state, rng: rng}
}

// State exposes the run state for the driver's stage-transition logic.
func (m *Rogue) State() *rogue.State { return m.state }

// Rand exposes the mode's RNG so stage transitions draw from one stream.
func (m *Rogue) Rand() *rand.Rand { return m.rng }

func (m *Rogue) Info() wikihop.ModeInfo {
	return wikihop.ModeInfo{
		ID:             wikihop.ModeRogue,
		Label:          "Rogue",
		Description:    "Navigate through stages with limited clicks, choose modifiers for rewards, and spend clicks in the shop. Run ends when clicks reach zero.",
		PrimaryColor:   "#9c27b0",
		SecondaryColor: "#ce93d8",
		Rules:          wikihop.Rules{},
	}
}

func (m *Rogue) Initialize(_ context.Context, gs *wikihop.GameState, p Params) error {
	rp, ok := p.(RogueParams)
	if !ok {
		return &ContractViolationError{Mode: wikihop.ModeRogue, Reason: "requires RogueParams"}
	}

	m.state.Reset()

	start, target, err := rogue.StartAndTarget(m.rng, 1)
	if err != nil {
		return err
	}

	resetShared(gs, wikihop.CategoryIndividual, wikihop.ModeRogue, rp.Lang)
	gs.StartPage = start
	gs.TargetPage = target
	gs.Clicks = m.state.ClickBalance

	m.state.ClicksAtStageStart = m.state.ClickBalance

	m.mu.Lock()
	m.stopTimerLocked()
	m.onTimeout = rp.OnTimeout
	m.mu.Unlock()
	return nil
}

// StartStage points the shared state at a new stage leg. Called by the
// driver after the inter-stage modifier/shop sequence.
func (m *Rogue) StartStage(gs *wikihop.GameState) error {
	st := m.state
	start, target, err := rogue.StartAndTarget(m.rng, st.CurrentStage)
	if err != nil {
		return err
	}

	gs.StartPage = start
	gs.TargetPage = target
	gs.CurrentPage = ""
	gs.History = nil
	gs.StartTime = time.Now()
	gs.EndTime = time.Time{}
	gs.Clicks = st.ClickBalance

	st.ClicksAtStageStart = st.ClickBalance
	st.ClearVisitedPages()
	return nil
}

// ValidateNavigation rejects a navigation before any state changes:
// scenic route blocks taking the target early, Don't Look Back blocks
// revisiting pages.
func (m *Rogue) ValidateNavigation(gs *wikihop.GameState, title string) error {
	st := m.state

	if rogue.BlocksVisited(st.ActiveModifiers) && st.HasVisited(title) {
		return fmt.Errorf("%w: %q", ErrAlreadyVisited, title)
	}

	if title == gs.TargetPage {
		if min := rogue.MinClicks(st.ActiveModifiers); min > 0 {
			spent := st.ClicksAtStageStart - st.ClickBalance + 1
			if spent < min {
				return fmt.Errorf("%w: %d of %d clicks", ErrScenicRoute, spent, min)
			}
		}
	}
	return nil
}

// OnPageLoad advances the resource economy: deduct the modifier-adjusted
// cost (skipped on the non-click initial load), mirror the balance into
// the shared click counter, mark the page visited, re-emit modifier link
// restrictions, and handle exhaustion. Reaching the target on the
// balance-exhausting click still counts as a win, so the reward path
// checks the page match first.
func (m *Rogue) OnPageLoad(gs *wikihop.GameState, title string) LoadOutcome {
	st := m.state
	var out LoadOutcome

	if len(gs.History) > 0 {
		out.Cost = rogue.ClickMultiplier(st.ActiveModifiers)
		st.ClickBalance -= out.Cost
	}
	gs.Clicks = st.ClickBalance

	reachedTarget := title == gs.TargetPage

	if st.ClickBalance <= 0 && !reachedTarget {
		if st.HasItem(rogue.ItemSecondChance) {
			st.RemoveItem(rogue.ItemSecondChance)
			st.ClickBalance = rogue.RevivalBalance
			gs.Clicks = rogue.RevivalBalance
			out.Revived = true
		} else {
			out.RunEnded = true
			return out
		}
	}

	st.AddVisitedPage(title)

	if n := rogue.DisabledLinkCount(st.ActiveModifiers); n > 0 {
		out.DisabledLinks = n
		if st.HasUpgrade(rogue.ItemReadingGlasses) {
			out.MinVisibleLinks = 5
		}
	}
	out.BlockVisited = rogue.BlocksVisited(st.ActiveModifiers)

	if limit, ok := rogue.TimeLimit(st.ActiveModifiers); ok {
		limit = rogue.EffectiveTimeLimit(st, limit)
		out.TimeLimit = limit
		m.restartTimer(limit)
	}
	return out
}

// CheckWin reports a stage completion once the target is reached. The
// driver routes this to stage-advance logic instead of a terminal win.
func (m *Rogue) CheckWin(gs *wikihop.GameState) (wikihop.StageComplete, bool) {
	if !gs.Won() {
		return wikihop.StageComplete{}, false
	}

	m.stopTimer()

	st := m.state
	st.UnusedClicksThisStage = st.ClickBalance
	return wikihop.StageComplete{
		StageNumber:  st.CurrentStage,
		ClicksUsed:   st.ClicksAtStageStart - st.ClickBalance,
		UnusedClicks: st.ClickBalance,
	}, true
}

// OnWin is suppressed for Rogue: stage completions are handled through
// CheckWin and the terminal result through FinalResult.
func (m *Rogue) OnWin(gs *wikihop.GameState) wikihop.WinResult {
	return wikihop.WinResult{
		Clicks:     m.state.ClickBalance,
		Duration:   gs.Elapsed(),
		StartPage:  gs.StartPage,
		TargetPage: gs.TargetPage,
	}
}

// FinalResult summarizes a terminated run.
type FinalResult struct {
	StagesCompleted int `json:"stagesCompleted"`
	FinalScore      int `json:"finalScore"`
	WikiPoints      int `json:"wikiPoints"`
}

// Final computes the terminal run summary.
func (m *Rogue) Final() FinalResult {
	st := m.state
	stages := st.CurrentStage - 1
	return FinalResult{
		StagesCompleted: stages,
		FinalScore:      rogue.FinalScore(st.TotalScore, stages),
		WikiPoints:      st.WikiPoints,
	}
}

func (m *Rogue) Cleanup() {
	m.stopTimer()
}

func (m *Rogue) restartTimer(limit time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTimerLocked()
	if m.onTimeout != nil {
		m.timer = time.AfterFunc(limit, m.onTimeout)
	}
}

func (m *Rogue) stopTimer() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTimerLocked()
}

func (m *Rogue) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

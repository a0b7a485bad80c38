package gamemode

import (
	"context"
	"sync"
	"time"

	"github.com/wikihop/wikihop/internal/wikihop"
)

// DefaultTimeLimit is the Time Attack deadline when none is requested.
const DefaultTimeLimit = 5 * time.Minute

// Timed is the race-against-the-clock mode. It owns a one-shot deadline
// timer that fires the configured timeout callback at most once per run.
type Timed struct {
	mu    sync.Mutex
	limit time.Duration
	timer *time.Timer
}

// NewTimed returns the Time Attack mode.
func NewTimed() *Timed { return &Timed{limit: DefaultTimeLimit} }

func (m *Timed) Info() wikihop.ModeInfo {
	return wikihop.ModeInfo{
		ID:             wikihop.ModeTimed,
		Label:          "Time Attack",
		Description:    "Reach the target before time runs out",
		PrimaryColor:   "#F44336",
		SecondaryColor: "#EF5350",
		Rules:          wikihop.Rules{},
	}
}

// Limit reports the deadline configured for the current run.
func (m *Timed) Limit() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.limit
}

func (m *Timed) Initialize(_ context.Context, gs *wikihop.GameState, p Params) error {
	tp, ok := p.(TimedParams)
	if !ok {
		return &ContractViolationError{Mode: wikihop.ModeTimed, Reason: "requires TimedParams"}
	}
	if tp.StartPage == "" || tp.TargetPage == "" {
		return &ContractViolationError{Mode: wikihop.ModeTimed, Reason: "requires start and target pages"}
	}

	limit := tp.Limit
	if limit <= 0 {
		limit = DefaultTimeLimit
	}

	resetShared(gs, wikihop.CategoryTimed, wikihop.ModeTimed, tp.Lang)
	gs.StartPage = tp.StartPage
	gs.TargetPage = tp.TargetPage

	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
	m.limit = limit
	if tp.OnTimeout != nil {
		m.timer = time.AfterFunc(limit, tp.OnTimeout)
	}
	return nil
}

func (m *Timed) OnPageLoad(*wikihop.GameState, string) LoadOutcome { return LoadOutcome{} }

func (m *Timed) OnWin(gs *wikihop.GameState) wikihop.WinResult {
	m.Cleanup()
	return wikihop.WinResult{
		Clicks:          gs.Clicks,
		Duration:        gs.Elapsed(),
		StartPage:       gs.StartPage,
		TargetPage:      gs.TargetPage,
		SaveLeaderboard: true,
	}
}

// OnTimeOut builds the loss descriptor for a deadline that fired with the
// target not yet reached. Timeouts are never scored.
func (m *Timed) OnTimeOut(gs *wikihop.GameState) wikihop.WinResult {
	m.Cleanup()
	return wikihop.WinResult{
		Clicks:     gs.Clicks,
		Duration:   m.Limit(),
		StartPage:  gs.StartPage,
		TargetPage: gs.TargetPage,
		TimedOut:   true,
	}
}

func (m *Timed) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
}

func (m *Timed) stopLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

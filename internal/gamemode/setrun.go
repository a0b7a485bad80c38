package gamemode

import (
	"context"

	"github.com/wikihop/wikihop/internal/wikihop"
)

// SetRun is the mode where the player chooses both pages.
type SetRun struct{}

// NewSetRun returns the Set Run mode.
func NewSetRun() *SetRun { return &SetRun{} }

func (m *SetRun) Info() wikihop.ModeInfo {
	return wikihop.ModeInfo{
		ID:             wikihop.ModeSetRun,
		Label:          "Set Run",
		Description:    "Choose your start and target pages",
		PrimaryColor:   "#2196F3",
		SecondaryColor: "#64B5F6",
		Rules:          wikihop.Rules{},
	}
}

func (m *SetRun) Initialize(_ context.Context, gs *wikihop.GameState, p Params) error {
	sp, ok := p.(SetRunParams)
	if !ok {
		return &ContractViolationError{Mode: wikihop.ModeSetRun, Reason: "requires SetRunParams"}
	}
	if sp.StartPage == "" || sp.TargetPage == "" {
		return &ContractViolationError{Mode: wikihop.ModeSetRun, Reason: "requires start and target pages"}
	}

	resetShared(gs, wikihop.CategorySet, wikihop.ModeSetRun, sp.Lang)
	gs.StartPage = sp.StartPage
	gs.TargetPage = sp.TargetPage
	return nil
}

func (m *SetRun) OnPageLoad(*wikihop.GameState, string) LoadOutcome { return LoadOutcome{} }

func (m *SetRun) OnWin(gs *wikihop.GameState) wikihop.WinResult {
	return wikihop.WinResult{
		Clicks:     gs.Clicks,
		Duration:   gs.Elapsed(),
		StartPage:  gs.StartPage,
		TargetPage: gs.TargetPage,
	}
}

func (m *SetRun) Cleanup() {}

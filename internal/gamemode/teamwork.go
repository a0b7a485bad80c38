package gamemode

import (
	"context"

	"github.com/wikihop/wikihop/internal/wikihop"
)

// Teamwork is the cooperative multiplayer mode: when any player reaches
// the target, the whole party is shown the win.
type Teamwork struct{}

// NewTeamwork returns the Teamwork mode.
func NewTeamwork() *Teamwork { return &Teamwork{} }

func (m *Teamwork) Info() wikihop.ModeInfo {
	return wikihop.ModeInfo{
		ID:             wikihop.ModeTeamwork,
		Label:          "Teamwork",
		Description:    "Work together to reach the target",
		PrimaryColor:   "#4CAF50",
		SecondaryColor: "#81C784",
		Rules: wikihop.Rules{
			SharedClicks:       true,
			SharedTimer:        true,
			AllowCollaboration: true,
		},
		Multiplayer: true,
	}
}

func (m *Teamwork) Initialize(_ context.Context, gs *wikihop.GameState, p Params) error {
	pp, ok := p.(PartyParams)
	if !ok {
		return &ContractViolationError{Mode: wikihop.ModeTeamwork, Reason: "requires PartyParams"}
	}
	if pp.PartyCode == "" {
		return &ContractViolationError{Mode: wikihop.ModeTeamwork, Reason: "requires a party code"}
	}
	if pp.StartPage == "" || pp.TargetPage == "" {
		return &ContractViolationError{Mode: wikihop.ModeTeamwork, Reason: "requires start and target pages"}
	}

	resetShared(gs, wikihop.CategoryParty, wikihop.ModeTeamwork, pp.Lang)
	gs.StartPage = pp.StartPage
	gs.TargetPage = pp.TargetPage
	gs.PartyCode = pp.PartyCode
	return nil
}

func (m *Teamwork) OnPageLoad(*wikihop.GameState, string) LoadOutcome { return LoadOutcome{} }

func (m *Teamwork) OnWin(gs *wikihop.GameState) wikihop.WinResult {
	return wikihop.WinResult{
		Clicks:       gs.Clicks,
		Duration:     gs.Elapsed(),
		StartPage:    gs.StartPage,
		TargetPage:   gs.TargetPage,
		PartyCode:    gs.PartyCode,
		NotifyOthers: true,
	}
}

func (m *Teamwork) Cleanup() {}

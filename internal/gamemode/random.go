package gamemode

import (
	"context"

	"github.com/wikihop/wikihop/internal/wikihop"
)

// Random is the leaderboard race mode: both pages are generated.
type Random struct{}

// NewRandom returns the Random mode.
func NewRandom() *Random { return &Random{} }

func (m *Random) Info() wikihop.ModeInfo {
	return wikihop.ModeInfo{
		ID:             wikihop.ModeRandom,
		Label:          "Random",
		Description:    "Race with random start and target pages",
		PrimaryColor:   "#FF9800",
		SecondaryColor: "#FFB74D",
		Rules:          wikihop.Rules{CompetitiveScoring: true},
	}
}

func (m *Random) Initialize(ctx context.Context, gs *wikihop.GameState, p Params) error {
	rp, ok := p.(RandomParams)
	if !ok {
		return &ContractViolationError{Mode: wikihop.ModeRandom, Reason: "requires RandomParams"}
	}
	if rp.Titles == nil {
		return &ContractViolationError{Mode: wikihop.ModeRandom, Reason: "requires a random title source"}
	}

	start, target, err := generatePair(ctx, rp.Titles)
	if err != nil {
		return err
	}

	resetShared(gs, wikihop.CategoryRandom, wikihop.ModeRandom, rp.Lang)
	gs.StartPage = start
	gs.TargetPage = target
	return nil
}

func (m *Random) OnPageLoad(*wikihop.GameState, string) LoadOutcome { return LoadOutcome{} }

func (m *Random) OnWin(gs *wikihop.GameState) wikihop.WinResult {
	return wikihop.WinResult{
		Clicks:          gs.Clicks,
		Duration:        gs.Elapsed(),
		StartPage:       gs.StartPage,
		TargetPage:      gs.TargetPage,
		SaveLeaderboard: true,
	}
}

func (m *Random) Cleanup() {}

package gamemode

import (
	"context"
	"sort"

	"github.com/wikihop/wikihop/internal/wikihop"
)

// Competition is the competitive multiplayer mode: players race the same
// route independently; nobody else's win screen is forced.
type Competition struct{}

// NewCompetition returns the Competition mode.
func NewCompetition() *Competition { return &Competition{} }

func (m *Competition) Info() wikihop.ModeInfo {
	return wikihop.ModeInfo{
		ID:             wikihop.ModeCompetition,
		Label:          "Competition",
		Description:    "Race against other players",
		PrimaryColor:   "#FF6B6B",
		SecondaryColor: "#FF8A8A",
		Rules: wikihop.Rules{
			SharedTimer:        true,
			CompetitiveScoring: true,
		},
		Multiplayer: true,
	}
}

func (m *Competition) Initialize(_ context.Context, gs *wikihop.GameState, p Params) error {
	pp, ok := p.(PartyParams)
	if !ok {
		return &ContractViolationError{Mode: wikihop.ModeCompetition, Reason: "requires PartyParams"}
	}
	if pp.PartyCode == "" {
		return &ContractViolationError{Mode: wikihop.ModeCompetition, Reason: "requires a party code"}
	}
	if pp.StartPage == "" || pp.TargetPage == "" {
		return &ContractViolationError{Mode: wikihop.ModeCompetition, Reason: "requires start and target pages"}
	}

	resetShared(gs, wikihop.CategoryParty, wikihop.ModeCompetition, pp.Lang)
	gs.StartPage = pp.StartPage
	gs.TargetPage = pp.TargetPage
	gs.PartyCode = pp.PartyCode
	return nil
}

func (m *Competition) OnPageLoad(*wikihop.GameState, string) LoadOutcome { return LoadOutcome{} }

func (m *Competition) OnWin(gs *wikihop.GameState) wikihop.WinResult {
	return wikihop.WinResult{
		Clicks:       gs.Clicks,
		Duration:     gs.Elapsed(),
		StartPage:    gs.StartPage,
		TargetPage:   gs.TargetPage,
		PartyCode:    gs.PartyCode,
		NotifyOthers: false,
	}
}

func (m *Competition) Cleanup() {}

// PlayerStanding is one row of the competitive ranking.
type PlayerStanding struct {
	Player   string `json:"player"`
	Clicks   int    `json:"clicks"`
	TimeMs   int64  `json:"timeMs"`
	Finished bool   `json:"finished"`
}

// Rank orders standings by clicks ascending, ties broken by time.
// Unfinished players sort last.
func Rank(standings []PlayerStanding) []PlayerStanding {
	ranked := make([]PlayerStanding, len(standings))
	copy(ranked, standings)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Finished != b.Finished {
			return a.Finished
		}
		if a.Clicks != b.Clicks {
			return a.Clicks < b.Clicks
		}
		return a.TimeMs < b.TimeMs
	})
	return ranked
}

// Package gamemode implements the polymorphic gamemode contract: a common
// run lifecycle implemented by six variants (Set Run, Random, Timed, Rogue,
// Teamwork, Competition), plus the registry that routes between them.
package gamemode

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wikihop/wikihop/internal/wikihop"
)

var (
	// ErrScenicRoute blocks navigation to the target while the scenic-route
	// minimum click count is not yet met.
	ErrScenicRoute = errors.New("scenic route: path is too short to take the target yet")
	// ErrAlreadyVisited blocks navigation to a visited page while Don't
	// Look Back is active.
	ErrAlreadyVisited = errors.New("don't look back: page already visited")
	// ErrTitleGeneration is returned when a distinct random start/target
	// pair could not be produced within the retry bound.
	ErrTitleGeneration = errors.New("could not generate distinct start and target titles")
)

// ContractViolationError reports a gamemode method called with missing or
// mistyped required parameters. Fatal to that initialization attempt.
type ContractViolationError struct {
	Mode   wikihop.ModeID
	Reason string
}

func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("gamemode %s: %s", e.Mode, e.Reason)
}

// TitleSource produces a usable random article title.
type TitleSource func(ctx context.Context) (string, error)

// Params is the sealed per-mode configuration union. Each mode accepts
// exactly one concrete variant and fails loudly on anything else.
type Params interface{ modeParams() }

// SetRunParams configures a Set Run: the player chose both pages.
type SetRunParams struct {
	StartPage  string
	TargetPage string
	Lang       string
}

// RandomParams configures a Random run: both pages are generated.
type RandomParams struct {
	Titles TitleSource
	Lang   string
}

// TimedParams configures a Time Attack run. A zero Limit selects the
// documented 5-minute default. OnTimeout fires once if the deadline passes
// before the target is reached.
type TimedParams struct {
	StartPage  string
	TargetPage string
	Lang       string
	Limit      time.Duration
	OnTimeout  func()
}

// RogueParams configures a Rogue run. OnTimeout fires when an active
// time-pressure modifier expires.
type RogueParams struct {
	Lang      string
	OnTimeout func()
}

// PartyParams configures the multiplayer modes (Teamwork, Competition).
type PartyParams struct {
	StartPage  string
	TargetPage string
	Lang       string
	PartyCode  string
}

func (SetRunParams) modeParams() {}
func (RandomParams) modeParams() {}
func (TimedParams) modeParams()  {}
func (RogueParams) modeParams()  {}
func (PartyParams) modeParams()  {}

// LoadOutcome is what a mode reports back from its page-load hook. The
// driver reacts to the run-control fields; the link-restriction fields are
// forwarded to the UI layer, which renders restricted links as visible but
// unclickable.
type LoadOutcome struct {
	// Cost is the resource spend of this navigation (0 for count-up modes).
	Cost int
	// RunEnded means the resource balance was exhausted with no revival.
	RunEnded bool
	// Revived means a Second Chance was consumed and the balance restored.
	Revived bool
	// DisabledLinks is the fog-of-war disabled-link count for this page.
	DisabledLinks int
	// MinVisibleLinks caps fog disabling when Reading Glasses is owned.
	MinVisibleLinks int
	// BlockVisited marks visited-page links unnavigable (Don't Look Back).
	BlockVisited bool
	// TimeLimit restarts the stage countdown when a time-pressure modifier
	// is active.
	TimeLimit time.Duration
}

// Mode is the gamemode lifecycle contract.
//
// Initialize fully resets the GameState fields the mode owns and is
// idempotent per call. OnPageLoad runs after every successful navigation,
// before the win test. OnWin runs after the win test passes and returns
// the consequence descriptor. Cleanup stops mode-owned timers and must be
// safe to call when none is running.
type Mode interface {
	Info() wikihop.ModeInfo
	Initialize(ctx context.Context, gs *wikihop.GameState, p Params) error
	OnPageLoad(gs *wikihop.GameState, title string) LoadOutcome
	OnWin(gs *wikihop.GameState) wikihop.WinResult
	Cleanup()
}

// StageChecker is implemented by modes whose win is a stage completion
// rather than a terminal win (Rogue). The driver routes a reported stage
// completion to stage-advance logic instead of the generic win screen.
type StageChecker interface {
	CheckWin(gs *wikihop.GameState) (wikihop.StageComplete, bool)
}

// NavigationGuard is implemented by modes that can reject a navigation
// before it is accepted (scenic route, don't look back). A rejected
// navigation leaves all state unchanged.
type NavigationGuard interface {
	ValidateNavigation(gs *wikihop.GameState, title string) error
}

// resetShared resets the GameState fields every mode owns, giving each
// Initialize call a fully fresh run.
func resetShared(gs *wikihop.GameState, cat wikihop.ModeCategory, id wikihop.ModeID, lang string) {
	if lang == "" {
		lang = "en"
	}
	gs.Category = cat
	gs.GamemodeID = id
	gs.Lang = lang
	gs.StartPage = ""
	gs.TargetPage = ""
	gs.CurrentPage = ""
	gs.Clicks = 0
	gs.History = nil
	gs.StartTime = time.Now()
	gs.EndTime = time.Time{}
	gs.PartyCode = ""
}

// generatePair draws start and target titles from src until they differ,
// capped defensively rather than hanging on a degenerate source.
func generatePair(ctx context.Context, src TitleSource) (start, target string, err error) {
	start, err = src(ctx)
	if err != nil {
		return "", "", fmt.Errorf("generating start page: %w", err)
	}
	for i := 0; i < 100; i++ {
		target, err = src(ctx)
		if err != nil {
			return "", "", fmt.Errorf("generating target page: %w", err)
		}
		if target != start {
			return start, target, nil
		}
	}
	return "", "", ErrTitleGeneration
}

// Package game implements the run session: the single owner of the shared
// GameState, the Rogue run state, and all live timers. The session drives
// the navigation loop — shared bookkeeping, the active gamemode's hooks,
// the win test, and the win's consequences against the external
// collaborators.
package game

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wikihop/wikihop/internal/gamemode"
	"github.com/wikihop/wikihop/internal/rogue"
	"github.com/wikihop/wikihop/internal/wikihop"
)

var (
	// ErrNoActiveRun means no run is in the Running phase.
	ErrNoActiveRun = errors.New("no active run")
	// ErrNavigationInFlight rejects a navigation while one is being
	// processed; overlapping requests are dropped, not queued.
	ErrNavigationInFlight = errors.New("a navigation is already in flight")
	// ErrWrongPhase rejects an operation outside its run phase.
	ErrWrongPhase = errors.New("operation not allowed in the current run phase")
	// ErrInsufficientBalance rejects a purchase or reroll the click
	// balance cannot cover.
	ErrInsufficientBalance = errors.New("not enough clicks")
	// ErrAlreadyOwned rejects re-buying an owned permanent upgrade.
	ErrAlreadyOwned = errors.New("upgrade already owned")
	// ErrUnknownItem rejects a purchase outside the current shop offer.
	ErrUnknownItem = errors.New("item not in the current shop offer")
	// ErrInvalidChoice rejects a modifier selection that is not one of
	// the offered choice sets.
	ErrInvalidChoice = errors.New("modifier selection is not one of the offered choices")
)

// Phase is the session's run state machine position.
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseRunning        Phase = "running"
	PhaseModifierSelect Phase = "modifier_select"
	PhaseShop           Phase = "shop"
	PhaseWon            Phase = "won"
	PhaseTimedOut       Phase = "timed_out"
	PhaseEnded          Phase = "ended"
)

// PageFetcher fetches wiki articles. Failures are degraded to fallback
// content, never propagated into game state.
type PageFetcher interface {
	FetchPage(ctx context.Context, lang, title string) (wikihop.Page, error)
	RandomTitle(ctx context.Context, lang string) (string, error)
}

// ScoreWriter persists leaderboard entries. Fire-and-forget from the
// session's perspective.
type ScoreWriter interface {
	WriteScore(ctx context.Context, board wikihop.Board, entry wikihop.ScoreEntry) error
}

// PartyNotifier pushes progress and win notifications to the party
// channel. Fire-and-forget: failures never block the local win.
type PartyNotifier interface {
	UpdateProgress(code, player string, clicks int, finished bool)
	NotifyWin(code, player string, res wikihop.WinResult)
}

// RunEnd describes a terminal run conclusion that is not a plain win.
type RunEnd struct {
	Reason string                `json:"reason"`
	Win    *wikihop.WinResult    `json:"win,omitempty"`
	Rogue  *gamemode.FinalResult `json:"rogue,omitempty"`
}

// Run-end reasons.
const (
	EndReasonExhausted    = "clicks_exhausted"
	EndReasonTimeout      = "timeout"
	EndReasonTimePressure = "time_pressure"
)

// Events are the lifecycle callbacks exposed to the UI layer. All fire
// while the session lock is held; handlers must not call back in.
type Events struct {
	OnRunStarted    func(wikihop.GameState)
	OnStageComplete func(wikihop.StageComplete)
	OnRunEnded      func(RunEnd)
	OnWin           func(wikihop.WinResult)
}

// NavResult is what a navigation produced.
type NavResult struct {
	Page          wikihop.Page           `json:"page"`
	FetchFailed   bool                   `json:"fetchFailed"`
	Outcome       gamemode.LoadOutcome   `json:"outcome"`
	Won           bool                   `json:"won"`
	Win           *wikihop.WinResult     `json:"win,omitempty"`
	StageComplete *wikihop.StageComplete `json:"stageComplete,omitempty"`
	RunEnd        *RunEnd                `json:"runEnd,omitempty"`
}

// RogueSnapshot is the sidebar view of the Rogue run state.
type RogueSnapshot struct {
	Stage        int                 `json:"stage"`
	ClickBalance int                 `json:"clickBalance"`
	TotalScore   int                 `json:"totalScore"`
	WikiPoints   int                 `json:"wikiPoints"`
	Modifiers    []rogue.Modifier    `json:"modifiers"`
	Items        []rogue.Item        `json:"items"`
	Upgrades     []rogue.Item        `json:"upgrades"`
	FreeRerolls  int                 `json:"freeRerolls"`
	StageHistory []rogue.StageRecord `json:"stageHistory"`
}

// Summary is the run overview for the UI.
type Summary struct {
	Phase       Phase            `json:"phase"`
	Mode        wikihop.ModeInfo `json:"mode"`
	StartPage   string           `json:"startPage"`
	TargetPage  string           `json:"targetPage"`
	CurrentPage string           `json:"currentPage"`
	Clicks      int              `json:"clicks"`
	History     []string         `json:"history"`
	PartyCode   string           `json:"partyCode,omitempty"`
	ElapsedMs   int64            `json:"elapsedMs"`
}

// Session owns one player's live run. All methods are serialized by the
// session lock; there is at most one navigation in flight.
type Session struct {
	logger *slog.Logger
	fetch  PageFetcher
	scores ScoreWriter
	party  PartyNotifier
	events Events

	player string

	mu          sync.Mutex
	gs          wikihop.GameState
	registry    *gamemode.Registry
	rogueMode   *gamemode.Rogue
	phase       Phase
	navInFlight bool

	modifierChoices [][]rogue.Modifier
	shopOffer       []rogue.Item
}

// New creates a session with a fresh registry of all six modes.
func New(logger *slog.Logger, player string, fetch PageFetcher, scores ScoreWriter, party PartyNotifier, events Events) *Session {
	s := &Session{
		logger: logger,
		fetch:  fetch,
		scores: scores,
		party:  party,
		events: events,
		player: player,
		phase:  PhaseIdle,
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	s.rogueMode = gamemode.NewRogue(rogue.NewState(), rng)

	s.registry = gamemode.NewRegistry()
	s.registry.Register(gamemode.NewSetRun())
	s.registry.Register(gamemode.NewRandom())
	s.registry.Register(gamemode.NewTimed())
	s.registry.Register(s.rogueMode)
	s.registry.Register(gamemode.NewTeamwork())
	s.registry.Register(gamemode.NewCompetition())
	return s
}

// Registry exposes the mode registry for listing and rule queries.
func (s *Session) Registry() *gamemode.Registry { return s.registry }

// Player returns the session's player name.
func (s *Session) Player() string { return s.player }

// InitializeRun starts a fresh run in the given mode. Any previous run's
// timers are stopped first; a stale timer must never fire against the new
// run's state.
func (s *Session) InitializeRun(ctx context.Context, id wikihop.ModeID, params gamemode.Params) (*NavResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, err := s.registry.Current(); err == nil {
		prev.Cleanup()
	}

	mode, err := s.registry.SetCurrent(id)
	if err != nil {
		return nil, err
	}

	params = s.wireTimeouts(id, params)

	if err := mode.Initialize(ctx, &s.gs, params); err != nil {
		s.registry.ClearCurrent()
		return nil, err
	}
	s.phase = PhaseRunning
	s.modifierChoices = nil
	s.shopOffer = nil

	if s.events.OnRunStarted != nil {
		s.events.OnRunStarted(s.gs)
	}

	// Initial page load: not click-driven, history stays empty.
	return s.loadPage(ctx, mode, s.gs.StartPage)
}

// wireTimeouts injects the session's timeout handlers into the params of
// the modes that own deadline timers.
func (s *Session) wireTimeouts(id wikihop.ModeID, params gamemode.Params) gamemode.Params {
	switch p := params.(type) {
	case gamemode.TimedParams:
		if p.OnTimeout == nil {
			p.OnTimeout = s.handleTimedTimeout
		}
		return p
	case gamemode.RogueParams:
		if p.OnTimeout == nil {
			p.OnTimeout = s.handleTimePressureTimeout
		}
		return p
	default:
		return params
	}
}

// NavigateTo handles one link click. The sequence from fetch completion
// to the win consequence is atomic with respect to other navigations.
func (s *Session) NavigateTo(ctx context.Context, title string) (*NavResult, error) {
	s.mu.Lock()

	if s.phase != PhaseRunning {
		s.mu.Unlock()
		return nil, ErrNoActiveRun
	}
	if s.navInFlight {
		s.mu.Unlock()
		return nil, ErrNavigationInFlight
	}

	mode, err := s.registry.Current()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	// Mode-level navigation guard: a rejection leaves all state unchanged.
	if guard, ok := mode.(gamemode.NavigationGuard); ok {
		if err := guard.ValidateNavigation(&s.gs, title); err != nil {
			s.mu.Unlock()
			return nil, err
		}
	}

	// Shared bookkeeping before the fetch.
	s.gs.Clicks++
	s.gs.History = append(s.gs.History, title)
	s.navInFlight = true
	lang := s.gs.Lang
	s.mu.Unlock()

	res, err := s.finishNavigation(ctx, mode, lang, title)

	s.mu.Lock()
	s.navInFlight = false
	s.mu.Unlock()
	return res, err
}

// finishNavigation runs the fetch suspension point and then, holding the
// lock, the hook/win-test/consequence sequence.
func (s *Session) finishNavigation(ctx context.Context, mode gamemode.Mode, lang, title string) (*NavResult, error) {
	page, err := s.fetch.FetchPage(ctx, lang, title)
	if err != nil {
		s.logger.Warn("page fetch failed", "title", title, "error", err)
		return &NavResult{
			Page:        fallbackPage(title),
			FetchFailed: true,
		}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseRunning {
		// A timer fired while the fetch was in flight.
		return &NavResult{Page: page}, nil
	}

	s.gs.CurrentPage = page.Title
	outcome := mode.OnPageLoad(&s.gs, page.Title)
	res := &NavResult{Page: page, Outcome: outcome}

	if outcome.RunEnded {
		end := s.endRogueRun(EndReasonExhausted)
		res.RunEnd = &end
		return res, nil
	}

	if !s.gs.Won() {
		s.notifyProgress(false)
		return res, nil
	}

	// endTime is set at most once per run.
	if s.gs.EndTime.IsZero() {
		s.gs.EndTime = time.Now()
	}

	if checker, ok := mode.(gamemode.StageChecker); ok {
		if sc, done := checker.CheckWin(&s.gs); done {
			s.completeStage(sc)
			res.StageComplete = &sc
			return res, nil
		}
	}

	win := mode.OnWin(&s.gs)
	s.phase = PhaseWon
	res.Won = true
	res.Win = &win

	s.applyWinConsequences(ctx, win)
	return res, nil
}

// applyWinConsequences persists and notifies per the win descriptor.
// Collaborator failures are logged and dropped; they never block the win.
func (s *Session) applyWinConsequences(ctx context.Context, win wikihop.WinResult) {
	if win.SaveLeaderboard && s.scores != nil {
		board := wikihop.BoardRandom
		entry := wikihop.ScoreEntry{
			ID:         uuid.NewString(),
			Player:     s.player,
			Clicks:     win.Clicks,
			Duration:   win.Duration,
			StartPage:  win.StartPage,
			TargetPage: win.TargetPage,
			Lang:       s.gs.Lang,
			CreatedAt:  time.Now(),
		}
		if s.gs.GamemodeID == wikihop.ModeTimed {
			board = wikihop.BoardTimed
			if timed, ok := s.currentTimed(); ok {
				entry.TimeLeft = timed.Limit() - win.Duration
			}
		}
		if err := s.scores.WriteScore(ctx, board, entry); err != nil {
			s.logger.Error("leaderboard write failed", "board", board, "error", err)
		}
	}

	if s.party != nil && s.gs.PartyCode != "" {
		s.party.UpdateProgress(s.gs.PartyCode, s.player, s.gs.Clicks, true)
		if win.NotifyOthers {
			s.party.NotifyWin(s.gs.PartyCode, s.player, win)
		}
	}

	if s.events.OnWin != nil {
		s.events.OnWin(win)
	}
}

func (s *Session) notifyProgress(finished bool) {
	if s.party != nil && s.gs.PartyCode != "" {
		s.party.UpdateProgress(s.gs.PartyCode, s.player, s.gs.Clicks, finished)
	}
}

// completeStage scores the finished stage and opens modifier selection.
// The stage counter advances here: reaching the target is the
// confirmation.
func (s *Session) completeStage(sc wikihop.StageComplete) {
	st := s.rogueMode.State()
	modCount := len(st.ActiveModifiers)

	score := rogue.StageScore(sc.UnusedClicks, modCount)
	st.TotalScore += score
	st.WikiPoints += rogue.WikiPoints(modCount)
	st.ClickBalance += rogue.ClickReward(modCount, st)
	s.gs.Clicks = st.ClickBalance

	st.StageHistory = append(st.StageHistory, rogue.StageRecord{
		StageNumber:  sc.StageNumber,
		StartPage:    s.gs.StartPage,
		TargetPage:   s.gs.TargetPage,
		ClicksUsed:   sc.ClicksUsed,
		UnusedClicks: sc.UnusedClicks,
		Score:        score,
		Modifiers:    modCount,
	})

	st.ClearModifiers()
	st.CurrentStage++

	// Difficulty choices for the next stage: 0 (the preselected default),
	// 1, 2, or 3 modifiers, each drawn without replacement.
	rng := s.rogueMode.Rand()
	s.modifierChoices = [][]rogue.Modifier{
		{},
		rogue.RandomModifiers(rng, 1, nil),
		rogue.RandomModifiers(rng, 2, nil),
		rogue.RandomModifiers(rng, 3, nil),
	}
	s.phase = PhaseModifierSelect

	if s.events.OnStageComplete != nil {
		s.events.OnStageComplete(sc)
	}
}

// ModifierChoices returns the difficulty options offered between stages.
func (s *Session) ModifierChoices() ([][]rogue.Modifier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseModifierSelect {
		return nil, ErrWrongPhase
	}
	return s.modifierChoices, nil
}

// ChooseModifiers activates the selected modifiers for the next stage,
// grants their click rewards, and opens the shop. The selection must be
// exactly one of the offered choice sets; anything else is rejected
// before any state changes.
func (s *Session) ChooseModifiers(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseModifierSelect {
		return ErrWrongPhase
	}

	chosen := matchChoice(ids, s.modifierChoices)
	if chosen == nil && len(ids) > 0 {
		return ErrInvalidChoice
	}

	st := s.rogueMode.State()
	st.ClearModifiers()
	for _, m := range chosen {
		st.AddModifier(m)
		st.ClickBalance += m.ClickReward
	}
	s.gs.Clicks = st.ClickBalance

	s.shopOffer = rogue.Inventory(s.rogueMode.Rand(), 4, s.ownedPermanentIDs())
	s.phase = PhaseShop
	return nil
}

// matchChoice finds the offered choice whose modifier ids equal the
// submitted ids, order-insensitive. Duplicate ids never match.
func matchChoice(ids []string, choices [][]rogue.Modifier) []rogue.Modifier {
	for _, choice := range choices {
		if len(ids) != len(choice) {
			continue
		}
		used := make(map[string]bool, len(choice))
		matched := true
		for _, id := range ids {
			found := false
			for _, m := range choice {
				if m.ID == id && !used[id] {
					found = true
					used[id] = true
					break
				}
			}
			if !found {
				matched = false
				break
			}
		}
		if matched {
			return choice
		}
	}
	return nil
}

// ShopOffer returns the current shop inventory.
func (s *Session) ShopOffer() ([]rogue.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseShop {
		return nil, ErrWrongPhase
	}
	return s.shopOffer, nil
}

// BuyItem purchases an item from the current offer, deducts its cost, and
// applies its immediate effect.
func (s *Session) BuyItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseShop {
		return ErrWrongPhase
	}

	var item rogue.Item
	found := false
	idx := -1
	for i, it := range s.shopOffer {
		if it.ID == id {
			item, found, idx = it, true, i
			break
		}
	}
	if !found {
		return ErrUnknownItem
	}

	st := s.rogueMode.State()
	if item.Permanent && st.HasUpgrade(item.ID) {
		return ErrAlreadyOwned
	}
	if st.ClickBalance < item.Cost {
		return ErrInsufficientBalance
	}

	st.ClickBalance -= item.Cost
	s.gs.Clicks = st.ClickBalance
	st.AddItem(item)

	// Free rerolls are banked immediately; the other consumables are used
	// from the inventory during a stage.
	if item.Effect == rogue.EffectRerolls {
		st.FreeRerolls += 2
		st.RemoveItem(item.ID)
	}

	// A bought permanent is never re-offered within this shop visit.
	if item.Permanent {
		s.shopOffer = append(s.shopOffer[:idx], s.shopOffer[idx+1:]...)
	}
	return nil
}

// UseItem consumes an owned consumable during a stage. Skip Target swaps
// in a fresh target for the current stage; Disable Modifier removes the
// most recently activated modifier.
func (s *Session) UseItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseRunning || s.gs.GamemodeID != wikihop.ModeRogue {
		return ErrWrongPhase
	}

	st := s.rogueMode.State()
	item, ok := rogue.GetItem(id)
	if !ok || !st.HasItem(id) || item.Permanent {
		return ErrUnknownItem
	}

	switch item.Effect {
	case rogue.EffectSkipTarget:
		rng := s.rogueMode.Rand()
		for i := 0; i < 100; i++ {
			next := rogue.TargetForStage(rng, st.CurrentStage)
			if next != s.gs.TargetPage && next != s.gs.CurrentPage {
				s.gs.TargetPage = next
				break
			}
		}
	case rogue.EffectDisableModifier:
		st.RemoveLastModifier()
	default:
		// Second Chance triggers on its own at exhaustion.
		return ErrUnknownItem
	}
	st.RemoveItem(id)
	return nil
}

// RerollShop regenerates the shop offer, spending a free reroll if one is
// banked, otherwise the fixed reroll cost.
func (s *Session) RerollShop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseShop {
		return ErrWrongPhase
	}

	st := s.rogueMode.State()
	if st.FreeRerolls > 0 {
		st.FreeRerolls--
	} else {
		if st.ClickBalance < rogue.RerollCost {
			return ErrInsufficientBalance
		}
		st.ClickBalance -= rogue.RerollCost
		s.gs.Clicks = st.ClickBalance
	}

	s.shopOffer = rogue.Inventory(s.rogueMode.Rand(), 4, s.ownedPermanentIDs())
	return nil
}

// StartNextStage leaves the shop and begins the next stage leg.
func (s *Session) StartNextStage(ctx context.Context) (*NavResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseShop {
		return nil, ErrWrongPhase
	}

	if err := s.rogueMode.StartStage(&s.gs); err != nil {
		return nil, err
	}
	s.phase = PhaseRunning
	s.shopOffer = nil
	s.modifierChoices = nil

	return s.loadPage(ctx, s.rogueMode, s.gs.StartPage)
}

// loadPage performs a non-click page load (run or stage start). Caller
// holds the lock.
func (s *Session) loadPage(ctx context.Context, mode gamemode.Mode, title string) (*NavResult, error) {
	page, err := s.fetch.FetchPage(ctx, s.gs.Lang, title)
	if err != nil {
		s.logger.Warn("initial page fetch failed", "title", title, "error", err)
		return &NavResult{Page: fallbackPage(title), FetchFailed: true}, nil
	}
	s.gs.CurrentPage = page.Title
	outcome := mode.OnPageLoad(&s.gs, page.Title)
	return &NavResult{Page: page, Outcome: outcome}, nil
}

func (s *Session) ownedPermanentIDs() []string {
	st := s.rogueMode.State()
	ids := make([]string, 0, len(st.PermanentUpgrades))
	for _, it := range st.PermanentUpgrades {
		ids = append(ids, it.ID)
	}
	return ids
}

// endRogueRun concludes the Rogue run. Caller holds the lock.
func (s *Session) endRogueRun(reason string) RunEnd {
	if s.gs.EndTime.IsZero() {
		s.gs.EndTime = time.Now()
	}
	s.rogueMode.Cleanup()
	final := s.rogueMode.Final()
	end := RunEnd{Reason: reason, Rogue: &final}
	s.phase = PhaseEnded
	if s.events.OnRunEnded != nil {
		s.events.OnRunEnded(end)
	}
	return end
}

// handleTimedTimeout fires when the Time Attack deadline passes with the
// target unreached. Timeouts synthesize a loss and are never scored.
func (s *Session) handleTimedTimeout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseRunning || s.gs.GamemodeID != wikihop.ModeTimed {
		return
	}
	timed, ok := s.currentTimed()
	if !ok {
		return
	}

	if s.gs.EndTime.IsZero() {
		s.gs.EndTime = time.Now()
	}
	loss := timed.OnTimeOut(&s.gs)
	s.phase = PhaseTimedOut

	s.notifyProgress(false)
	if s.events.OnRunEnded != nil {
		s.events.OnRunEnded(RunEnd{Reason: EndReasonTimeout, Win: &loss})
	}
}

// handleTimePressureTimeout fires when a Rogue time-pressure modifier
// expires: the run ends on the spot.
func (s *Session) handleTimePressureTimeout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseRunning || s.gs.GamemodeID != wikihop.ModeRogue {
		return
	}
	s.endRogueRun(EndReasonTimePressure)
}

func (s *Session) currentTimed() (*gamemode.Timed, bool) {
	mode, err := s.registry.Current()
	if err != nil {
		return nil, false
	}
	timed, ok := mode.(*gamemode.Timed)
	return timed, ok
}

// Summarize returns the run overview.
func (s *Session) Summarize() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := Summary{
		Phase:       s.phase,
		StartPage:   s.gs.StartPage,
		TargetPage:  s.gs.TargetPage,
		CurrentPage: s.gs.CurrentPage,
		Clicks:      s.gs.Clicks,
		History:     append([]string(nil), s.gs.History...),
		PartyCode:   s.gs.PartyCode,
	}
	if mode, err := s.registry.Current(); err == nil {
		sum.Mode = mode.Info()
	}
	if !s.gs.StartTime.IsZero() {
		sum.ElapsedMs = s.gs.Elapsed().Milliseconds()
	}
	return sum
}

// Rogue returns the sidebar snapshot of the Rogue run state.
func (s *Session) Rogue() RogueSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.rogueMode.State()
	return RogueSnapshot{
		Stage:        st.CurrentStage,
		ClickBalance: st.ClickBalance,
		TotalScore:   st.TotalScore,
		WikiPoints:   st.WikiPoints,
		Modifiers:    append([]rogue.Modifier(nil), st.ActiveModifiers...),
		Items:        append([]rogue.Item(nil), st.OwnedItems...),
		Upgrades:     append([]rogue.Item(nil), st.PermanentUpgrades...),
		FreeRerolls:  st.FreeRerolls,
		StageHistory: append([]rogue.StageRecord(nil), st.StageHistory...),
	}
}

// Close tears the run down, cancelling any live timers.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mode, err := s.registry.Current(); err == nil {
		mode.Cleanup()
	}
	s.registry.ClearCurrent()
	s.phase = PhaseIdle
}

func fallbackPage(title string) wikihop.Page {
	return wikihop.Page{
		Title: title,
		HTML:  "<p>Could not load page \"" + title + "\".</p>",
	}
}

// Package wikihop defines the core domain types shared by the game engine.
// It has zero external dependencies — everything here is pure Go.
package wikihop

import "time"

// ModeID identifies one of the six gamemode variants.
type ModeID string

const (
	ModeSetRun      ModeID = "set"
	ModeRandom      ModeID = "random"
	ModeTimed       ModeID = "timed"
	ModeRogue       ModeID = "rogue"
	ModeTeamwork    ModeID = "teamwork"
	ModeCompetition ModeID = "competition"
)

// ModeCategory is the coarse category tag stored on GameState.
type ModeCategory string

const (
	CategorySet        ModeCategory = "set"
	CategoryRandom     ModeCategory = "random"
	CategoryTimed      ModeCategory = "timed"
	CategoryIndividual ModeCategory = "individual"
	CategoryParty      ModeCategory = "party"
)

// Rules is the per-mode rule record queried by the UI and by the
// multiplayer consequence logic.
type Rules struct {
	SharedClicks       bool `json:"sharedClicks"`
	SharedTimer        bool `json:"sharedTimer"`
	CompetitiveScoring bool `json:"competitiveScoring"`
	AllowCollaboration bool `json:"allowCollaboration"`
}

// ModeInfo is the display metadata for a gamemode.
type ModeInfo struct {
	ID             ModeID `json:"id"`
	Label          string `json:"label"`
	Description    string `json:"description"`
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	Rules          Rules  `json:"rules"`
	Multiplayer    bool   `json:"isMultiplayer"`
}

// GameState is the shared, single live run state per client session.
//
// Clicks counts up from zero for every mode except Rogue, where it mirrors
// the countdown resource balance. Either way the UI reads it as "cost
// incurred so far".
type GameState struct {
	StartPage   string
	TargetPage  string
	CurrentPage string
	Clicks      int
	History     []string
	Category    ModeCategory
	GamemodeID  ModeID
	Lang        string
	StartTime   time.Time
	EndTime     time.Time
	PartyCode   string
}

// Elapsed reports the run duration: up to EndTime once set, otherwise
// up to now.
func (g *GameState) Elapsed() time.Duration {
	if !g.EndTime.IsZero() {
		return g.EndTime.Sub(g.StartTime)
	}
	return time.Since(g.StartTime)
}

// Won reports the win condition: exact title equality against the canonical
// article title returned by the page fetcher.
func (g *GameState) Won() bool {
	return g.CurrentPage != "" && g.CurrentPage == g.TargetPage
}

// WinResult is what a gamemode returns from OnWin.
type WinResult struct {
	Clicks          int           `json:"clicks"`
	Duration        time.Duration `json:"duration"`
	StartPage       string        `json:"startPage"`
	TargetPage      string        `json:"targetPage"`
	SaveLeaderboard bool          `json:"saveLeaderboard"`
	NotifyOthers    bool          `json:"notifyOthers"`
	PartyCode       string        `json:"partyCode,omitempty"`
	TimedOut        bool          `json:"timedOut"`
}

// StageComplete describes a completed Rogue stage. It is distinct from a
// terminal win: the driver routes it to stage-advance logic instead of the
// generic win screen.
type StageComplete struct {
	StageNumber  int `json:"stageNumber"`
	ClicksUsed   int `json:"clicksUsed"`
	UnusedClicks int `json:"unusedClicks"`
}

// Board identifies a leaderboard.
type Board string

const (
	BoardRandom Board = "random"
	BoardTimed  Board = "timed"
)

// ScoreEntry is one leaderboard row. TimeLeft is only meaningful on the
// timed board.
type ScoreEntry struct {
	ID             string        `json:"id"`
	Player         string        `json:"player"`
	Clicks         int           `json:"clicks"`
	Duration       time.Duration `json:"duration"`
	TimeLeft       time.Duration `json:"timeLeft"`
	StartPage      string        `json:"startPage"`
	TargetPage     string        `json:"targetPage"`
	Lang           string        `json:"lang"`
	ChallengedFrom string        `json:"challengedFrom,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// Page is a fetched wiki article: the canonical title plus its body HTML.
type Page struct {
	Title string
	HTML  string
}

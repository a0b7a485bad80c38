// Package party implements multiplayer lobbies: short-code parties,
// player rosters with live progress, and an in-process event broker for
// the SSE fan-out.
package party

import (
	"errors"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wikihop/wikihop/internal/wikihop"
)

var (
	// ErrPartyNotFound means no party exists under the code.
	ErrPartyNotFound = errors.New("party not found")
	// ErrPlayerNotFound means the player is not in the party roster.
	ErrPlayerNotFound = errors.New("player not found in party")
	// ErrNotHost rejects a host-only operation from a non-host player.
	ErrNotHost = errors.New("only the host can start the game")
)

// Party status values.
const (
	StatusLobby    = "lobby"
	StatusPlaying  = "playing"
	StatusFinished = "finished"
)

const codeLen = 6

const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// Player is one roster entry.
type Player struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Clicks   int       `json:"clicks"`
	Finished bool      `json:"finished"`
	JoinedAt time.Time `json:"joinedAt"`
}

type party struct {
	code       string
	lang       string
	status     string
	hostID     string
	mode       wikihop.ModeID
	startPage  string
	targetPage string
	winner     string
	createdAt  time.Time
	players    map[string]*Player
}

// View is a read-only party snapshot.
type View struct {
	Code       string         `json:"code"`
	Lang       string         `json:"lang"`
	Status     string         `json:"status"`
	HostID     string         `json:"hostId"`
	Mode       wikihop.ModeID `json:"mode,omitempty"`
	StartPage  string         `json:"startPage,omitempty"`
	TargetPage string         `json:"targetPage,omitempty"`
	Winner     string         `json:"winner,omitempty"`
	Players    []Player       `json:"players"`
}

// Store keeps live parties in memory, keyed by code.
type Store struct {
	mu      sync.RWMutex
	rng     *rand.Rand
	parties map[string]*party
}

// NewStore returns an empty party store.
func NewStore() *Store {
	return &Store{
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		parties: make(map[string]*party),
	}
}

func (s *Store) newCode() string {
	for {
		b := make([]byte, codeLen)
		for i := range b {
			b[i] = codeAlphabet[s.rng.Intn(len(codeAlphabet))]
		}
		code := string(b)
		if _, taken := s.parties[code]; !taken {
			return code
		}
	}
}

// Create opens a new lobby with the host as its first player. It returns
// the party code and the host's player id.
func (s *Store) Create(hostName, lang string) (code, playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code = s.newCode()
	playerID = uuid.NewString()
	s.parties[code] = &party{
		code:      code,
		lang:      lang,
		status:    StatusLobby,
		hostID:    playerID,
		createdAt: time.Now(),
		players: map[string]*Player{
			playerID: {ID: playerID, Name: hostName, JoinedAt: time.Now()},
		},
	}
	return code, playerID
}

// Join adds a player to an existing party and returns their player id.
func (s *Store) Join(code, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.parties[code]
	if !ok {
		return "", ErrPartyNotFound
	}
	playerID := uuid.NewString()
	p.players[playerID] = &Player{ID: playerID, Name: name, JoinedAt: time.Now()}
	return playerID, nil
}

// Leave removes a player. An emptied party is dropped.
func (s *Store) Leave(code, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.parties[code]
	if !ok {
		return ErrPartyNotFound
	}
	delete(p.players, playerID)
	if len(p.players) == 0 {
		delete(s.parties, code)
	}
	return nil
}

// SetGame moves the party from lobby to playing with the given game
// parameters. Host only, and every player's progress is reset.
func (s *Store) SetGame(code, playerID string, mode wikihop.ModeID, startPage, targetPage string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.parties[code]
	if !ok {
		return ErrPartyNotFound
	}
	if p.hostID != playerID {
		return ErrNotHost
	}
	p.mode = mode
	p.startPage = startPage
	p.targetPage = targetPage
	p.status = StatusPlaying
	p.winner = ""
	for _, pl := range p.players {
		pl.Clicks = 0
		pl.Finished = false
	}
	return nil
}

// UpdatePlayer records a player's click count and finished flag.
func (s *Store) UpdatePlayer(code, playerID string, clicks int, finished bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.parties[code]
	if !ok {
		return ErrPartyNotFound
	}
	pl, ok := p.players[playerID]
	if !ok {
		return ErrPlayerNotFound
	}
	pl.Clicks = clicks
	pl.Finished = finished
	return nil
}

// SetWinner marks the party finished with the named winner. Only the
// first win sticks.
func (s *Store) SetWinner(code, winner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.parties[code]
	if !ok {
		return ErrPartyNotFound
	}
	if p.winner == "" {
		p.winner = winner
		p.status = StatusFinished
	}
	return nil
}

// Snapshot returns the party view with the roster in join order.
func (s *Store) Snapshot(code string) (View, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.parties[code]
	if !ok {
		return View{}, ErrPartyNotFound
	}

	players := make([]Player, 0, len(p.players))
	for _, pl := range p.players {
		players = append(players, *pl)
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].JoinedAt.Equal(players[j].JoinedAt) {
			return players[i].ID < players[j].ID
		}
		return players[i].JoinedAt.Before(players[j].JoinedAt)
	})

	return View{
		Code:       p.code,
		Lang:       p.lang,
		Status:     p.status,
		HostID:     p.hostID,
		Mode:       p.mode,
		StartPage:  p.startPage,
		TargetPage: p.targetPage,
		Winner:     p.winner,
		Players:    players,
	}, nil
}

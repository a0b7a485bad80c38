package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/wikihop/wikihop/internal/game"
	"github.com/wikihop/wikihop/internal/party"
	"github.com/wikihop/wikihop/internal/wikihop"
)

// liveSession ties one browser's game session to its collaborators.
type liveSession struct {
	game     *game.Session
	notifier *party.Notifier
	tagger   *challengeTagger
}

// Sessions is the in-memory registry of live game sessions, keyed by the
// game cookie id.
type Sessions struct {
	logger *slog.Logger
	fetch  game.PageFetcher
	store  Store
	pstore *party.Store
	broker *party.Broker

	mu       sync.RWMutex
	sessions map[string]*liveSession
}

func NewSessions(logger *slog.Logger, fetch game.PageFetcher, store Store, pstore *party.Store, broker *party.Broker) *Sessions {
	return &Sessions{
		logger:   logger,
		fetch:    fetch,
		store:    store,
		pstore:   pstore,
		broker:   broker,
		sessions: make(map[string]*liveSession),
	}
}

// Get returns the live session for the id, if one exists.
func (s *Sessions) Get(id string) (*liveSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Ensure returns the session for the id, creating one for the player if
// needed.
func (s *Sessions) Ensure(id, player string) *liveSession {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring write lock.
	if sess, ok := s.sessions[id]; ok {
		return sess
	}

	notifier := &party.Notifier{Store: s.pstore, Broker: s.broker}
	tagger := &challengeTagger{inner: s.store}
	sess = &liveSession{
		game:     game.New(s.logger, player, s.fetch, tagger, notifier, s.runEvents(id)),
		notifier: notifier,
		tagger:   tagger,
	}
	s.sessions[id] = sess
	return sess
}

// runEvent is one entry on a session's lifecycle stream.
type runEvent struct {
	Type          string                 `json:"type"`
	Mode          wikihop.ModeID         `json:"mode,omitempty"`
	Win           *wikihop.WinResult     `json:"win,omitempty"`
	StageComplete *wikihop.StageComplete `json:"stageComplete,omitempty"`
	RunEnd        *game.RunEnd           `json:"runEnd,omitempty"`
}

// runTopic keys run lifecycle streams on the shared broker, away from
// the party-code namespace.
func runTopic(id string) string { return "run:" + id }

// runEvents fans run lifecycle callbacks out to the session's SSE
// subscribers.
func (s *Sessions) runEvents(id string) game.Events {
	topic := runTopic(id)
	return game.Events{
		OnRunStarted: func(gs wikihop.GameState) {
			s.broker.PublishJSON(topic, runEvent{Type: "run_started", Mode: gs.GamemodeID})
		},
		OnStageComplete: func(sc wikihop.StageComplete) {
			s.broker.PublishJSON(topic, runEvent{Type: "stage_complete", StageComplete: &sc})
		},
		OnRunEnded: func(end game.RunEnd) {
			s.broker.PublishJSON(topic, runEvent{Type: "run_ended", RunEnd: &end})
		},
		OnWin: func(win wikihop.WinResult) {
			s.broker.PublishJSON(topic, runEvent{Type: "win", Win: &win})
		},
	}
}

// Drop removes a session and cancels its timers.
func (s *Sessions) Drop(id string) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if ok {
		sess.game.Close()
	}
}

// challengeTagger stamps leaderboard writes with the challenge origin of
// the current run, when there is one.
type challengeTagger struct {
	inner Store

	mu   sync.Mutex
	from string
}

func (t *challengeTagger) setChallengedFrom(name string) {
	t.mu.Lock()
	t.from = name
	t.mu.Unlock()
}

func (t *challengeTagger) WriteScore(ctx context.Context, board wikihop.Board, e wikihop.ScoreEntry) error {
	t.mu.Lock()
	e.ChallengedFrom = t.from
	t.mu.Unlock()
	return t.inner.WriteScore(ctx, board, e)
}

package server

import (
	"context"
	"errors"
	"time"

	"github.com/wikihop/wikihop/internal/wikihop"
)

var ErrNotFound = errors.New("not found")

type userSession struct {
	UserID string
	Name   string
}

// Challenge is a shareable replay of a leaderboard run: same start and
// target pair, tagged with the challenger's name.
type Challenge struct {
	ID         string        `json:"id"`
	Board      wikihop.Board `json:"board"`
	StartPage  string        `json:"startPage"`
	TargetPage string        `json:"targetPage"`
	Lang       string        `json:"lang"`
	Challenger string        `json:"challenger"`
	CreatedAt  time.Time     `json:"createdAt"`
}

type Store interface {
	CreateUser(ctx context.Context, name, passwordHash string) (string, error)
	UserByName(ctx context.Context, name string) (id, passwordHash string, err error)
	CreateSession(ctx context.Context, userID string) (string, error)
	UserFromSession(ctx context.Context, sessionID string) (userSession, error)
	DeleteSession(ctx context.Context, sessionID string) error

	TopScores(ctx context.Context, board wikihop.Board, lang string) ([]wikihop.ScoreEntry, error)
	WriteScore(ctx context.Context, board wikihop.Board, entry wikihop.ScoreEntry) error
	HasChallenged(ctx context.Context, board wikihop.Board, player, startPage, targetPage string) (bool, error)

	CreateChallenge(ctx context.Context, c Challenge) error
	GetChallenge(ctx context.Context, id string) (Challenge, error)
}

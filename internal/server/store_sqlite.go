package server

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/wikihop/wikihop/internal/wikihop"
)

// leaderboardSize caps every board at its top entries.
const leaderboardSize = 10

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) CreateUser(ctx context.Context, name, passwordHash string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, name, password_hash, created_at)
		VALUES (lower(hex(randomblob(16))), ?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		RETURNING id
	`, name, passwordHash).Scan(&id)
	return id, err
}

func (s *SQLiteStore) UserByName(ctx context.Context, name string) (string, string, error) {
	var id, hash string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash FROM users WHERE name = ?
	`, name).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrNotFound
	}
	return id, hash, err
}

func (s *SQLiteStore) CreateSession(ctx context.Context, userID string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO user_sessions (id, user_id, created_at)
		VALUES (lower(hex(randomblob(16))), ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		RETURNING id
	`, userID).Scan(&id)
	return id, err
}

func (s *SQLiteStore) UserFromSession(ctx context.Context, sessionID string) (userSession, error) {
	var sess userSession
	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.name
		FROM user_sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = ?
	`, sessionID).Scan(&sess.UserID, &sess.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return userSession{}, errNoSession
	}
	return sess, err
}

func (s *SQLiteStore) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE id = ?`, sessionID)
	return err
}

// TopScores returns a board's top entries. The random board ranks by
// fewest clicks (ties broken by duration), the timed board by most time
// left on the clock.
func (s *SQLiteStore) TopScores(ctx context.Context, board wikihop.Board, lang string) ([]wikihop.ScoreEntry, error) {
	order := "clicks ASC, duration_ms ASC"
	if board == wikihop.BoardTimed {
		order = "time_left_ms DESC"
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, player, clicks, duration_ms, time_left_ms,
		       start_page, target_page, lang, challenged_from, created_at
		FROM scores
		WHERE board = ? AND lang = ?
		ORDER BY `+order+`
		LIMIT ?
	`, string(board), lang, leaderboardSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []wikihop.ScoreEntry
	for rows.Next() {
		var e wikihop.ScoreEntry
		var durationMs, timeLeftMs int64
		var challengedFrom sql.NullString
		var createdAt string
		if err := rows.Scan(&e.ID, &e.Player, &e.Clicks, &durationMs, &timeLeftMs,
			&e.StartPage, &e.TargetPage, &e.Lang, &challengedFrom, &createdAt); err != nil {
			return nil, err
		}
		e.Duration = time.Duration(durationMs) * time.Millisecond
		e.TimeLeft = time.Duration(timeLeftMs) * time.Millisecond
		e.ChallengedFrom = challengedFrom.String
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			e.CreatedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) WriteScore(ctx context.Context, board wikihop.Board, e wikihop.ScoreEntry) error {
	var challengedFrom any
	if e.ChallengedFrom != "" {
		challengedFrom = e.ChallengedFrom
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scores (id, board, player, clicks, duration_ms, time_left_ms,
		                    start_page, target_page, lang, challenged_from, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
	`, e.ID, string(board), e.Player, e.Clicks, e.Duration.Milliseconds(),
		e.TimeLeft.Milliseconds(), e.StartPage, e.TargetPage, e.Lang, challengedFrom)
	return err
}

// HasChallenged reports whether the player already has a challenged
// score for the route on the board. Guards against repeat challenges of
// the same entry.
func (s *SQLiteStore) HasChallenged(ctx context.Context, board wikihop.Board, player, startPage, targetPage string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM scores
		WHERE board = ? AND player = ? AND start_page = ? AND target_page = ?
		  AND challenged_from IS NOT NULL
	`, string(board), player, startPage, targetPage).Scan(&n)
	return n > 0, err
}

func (s *SQLiteStore) CreateChallenge(ctx context.Context, c Challenge) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO challenges (id, board, start_page, target_page, lang, challenger, created_at)
		VALUES (?, ?, ?, ?, ?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
	`, c.ID, string(c.Board), c.StartPage, c.TargetPage, c.Lang, c.Challenger)
	return err
}

func (s *SQLiteStore) GetChallenge(ctx context.Context, id string) (Challenge, error) {
	var c Challenge
	var board, createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, board, start_page, target_page, lang, challenger, created_at
		FROM challenges WHERE id = ?
	`, id).Scan(&c.ID, &board, &c.StartPage, &c.TargetPage, &c.Lang, &c.Challenger, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Challenge{}, ErrNotFound
	}
	if err != nil {
		return Challenge{}, err
	}
	c.Board = wikihop.Board(board)
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		c.CreatedAt = t
	}
	return c, nil
}

package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wikihop/wikihop/internal/wiki"
	"github.com/wikihop/wikihop/internal/wikihop"
)

// LeaderboardResponse is one board's top entries.
type LeaderboardResponse struct {
	Board   wikihop.Board        `json:"board"`
	Lang    string               `json:"lang"`
	Entries []wikihop.ScoreEntry `json:"entries"`
}

// CreateChallengeRequest is the request body for POST /api/challenges.
type CreateChallengeRequest struct {
	Board      wikihop.Board `json:"board"`
	StartPage  string        `json:"startPage"`
	TargetPage string        `json:"targetPage"`
	Lang       string        `json:"lang"`
	Challenger string        `json:"challenger"`
}

func parseBoard(s string) (wikihop.Board, bool) {
	switch wikihop.Board(s) {
	case wikihop.BoardRandom, wikihop.BoardTimed:
		return wikihop.Board(s), true
	default:
		return "", false
	}
}

func handleLeaderboard(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		board, ok := parseBoard(chi.URLParam(r, "board"))
		if !ok {
			writeError(w, http.StatusNotFound, "unknown leaderboard")
			return
		}
		lang := r.URL.Query().Get("lang")
		if lang == "" {
			lang = "en"
		}
		if !wiki.Supported(lang) {
			writeError(w, http.StatusBadRequest, "unsupported language")
			return
		}

		entries, err := store.TopScores(r.Context(), board, lang)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if entries == nil {
			entries = []wikihop.ScoreEntry{}
		}
		writeJSON(w, http.StatusOK, LeaderboardResponse{Board: board, Lang: lang, Entries: entries})
	}
}

// ChallengedResponse reports whether a player already challenged a route.
type ChallengedResponse struct {
	Challenged bool `json:"challenged"`
}

// handleHasChallenged lets the UI hide the challenge button on routes
// the player has already attempted.
func handleHasChallenged(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		board, ok := parseBoard(chi.URLParam(r, "board"))
		if !ok {
			writeError(w, http.StatusNotFound, "unknown leaderboard")
			return
		}
		q := r.URL.Query()
		player := playerName(r, store, q.Get("player"))
		start, target := q.Get("start"), q.Get("target")
		if start == "" || target == "" {
			writeError(w, http.StatusBadRequest, "start and target are required")
			return
		}

		challenged, err := store.HasChallenged(r.Context(), board, player, start, target)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, ChallengedResponse{Challenged: challenged})
	}
}

func handleCreateChallenge(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateChallengeRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if _, ok := parseBoard(string(req.Board)); !ok {
			writeError(w, http.StatusBadRequest, "unknown board")
			return
		}
		if req.StartPage == "" || req.TargetPage == "" {
			writeError(w, http.StatusBadRequest, "startPage and targetPage are required")
			return
		}
		if req.Lang == "" {
			req.Lang = "en"
		}
		if req.Challenger == "" {
			req.Challenger = playerName(r, store, "")
		}

		c := Challenge{
			ID:         uuid.NewString(),
			Board:      req.Board,
			StartPage:  req.StartPage,
			TargetPage: req.TargetPage,
			Lang:       req.Lang,
			Challenger: req.Challenger,
		}
		if err := store.CreateChallenge(r.Context(), c); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

func handleGetChallenge(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := store.GetChallenge(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "challenge not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wikihop/wikihop/internal/party"
	"github.com/wikihop/wikihop/internal/wiki"
	"github.com/wikihop/wikihop/internal/wikihop"
)

// CreatePartyRequest is the request body for POST /api/party.
type CreatePartyRequest struct {
	Name string `json:"name"`
	Lang string `json:"lang,omitempty"`
}

// JoinPartyRequest is the request body for POST /api/party/{code}/join.
type JoinPartyRequest struct {
	Name string `json:"name"`
}

// PartyMembershipResponse is returned on create and join.
type PartyMembershipResponse struct {
	Code     string     `json:"code"`
	PlayerID string     `json:"playerId"`
	Party    party.View `json:"party"`
}

// StartPartyRequest is the request body for POST /api/party/{code}/start.
type StartPartyRequest struct {
	Mode       wikihop.ModeID `json:"mode"`
	StartPage  string         `json:"startPage,omitempty"`
	TargetPage string         `json:"targetPage,omitempty"`
}

func handleCreateParty(sessions *Sessions, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreatePartyRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Lang == "" {
			req.Lang = "en"
		}
		if !wiki.Supported(req.Lang) {
			writeError(w, http.StatusBadRequest, "unsupported language")
			return
		}

		name := playerName(r, store, req.Name)
		code, playerID := sessions.pstore.Create(name, req.Lang)

		sess := sessions.Ensure(gameID(r), name)
		sess.notifier.SetPlayerID(playerID)

		view, _ := sessions.pstore.Snapshot(code)
		sessions.broker.Publish(code, party.Event{Type: party.EventRoster, Player: name})
		writeJSON(w, http.StatusCreated, PartyMembershipResponse{Code: code, PlayerID: playerID, Party: view})
	}
}

func handleJoinParty(sessions *Sessions, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req JoinPartyRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		code := strings.ToUpper(chi.URLParam(r, "code"))
		name := playerName(r, store, req.Name)

		playerID, err := sessions.pstore.Join(code, name)
		if errors.Is(err, party.ErrPartyNotFound) {
			writeError(w, http.StatusNotFound, "party not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		sess := sessions.Ensure(gameID(r), name)
		sess.notifier.SetPlayerID(playerID)

		view, _ := sessions.pstore.Snapshot(code)
		sessions.broker.Publish(code, party.Event{Type: party.EventRoster, Player: name})
		writeJSON(w, http.StatusOK, PartyMembershipResponse{Code: code, PlayerID: playerID, Party: view})
	}
}

func handleGetParty(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := strings.ToUpper(chi.URLParam(r, "code"))
		view, err := sessions.pstore.Snapshot(code)
		if errors.Is(err, party.ErrPartyNotFound) {
			writeError(w, http.StatusNotFound, "party not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// handleStartParty sets the party's game pair and announces it. Each
// member then starts their own run against the shared pair.
func handleStartParty(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StartPartyRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Mode != wikihop.ModeTeamwork && req.Mode != wikihop.ModeCompetition {
			writeError(w, http.StatusBadRequest, "mode must be teamwork or competition")
			return
		}

		code := strings.ToUpper(chi.URLParam(r, "code"))
		view, err := sessions.pstore.Snapshot(code)
		if errors.Is(err, party.ErrPartyNotFound) {
			writeError(w, http.StatusNotFound, "party not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		start, target := req.StartPage, req.TargetPage
		if start == "" || target == "" {
			if start, err = sessions.fetch.RandomTitle(r.Context(), view.Lang); err != nil {
				writeError(w, http.StatusBadGateway, "could not generate pages")
				return
			}
			for i := 0; i < 100; i++ {
				if target, err = sessions.fetch.RandomTitle(r.Context(), view.Lang); err != nil {
					writeError(w, http.StatusBadGateway, "could not generate pages")
					return
				}
				if target != start {
					break
				}
			}
		}

		sess, ok := sessions.Get(gameID(r))
		if !ok || sess.notifier.PlayerID() == "" {
			writeError(w, http.StatusForbidden, "join the party first")
			return
		}
		err = sessions.pstore.SetGame(code, sess.notifier.PlayerID(), req.Mode, start, target)
		if errors.Is(err, party.ErrNotHost) {
			writeError(w, http.StatusForbidden, "only the host can start the game")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		sessions.broker.Publish(code, party.Event{
			Type:       party.EventStarted,
			Mode:       req.Mode,
			StartPage:  start,
			TargetPage: target,
		})
		view, _ = sessions.pstore.Snapshot(code)
		writeJSON(w, http.StatusOK, view)
	}
}

func handleLeaveParty(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := strings.ToUpper(chi.URLParam(r, "code"))
		sess, ok := sessions.Get(gameID(r))
		if !ok || sess.notifier.PlayerID() == "" {
			writeError(w, http.StatusNotFound, "not in this party")
			return
		}
		if err := sessions.pstore.Leave(code, sess.notifier.PlayerID()); err != nil {
			writeError(w, http.StatusNotFound, "party not found")
			return
		}
		sess.notifier.SetPlayerID("")
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func handlePartyEvents(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := strings.ToUpper(chi.URLParam(r, "code"))
		if _, err := sessions.pstore.Snapshot(code); err != nil {
			writeError(w, http.StatusNotFound, "party not found")
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		ch := sessions.broker.Subscribe(code)
		defer sessions.broker.Unsubscribe(code, ch)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		flusher.Flush()

		ping := time.NewTicker(30 * time.Second)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case data := <-ch:
				fmt.Fprintf(w, "event: party\ndata: %s\n\n", data)
				flusher.Flush()
			case <-ping.C:
				fmt.Fprintf(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}

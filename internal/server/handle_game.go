package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/wikihop/wikihop/internal/game"
	"github.com/wikihop/wikihop/internal/gamemode"
	"github.com/wikihop/wikihop/internal/wiki"
	"github.com/wikihop/wikihop/internal/wikihop"
)

// StartRunRequest is the request body for POST /api/game/start.
type StartRunRequest struct {
	Mode         wikihop.ModeID `json:"mode"`
	StartPage    string         `json:"startPage,omitempty"`
	TargetPage   string         `json:"targetPage,omitempty"`
	Lang         string         `json:"lang,omitempty"`
	TimeLimitSec int            `json:"timeLimitSec,omitempty"`
	PartyCode    string         `json:"partyCode,omitempty"`
	PlayerName   string         `json:"playerName,omitempty"`
	ChallengeID  string         `json:"challengeId,omitempty"`
}

// NavigateRequest is the request body for POST /api/game/navigate.
type NavigateRequest struct {
	Title string `json:"title"`
}

// RunResponse pairs the run summary with the latest navigation result.
type RunResponse struct {
	Summary game.Summary        `json:"summary"`
	Nav     *game.NavResult     `json:"nav,omitempty"`
	Rogue   *game.RogueSnapshot `json:"rogue,omitempty"`
}

func runResponse(sess *liveSession, nav *game.NavResult) RunResponse {
	resp := RunResponse{Summary: sess.game.Summarize(), Nav: nav}
	if resp.Summary.Mode.ID == wikihop.ModeRogue {
		snap := sess.game.Rogue()
		resp.Rogue = &snap
	}
	return resp
}

func handleStartRun(sessions *Sessions, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StartRunRequest
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

		sess := sessions.Ensure(gameID(r), playerName(r, store, req.PlayerName))
		sess.tagger.setChallengedFrom("")

		params, err := buildParams(r.Context(), sessions, store, sess, &req)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		nav, err := sess.game.InitializeRun(r.Context(), req.Mode, params)
		if err != nil {
			var cv *gamemode.ContractViolationError
			switch {
			case errors.As(err, &cv):
				writeError(w, http.StatusBadRequest, cv.Error())
			case errors.Is(err, gamemode.ErrModeNotFound):
				writeError(w, http.StatusNotFound, "unknown gamemode")
			default:
				writeError(w, http.StatusInternalServerError, "could not start run")
			}
			return
		}
		writeJSON(w, http.StatusCreated, runResponse(sess, nav))
	}
}

// buildParams maps the start request onto the mode's parameter variant.
func buildParams(ctx context.Context, sessions *Sessions, store Store, sess *liveSession, req *StartRunRequest) (gamemode.Params, error) {
	// A challenge replays a fixed pair on the challenger's board: the
	// timed board gets the timed mode back (timer and all), everything
	// else replays as a random run. The mode choice routes the score to
	// the original board.
	if req.ChallengeID != "" {
		ch, err := store.GetChallenge(ctx, req.ChallengeID)
		if err != nil {
			return nil, errors.New("challenge not found")
		}
		sess.tagger.setChallengedFrom(ch.Challenger)
		req.Lang = ch.Lang

		if ch.Board == wikihop.BoardTimed {
			req.Mode = wikihop.ModeTimed
			return gamemode.TimedParams{
				StartPage:  ch.StartPage,
				TargetPage: ch.TargetPage,
				Lang:       ch.Lang,
				Limit:      time.Duration(req.TimeLimitSec) * time.Second,
			}, nil
		}

		req.Mode = wikihop.ModeRandom
		return gamemode.RandomParams{
			Titles: fixedTitles(ch.StartPage, ch.TargetPage),
			Lang:   ch.Lang,
		}, nil
	}

	switch req.Mode {
	case wikihop.ModeSetRun:
		if req.StartPage == "" || req.TargetPage == "" {
			return nil, errors.New("set runs require startPage and targetPage")
		}
		return gamemode.SetRunParams{
			StartPage:  req.StartPage,
			TargetPage: req.TargetPage,
			Lang:       req.Lang,
		}, nil

	case wikihop.ModeRandom:
		return gamemode.RandomParams{
			Titles: func(ctx context.Context) (string, error) {
				return sessions.fetch.RandomTitle(ctx, req.Lang)
			},
			Lang: req.Lang,
		}, nil

	case wikihop.ModeTimed:
		start, target := req.StartPage, req.TargetPage
		if start == "" || target == "" {
			var err error
			if start, err = sessions.fetch.RandomTitle(ctx, req.Lang); err != nil {
				return nil, errors.New("could not generate pages")
			}
			for i := 0; i < 100; i++ {
				if target, err = sessions.fetch.RandomTitle(ctx, req.Lang); err != nil {
					return nil, errors.New("could not generate pages")
				}
				if target != start {
					break
				}
			}
		}
		return gamemode.TimedParams{
			StartPage:  start,
			TargetPage: target,
			Lang:       req.Lang,
			Limit:      time.Duration(req.TimeLimitSec) * time.Second,
		}, nil

	case wikihop.ModeRogue:
		return gamemode.RogueParams{Lang: req.Lang}, nil

	case wikihop.ModeTeamwork, wikihop.ModeCompetition:
		if req.PartyCode == "" {
			return nil, errors.New("multiplayer modes require partyCode")
		}
		view, err := sessions.pstore.Snapshot(req.PartyCode)
		if err != nil {
			return nil, errors.New("party not found")
		}
		start, target := view.StartPage, view.TargetPage
		if start == "" || target == "" {
			return nil, errors.New("the party game has not been started")
		}
		return gamemode.PartyParams{
			StartPage:  start,
			TargetPage: target,
			Lang:       view.Lang,
			PartyCode:  req.PartyCode,
		}, nil

	default:
		return nil, errors.New("unknown gamemode")
	}
}

func fixedTitles(titles ...string) gamemode.TitleSource {
	i := 0
	return func(context.Context) (string, error) {
		t := titles[i%len(titles)]
		i++
		return t, nil
	}
}

func handleNavigate(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req NavigateRequest
		if err := readJSON(r, &req); err != nil || req.Title == "" {
			writeError(w, http.StatusBadRequest, "title is required")
			return
		}

		sess, ok := sessions.Get(gameID(r))
		if !ok {
			writeError(w, http.StatusConflict, "no active run")
			return
		}

		nav, err := sess.game.NavigateTo(r.Context(), req.Title)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, runResponse(sess, nav))
		case errors.Is(err, game.ErrNoActiveRun):
			writeError(w, http.StatusConflict, "no active run")
		case errors.Is(err, game.ErrNavigationInFlight):
			writeError(w, http.StatusConflict, "a navigation is already in flight")
		case errors.Is(err, gamemode.ErrScenicRoute),
			errors.Is(err, gamemode.ErrAlreadyVisited):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "navigation failed")
		}
	}
}

// handleRunEvents streams the session's run lifecycle (start, stage
// completion, win, run end) as Server-Sent Events.
func handleRunEvents(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		topic := runTopic(gameID(r))
		ch := sessions.broker.Subscribe(topic)
		defer sessions.broker.Unsubscribe(topic, ch)

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
				fmt.Fprintf(w, "event: run\ndata: %s\n\n", data)
				flusher.Flush()
			case <-ping.C:
				fmt.Fprintf(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}

func handleGameState(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessions.Get(gameID(r))
		if !ok {
			writeError(w, http.StatusNotFound, "no session")
			return
		}
		writeJSON(w, http.StatusOK, runResponse(sess, nil))
	}
}

package server

import (
	"errors"
	"net/http"

	"github.com/wikihop/wikihop/internal/game"
	"github.com/wikihop/wikihop/internal/rogue"
)

// ChooseModifiersRequest is the request body for POST /api/game/rogue/modifiers.
type ChooseModifiersRequest struct {
	IDs []string `json:"ids"`
}

// ItemRequest names a shop item by id.
type ItemRequest struct {
	ID string `json:"id"`
}

// ModifierChoicesResponse lists the difficulty options between stages.
type ModifierChoicesResponse struct {
	Choices [][]rogue.Modifier `json:"choices"`
}

// ShopResponse is the current shop offer plus the buyer's balance.
type ShopResponse struct {
	Items        []rogue.Item `json:"items"`
	ClickBalance int          `json:"clickBalance"`
	FreeRerolls  int          `json:"freeRerolls"`
	RerollCost   int          `json:"rerollCost"`
}

func rogueSession(sessions *Sessions, w http.ResponseWriter, r *http.Request) (*liveSession, bool) {
	sess, ok := sessions.Get(gameID(r))
	if !ok {
		writeError(w, http.StatusConflict, "no active run")
		return nil, false
	}
	return sess, true
}

func writeRogueError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrWrongPhase):
		writeError(w, http.StatusConflict, "not available in the current run phase")
	case errors.Is(err, game.ErrInvalidChoice):
		writeError(w, http.StatusBadRequest, "modifier selection is not one of the offered choices")
	case errors.Is(err, game.ErrInsufficientBalance):
		writeError(w, http.StatusBadRequest, "not enough clicks")
	case errors.Is(err, game.ErrAlreadyOwned):
		writeError(w, http.StatusConflict, "upgrade already owned")
	case errors.Is(err, game.ErrUnknownItem):
		writeError(w, http.StatusBadRequest, "unknown item")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func handleRogueState(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := rogueSession(sessions, w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, sess.game.Rogue())
	}
}

func handleModifierChoices(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := rogueSession(sessions, w, r)
		if !ok {
			return
		}
		choices, err := sess.game.ModifierChoices()
		if err != nil {
			writeRogueError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ModifierChoicesResponse{Choices: choices})
	}
}

func handleChooseModifiers(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ChooseModifiersRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		sess, ok := rogueSession(sessions, w, r)
		if !ok {
			return
		}
		if err := sess.game.ChooseModifiers(req.IDs); err != nil {
			writeRogueError(w, err)
			return
		}
		writeShop(w, sess)
	}
}

func writeShop(w http.ResponseWriter, sess *liveSession) {
	offer, err := sess.game.ShopOffer()
	if err != nil {
		writeRogueError(w, err)
		return
	}
	snap := sess.game.Rogue()
	writeJSON(w, http.StatusOK, ShopResponse{
		Items:        offer,
		ClickBalance: snap.ClickBalance,
		FreeRerolls:  snap.FreeRerolls,
		RerollCost:   rogue.RerollCost,
	})
}

func handleShop(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := rogueSession(sessions, w, r)
		if !ok {
			return
		}
		writeShop(w, sess)
	}
}

func handleBuyItem(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ItemRequest
		if err := readJSON(r, &req); err != nil || req.ID == "" {
			writeError(w, http.StatusBadRequest, "item id is required")
			return
		}
		sess, ok := rogueSession(sessions, w, r)
		if !ok {
			return
		}
		if err := sess.game.BuyItem(req.ID); err != nil {
			writeRogueError(w, err)
			return
		}
		writeShop(w, sess)
	}
}

func handleRerollShop(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := rogueSession(sessions, w, r)
		if !ok {
			return
		}
		if err := sess.game.RerollShop(); err != nil {
			writeRogueError(w, err)
			return
		}
		writeShop(w, sess)
	}
}

func handleUseItem(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ItemRequest
		if err := readJSON(r, &req); err != nil || req.ID == "" {
			writeError(w, http.StatusBadRequest, "item id is required")
			return
		}
		sess, ok := rogueSession(sessions, w, r)
		if !ok {
			return
		}
		if err := sess.game.UseItem(req.ID); err != nil {
			writeRogueError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, runResponse(sess, nil))
	}
}

func handleNextStage(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := rogueSession(sessions, w, r)
		if !ok {
			return
		}
		nav, err := sess.game.StartNextStage(r.Context())
		if err != nil {
			writeRogueError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, runResponse(sess, nav))
	}
}

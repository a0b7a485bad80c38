package server

import (
	"errors"
	"net/http"
)

var errNoSession = errors.New("no valid session")

const (
	userCookieName = "wikihop_session"
	gameCookieName = "wikihop_game"
)

// userFromRequest reads the session cookie and resolves the account.
func userFromRequest(r *http.Request, store Store) (userSession, error) {
	cookie, err := r.Cookie(userCookieName)
	if err != nil || cookie.Value == "" {
		return userSession{}, errNoSession
	}
	return store.UserFromSession(r.Context(), cookie.Value)
}

// playerName resolves the display name for a run: the logged-in account
// name when present, otherwise the name the client supplied.
func playerName(r *http.Request, store Store, requested string) string {
	if sess, err := userFromRequest(r, store); err == nil {
		return sess.Name
	}
	if requested != "" {
		return requested
	}
	return "Anonymous"
}

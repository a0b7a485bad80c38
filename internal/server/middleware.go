package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type ctxKey int

const ctxKeyGameID ctxKey = iota

// gameCookieMiddleware guarantees every request carries a game session
// id, minting the cookie on first contact.
func gameCookieMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if cookie, err := r.Cookie(gameCookieName); err == nil && cookie.Value != "" {
			id = cookie.Value
		} else {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     gameCookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(24 * time.Hour / time.Second),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), ctxKeyGameID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func gameID(r *http.Request) string {
	return r.Context().Value(ctxKeyGameID).(string)
}

package server

import (
	"context"
	"net/http"

	"github.com/wikihop/wikihop/internal/wiki"
	"github.com/wikihop/wikihop/internal/wikihop"
)

type previewFetcher interface {
	FirstParagraph(ctx context.Context, lang, title string) (string, error)
}

// PreviewResponse is the target-article intro shown before a run.
type PreviewResponse struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
}

func handleLangs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, wiki.Langs)
	}
}

// handleModes lists the registered gamemodes, optionally filtered by the
// single/multi partition.
func handleModes(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessions.Ensure(gameID(r), "Anonymous")
		reg := sess.game.Registry()

		var infos []wikihop.ModeInfo
		switch r.URL.Query().Get("type") {
		case "single":
			infos = reg.SinglePlayer()
		case "multi":
			infos = reg.Multiplayer()
		default:
			infos = reg.All()
		}
		writeJSON(w, http.StatusOK, infos)
	}
}

// handlePreview proxies the target article's intro extract.
func handlePreview(client previewFetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		title := r.URL.Query().Get("title")
		if title == "" {
			writeError(w, http.StatusBadRequest, "title is required")
			return
		}
		lang := r.URL.Query().Get("lang")
		if lang == "" {
			lang = "en"
		}

		extract, err := client.FirstParagraph(r.Context(), lang, title)
		if err != nil {
			writeError(w, http.StatusBadGateway, "could not load preview")
			return
		}
		writeJSON(w, http.StatusOK, PreviewResponse{Title: title, Extract: extract})
	}
}

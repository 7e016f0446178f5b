package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/example/anime-browser/internal/platform/api"
	"github.com/example/anime-browser/internal/platform/httpserver"
	"github.com/example/anime-browser/services/browse/internal/viewstate"
)

// HomeView is the Home container surface exposed over HTTP.
type HomeView interface {
	Subscribe() (<-chan viewstate.HomeState, func())
	Refresh()
}

// GetHome waits for the Home screen to settle and returns its state.
func GetHome(h HomeView) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		ch, cancel := h.Subscribe()
		defer cancel()

		st, err := viewstate.Await(r.Context(), ch)
		if err != nil {
			if errors.Is(err, viewstate.ErrClosed) {
				api.Unavailable(w, "SHUTTING_DOWN", "service is shutting down", rid)
				return
			}
			api.Unavailable(w, "HOME_LOADING", "home is still loading", rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, st)
	}
}

// HomeEvents streams every Home state as server-sent events until the
// client disconnects.
func HomeEvents(h HomeView) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := httpserver.LoggerFromContext(r.Context())
		flusher, ok := w.(http.Flusher)
		if !ok {
			api.Internal(w, httpserver.RequestIDFromContext(r.Context()))
			return
		}
		ch, cancel := h.Subscribe()
		defer cancel()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		for {
			select {
			case <-r.Context().Done():
				return
			case st, ok := <-ch:
				if !ok {
					return
				}
				data, err := json.Marshal(st)
				if err != nil {
					log.Warn("home event marshal failed", zap.Error(err))
					continue
				}
				if _, err := fmt.Fprintf(w, "event: home\ndata: %s\n\n", data); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}

// RefreshHome asks the Home container to load again.
func RefreshHome(h HomeView) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		h.Refresh()
		api.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "refreshing"})
	}
}

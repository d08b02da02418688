package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"futureflix/models"
	"futureflix/store"
)

// WatchlistHandler serves the authenticated user's watchlist.
// Watchlist reads are never cached: they always reflect the identity
// resolved for the current request.
type WatchlistHandler struct {
	store    *store.Store
	sessions *SessionManager
}

// NewWatchlistHandler creates a new watchlist handler.
func NewWatchlistHandler(st *store.Store, sessions *SessionManager) *WatchlistHandler {
	return &WatchlistHandler{
		store:    st,
		sessions: sessions,
	}
}

// watchlistResponse wraps the watchlist with an optional inline message,
// e.g. after an add attempt for an unknown slug.
type watchlistResponse struct {
	Message   string            `json:"message,omitempty"`
	Watchlist *models.Watchlist `json:"watchlist"`
}

// Index handles GET /watchlist - the fully joined watchlist. Users who
// never added anything get an empty watchlist, not an error.
func (h *WatchlistHandler) Index(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user := requireUser(ctx, w, r, h.sessions)
	if user == nil {
		return
	}

	watchlist, err := h.loadWatchlist(ctx, user.ID)
	if err != nil {
		logRequest(r, "error", "Failed to load watchlist", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	respondJSON(w, http.StatusOK, watchlistResponse{Watchlist: watchlist})
}

// Add handles GET/POST /watchlist/add/{slug} - resolves the slug to a
// movie or show (movie first) and adds it idempotently. An unknown slug
// is a visible, non-fatal 404: the response still carries the user's
// unchanged watchlist.
func (h *WatchlistHandler) Add(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user := requireUser(ctx, w, r, h.sessions)
	if user == nil {
		return
	}

	slug := mux.Vars(r)["slug"]

	watchlist, err := h.store.ResolveAndAdd(ctx, user.ID, slug)
	if errors.Is(err, store.ErrNotFound) {
		existing, loadErr := h.loadWatchlist(ctx, user.ID)
		if loadErr != nil {
			logRequest(r, "error", "Failed to load watchlist", zap.Error(loadErr))
			respondError(w, http.StatusInternalServerError, "Something went wrong")
			return
		}

		respondJSON(w, http.StatusNotFound, watchlistResponse{
			Message: fmt.Sprintf(
				"We can’t find a movie or show with the given slug »%s«. Nothing added to your watchlist.", slug),
			Watchlist: existing,
		})
		return
	}
	if err != nil {
		logRequest(r, "error", "Failed to add to watchlist", zap.Error(err), zap.String("slug", slug))
		respondError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	logRequest(r, "info", "Added to watchlist", zap.Int64("user_id", user.ID), zap.String("slug", slug))
	respondJSON(w, http.StatusOK, watchlistResponse{
		Message:   "Perfect!",
		Watchlist: watchlist,
	})
}

func (h *WatchlistHandler) loadWatchlist(ctx context.Context, userID int64) (*models.Watchlist, error) {
	watchlist, err := h.store.FindWatchlistByUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return models.NewWatchlist(userID), nil
	}
	if err != nil {
		return nil, err
	}

	return watchlist, nil
}

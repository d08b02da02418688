package handlers

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"futureflix/models"
	"futureflix/store"
)

// SearchHandler finds movies and shows by title keyword.
type SearchHandler struct {
	store *store.Store
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(st *store.Store) *SearchHandler {
	return &SearchHandler{store: st}
}

type searchRequest struct {
	Keyword string `json:"keyword"`
}

type searchResponse struct {
	Keyword string         `json:"keyword"`
	Movies  []models.Movie `json:"movies"`
	Shows   []models.Show  `json:"shows"`
}

// Search handles POST /search. An empty keyword is allowed and returns
// empty results.
func (h *SearchHandler) Search(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := bindJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	keyword := strings.TrimSpace(req.Keyword)
	if keyword == "" {
		respondJSON(w, http.StatusOK, searchResponse{
			Keyword: keyword,
			Movies:  []models.Movie{},
			Shows:   []models.Show{},
		})
		return
	}

	movies, shows, err := h.store.SearchCatalogue(ctx, keyword)
	if err != nil {
		logRequest(r, "error", "Search failed", zap.Error(err), zap.String("keyword", keyword))
		respondError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	logRequest(r, "info", "Search completed",
		zap.String("keyword", keyword), zap.Int("movies", len(movies)), zap.Int("shows", len(shows)))
	respondJSON(w, http.StatusOK, searchResponse{
		Keyword: keyword,
		Movies:  movies,
		Shows:   shows,
	})
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/umakantv/go-utils/cache"
	"go.uber.org/zap"

	"futureflix/pagination"
	"futureflix/store"
)

const (
	randomShowsDefault = 4
	randomShowsMax     = 10
)

// ShowHandler serves the TV show side of the catalogue, including the
// opt-in seasons/episodes extension.
type ShowHandler struct {
	store *store.Store
	cache cache.Cache
}

// NewShowHandler creates a new show handler.
func NewShowHandler(st *store.Store, cache cache.Cache) *ShowHandler {
	return &ShowHandler{
		store: st,
		cache: cache,
	}
}

// List handles GET /shows - one page of shows, optionally extended with
// seasons or seasons and episodes.
func (h *ShowHandler) List(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	page, err := pagination.ParsePage(r.URL.Query().Get("page"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	directive := r.URL.Query().Get("extend")
	extend, err := store.ParseExtend(directive)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	totalCount, err := h.store.CountShows(ctx)
	if err != nil {
		logRequest(r, "error", "Failed to count shows", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	paginator := pagination.New(page, pagination.DefaultPerPage, totalCount, composeBaseURL(r, "/shows"))
	if paginator.OutOfRange() {
		respondError(w, http.StatusNotFound, fmt.Sprintf(
			"The requested page does not exist. The last available page is: %d", paginator.LastPage))
		return
	}

	w.Header().Set("Link", paginator.Link())

	cacheKey := fmt.Sprintf("shows:page:%d:extend:%d", page, extend)
	if body, ok := cacheGet(h.cache, cacheKey); ok {
		logRequest(r, "debug", "Serving shows from cache", zap.Int("page", page))
		writeCachedJSON(w, body)
		return
	}

	shows, err := h.store.FindShows(ctx, paginator.Offset, paginator.Limit, extend)
	if err != nil {
		logRequest(r, "error", "Failed to query shows", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	body, _ := json.Marshal(shows)
	cacheSet(h.cache, cacheKey, body, catalogueCacheTTL)

	logRequest(r, "info", "Shows retrieved",
		zap.Int("page", page), zap.Int("count", len(shows)), zap.String("extend", directive))
	writeCachedJSON(w, body)
}

// Show handles GET /shows/{slug} - a single show, optionally extended.
func (h *ShowHandler) Show(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	extend, err := store.ParseExtend(r.URL.Query().Get("extend"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	cacheKey := fmt.Sprintf("shows:slug:%s:extend:%d", slug, extend)
	if body, ok := cacheGet(h.cache, cacheKey); ok {
		logRequest(r, "debug", "Serving show from cache", zap.String("slug", slug))
		writeCachedJSON(w, body)
		return
	}

	show, err := h.store.FindShowBySlug(ctx, slug, extend)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Cannot find a show with that slug")
		return
	}
	if err != nil {
		logRequest(r, "error", "Failed to query show", zap.Error(err), zap.String("slug", slug))
		respondError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	body, _ := json.Marshal(show)
	cacheSet(h.cache, cacheKey, body, catalogueCacheTTL)

	logRequest(r, "info", "Show retrieved", zap.String("slug", slug))
	writeCachedJSON(w, body)
}

// Random handles GET /shows/random - a handful of random picks.
func (h *ShowHandler) Random(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	limit := randomShowsDefault
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > randomShowsMax {
			respondError(w, http.StatusBadRequest, fmt.Sprintf(
				"limit must be an integer between 1 and %d", randomShowsMax))
			return
		}
		limit = parsed
	}

	shows, err := h.store.RandomShows(ctx, limit)
	if err != nil {
		logRequest(r, "error", "Failed to query random shows", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	respondJSON(w, http.StatusOK, shows)
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/umakantv/go-utils/cache"
	"go.uber.org/zap"

	"futureflix/pagination"
	"futureflix/store"
)

// catalogueCacheTTL bounds how stale a cached catalogue response can be.
const catalogueCacheTTL = 5 * time.Minute

// MovieHandler serves the movie side of the catalogue.
type MovieHandler struct {
	store *store.Store
	cache cache.Cache
}

// NewMovieHandler creates a new movie handler.
func NewMovieHandler(st *store.Store, cache cache.Cache) *MovieHandler {
	return &MovieHandler{
		store: st,
		cache: cache,
	}
}

// List handles GET /movies - one page of movies with a Link header.
func (h *MovieHandler) List(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	page, err := pagination.ParsePage(r.URL.Query().Get("page"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	totalCount, err := h.store.CountMovies(ctx)
	if err != nil {
		logRequest(r, "error", "Failed to count movies", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	paginator := pagination.New(page, pagination.DefaultPerPage, totalCount, composeBaseURL(r, "/movies"))
	if paginator.OutOfRange() {
		respondError(w, http.StatusNotFound, fmt.Sprintf(
			"The requested page does not exist. The last available page is: %d", paginator.LastPage))
		return
	}

	w.Header().Set("Link", paginator.Link())

	cacheKey := fmt.Sprintf("movies:page:%d", page)
	if body, ok := cacheGet(h.cache, cacheKey); ok {
		logRequest(r, "debug", "Serving movies from cache", zap.Int("page", page))
		writeCachedJSON(w, body)
		return
	}

	movies, err := h.store.FindMovies(ctx, paginator.Offset, paginator.Limit)
	if err != nil {
		logRequest(r, "error", "Failed to query movies", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	body, _ := json.Marshal(movies)
	cacheSet(h.cache, cacheKey, body, catalogueCacheTTL)

	logRequest(r, "info", "Movies retrieved", zap.Int("page", page), zap.Int("count", len(movies)))
	writeCachedJSON(w, body)
}

// Show handles GET /movies/{slug} - a single movie.
func (h *MovieHandler) Show(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	cacheKey := "movies:slug:" + slug
	if body, ok := cacheGet(h.cache, cacheKey); ok {
		logRequest(r, "debug", "Serving movie from cache", zap.String("slug", slug))
		writeCachedJSON(w, body)
		return
	}

	movie, err := h.store.FindMovieBySlug(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Cannot find a movie with that slug")
		return
	}
	if err != nil {
		logRequest(r, "error", "Failed to query movie", zap.Error(err), zap.String("slug", slug))
		respondError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	body, _ := json.Marshal(movie)
	cacheSet(h.cache, cacheKey, body, catalogueCacheTTL)

	logRequest(r, "info", "Movie retrieved", zap.String("slug", slug))
	writeCachedJSON(w, body)
}

// cacheGet fetches a cached response body; a nil cache means caching is
// disabled.
func cacheGet(c cache.Cache, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}

	cached, err := c.Get(key)
	if err != nil {
		return nil, false
	}

	body, ok := cached.([]byte)
	return body, ok
}

func cacheSet(c cache.Cache, key string, body []byte, ttl time.Duration) {
	if c == nil {
		return
	}

	c.Set(key, body, ttl)
}

func writeCachedJSON(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futureflix/models"
)

func TestListMoviesEmptyCatalogue(t *testing.T) {
	env := newTestEnv(t)
	h := NewMovieHandler(env.store, nil)

	rec := httptest.NewRecorder()
	h.List(testContext(t), rec, httptest.NewRequest("GET", "/movies", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var movies []models.Movie
	decodeBody(t, rec, &movies)
	assert.Empty(t, movies)

	// an empty catalogue still paginates: one page pointing at itself
	link := rec.Header().Get("Link")
	assert.Contains(t, link, `<http://example.com/movies?page=1>; rel="first"`)
	assert.Contains(t, link, `rel="last"`)
	assert.NotContains(t, link, `rel="next"`)
	assert.NotContains(t, link, `rel="prev"`)
}

func TestListMoviesPaginates(t *testing.T) {
	env := newTestEnv(t)
	for _, movie := range []struct{ slug, title string }{
		{"arrival", "Arrival"}, {"la-la-land", "La La Land"}, {"lion", "Lion"},
		{"moana", "Moana"}, {"moonlight", "Moonlight"}, {"passengers", "Passengers"},
		{"rogue-one", "Rogue One"}, {"sing", "Sing"}, {"split", "Split"},
		{"sully", "Sully"}, {"trolls", "Trolls"},
	} {
		env.seedMovie(t, movie.slug, movie.title)
	}
	h := NewMovieHandler(env.store, nil)

	rec := httptest.NewRecorder()
	h.List(testContext(t), rec, httptest.NewRequest("GET", "/movies", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var movies []models.Movie
	decodeBody(t, rec, &movies)
	assert.Len(t, movies, 10)

	link := rec.Header().Get("Link")
	assert.Contains(t, link, `<http://example.com/movies?page=2>; rel="next"`)
	assert.Contains(t, link, `<http://example.com/movies?page=2>; rel="last"`)
	assert.NotContains(t, link, `rel="prev"`)

	rec = httptest.NewRecorder()
	h.List(testContext(t), rec, httptest.NewRequest("GET", "/movies?page=2", nil))

	decodeBody(t, rec, &movies)
	assert.Len(t, movies, 1)
	assert.Contains(t, rec.Header().Get("Link"), `<http://example.com/movies?page=1>; rel="prev"`)
}

func TestListMoviesInvalidPage(t *testing.T) {
	env := newTestEnv(t)
	h := NewMovieHandler(env.store, nil)

	for _, target := range []string{"/movies?page=0", "/movies?page=-1", "/movies?page=abc"} {
		rec := httptest.NewRecorder()
		h.List(testContext(t), rec, httptest.NewRequest("GET", target, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestListMoviesPageOutOfRange(t *testing.T) {
	env := newTestEnv(t)
	env.seedMovie(t, "a-monster-calls", "A Monster Calls")
	h := NewMovieHandler(env.store, nil)

	rec := httptest.NewRecorder()
	h.List(testContext(t), rec, httptest.NewRequest("GET", "/movies?page=5", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var payload errorPayload
	decodeBody(t, rec, &payload)
	assert.Equal(t, "The requested page does not exist. The last available page is: 1", payload.Message)
}

func TestGetMovie(t *testing.T) {
	env := newTestEnv(t)
	env.seedMovie(t, "a-monster-calls", "A Monster Calls")
	h := NewMovieHandler(env.store, nil)

	r := httptest.NewRequest("GET", "/movies/a-monster-calls", nil)
	r = mux.SetURLVars(r, map[string]string{"slug": "a-monster-calls"})

	rec := httptest.NewRecorder()
	h.Show(testContext(t), rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)

	var movie models.Movie
	decodeBody(t, rec, &movie)
	assert.Equal(t, "A Monster Calls", movie.Title)
	assert.Equal(t, "a-monster-calls", movie.IDs.Slug)
}

func TestGetMovieUnknownSlug(t *testing.T) {
	env := newTestEnv(t)
	h := NewMovieHandler(env.store, nil)

	r := httptest.NewRequest("GET", "/movies/does-not-exist", nil)
	r = mux.SetURLVars(r, map[string]string{"slug": "does-not-exist"})

	rec := httptest.NewRecorder()
	h.Show(testContext(t), rec, r)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var payload errorPayload
	decodeBody(t, rec, &payload)
	assert.Equal(t, "Cannot find a movie with that slug", payload.Message)
}

func TestListShowsExtend(t *testing.T) {
	env := newTestEnv(t)
	showID := env.seedShow(t, "game-of-thrones", "Game of Thrones")

	result, err := env.db.Exec(
		`INSERT INTO seasons (show_id, number, title) VALUES (?, ?, ?)`, showID, 1, "Season 1")
	require.NoError(t, err)
	seasonID, err := result.LastInsertId()
	require.NoError(t, err)
	_, err = env.db.Exec(
		`INSERT INTO episodes (season_id, season, number, title) VALUES (?, ?, ?, ?)`,
		seasonID, 1, 1, "Winter Is Coming")
	require.NoError(t, err)

	h := NewShowHandler(env.store, nil)

	t.Run("plain", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.List(testContext(t), rec, httptest.NewRequest("GET", "/shows", nil))

		assert.Equal(t, http.StatusOK, rec.Code)

		var shows []models.Show
		decodeBody(t, rec, &shows)
		require.Len(t, shows, 1)
		assert.Empty(t, shows[0].Seasons)
	})

	t.Run("seasons", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.List(testContext(t), rec, httptest.NewRequest("GET", "/shows?extend=seasons", nil))

		var shows []models.Show
		decodeBody(t, rec, &shows)
		require.Len(t, shows, 1)
		require.Len(t, shows[0].Seasons, 1)
		assert.Empty(t, shows[0].Seasons[0].Episodes)
	})

	t.Run("seasons and episodes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.List(testContext(t), rec, httptest.NewRequest("GET", "/shows?extend=seasons,episodes", nil))

		var shows []models.Show
		decodeBody(t, rec, &shows)
		require.Len(t, shows, 1)
		require.Len(t, shows[0].Seasons, 1)
		require.Len(t, shows[0].Seasons[0].Episodes, 1)
		assert.Equal(t, "Winter Is Coming", shows[0].Seasons[0].Episodes[0].Title)
	})
}

func TestListShowsInvalidExtend(t *testing.T) {
	env := newTestEnv(t)
	h := NewShowHandler(env.store, nil)

	t.Run("episodes without seasons", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.List(testContext(t), rec, httptest.NewRequest("GET", "/shows?extend=episodes", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var payload errorPayload
		decodeBody(t, rec, &payload)
		assert.Equal(t, "episodes cannot be requested without seasons", payload.Message)
	})

	t.Run("junk directive", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.List(testContext(t), rec, httptest.NewRequest("GET", "/shows?extend=full", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetShowUnknownSlug(t *testing.T) {
	env := newTestEnv(t)
	h := NewShowHandler(env.store, nil)

	r := httptest.NewRequest("GET", "/shows/does-not-exist", nil)
	r = mux.SetURLVars(r, map[string]string{"slug": "does-not-exist"})

	rec := httptest.NewRecorder()
	h.Show(testContext(t), rec, r)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var payload errorPayload
	decodeBody(t, rec, &payload)
	assert.Equal(t, "Cannot find a show with that slug", payload.Message)
}

func TestRandomShows(t *testing.T) {
	env := newTestEnv(t)
	env.seedShow(t, "game-of-thrones", "Game of Thrones")
	env.seedShow(t, "the-leftovers", "The Leftovers")
	h := NewShowHandler(env.store, nil)

	rec := httptest.NewRecorder()
	h.Random(testContext(t), rec, httptest.NewRequest("GET", "/shows/random?limit=1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var shows []models.Show
	decodeBody(t, rec, &shows)
	assert.Len(t, shows, 1)
}

func TestRandomShowsInvalidLimit(t *testing.T) {
	env := newTestEnv(t)
	h := NewShowHandler(env.store, nil)

	for _, target := range []string{"/shows/random?limit=0", "/shows/random?limit=11", "/shows/random?limit=abc"} {
		rec := httptest.NewRecorder()
		h.Random(testContext(t), rec, httptest.NewRequest("GET", target, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"futureflix/models"
)

// movieColumns aliases the flat table layout onto the nested model shape
// (ids.*, images.*) that the public JSON exposes.
const movieColumns = `
	id, title, year, overview, trailer, homepage, rating, votes, runtime,
	language, certification, genres,
	slug AS "ids.slug", trakt AS "ids.trakt", imdb AS "ids.imdb", tmdb AS "ids.tmdb",
	poster AS "images.poster", background AS "images.background"`

const showColumns = `
	id, title, year, overview, first_aired, runtime, certification, network,
	country, trailer, homepage, status, rating, votes, language, genres,
	aired_episodes,
	slug AS "ids.slug", trakt AS "ids.trakt", imdb AS "ids.imdb",
	tmdb AS "ids.tmdb", tvdb AS "ids.tvdb",
	airs_day AS "airs.day", airs_time AS "airs.time", airs_timezone AS "airs.timezone",
	poster AS "images.poster", background AS "images.background"`

const seasonColumns = `
	id, show_id, number, title, overview, first_aired, rating, votes,
	episode_count, aired_episodes`

const episodeColumns = `
	id, season_id, season, number, number_abs, title, overview, rating,
	votes, first_aired, runtime`

// CountMovies returns the total number of movies in the catalogue.
func (s *Store) CountMovies(ctx context.Context) (int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM movies`); err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}

	return count, nil
}

// FindMovies returns one page of movies ordered by title.
func (s *Store) FindMovies(ctx context.Context, offset, limit int) ([]models.Movie, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	movies := []models.Movie{}
	query := `SELECT` + movieColumns + ` FROM movies ORDER BY title LIMIT ? OFFSET ?`
	if err := s.db.SelectContext(ctx, &movies, query, limit, offset); err != nil {
		return nil, fmt.Errorf("find movies: %w", err)
	}

	return movies, nil
}

// FindMovieBySlug returns the movie with the given slug or ErrNotFound.
func (s *Store) FindMovieBySlug(ctx context.Context, slug string) (*models.Movie, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var movie models.Movie
	query := `SELECT` + movieColumns + ` FROM movies WHERE slug = ?`
	err := s.db.GetContext(ctx, &movie, query, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find movie by slug: %w", err)
	}

	return &movie, nil
}

// CountShows returns the total number of shows in the catalogue.
func (s *Store) CountShows(ctx context.Context) (int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM shows`); err != nil {
		return 0, fmt.Errorf("count shows: %w", err)
	}

	return count, nil
}

// FindShows returns one page of shows ordered by title. Seasons and
// episodes are joined only when the extend directive asks for them.
func (s *Store) FindShows(ctx context.Context, offset, limit int, extend Extend) ([]models.Show, error) {
	queryCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	shows := []models.Show{}
	query := `SELECT` + showColumns + ` FROM shows ORDER BY title LIMIT ? OFFSET ?`
	if err := s.db.SelectContext(queryCtx, &shows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("find shows: %w", err)
	}

	if err := s.attachSeasons(ctx, shows, extend); err != nil {
		return nil, err
	}

	return shows, nil
}

// FindShowBySlug returns the show with the given slug or ErrNotFound,
// optionally extended with its seasons and episodes.
func (s *Store) FindShowBySlug(ctx context.Context, slug string, extend Extend) (*models.Show, error) {
	queryCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	var show models.Show
	query := `SELECT` + showColumns + ` FROM shows WHERE slug = ?`
	err := s.db.GetContext(queryCtx, &show, query, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find show by slug: %w", err)
	}

	shows := []models.Show{show}
	if err := s.attachSeasons(ctx, shows, extend); err != nil {
		return nil, err
	}

	return &shows[0], nil
}

// RandomShows returns up to limit randomly picked shows.
func (s *Store) RandomShows(ctx context.Context, limit int) ([]models.Show, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	shows := []models.Show{}
	query := `SELECT` + showColumns + ` FROM shows ORDER BY RANDOM() LIMIT ?`
	if err := s.db.SelectContext(ctx, &shows, query, limit); err != nil {
		return nil, fmt.Errorf("random shows: %w", err)
	}

	return shows, nil
}

// SearchCatalogue finds up to five movies and five shows whose title
// matches the keyword.
func (s *Store) SearchCatalogue(ctx context.Context, keyword string) ([]models.Movie, []models.Show, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	pattern := "%" + keyword + "%"

	movies := []models.Movie{}
	movieQuery := `SELECT` + movieColumns + ` FROM movies WHERE title LIKE ? ORDER BY title LIMIT 5`
	if err := s.db.SelectContext(ctx, &movies, movieQuery, pattern); err != nil {
		return nil, nil, fmt.Errorf("search movies: %w", err)
	}

	shows := []models.Show{}
	showQuery := `SELECT` + showColumns + ` FROM shows WHERE title LIKE ? ORDER BY title LIMIT 5`
	if err := s.db.SelectContext(ctx, &shows, showQuery, pattern); err != nil {
		return nil, nil, fmt.Errorf("search shows: %w", err)
	}

	return movies, shows, nil
}

// attachSeasons loads the seasons (and, for ExtendSeasonsEpisodes, the
// episodes) belonging to the given shows and attaches them in place.
func (s *Store) attachSeasons(ctx context.Context, shows []models.Show, extend Extend) error {
	if extend == ExtendNone || len(shows) == 0 {
		return nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	showIDs := make([]int64, len(shows))
	showIndex := make(map[int64]int, len(shows))
	for i, show := range shows {
		showIDs[i] = show.ID
		showIndex[show.ID] = i
	}

	query, args, err := sqlx.In(
		`SELECT`+seasonColumns+` FROM seasons WHERE show_id IN (?) ORDER BY show_id, number`, showIDs)
	if err != nil {
		return fmt.Errorf("build seasons query: %w", err)
	}

	seasons := []models.Season{}
	if err := s.db.SelectContext(ctx, &seasons, s.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("find seasons: %w", err)
	}

	if extend == ExtendSeasonsEpisodes && len(seasons) > 0 {
		if err := s.attachEpisodes(ctx, seasons); err != nil {
			return err
		}
	}

	for _, season := range seasons {
		i := showIndex[season.ShowID]
		shows[i].Seasons = append(shows[i].Seasons, season)
	}

	return nil
}

func (s *Store) attachEpisodes(ctx context.Context, seasons []models.Season) error {
	seasonIDs := make([]int64, len(seasons))
	seasonIndex := make(map[int64]int, len(seasons))
	for i, season := range seasons {
		seasonIDs[i] = season.ID
		seasonIndex[season.ID] = i
	}

	query, args, err := sqlx.In(
		`SELECT`+episodeColumns+` FROM episodes WHERE season_id IN (?) ORDER BY season_id, number`, seasonIDs)
	if err != nil {
		return fmt.Errorf("build episodes query: %w", err)
	}

	episodes := []models.Episode{}
	if err := s.db.SelectContext(ctx, &episodes, s.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("find episodes: %w", err)
	}

	for _, episode := range episodes {
		i := seasonIndex[episode.SeasonID]
		seasons[i].Episodes = append(seasons[i].Episodes, episode)
	}

	return nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"futureflix/models"
)

// FindWatchlistByUser loads a user's watchlist with its movies and shows
// fully joined, or ErrNotFound when the user never added anything.
func (s *Store) FindWatchlistByUser(ctx context.Context, userID int64) (*models.Watchlist, error) {
	queryCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	var watchlist models.Watchlist
	err := s.db.GetContext(queryCtx, &watchlist,
		`SELECT id, user_id, created_at, updated_at FROM watchlists WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find watchlist: %w", err)
	}

	if err := s.populateWatchlist(ctx, &watchlist); err != nil {
		return nil, err
	}

	return &watchlist, nil
}

func (s *Store) populateWatchlist(ctx context.Context, watchlist *models.Watchlist) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	watchlist.Movies = []models.Movie{}
	movieQuery := `SELECT` + movieColumns + ` FROM movies
		JOIN watchlist_movies wm ON wm.movie_id = movies.id
		WHERE wm.watchlist_id = ? ORDER BY title`
	if err := s.db.SelectContext(ctx, &watchlist.Movies, movieQuery, watchlist.ID); err != nil {
		return fmt.Errorf("watchlist movies: %w", err)
	}

	watchlist.Shows = []models.Show{}
	showQuery := `SELECT` + showColumns + ` FROM shows
		JOIN watchlist_shows ws ON ws.show_id = shows.id
		WHERE ws.watchlist_id = ? ORDER BY title`
	if err := s.db.SelectContext(ctx, &watchlist.Shows, showQuery, watchlist.ID); err != nil {
		return fmt.Errorf("watchlist shows: %w", err)
	}

	return nil
}

// EnsureWatchlist returns the user's watchlist, creating it atomically
// on first use. The unique constraint on user_id plus the conditional
// insert guarantee at most one watchlist per user even when concurrent
// first-add requests race on the lazy-create path.
func (s *Store) EnsureWatchlist(ctx context.Context, userID int64) (*models.Watchlist, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO watchlists (user_id, created_at, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO NOTHING`, userID, now, now)
	if err != nil {
		return nil, fmt.Errorf("ensure watchlist: %w", err)
	}

	var watchlist models.Watchlist
	err = s.db.GetContext(ctx, &watchlist,
		`SELECT id, user_id, created_at, updated_at FROM watchlists WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("ensure watchlist: %w", err)
	}

	return &watchlist, nil
}

// AddMovieToWatchlist records the membership; adding the same movie
// twice leaves exactly one entry.
func (s *Store) AddMovieToWatchlist(ctx context.Context, watchlistID, movieID int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO watchlist_movies (watchlist_id, movie_id) VALUES (?, ?)
		 ON CONFLICT DO NOTHING`, watchlistID, movieID)
	if err != nil {
		return fmt.Errorf("add movie to watchlist: %w", err)
	}

	return nil
}

// AddShowToWatchlist records the membership; adding the same show twice
// leaves exactly one entry.
func (s *Store) AddShowToWatchlist(ctx context.Context, watchlistID, showID int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO watchlist_shows (watchlist_id, show_id) VALUES (?, ?)
		 ON CONFLICT DO NOTHING`, watchlistID, showID)
	if err != nil {
		return fmt.Errorf("add show to watchlist: %w", err)
	}

	return nil
}

// ResolveAndAdd looks up a catalogue entity by slug, movie first and then
// show, and adds it to the user's watchlist, creating the watchlist on
// first use. When the slug resolves to neither, ErrNotFound is returned
// and the watchlist is left unchanged. On success the freshly reloaded,
// fully joined watchlist is returned: the add itself does not populate
// relations.
func (s *Store) ResolveAndAdd(ctx context.Context, userID int64, slug string) (*models.Watchlist, error) {
	movie, err := s.FindMovieBySlug(ctx, slug)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	var show *models.Show
	if movie == nil {
		show, err = s.FindShowBySlug(ctx, slug, ExtendNone)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	if movie == nil && show == nil {
		return nil, ErrNotFound
	}

	watchlist, err := s.EnsureWatchlist(ctx, userID)
	if err != nil {
		return nil, err
	}

	if movie != nil {
		if err := s.AddMovieToWatchlist(ctx, watchlist.ID, movie.ID); err != nil {
			return nil, err
		}
	}
	if show != nil {
		if err := s.AddShowToWatchlist(ctx, watchlist.ID, show.ID); err != nil {
			return nil, err
		}
	}

	return s.FindWatchlistByUser(ctx, userID)
}

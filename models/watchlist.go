package models

import "time"

// Watchlist is a user's saved collection of movies and shows.
// There is at most one watchlist per user; the storage layer enforces
// this with a unique constraint on user_id.
type Watchlist struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user" db:"user_id"`
	Movies    []Movie   `json:"movies" db:"-"`
	Shows     []Show    `json:"shows" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewWatchlist returns an empty watchlist for the given user. Movies and
// Shows are non-nil so the JSON rendering shows empty arrays, not null.
func NewWatchlist(userID int64) *Watchlist {
	return &Watchlist{
		UserID: userID,
		Movies: []Movie{},
		Shows:  []Show{},
	}
}

// IncludesMovie reports whether the candidate movie is already on the
// watchlist. A nil candidate counts as a member: callers can pass an
// optional movie-or-show without an extra branch and the add stays a no-op.
func (w *Watchlist) IncludesMovie(candidate *Movie) bool {
	if candidate == nil {
		return true
	}

	for _, movie := range w.Movies {
		if movie.ID == candidate.ID {
			return true
		}
	}

	return false
}

// IncludesShow reports whether the candidate show is already on the
// watchlist. A nil candidate counts as a member, same as IncludesMovie.
func (w *Watchlist) IncludesShow(candidate *Show) bool {
	if candidate == nil {
		return true
	}

	for _, show := range w.Shows {
		if show.ID == candidate.ID {
			return true
		}
	}

	return false
}

// AddMovie appends the movie unless it is absent or already a member.
func (w *Watchlist) AddMovie(movie *Movie) {
	if w.IncludesMovie(movie) {
		return
	}

	w.Movies = append(w.Movies, *movie)
}

// AddShow appends the show unless it is absent or already a member.
func (w *Watchlist) AddShow(show *Show) {
	if w.IncludesShow(show) {
		return
	}

	w.Shows = append(w.Shows, *show)
}

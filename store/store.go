// Package store is the data access layer for users, the catalogue and
// watchlists, backed by sqlite through sqlx.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

// queryTimeout bounds every outbound database call so an abandoned
// request cannot hold a connection indefinitely.
const queryTimeout = 5 * time.Second

var (
	// ErrNotFound is returned when a lookup resolves no row.
	ErrNotFound = errors.New("store: not found")

	// ErrEmailTaken is returned when the email address is already registered.
	ErrEmailTaken = errors.New("store: email address is already registered")

	// ErrUsernameTaken is returned when the requested username is in use.
	ErrUsernameTaken = errors.New("store: username is already taken")
)

// Store bundles all persistence operations around one shared connection
// pool. It is constructed once at process start and passed by reference
// into every handler that needs it.
type Store struct {
	db *sqlx.DB
}

// New creates a Store on top of an initialized database connection.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

// isUniqueViolation reports whether err is a sqlite unique-constraint
// violation on the given column.
func isUniqueViolation(err error, column string) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}

	if sqliteErr.ExtendedCode != sqlite3.ErrConstraintUnique {
		return false
	}

	return strings.Contains(sqliteErr.Error(), column)
}

package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"futureflix/models"
)

// newTestStore opens an in-memory database with the real schema applied.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// a single connection keeps the in-memory database visible to all
	// queries and serializes concurrent writers
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	entries, err := os.ReadDir("../database/migrations")
	require.NoError(t, err)

	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		ddl, err := os.ReadFile(filepath.Join("../database/migrations", entry.Name()))
		require.NoError(t, err)

		_, err = db.Exec(string(ddl))
		require.NoError(t, err, "migration %s", entry.Name())
	}

	return New(db)
}

func seedUser(t *testing.T, s *Store, email string) *models.User {
	t.Helper()

	user, err := s.CreateUser(context.Background(), email, "secret123")
	require.NoError(t, err)
	return user
}

func seedMovie(t *testing.T, s *Store, slug, title string) int64 {
	t.Helper()

	result, err := s.db.Exec(
		`INSERT INTO movies (slug, title, year, genres) VALUES (?, ?, ?, ?)`,
		slug, title, 2016, "drama")
	require.NoError(t, err)

	id, err := result.LastInsertId()
	require.NoError(t, err)
	return id
}

func seedShow(t *testing.T, s *Store, slug, title string) int64 {
	t.Helper()

	result, err := s.db.Exec(
		`INSERT INTO shows (slug, title, year, genres) VALUES (?, ?, ?, ?)`,
		slug, title, 2011, "fantasy")
	require.NoError(t, err)

	id, err := result.LastInsertId()
	require.NoError(t, err)
	return id
}

func seedSeason(t *testing.T, s *Store, showID int64, number int) int64 {
	t.Helper()

	result, err := s.db.Exec(
		`INSERT INTO seasons (show_id, number, title) VALUES (?, ?, ?)`,
		showID, number, "Season")
	require.NoError(t, err)

	id, err := result.LastInsertId()
	require.NoError(t, err)
	return id
}

func seedEpisode(t *testing.T, s *Store, seasonID int64, number int) {
	t.Helper()

	_, err := s.db.Exec(
		`INSERT INTO episodes (season_id, season, number, title) VALUES (?, ?, ?, ?)`,
		seasonID, 1, number, "Episode")
	require.NoError(t, err)
}

// testContext bounds a test's store calls.
func testContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

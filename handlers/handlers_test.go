package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/umakantv/go-utils/logger"

	"futureflix/models"
	"futureflix/store"
)

var loggerOnce sync.Once

type testEnv struct {
	store    *store.Store
	sessions *SessionManager
	db       *sqlx.DB
}

// newTestEnv wires handlers against an in-memory database with the real
// schema. Caching is off (nil cache) so every request hits the store.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	loggerOnce.Do(func() {
		logger.Init(logger.LoggerConfig{
			CallerKey:  "file",
			TimeKey:    "timestamp",
			CallerSkip: 1,
		})
	})

	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
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

	st := store.New(db)
	sessions := NewSessionManager(
		[]byte("0123456789abcdef0123456789abcdef"),
		[]byte("fedcba9876543210fedcba9876543210"),
		st)

	return &testEnv{store: st, sessions: sessions, db: db}
}

func (env *testEnv) seedMovie(t *testing.T, slug, title string) {
	t.Helper()

	_, err := env.db.Exec(
		`INSERT INTO movies (slug, title, year, genres) VALUES (?, ?, ?, ?)`,
		slug, title, 2016, "drama")
	require.NoError(t, err)
}

func (env *testEnv) seedShow(t *testing.T, slug, title string) int64 {
	t.Helper()

	result, err := env.db.Exec(
		`INSERT INTO shows (slug, title, year, genres) VALUES (?, ?, ?, ?)`,
		slug, title, 2011, "fantasy")
	require.NoError(t, err)

	id, err := result.LastInsertId()
	require.NoError(t, err)
	return id
}

func (env *testEnv) seedUser(t *testing.T, email string) *models.User {
	t.Helper()

	user, err := env.store.CreateUser(context.Background(), email, "secret123")
	require.NoError(t, err)
	return user
}

// login issues a session cookie for the user and attaches it to the
// request, the same cookie a browser would replay.
func (env *testEnv) login(t *testing.T, r *http.Request, userID int64) {
	t.Helper()

	rec := httptest.NewRecorder()
	require.NoError(t, env.sessions.Issue(rec, userID))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	r.AddCookie(cookies[0])
}

func jsonRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()

	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// decodeBody unmarshals the recorded response body into v.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func testContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

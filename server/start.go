package server

import (
	"context"
	"net/http"
	"os"

	"github.com/gorilla/securecookie"
	"github.com/umakantv/go-utils/httpserver"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"

	cachepackage "futureflix/cache"
	"futureflix/database"
	"futureflix/handlers"
	"futureflix/store"
)

// env returns the variable's value or the fallback when unset.
func env(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// sessionKeys resolves the cookie signing and encryption keys. Without
// configured keys a random pair is generated, which invalidates all
// sessions on restart.
func sessionKeys() (hashKey, blockKey []byte) {
	if value := os.Getenv("SESSION_HASH_KEY"); value != "" {
		hashKey = []byte(value)
	} else {
		hashKey = securecookie.GenerateRandomKey(32)
		logger.Info("SESSION_HASH_KEY not set, generated a random key; sessions won't survive restarts")
	}

	if value := os.Getenv("SESSION_BLOCK_KEY"); value != "" {
		blockKey = []byte(value)
	} else {
		blockKey = securecookie.GenerateRandomKey(32)
	}

	return hashKey, blockKey
}

func StartServer() {
	// Initialize logger
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})

	logger.Info("Starting Futureflix...")

	// Initialize database
	dbConn := database.InitializeDatabase(
		env("DB_PATH", "./futureflix.db"),
		env("MIGRATIONS_DIR", "./database/migrations"),
	)
	defer dbConn.Close()

	// Initialize cache
	cache := cachepackage.InitializeCache(env("REDIS_ADDR", "localhost:6379"))
	defer cache.Close()

	st := store.New(dbConn)

	hashKey, blockKey := sessionKeys()
	sessions := handlers.NewSessionManager(hashKey, blockKey, st)

	// Initialize handlers
	movieHandler := handlers.NewMovieHandler(st, cache)
	showHandler := handlers.NewShowHandler(st, cache)
	watchlistHandler := handlers.NewWatchlistHandler(st, sessions)
	searchHandler := handlers.NewSearchHandler(st)
	authHandler := handlers.NewAuthHandler(st, sessions)

	// Create HTTP server; session-gated routes go through CheckAuth,
	// public routes stay open ("try" mode by default)
	server := httpserver.New(env("PORT", "3001"), sessions.CheckAuth)

	server.Register(httpserver.Route{
		Name:     "HealthCheck",
		Method:   "GET",
		Path:     "/",
		AuthType: "none",
	}, httpserver.HandlerFunc(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "futureflix"}`))
	}))

	server.Register(httpserver.Route{
		Name:     "ListMovies",
		Method:   "GET",
		Path:     "/movies",
		AuthType: "none",
	}, httpserver.HandlerFunc(movieHandler.List))

	server.Register(httpserver.Route{
		Name:     "GetMovie",
		Method:   "GET",
		Path:     "/movies/{slug}",
		AuthType: "none",
	}, httpserver.HandlerFunc(movieHandler.Show))

	server.Register(httpserver.Route{
		Name:     "ListShows",
		Method:   "GET",
		Path:     "/shows",
		AuthType: "none",
	}, httpserver.HandlerFunc(showHandler.List))

	// registered before /shows/{slug} so "random" isn't taken as a slug
	server.Register(httpserver.Route{
		Name:     "RandomShows",
		Method:   "GET",
		Path:     "/shows/random",
		AuthType: "none",
	}, httpserver.HandlerFunc(showHandler.Random))

	server.Register(httpserver.Route{
		Name:     "GetShow",
		Method:   "GET",
		Path:     "/shows/{slug}",
		AuthType: "none",
	}, httpserver.HandlerFunc(showHandler.Show))

	server.Register(httpserver.Route{
		Name:     "Search",
		Method:   "POST",
		Path:     "/search",
		AuthType: "none",
	}, httpserver.HandlerFunc(searchHandler.Search))

	server.Register(httpserver.Route{
		Name:     "Signup",
		Method:   "POST",
		Path:     "/signup",
		AuthType: "none",
	}, httpserver.HandlerFunc(authHandler.Signup))

	server.Register(httpserver.Route{
		Name:     "Login",
		Method:   "POST",
		Path:     "/login",
		AuthType: "none",
	}, httpserver.HandlerFunc(authHandler.Login))

	server.Register(httpserver.Route{
		Name:     "Logout",
		Method:   "GET",
		Path:     "/logout",
		AuthType: "session",
	}, httpserver.HandlerFunc(authHandler.Logout))

	server.Register(httpserver.Route{
		Name:     "Me",
		Method:   "GET",
		Path:     "/me",
		AuthType: "session",
	}, httpserver.HandlerFunc(authHandler.Me))

	server.Register(httpserver.Route{
		Name:     "Profile",
		Method:   "GET",
		Path:     "/profile",
		AuthType: "session",
	}, httpserver.HandlerFunc(authHandler.Me))

	server.Register(httpserver.Route{
		Name:     "UpdateProfile",
		Method:   "PUT",
		Path:     "/profile",
		AuthType: "session",
	}, httpserver.HandlerFunc(authHandler.UpdateProfile))

	server.Register(httpserver.Route{
		Name:     "ForgotPassword",
		Method:   "POST",
		Path:     "/forgot-password",
		AuthType: "none",
	}, httpserver.HandlerFunc(authHandler.ForgotPassword))

	server.Register(httpserver.Route{
		Name:     "ResetPassword",
		Method:   "POST",
		Path:     "/reset-password/{token}",
		AuthType: "none",
	}, httpserver.HandlerFunc(authHandler.ResetPassword))

	server.Register(httpserver.Route{
		Name:     "Watchlist",
		Method:   "GET",
		Path:     "/watchlist",
		AuthType: "session",
	}, httpserver.HandlerFunc(watchlistHandler.Index))

	// the add action is reachable via GET (links) and POST (forms)
	server.Register(httpserver.Route{
		Name:     "WatchlistAdd",
		Method:   "GET",
		Path:     "/watchlist/add/{slug}",
		AuthType: "session",
	}, httpserver.HandlerFunc(watchlistHandler.Add))

	server.Register(httpserver.Route{
		Name:     "WatchlistAddPost",
		Method:   "POST",
		Path:     "/watchlist/add/{slug}",
		AuthType: "session",
	}, httpserver.HandlerFunc(watchlistHandler.Add))

	logger.Info("Futureflix started", zap.String("port", env("PORT", "3001")))

	// Start server
	if err := server.Start(); err != nil {
		logger.Error("Server failed to start", zap.Error(err))
		os.Exit(1)
	}
}

// LoadSampleData runs the sample-data import used by the seed command.
func LoadSampleData(dir string) {
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})

	dbConn := database.InitializeDatabase(
		env("DB_PATH", "./futureflix.db"),
		env("MIGRATIONS_DIR", "./database/migrations"),
	)
	defer dbConn.Close()

	if err := database.Seed(dbConn, dir); err != nil {
		logger.Error("Sample data import failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Sample data imported", zap.String("dir", dir))
}

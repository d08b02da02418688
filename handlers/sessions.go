package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/umakantv/go-utils/httpserver"
	"go.uber.org/zap"

	"futureflix/models"
	"futureflix/store"
)

const sessionCookieName = "futureflix_session"

const sessionTTL = 7 * 24 * time.Hour

// sessionPayload is everything the cookie carries: the user's id. The
// payload is never trusted beyond that — the user is re-resolved from
// the store on every request.
type sessionPayload struct {
	UserID int64 `json:"id"`
}

// SessionManager issues and validates the signed, encrypted session
// cookie. Sessions are stateless: there is no server-side session record
// to create or revoke.
type SessionManager struct {
	codec *securecookie.SecureCookie
	store *store.Store
}

// NewSessionManager builds the cookie codec. hashKey signs the cookie,
// blockKey encrypts it.
func NewSessionManager(hashKey, blockKey []byte, st *store.Store) *SessionManager {
	return &SessionManager{
		codec: securecookie.New(hashKey, blockKey),
		store: st,
	}
}

// Issue sets the session cookie for the given user.
func (m *SessionManager) Issue(w http.ResponseWriter, userID int64) error {
	encoded, err := m.codec.Encode(sessionCookieName, sessionPayload{UserID: userID})
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionTTL.Seconds()),
	})

	return nil
}

// Clear removes the session cookie. Nothing else needs invalidating.
func (m *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// CurrentUser resolves the request's session to a user, watchlist
// preloaded. Missing, undecodable or stale sessions degrade gracefully
// to anonymous (nil user, nil error); only a store failure is an error.
func (m *SessionManager) CurrentUser(ctx context.Context, r *http.Request) (*models.User, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil, nil
	}

	var payload sessionPayload
	if err := m.codec.Decode(sessionCookieName, cookie.Value, &payload); err != nil {
		return nil, nil
	}

	user, err := m.store.FindUserByID(ctx, payload.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// CheckAuth is the authentication hook handed to the HTTP server.
// Routes registered with the session auth type reject requests that
// don't resolve to a user; public routes skip it entirely.
func (m *SessionManager) CheckAuth(r *http.Request) (bool, httpserver.RequestAuth) {
	user, err := m.CurrentUser(r.Context(), r)
	if err != nil || user == nil {
		return false, httpserver.RequestAuth{}
	}

	return true, httpserver.RequestAuth{
		Type:   "session",
		Client: user.Username,
		Claims: map[string]interface{}{"user_id": user.ID},
	}
}

// requireUser loads the authenticated user or writes the 401 response
// pointing at the login entry point. Returns nil when the caller should
// stop.
func requireUser(ctx context.Context, w http.ResponseWriter, r *http.Request, sessions *SessionManager) *models.User {
	user, err := sessions.CurrentUser(ctx, r)
	if err != nil {
		logRequest(r, "error", "Failed to resolve session user", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Something went wrong")
		return nil
	}
	if user == nil {
		respondErrorWithDocs(w, http.StatusUnauthorized, "Please log in to access this page", "/login")
		return nil
	}

	return user
}

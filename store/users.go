package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"futureflix/models"
)

// bcryptCost is the work factor for password hashing.
const bcryptCost = 12

// usernameAttempts bounds the collision-suffix loop during signup.
const usernameAttempts = 20

const userColumns = `
	id, email, username, password, homepage, reset_password_token,
	reset_password_deadline, auth_token, scope, created_at, updated_at`

// CreateUser registers a new user. The password is hashed before it is
// persisted and the username is derived from the email's local part,
// with a numeric suffix on collision.
func (s *Store) CreateUser(ctx context.Context, email, password string) (*models.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	base := usernameFromEmail(email)
	now := time.Now().UTC()

	for attempt := 1; attempt <= usernameAttempts; attempt++ {
		username := base
		if attempt > 1 {
			username = fmt.Sprintf("%s-%d", base, attempt)
		}

		user := &models.User{
			Email:     email,
			Username:  username,
			Password:  string(hash),
			AuthToken: uuid.NewString(),
			Scope:     models.StringList{"user"},
			CreatedAt: now,
			UpdatedAt: now,
		}

		result, err := s.db.ExecContext(ctx,
			`INSERT INTO users (email, username, password, auth_token, scope, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			user.Email, user.Username, user.Password, user.AuthToken, user.Scope, user.CreatedAt, user.UpdatedAt)
		if isUniqueViolation(err, "users.email") {
			return nil, ErrEmailTaken
		}
		if isUniqueViolation(err, "users.username") {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}

		user.ID, err = result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}

		return user, nil
	}

	return nil, ErrUsernameTaken
}

// usernameFromEmail derives a username from the email's local part.
func usernameFromEmail(email string) string {
	local := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		local = email[:at]
	}

	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return -1
		}
	}, local)
}

// FindUserByEmail looks up a user by email, case-insensitively.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var user models.User
	query := `SELECT` + userColumns + ` FROM users WHERE email = ? COLLATE NOCASE`
	err := s.db.GetContext(ctx, &user, query, strings.TrimSpace(email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	return &user, nil
}

// FindUserByID resolves a user by id with the watchlist preloaded. The
// session layer calls this on every authenticated request, so session
// payloads are never trusted beyond the id they carry.
func (s *Store) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	queryCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	var user models.User
	query := `SELECT` + userColumns + ` FROM users WHERE id = ?`
	err := s.db.GetContext(queryCtx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}

	watchlist, err := s.FindWatchlistByUser(ctx, user.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	user.Watchlist = watchlist

	return &user, nil
}

// UpdateProfile changes a user's username and homepage.
func (s *Store) UpdateProfile(ctx context.Context, userID int64, username, homepage string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET username = ?, homepage = ?, updated_at = ? WHERE id = ?`,
		strings.TrimSpace(username), strings.TrimSpace(homepage), time.Now().UTC(), userID)
	if isUniqueViolation(err, "users.username") {
		return ErrUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	return nil
}

// SetResetToken stores a fresh password-reset token with a one hour
// deadline and returns it. Mail delivery is the caller's concern.
func (s *Store) SetResetToken(ctx context.Context, userID int64) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	token := uuid.NewString()
	deadline := time.Now().UTC().Add(time.Hour)

	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET reset_password_token = ?, reset_password_deadline = ?, updated_at = ? WHERE id = ?`,
		token, deadline, deadline, userID)
	if err != nil {
		return "", fmt.Errorf("set reset token: %w", err)
	}

	return token, nil
}

// FindUserByResetToken resolves a user by an unexpired reset token.
func (s *Store) FindUserByResetToken(ctx context.Context, token string) (*models.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var user models.User
	query := `SELECT` + userColumns + ` FROM users
		WHERE reset_password_token = ? AND reset_password_deadline > ?`
	err := s.db.GetContext(ctx, &user, query, token, time.Now().UTC())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by reset token: %w", err)
	}

	return &user, nil
}

// ResetPassword replaces the user's password hash, clears the reset
// token and rotates the auth token.
func (s *Store) ResetPassword(ctx context.Context, userID int64, password string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE users
		 SET password = ?, reset_password_token = '', reset_password_deadline = NULL,
		     auth_token = ?, updated_at = ?
		 WHERE id = ?`,
		string(hash), uuid.NewString(), time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	return nil
}

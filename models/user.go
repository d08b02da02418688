package models

import (
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"strings"
	"time"
)

// User represents a registered user.
// Password holds the bcrypt hash; it is never included in JSON responses.
type User struct {
	ID                 int64        `json:"id" db:"id"`
	Email              string       `json:"email" db:"email"`
	Username           string       `json:"username" db:"username"`
	Password           string       `json:"-" db:"password"`
	Homepage           string       `json:"homepage,omitempty" db:"homepage"`
	ResetPasswordToken string       `json:"-" db:"reset_password_token"`
	ResetPasswordUntil sql.NullTime `json:"-" db:"reset_password_deadline"`
	AuthToken          string       `json:"-" db:"auth_token"`
	Scope              StringList   `json:"scope" db:"scope"`
	CreatedAt          time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at" db:"updated_at"`
	Watchlist          *Watchlist   `json:"watchlist,omitempty" db:"-"`
}

// Gravatar returns the ready-to-load avatar URL for the user's email address.
func (u *User) Gravatar() string {
	hash := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(u.Email))))
	return "https://gravatar.com/avatar/" + hex.EncodeToString(hash[:]) + "?s=200"
}

// SignupRequest is the payload for POST /signup.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest is the payload for POST /login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UpdateProfileRequest is the payload for PUT /profile.
// Homepage is optional; when present it must be a valid URL.
type UpdateProfileRequest struct {
	Username string `json:"username" validate:"required,min=2"`
	Homepage string `json:"homepage" validate:"omitempty,url"`
}

// ForgotPasswordRequest is the payload for POST /forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest is the payload for POST /reset-password/{token}.
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

// ProfileResponse is the user shape returned from /me and /profile.
type ProfileResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Homepage string `json:"homepage,omitempty"`
	Gravatar string `json:"gravatar"`
}

// NewProfileResponse builds the public profile view of a user.
func NewProfileResponse(user *User) ProfileResponse {
	return ProfileResponse{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		Homepage: user.Homepage,
		Gravatar: user.Gravatar(),
	}
}

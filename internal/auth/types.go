package auth

import (
	"context"
	"errors"
)

var ErrUserNotFound = errors.New("user not found")

type TokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // seconds
}

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	TokenVersion int
}

// Keep DB details abstract so the handler works against Postgres or memory.
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (User, error)
	FindUserByUsername(ctx context.Context, username string) (User, error)
	UpdateUserPasswordHash(ctx context.Context, userID int64, newHash string) error
	TokenVersion(ctx context.Context, userID int64) (int, error)
}

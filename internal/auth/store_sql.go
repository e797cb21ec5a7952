package auth

import (
	"context"
	"database/sql"
	"errors"
)

type SQLStore struct {
	DB *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{DB: db} }

func (s *SQLStore) CreateUser(ctx context.Context, username, passwordHash string) (User, error) {
	const q = `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, username, password_hash, token_version`
	var u User
	err := s.DB.QueryRowContext(ctx, q, username, passwordHash).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.TokenVersion,
	)
	return u, err
}

func (s *SQLStore) FindUserByUsername(ctx context.Context, username string) (User, error) {
	const q = `
		SELECT id, username, password_hash, token_version
		FROM users
		WHERE username = $1`
	var u User
	err := s.DB.QueryRowContext(ctx, q, username).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.TokenVersion,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return u, err
}

func (s *SQLStore) UpdateUserPasswordHash(ctx context.Context, userID int64, newHash string) error {
	_, err := s.DB.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, newHash, userID)
	return err
}

func (s *SQLStore) TokenVersion(ctx context.Context, userID int64) (int, error) {
	var v int
	err := s.DB.QueryRowContext(ctx, `SELECT token_version FROM users WHERE id = $1`, userID).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrUserNotFound
	}
	return v, err
}

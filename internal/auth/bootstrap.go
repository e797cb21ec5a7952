package auth

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/5w1tchy/catalog-api/internal/security/password"
)

// EnsureUser creates username with plain as its password unless the user
// already exists. Existing users are left untouched.
func EnsureUser(ctx context.Context, store UserStore, hasher *password.Hasher, username, plain string) error {
	_, err := store.FindUserByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return fmt.Errorf("lookup bootstrap user: %w", err)
	}

	plain, warn, err := password.Validate(plain, username)
	if err != nil {
		return fmt.Errorf("bootstrap password: %w", err)
	}
	if warn != nil {
		log.Printf("[auth] bootstrap password for %q is weak (score %d): %s", username, warn.Score, warn.Message)
	}

	hash, err := hasher.Hash(plain)
	if err != nil {
		return err
	}
	if _, err := store.CreateUser(ctx, username, hash); err != nil {
		return fmt.Errorf("create bootstrap user: %w", err)
	}
	log.Printf("[auth] created bootstrap user %q", username)
	return nil
}

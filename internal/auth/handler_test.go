package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jwtutil "github.com/5w1tchy/catalog-api/internal/security/jwt"
	"github.com/5w1tchy/catalog-api/internal/security/password"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T) (*Handler, *MemStore) {
	t.Helper()
	store := NewMemStore()
	hasher := password.NewHasher(password.DefaultParams().WithCost(64, 1, 1))
	require.NoError(t, EnsureUser(context.Background(), store, hasher, "librarian", "shelve-all-the-books"))
	signer := jwtutil.NewSigner(jwtutil.Config{Secret: []byte(strings.Repeat("s", 32)), AccessTTL: 10 * time.Minute})
	return New(store, hasher, signer), store
}

func postToken(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Token(rr, req)
	return rr
}

func TestToken_IssuesVerifiableToken(t *testing.T) {
	h, _ := newHandler(t)

	rr := postToken(h, `{"username":"librarian","password":"shelve-all-the-books"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp TokenResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, 600, resp.ExpiresIn)

	claims, err := h.Signer.ParseAccess(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.Subject)
	assert.Equal(t, 1, claims.TokenVersion)
}

func TestToken_BadCredentials(t *testing.T) {
	h, _ := newHandler(t)

	for _, body := range []string{
		`{"username":"librarian","password":"nope"}`,
		`{"username":"ghost","password":"shelve-all-the-books"}`,
	} {
		rr := postToken(h, body)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, body)
		assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
	}
}

func TestToken_BadRequest(t *testing.T) {
	h, _ := newHandler(t)

	for _, body := range []string{`not json`, `{"username":"","password":"x"}`, `{"username":"a","password":"b","admin":true}`} {
		assert.Equal(t, http.StatusBadRequest, postToken(h, body).Code, body)
	}
}

func TestToken_RehashesWeakerStoredHash(t *testing.T) {
	h, store := newHandler(t)
	h.Hasher = password.NewHasher(password.DefaultParams().WithCost(128, 1, 1))
	before, _ := store.FindUserByUsername(context.Background(), "librarian")

	rr := postToken(h, `{"username":"librarian","password":"shelve-all-the-books"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	after, _ := store.FindUserByUsername(context.Background(), "librarian")
	assert.NotEqual(t, before.PasswordHash, after.PasswordHash)
	assert.False(t, h.Hasher.NeedsRehash(after.PasswordHash))
}

func TestEnsureUser_Idempotent(t *testing.T) {
	_, store := newHandler(t)
	hasher := password.NewHasher(password.DefaultParams().WithCost(64, 1, 1))
	before, _ := store.FindUserByUsername(context.Background(), "librarian")

	require.NoError(t, EnsureUser(context.Background(), store, hasher, "librarian", "a-different-password"))

	after, _ := store.FindUserByUsername(context.Background(), "librarian")
	assert.Equal(t, before.PasswordHash, after.PasswordHash)
}

func TestEnsureUser_RejectsShortPassword(t *testing.T) {
	hasher := password.NewHasher(password.DefaultParams().WithCost(64, 1, 1))
	err := EnsureUser(context.Background(), NewMemStore(), hasher, "admin", "short")
	assert.ErrorIs(t, err, password.ErrTooShort)
}

func TestMemStore_RevokeAll(t *testing.T) {
	_, store := newHandler(t)
	store.RevokeAll(1)
	v, err := store.TokenVersion(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	_, err = store.TokenVersion(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

package auth

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/5w1tchy/catalog-api/internal/api/apperr"
	"github.com/5w1tchy/catalog-api/internal/api/httpx"
	jwtutil "github.com/5w1tchy/catalog-api/internal/security/jwt"
	"github.com/5w1tchy/catalog-api/internal/security/password"
	"github.com/5w1tchy/catalog-api/internal/validate"
)

const usernameMax = 150

type Handler struct {
	Store  UserStore
	Hasher *password.Hasher
	Signer *jwtutil.Signer
}

func New(store UserStore, hasher *password.Hasher, signer *jwtutil.Signer) *Handler {
	return &Handler{Store: store, Hasher: hasher, Signer: signer}
}

// Token exchanges username and password for a bearer access token.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req TokenRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		apperr.BadRequest(w, r, "invalid JSON")
		return
	}
	username, err := validate.RequireBounded("username", req.Username, 1, usernameMax)
	if err != nil || req.Password == "" {
		apperr.BadRequest(w, r, "username and password are required")
		return
	}
	req.Username = username

	ctx := r.Context()
	u, err := h.Store.FindUserByUsername(ctx, req.Username)
	if errors.Is(err, ErrUserNotFound) {
		invalidCredentials(w, r)
		return
	}
	if err != nil {
		apperr.Internal(w, r, err)
		return
	}

	ok, needsRehash, err := h.Hasher.Verify(req.Password, u.PasswordHash)
	if err != nil || !ok {
		invalidCredentials(w, r)
		return
	}
	if needsRehash {
		if newPHC, err := h.Hasher.Hash(req.Password); err == nil {
			if err := h.Store.UpdateUserPasswordHash(ctx, u.ID, newPHC); err != nil {
				log.Printf("[auth] rehash for user %d failed: %v", u.ID, err)
			}
		}
	}

	access, _, err := h.Signer.SignAccess(strconv.FormatInt(u.ID, 10), u.TokenVersion)
	if err != nil {
		apperr.Internal(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.Signer.AccessTTL().Seconds()),
	})
}

func invalidCredentials(w http.ResponseWriter, r *http.Request) {
	apperr.WriteStatus(w, r, http.StatusUnauthorized, "Unauthorized", "invalid username or password")
}

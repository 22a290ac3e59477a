// Package auth checks the tokens players present when they join a table.
package auth

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidToken means the service rejected the token.
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrUnavailable means the service could not give an answer. Joins fail
	// closed on it.
	ErrUnavailable = errors.New("auth: unavailable")
)

const validateTimeout = 500 * time.Millisecond

// Identity is who a token belongs to.
type Identity struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

// Validator resolves a join token to an identity.
type Validator interface {
	Validate(ctx context.Context, token string) (*Identity, error)
}

// HTTPValidator posts tokens to an external service.
type HTTPValidator struct {
	url    string
	secret string
	client *http.Client
}

// NewHTTPValidator creates a validator for url. A non-empty secret is sent
// in the X-Admin-Secret header.
func NewHTTPValidator(url, secret string) *HTTPValidator {
	return &HTTPValidator{
		url:    url,
		secret: secret,
		client: &http.Client{Timeout: validateTimeout},
	}
}

type validateRequest struct {
	Token string `json:"token"`
}

type validateResponse struct {
	Valid    bool   `json:"valid"`
	PlayerID string `json:"player_id,omitempty"`
	Name     string `json:"name,omitempty"`
}

func (v *HTTPValidator) Validate(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	ctx, cancel := context.WithTimeout(ctx, validateTimeout)
	defer cancel()

	body, err := json.Marshal(validateRequest{Token: token})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if v.secret != "" {
		req.Header.Set("X-Admin-Secret", v.secret)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrInvalidToken
	default:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var out validateResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	if !out.Valid || out.PlayerID == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{PlayerID: out.PlayerID, Name: out.Name}, nil
}

// Token grants Identity to whoever presents it. Exactly one of Token or Hash
// is set; Hash is a bcrypt hash of the token.
type Token struct {
	Identity Identity
	Token    string
	Hash     []byte
}

// TokenTable accepts a fixed set of tokens. It backs the player blocks in the
// server config.
type TokenTable []Token

func (v TokenTable) Validate(_ context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	for _, t := range v {
		switch {
		case t.Token != "":
			if subtle.ConstantTimeCompare([]byte(t.Token), []byte(token)) == 1 {
				id := t.Identity
				return &id, nil
			}
		case len(t.Hash) > 0:
			if bcrypt.CompareHashAndPassword(t.Hash, []byte(token)) == nil {
				id := t.Identity
				return &id, nil
			}
		}
	}
	return nil, ErrInvalidToken
}

// HashToken returns the bcrypt hash to put in a player block's token_hash.
func HashToken(token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// JWTValidator accepts HS256 tokens signed with a shared secret. The sub
// claim is the player id and the optional name claim the username.
type JWTValidator struct {
	secret []byte
	issuer string
}

// NewJWTValidator creates a validator. A non-empty issuer must match the
// token's iss claim.
func NewJWTValidator(secret, issuer string) *JWTValidator {
	return &JWTValidator{secret: []byte(secret), issuer: issuer}
}

func (v *JWTValidator) Validate(_ context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if v.issuer != "" && !claims.VerifyIssuer(v.issuer, true) {
		return nil, fmt.Errorf("%w: issuer", ErrInvalidToken)
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("%w: missing sub", ErrInvalidToken)
	}
	name, _ := claims["name"].(string)
	return &Identity{PlayerID: sub, Name: name}, nil
}

// SignToken issues a token JWTValidator accepts for ttl.
func SignToken(secret, issuer string, id Identity, ttl time.Duration) (string, error) {
	if id.PlayerID == "" {
		return "", fmt.Errorf("player id is required")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": id.PlayerID,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	if issuer != "" {
		claims["iss"] = issuer
	}
	if id.Name != "" {
		claims["name"] = id.Name
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

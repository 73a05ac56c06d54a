package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/thejerf/abtime"
)

// TokenTTL is how long a session token stays valid after issuance.
const TokenTTL = time.Hour

// Identity is the set of claims a session token vouches for.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Claims represents JWT token claims.
type Claims struct {
	Identity
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies HS256 session tokens.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	clock  abtime.AbstractTime
}

// NewTokenCodec creates a codec. An empty secret is a configuration error;
// a nil clock means wall-clock time.
func NewTokenCodec(secret string, ttl time.Duration, clock abtime.AbstractTime) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.New("token signing secret is empty")
	}
	if ttl <= 0 {
		ttl = TokenTTL
	}
	if clock == nil {
		clock = abtime.NewRealTime()
	}
	return &TokenCodec{secret: []byte(secret), ttl: ttl, clock: clock}, nil
}

// TTL is the lifetime of issued tokens; the session cookie uses the same value.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

func (c *TokenCodec) Issue(id Identity) (string, error) {
	now := c.clock.Now()
	claims := Claims{
		Identity: id,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded identity.
// Every failure is reported as ErrInvalidToken.
func (c *TokenCodec) Verify(tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(token *jwt.Token) (interface{}, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(c.clock.Now),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	if claims.Identity.ID == 0 || !claims.Role.Valid() {
		return Identity{}, fmt.Errorf("%w: incomplete claims", ErrInvalidToken)
	}
	return claims.Identity, nil
}

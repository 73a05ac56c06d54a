package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Session is what a successful sign-in or sign-up hands back to the caller.
type Session struct {
	Token string
	User  PublicUser
}

// RegisterInput carries already-validated sign-up fields.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Gate issues, verifies and authorizes session tokens against the
// credential store.
type Gate struct {
	users  UserRepository
	hasher PasswordHasher
	tokens *TokenCodec
}

func NewGate(users UserRepository, hasher PasswordHasher, tokens *TokenCodec) *Gate {
	return &Gate{users: users, hasher: hasher, tokens: tokens}
}

// Tokens exposes the codec so transport code can size cookies by its TTL.
func (g *Gate) Tokens() *TokenCodec {
	return g.tokens
}

// Register creates a CITIZEN identity. Registration never grants ADMIN.
func (g *Gate) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	email := normalizeEmail(in.Email)

	_, err := g.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrDuplicateEmail
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	hash, err := g.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         RoleCitizen,
	}
	if err := g.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID, "email", user.Email)
	return g.session(user)
}

// Login returns ErrInvalidCredentials for an unknown email and for a wrong
// password alike.
func (g *Gate) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := g.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !g.hasher.Compare(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return g.session(user)
}

// Logout is stateless: the transport clears the cookie and the token stays
// cryptographically valid until it expires.
func (g *Gate) Logout(context.Context) error {
	return nil
}

// CurrentIdentity re-reads the identity behind token from the store.
func (g *Gate) CurrentIdentity(ctx context.Context, token string) (PublicUser, error) {
	claims, err := g.tokens.Verify(token)
	if err != nil {
		return PublicUser{}, err
	}

	user, err := g.users.FindByID(ctx, claims.ID)
	if err != nil {
		return PublicUser{}, err
	}
	return user.Public(), nil
}

// Authorize verifies token and, when roles are given, requires the token's
// role to be one of them.
func (g *Gate) Authorize(token string, roles ...Role) (Identity, error) {
	claims, err := g.tokens.Verify(token)
	if err != nil {
		return Identity{}, err
	}
	if len(roles) == 0 {
		return claims, nil
	}
	for _, r := range roles {
		if claims.Role == r {
			return claims, nil
		}
	}
	return Identity{}, ErrForbidden
}

func (g *Gate) session(user *User) (*Session, error) {
	token, err := g.tokens.Issue(Identity{ID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user.Public()}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

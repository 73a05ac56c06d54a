// Package seeds provisions accounts that registration cannot create.
package seeds

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/EmpoweredVote/civic-requests/internal/auth"
)

// AdminInput describes the administrator account to provision.
type AdminInput struct {
	Email     string `validate:"required,email"`
	Password  string `validate:"min=6"`
	FirstName string `validate:"min=2"`
	LastName  string `validate:"min=2"`
}

// SeedAdmin creates the admin account, or promotes an existing account with
// the same email to ADMIN. An existing password is left untouched unless
// resetPassword is set. It reports whether a new row was inserted.
func SeedAdmin(ctx context.Context, users auth.UserRepository, hasher auth.PasswordHasher, in AdminInput, resetPassword bool) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	existing, err := users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		existing.Role = auth.RoleAdmin
		if resetPassword {
			hash, err := hasher.Hash(in.Password)
			if err != nil {
				return false, fmt.Errorf("hash password: %w", err)
			}
			existing.PasswordHash = hash
		}
		if err := users.Update(ctx, existing); err != nil {
			return false, fmt.Errorf("promote %s: %w", email, err)
		}
		slog.Info("admin exists, promoted", "email", email, "password_reset", resetPassword)
		return false, nil
	case !errors.Is(err, auth.ErrNotFound):
		return false, fmt.Errorf("look up %s: %w", email, err)
	}

	hash, err := hasher.Hash(in.Password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	user := &auth.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         auth.RoleAdmin,
	}
	if err := users.Create(ctx, user); err != nil {
		return false, fmt.Errorf("create %s: %w", email, err)
	}
	slog.Info("admin created", "email", email, "user_id", user.ID)
	return true, nil
}

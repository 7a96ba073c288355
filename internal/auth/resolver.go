package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/catalog-service/internal/repository"
)

// ErrIdentityNotFound signals that a verified token names no stored user.
// Callers map it to an authentication failure, not a server error.
var ErrIdentityNotFound = errors.New("identity not found")

// Identity is the request-scoped representation of the authenticated
// caller. It never carries the password hash.
type Identity struct {
	SubjectID string
	Email     string
	Roles     []string
}

// HasRole reports whether the identity carries the given role.
func (i *Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IdentityResolver maps verified token claims to full identities.
type IdentityResolver struct {
	users repository.UserRepository
}

// NewIdentityResolver constructs a resolver over the user store.
func NewIdentityResolver(users repository.UserRepository) *IdentityResolver {
	return &IdentityResolver{users: users}
}

// Resolve loads the user named by the claim subject and projects it into
// an Identity.
func (r *IdentityResolver) Resolve(ctx context.Context, claims *Claims) (*Identity, error) {
	user, err := r.users.GetByEmail(ctx, claims.Email())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}
	return &Identity{
		SubjectID: user.ID,
		Email:     user.Email,
		Roles:     user.Roles,
	}, nil
}

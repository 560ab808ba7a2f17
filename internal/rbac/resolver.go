package rbac

import (
	"context"
	"errors"

	"github.com/clinicore/hospital-portal/internal/roles"
)

// Resolver maps the current identity to its role. Every call hits the
// Profile Store: roles are never cached, so a revocation takes effect on
// the very next request.
type Resolver struct {
	profiles ProfileStore
}

func NewResolver(profiles ProfileStore) *Resolver {
	return &Resolver{profiles: profiles}
}

// Resolve returns the role for userID. An empty userID (anonymous
// request) resolves to roles.None without error. A missing or roleless
// profile returns ErrUnprovisioned. Store failures surface as
// *DependencyError and must not be read as "no role".
func (r *Resolver) Resolve(
	ctx context.Context,
	userID string,
) (roles.Role, error) {

	if userID == "" {
		return roles.None, nil
	}

	role, err := r.profiles.GetRole(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUnprovisioned) {
			return roles.None, ErrUnprovisioned
		}
		if IsDependencyError(err) {
			return roles.None, err
		}
		return roles.None, &DependencyError{Op: "resolve role", Err: err}
	}

	return role, nil
}

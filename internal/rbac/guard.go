package rbac

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/clinicore/hospital-portal/internal/roles"
)

// ======================================================
// Denials
// ======================================================

type Reason string

const (
	ReasonUnauthenticated   Reason = "unauthenticated"
	ReasonUnauthorized      Reason = "unauthorized"
	ReasonUnprovisioned     Reason = "unprovisioned"
	ReasonDependencyFailure Reason = "dependency_failure"
)

const (
	// LoginRoute receives anonymous visitors of protected pages.
	LoginRoute = "/auth/login"

	// DefaultFallbackRoute is the neutral landing page for authenticated
	// users denied a specific page. It deliberately does not reveal
	// whether the denied resource exists.
	DefaultFallbackRoute = "/protected"
)

// Denial tells the caller to stop processing and send the user to
// Redirect. A nil *Denial means the request is authorized. Modelling the
// outcome as a value, rather than an abort inside the guard, keeps every
// enforcement path explicit and testable.
type Denial struct {
	Reason   Reason
	Redirect string
}

// ======================================================
// Guard
// ======================================================

// Guard combines the role resolver with the pure role predicates and
// turns their verdicts into redirects. All failure modes deny: a Profile
// Store outage never grants access.
type Guard struct {
	resolver *Resolver
	log      *zap.SugaredLogger
}

func NewGuard(resolver *Resolver, log *zap.SugaredLogger) *Guard {
	return &Guard{resolver: resolver, log: log}
}

// IsAuthenticated only checks that an identity is present; the account
// may still be unprovisioned.
func (g *Guard) IsAuthenticated(userID string) bool {
	return userID != ""
}

func (g *Guard) HasRole(
	ctx context.Context,
	userID string,
	required roles.Role,
) (bool, error) {

	role, err := g.resolver.Resolve(ctx, userID)
	if err != nil && !errors.Is(err, ErrUnprovisioned) {
		return false, err
	}
	return roles.HasRole(role, required), nil
}

func (g *Guard) HasAnyRole(
	ctx context.Context,
	userID string,
	required ...roles.Role,
) (bool, error) {

	role, err := g.resolver.Resolve(ctx, userID)
	if err != nil && !errors.Is(err, ErrUnprovisioned) {
		return false, err
	}
	return roles.HasAnyRole(role, required...), nil
}

func (g *Guard) IsAdmin(ctx context.Context, userID string) (bool, error) {
	return g.HasAnyRole(ctx, userID, roles.AdminSys, roles.GeneralDoctor)
}

func (g *Guard) IsMedicalStaff(ctx context.Context, userID string) (bool, error) {
	return g.HasAnyRole(ctx, userID, roles.Doctor, roles.Nurse, roles.GeneralDoctor)
}

// ======================================================
// Enforcement
// ======================================================

func (g *Guard) RequireRole(
	ctx context.Context,
	userID string,
	required roles.Role,
	fallback string,
) *Denial {
	return g.RequireAnyRole(ctx, userID, []roles.Role{required}, fallback)
}

// RequireAnyRole authorizes userID against an explicit allow-list.
// Outcomes:
//   - anonymous            → denial, redirect to LoginRoute
//   - unprovisioned        → denial, redirect to fallback (logged so
//     operators can spot orphaned accounts)
//   - resolver failure     → denial, redirect to fallback (fail-closed)
//   - role not in the list → denial, redirect to fallback
//
// An empty allow-list denies every role.
func (g *Guard) RequireAnyRole(
	ctx context.Context,
	userID string,
	required []roles.Role,
	fallback string,
) *Denial {

	if fallback == "" {
		fallback = DefaultFallbackRoute
	}

	if !g.IsAuthenticated(userID) {
		return &Denial{Reason: ReasonUnauthenticated, Redirect: LoginRoute}
	}

	role, err := g.resolver.Resolve(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUnprovisioned) {
			g.log.Warnw("denying unprovisioned account",
				"user_id", userID,
			)
			return &Denial{Reason: ReasonUnprovisioned, Redirect: fallback}
		}

		g.log.Errorw("role resolution failed, denying access",
			"user_id", userID,
			"error", err,
		)
		return &Denial{Reason: ReasonDependencyFailure, Redirect: fallback}
	}

	if !roles.HasAnyRole(role, required...) {
		return &Denial{Reason: ReasonUnauthorized, Redirect: fallback}
	}

	return nil
}

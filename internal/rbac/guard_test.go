package rbac

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/clinicore/hospital-portal/internal/roles"
)

// fakeStore serves canned roles per user id and can simulate an outage.
type fakeStore struct {
	roles map[string]roles.Role
	fail  error
}

func (f *fakeStore) GetRole(_ context.Context, userID string) (roles.Role, error) {
	if f.fail != nil {
		return roles.None, f.fail
	}
	role, ok := f.roles[userID]
	if !ok {
		return roles.None, ErrUnprovisioned
	}
	return role, nil
}

func newTestGuard(store ProfileStore) *Guard {
	return NewGuard(NewResolver(store), zap.NewNop().Sugar())
}

func TestRequireAnyRole(t *testing.T) {
	ctx := context.Background()

	store := &fakeStore{roles: map[string]roles.Role{
		"nurse-1": roles.Nurse,
		"admin-1": roles.AdminSys,
	}}
	guard := newTestGuard(store)

	t.Run("anonymous goes to login", func(t *testing.T) {
		denial := guard.RequireAnyRole(ctx, "", []roles.Role{roles.Nurse}, "")
		if denial == nil {
			t.Fatal("expected a denial")
		}
		if denial.Reason != ReasonUnauthenticated {
			t.Errorf("reason = %q", denial.Reason)
		}
		if denial.Redirect != LoginRoute {
			t.Errorf("redirect = %q, want %q", denial.Redirect, LoginRoute)
		}
	})

	t.Run("listed role passes", func(t *testing.T) {
		denial := guard.RequireAnyRole(ctx, "nurse-1",
			[]roles.Role{roles.AdminSys, roles.GeneralDoctor, roles.Doctor, roles.Nurse}, "")
		if denial != nil {
			t.Fatalf("expected access, got denial %+v", denial)
		}
	})

	t.Run("unlisted role is denied to fallback", func(t *testing.T) {
		denial := guard.RequireAnyRole(ctx, "nurse-1", []roles.Role{roles.AdminSys}, "")
		if denial == nil {
			t.Fatal("expected a denial")
		}
		if denial.Reason != ReasonUnauthorized {
			t.Errorf("reason = %q", denial.Reason)
		}
		if denial.Redirect != DefaultFallbackRoute {
			t.Errorf("redirect = %q, want %q", denial.Redirect, DefaultFallbackRoute)
		}
	})

	t.Run("admin has no bypass on pages that omit it", func(t *testing.T) {
		denial := guard.RequireAnyRole(ctx, "admin-1", []roles.Role{roles.Nurse}, "")
		if denial == nil {
			t.Fatal("ADMIN_SYS must be denied when not listed")
		}
	})

	t.Run("empty allow-list denies every role", func(t *testing.T) {
		denial := guard.RequireAnyRole(ctx, "admin-1", nil, "")
		if denial == nil || denial.Reason != ReasonUnauthorized {
			t.Fatalf("expected unauthorized denial, got %+v", denial)
		}
	})

	t.Run("custom fallback is honored", func(t *testing.T) {
		denial := guard.RequireAnyRole(ctx, "nurse-1", []roles.Role{roles.AdminSys}, "/nurse")
		if denial == nil || denial.Redirect != "/nurse" {
			t.Fatalf("expected redirect to /nurse, got %+v", denial)
		}
	})

	t.Run("unprovisioned account is denied to fallback", func(t *testing.T) {
		denial := guard.RequireAnyRole(ctx, "ghost", []roles.Role{roles.Nurse}, "")
		if denial == nil {
			t.Fatal("expected a denial")
		}
		if denial.Reason != ReasonUnprovisioned {
			t.Errorf("reason = %q", denial.Reason)
		}
		if denial.Redirect != DefaultFallbackRoute {
			t.Errorf("redirect = %q", denial.Redirect)
		}
	})

	t.Run("store outage denies, never grants", func(t *testing.T) {
		broken := newTestGuard(&fakeStore{
			fail: &DependencyError{Op: "get role", Err: errors.New("connection refused")},
		})

		denial := broken.RequireAnyRole(ctx, "admin-1", []roles.Role{roles.AdminSys}, "")
		if denial == nil {
			t.Fatal("an outage must deny access")
		}
		if denial.Reason != ReasonDependencyFailure {
			t.Errorf("reason = %q", denial.Reason)
		}
	})
}

func TestGuardPredicates(t *testing.T) {
	ctx := context.Background()

	guard := newTestGuard(&fakeStore{roles: map[string]roles.Role{
		"doc-1": roles.Doctor,
	}})

	t.Run("HasRole", func(t *testing.T) {
		ok, err := guard.HasRole(ctx, "doc-1", roles.Doctor)
		if err != nil || !ok {
			t.Fatalf("ok=%v err=%v", ok, err)
		}
	})

	t.Run("unprovisioned reads as false without error", func(t *testing.T) {
		ok, err := guard.HasAnyRole(ctx, "ghost", roles.Doctor)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Error("unprovisioned user must not have any role")
		}
	})

	t.Run("outage surfaces the error", func(t *testing.T) {
		broken := newTestGuard(&fakeStore{
			fail: &DependencyError{Op: "get role", Err: errors.New("timeout")},
		})
		ok, err := broken.HasAnyRole(ctx, "doc-1", roles.Doctor)
		if err == nil {
			t.Fatal("expected an error")
		}
		if ok {
			t.Error("an outage must not read as true")
		}
	})

	t.Run("IsAdmin covers the two-role union", func(t *testing.T) {
		guard := newTestGuard(&fakeStore{roles: map[string]roles.Role{
			"gd": roles.GeneralDoctor,
			"n":  roles.Nurse,
		}})

		if ok, _ := guard.IsAdmin(ctx, "gd"); !ok {
			t.Error("GENERAL_DOCTOR is admin-equivalent")
		}
		if ok, _ := guard.IsAdmin(ctx, "n"); ok {
			t.Error("NURSE is not admin")
		}
	})
}

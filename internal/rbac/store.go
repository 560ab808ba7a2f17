package rbac

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/clinicore/hospital-portal/internal/models"
	"github.com/clinicore/hospital-portal/internal/roles"
)

// ProfileStore is the read side of the profiles table the guard depends
// on. Implementations return ErrUnprovisioned when the profile is missing
// or has no valid role, and a *DependencyError on connectivity/query
// failures.
type ProfileStore interface {
	GetRole(ctx context.Context, userID string) (roles.Role, error)
}

type GormProfileStore struct {
	db *gorm.DB
}

func NewGormProfileStore(db *gorm.DB) *GormProfileStore {
	return &GormProfileStore{db: db}
}

func (s *GormProfileStore) GetRole(
	ctx context.Context,
	userID string,
) (roles.Role, error) {

	var profile models.Profile
	err := s.db.WithContext(ctx).
		Select("role").
		Where("id = ?", userID).
		First(&profile).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return roles.None, ErrUnprovisioned
		}
		return roles.None, &DependencyError{Op: "get role", Err: err}
	}

	role, err := roles.Parse(profile.Role)
	if err != nil {
		// A blank or unrecognized role column counts as unprovisioned.
		return roles.None, ErrUnprovisioned
	}

	return role, nil
}

var _ ProfileStore = (*GormProfileStore)(nil)

package audit

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/clinicore/hospital-portal/internal/models"
)

// MaxPageSize caps how many entries one viewer query may return.
const MaxPageSize = 100

// Filter narrows a viewer query. Zero values mean "no filter".
type Filter struct {
	Action       string
	ResourceType string
	Search       string
	Limit        int
	Offset       int
}

// Store is the read/filter surface over the audit trail. It only ever
// selects; the trail is append-only.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Query returns entries newest-first. Entries with equal timestamps keep
// insertion order via the id tie-break.
func (s *Store) Query(ctx context.Context, f Filter) ([]models.AuditLog, error) {
	limit := f.Limit
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}

	q := s.db.WithContext(ctx).Model(&models.AuditLog{})

	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}

	if f.ResourceType != "" {
		q = q.Where("resource_type = ?", f.ResourceType)
	}

	if search := strings.ToLower(strings.TrimSpace(f.Search)); search != "" {
		like := "%" + search + "%"
		q = q.Where(
			"LOWER(action) LIKE ? OR LOWER(resource_type) LIKE ? OR LOWER(resource_id) LIKE ? OR LOWER(COALESCE(user_id, '')) LIKE ?",
			like, like, like, like,
		)
	}

	var entries []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(f.Offset).
		Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

func (s *Store) Count(ctx context.Context, f Filter) (int64, error) {
	q := s.db.WithContext(ctx).Model(&models.AuditLog{})

	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}

	if f.ResourceType != "" {
		q = q.Where("resource_type = ?", f.ResourceType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

package audit

import (
	"context"
	"encoding/json"
	"net"
	"strings"

	"gorm.io/gorm"

	"github.com/clinicore/hospital-portal/internal/models"
)

// ======================================================
// Actions
// ======================================================

type Action string

const (
	ActionCreate      Action = "CREATE"
	ActionUpdate      Action = "UPDATE"
	ActionDelete      Action = "DELETE"
	ActionLogin       Action = "LOGIN"
	ActionLogout      Action = "LOGOUT"
	ActionFailedLogin Action = "FAILED_LOGIN"
)

// Sentinel resource for LOGIN / LOGOUT / FAILED_LOGIN events.
const (
	AuthResourceType = "auth"
	AuthResourceID   = "session"
)

// ======================================================
// Events
// ======================================================

// Event describes one auditable action. UserID is nil for system
// actions. OldValues/NewValues are opaque snapshots stored verbatim:
// CREATE carries only new, DELETE only old, UPDATE both. Callers are
// responsible for not passing secrets.
type Event struct {
	UserID       *string
	Action       Action
	ResourceType string
	ResourceID   string
	OldValues    any
	NewValues    any
	IPAddress    string
	UserAgent    string
}

// ======================================================
// Logger
// ======================================================

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

// Record appends one audit entry. The write happens after the business
// mutation it documents has committed; a failed write is reported to the
// caller but must never roll back or abort that mutation.
func (l *Logger) Record(ctx context.Context, ev Event) error {
	entry := models.AuditLog{
		UserID:       ev.UserID,
		Action:       string(ev.Action),
		ResourceType: ev.ResourceType,
		ResourceID:   ev.ResourceID,
		OldValues:    marshalSnapshot(ev.OldValues),
		NewValues:    marshalSnapshot(ev.NewValues),
		IPAddress:    NormalizeIP(ev.IPAddress),
		UserAgent:    ev.UserAgent,
	}

	return l.db.WithContext(ctx).Create(&entry).Error
}

func marshalSnapshot(v any) string {
	if v == nil {
		return ""
	}

	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// NormalizeIP strips the IPv4-mapped-IPv6 prefix so ::ffff:192.0.2.10 is
// stored as 192.0.2.10. Display consistency only, not a security check.
func NormalizeIP(addr string) string {
	if addr == "" {
		return ""
	}

	if ip := net.ParseIP(strings.TrimSpace(addr)); ip != nil {
		if v4 := ip.To4(); v4 != nil {
			return v4.String()
		}
		return ip.String()
	}

	return addr
}

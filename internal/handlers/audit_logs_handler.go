package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clinicore/hospital-portal/internal/audit"
	"github.com/clinicore/hospital-portal/internal/httperr"
	"github.com/clinicore/hospital-portal/internal/httpresp"
)

// AuditLogsHandler is the viewer surface over the audit trail. Read
// only; there is no route that edits or deletes entries.
type AuditLogsHandler struct {
	store    *audit.Store
	archiver *audit.Archiver
}

func NewAuditLogsHandler(store *audit.Store, archiver *audit.Archiver) *AuditLogsHandler {
	return &AuditLogsHandler{store: store, archiver: archiver}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	filter := audit.Filter{
		Action:       c.Query("action"),
		ResourceType: c.Query("resource_type"),
		Search:       c.Query("search"),
	}

	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			httperr.BadRequest(c, "invalid_limit", "limit must be a non-negative integer.")
			return
		}
		filter.Limit = n
	}

	if offset := c.Query("offset"); offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			httperr.BadRequest(c, "invalid_offset", "offset must be a non-negative integer.")
			return
		}
		filter.Offset = n
	}

	entries, err := h.store.Query(c.Request.Context(), filter)
	if err != nil {
		httperr.Internal(c, "audit_query_failed", "Could not load the audit trail.")
		return
	}

	total, err := h.store.Count(c.Request.Context(), filter)
	if err != nil {
		httperr.Internal(c, "audit_query_failed", "Could not load the audit trail.")
		return
	}

	limit := filter.Limit
	if limit <= 0 || limit > audit.MaxPageSize {
		limit = audit.MaxPageSize
	}

	httpresp.Paged(c, entries, total, limit, filter.Offset)
}

// Export uploads the current filter window to the archive bucket.
func (h *AuditLogsHandler) Export(c *gin.Context) {
	if h.archiver == nil {
		httperr.Internal(c, "archive_not_configured", "No archive bucket is configured.")
		return
	}

	filter := audit.Filter{
		Action:       c.Query("action"),
		ResourceType: c.Query("resource_type"),
		Search:       c.Query("search"),
	}

	entries, err := h.store.Query(c.Request.Context(), filter)
	if err != nil {
		httperr.Internal(c, "audit_query_failed", "Could not load the audit trail.")
		return
	}

	key, err := h.archiver.Export(c.Request.Context(), entries)
	if err != nil {
		httperr.Internal(c, "audit_export_failed", "Could not upload the archive.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key":     key,
		"entries": len(entries),
	})
}

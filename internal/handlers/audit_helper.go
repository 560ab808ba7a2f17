package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/clinicore/hospital-portal/internal/audit"
	"github.com/clinicore/hospital-portal/internal/middleware"
)

// dispatchAudit queues one audit event with request attribution. Callers
// invoke it after their mutation committed; the event's fate never
// affects the response.
func dispatchAudit(
	d *audit.Dispatcher,
	c *gin.Context,
	userID *string,
	action audit.Action,
	resourceType string,
	resourceID string,
	oldValues any,
	newValues any,
) {
	d.Dispatch(audit.Event{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		OldValues:    oldValues,
		NewValues:    newValues,
		IPAddress:    c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
	})
}

// actor returns the current user id as an audit actor pointer.
func actor(c *gin.Context) *string {
	id := middleware.CurrentUserID(c)
	if id == "" {
		return nil
	}
	return &id
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clinicore/hospital-portal/internal/middleware"
	"github.com/clinicore/hospital-portal/internal/models"
	"github.com/clinicore/hospital-portal/internal/rbac"
	"github.com/clinicore/hospital-portal/internal/roles"
)

// DashboardHandler serves the role-specific landing pages and the
// post-login router that sends each user to their own dashboard.
type DashboardHandler struct {
	db       *gorm.DB
	resolver *rbac.Resolver
}

func NewDashboardHandler(db *gorm.DB, resolver *rbac.Resolver) *DashboardHandler {
	return &DashboardHandler{db: db, resolver: resolver}
}

// Route redirects the signed-in user to the dashboard for their role.
// Anyone whose role cannot be resolved lands on the neutral page.
func (h *DashboardHandler) Route(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		c.Redirect(http.StatusSeeOther, rbac.LoginRoute)
		return
	}

	role, err := h.resolver.Resolve(c.Request.Context(), userID)
	if err != nil {
		c.Redirect(http.StatusSeeOther, rbac.DefaultFallbackRoute)
		return
	}

	c.Redirect(http.StatusSeeOther, role.DashboardRoute())
}

// Protected is the neutral fallback page. Any authenticated user may
// see it, whatever their role turns out to be.
func (h *DashboardHandler) Protected(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page":    "protected",
		"message": "You are signed in. Use the navigation for your role.",
	})
}

// Admin is the administration dashboard with portal-wide counts.
func (h *DashboardHandler) Admin(c *gin.Context) {
	stats := gin.H{}

	counts := []struct {
		name  string
		model any
	}{
		{"staff", &models.Profile{}},
		{"centres", &models.Centre{}},
		{"patients", &models.Patient{}},
		{"appointments", &models.Appointment{}},
		{"open_emergencies", &models.Emergency{}},
	}

	for _, item := range counts {
		var n int64
		q := h.db.Model(item.model)
		if item.name == "open_emergencies" {
			q = q.Where("status = ?", "open")
		}
		if err := q.Count(&n).Error; err == nil {
			stats[item.name] = n
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"page":  "admin",
		"stats": stats,
	})
}

// Medical is the doctors' dashboard: today's agenda lives under the
// appointments API, so this page only identifies itself.
func (h *DashboardHandler) Medical(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page": "medical",
		"role": string(roles.Doctor),
	})
}

func (h *DashboardHandler) Nurse(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page": "nurse",
		"role": string(roles.Nurse),
	})
}

func (h *DashboardHandler) Secretary(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page": "secretary",
		"role": string(roles.Secretary),
	})
}

package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/clinicore/hospital-portal/internal/audit"
	"github.com/clinicore/hospital-portal/internal/middleware"
	"github.com/clinicore/hospital-portal/internal/models"
	"github.com/clinicore/hospital-portal/internal/rbac"
	"github.com/clinicore/hospital-portal/internal/roles"
	"github.com/clinicore/hospital-portal/internal/sessions"
)

const sessionMaxAge = 24 * time.Hour

type AuthHandler struct {
	db       *gorm.DB
	sessions *sessions.Manager
	resolver *rbac.Resolver
	audit    *audit.Dispatcher
}

func NewAuthHandler(
	db *gorm.DB,
	sessionManager *sessions.Manager,
	resolver *rbac.Resolver,
	auditDispatcher *audit.Dispatcher,
) *AuthHandler {
	return &AuthHandler{
		db:       db,
		sessions: sessionManager,
		resolver: resolver,
		audit:    auditDispatcher,
	}
}

// --------- Requests ---------

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var profile models.Profile
	if err := h.db.Where("email = ?", email).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.auditAuth(c, nil, audit.ActionFailedLogin)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(profile.PasswordHash),
		[]byte(req.Password),
	); err != nil {
		h.auditAuth(c, &profile.ID, audit.ActionFailedLogin)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	token, err := h.sessions.Issue(profile.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	c.SetCookie(
		sessions.CookieName,
		token,
		int(sessionMaxAge.Seconds()),
		"/",
		"",
		false,
		true,
	)

	h.auditAuth(c, &profile.ID, audit.ActionLogin)

	role := roles.Role(profile.Role)

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":    profile.ID,
			"email": profile.Email,
			"name":  profile.Name,
			"role":  profile.Role,
		},
		"token":    token,
		"redirect": role.DashboardRoute(),
	})
}

// LoginPage is the public sign-in page. Signed-in users are routed
// straight to their dashboard instead.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if userID := middleware.CurrentUserID(c); userID != "" {
		role, err := h.resolver.Resolve(c.Request.Context(), userID)
		if err == nil {
			c.Redirect(http.StatusSeeOther, role.DashboardRoute())
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"page": "login"})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not_signed_in"})
		return
	}

	if token := currentToken(c); token != "" {
		if err := h.sessions.Revoke(c.Request.Context(), token); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_sign_out"})
			return
		}
	}

	c.SetCookie(sessions.CookieName, "", -1, "/", "", false, true)

	h.auditAuth(c, &userID, audit.ActionLogout)

	c.JSON(http.StatusOK, gin.H{"redirect": rbac.LoginRoute})
}

// auditAuth records an auth event against the fixed session sentinel.
func (h *AuthHandler) auditAuth(c *gin.Context, userID *string, action audit.Action) {
	h.audit.Dispatch(audit.Event{
		UserID:       userID,
		Action:       action,
		ResourceType: audit.AuthResourceType,
		ResourceID:   audit.AuthResourceID,
		IPAddress:    c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
	})
}

func currentToken(c *gin.Context) string {
	if cookie, err := c.Cookie(sessions.CookieName); err == nil && cookie != "" {
		return cookie
	}

	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}

	return ""
}

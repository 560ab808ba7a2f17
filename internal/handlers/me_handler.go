package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clinicore/hospital-portal/internal/middleware"
	"github.com/clinicore/hospital-portal/internal/models"
	"github.com/clinicore/hospital-portal/internal/roles"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user_not_in_context"})
		return
	}

	var profile models.Profile
	if err := h.db.Preload("Centres").
		Where("id = ?", userID).
		First(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile_not_found"})
		return
	}

	role := roles.Role(profile.Role)

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":               profile.ID,
			"email":            profile.Email,
			"name":             profile.Name,
			"postname":         profile.Postname,
			"surname":          profile.Surname,
			"role":             profile.Role,
			"role_description": role.Description(),
			"specialty":        profile.Specialty,
			"phone_work":       profile.PhoneWork,
			"centres":          profile.Centres,
		},
	})
}

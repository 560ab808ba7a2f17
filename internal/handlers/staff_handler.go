package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/clinicore/hospital-portal/internal/audit"
	"github.com/clinicore/hospital-portal/internal/httperr"
	"github.com/clinicore/hospital-portal/internal/models"
	"github.com/clinicore/hospital-portal/internal/roles"
	"github.com/clinicore/hospital-portal/internal/validators"
)

// StaffHandler provisions and manages staff accounts. Routes using it
// sit behind the admin guard.
type StaffHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewStaffHandler(db *gorm.DB, auditDispatcher *audit.Dispatcher) *StaffHandler {
	return &StaffHandler{db: db, audit: auditDispatcher}
}

// --------- Requests ---------

type CreateStaffRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required"`

	Specialty string `json:"specialty"`
	PhoneWork string `json:"phone_work"`

	Name     string `json:"name" binding:"required"`
	Postname string `json:"postname"`
	Surname  string `json:"surname"`

	CentreIDs []string `json:"centre_ids"`
}

type UpdateStaffRequest struct {
	Role string `json:"role" binding:"required"`

	Specialty string `json:"specialty"`
	PhoneWork string `json:"phone_work"`

	Name     string `json:"name" binding:"required"`
	Postname string `json:"postname"`
	Surname  string `json:"surname"`

	CentreIDs []string `json:"centre_ids"`
}

// ======================================================
// LIST / GET
// ======================================================

func (h *StaffHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))
	roleFilter := c.Query("role")

	q := h.db.Model(&models.Profile{}).Preload("Centres")

	if roleFilter != "" {
		q = q.Where("role = ?", roleFilter)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR LOWER(surname) LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	var staff []models.Profile
	if err := q.Order("name ASC").Find(&staff).Error; err != nil {
		httperr.Internal(c, "staff_list_failed", "Could not list staff.")
		return
	}

	c.JSON(http.StatusOK, staff)
}

func (h *StaffHandler) Get(c *gin.Context) {
	var profile models.Profile
	if err := h.db.Preload("Centres").
		Where("id = ?", c.Param("id")).
		First(&profile).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "staff_not_found", "No such staff member.")
			return
		}
		httperr.Internal(c, "staff_get_failed", "Could not load staff member.")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// ======================================================
// CREATE (provision)
// ======================================================

func (h *StaffHandler) Create(c *gin.Context) {
	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	role, err := roles.Parse(req.Role)
	if err != nil {
		httperr.BadRequest(c, "invalid_role", "Unknown role.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !validators.IsEmailDomainValid(email) {
		httperr.BadRequest(c, "invalid_email_domain", "The email domain does not resolve.")
		return
	}

	var count int64
	h.db.Model(&models.Profile{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		httperr.Conflict(c, "email_already_exists", "A staff account with this email already exists.")
		return
	}

	centres, err := h.loadCentres(req.CentreIDs)
	if err != nil {
		httperr.BadRequest(c, "unknown_centre", "One of the centre ids does not exist.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not create the account.")
		return
	}

	profile := models.Profile{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hashed),
		Role:         string(role),
		Specialty:    req.Specialty,
		PhoneWork:    req.PhoneWork,
		Name:         req.Name,
		Postname:     req.Postname,
		Surname:      req.Surname,
		Centres:      centres,
	}

	if err := h.db.Create(&profile).Error; err != nil {
		httperr.Internal(c, "staff_create_failed", "Could not create the account.")
		return
	}

	dispatchAudit(h.audit, c, actor(c),
		audit.ActionCreate, "profile", profile.ID,
		nil, profileSnapshot(&profile),
	)

	c.JSON(http.StatusCreated, gin.H{
		"user": gin.H{
			"id":    profile.ID,
			"email": profile.Email,
			"role":  profile.Role,
		},
	})
}

// ======================================================
// UPDATE
// ======================================================

func (h *StaffHandler) Update(c *gin.Context) {
	var req UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	role, err := roles.Parse(req.Role)
	if err != nil {
		httperr.BadRequest(c, "invalid_role", "Unknown role.")
		return
	}

	var profile models.Profile
	if err := h.db.Preload("Centres").
		Where("id = ?", c.Param("id")).
		First(&profile).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "staff_not_found", "No such staff member.")
			return
		}
		httperr.Internal(c, "staff_get_failed", "Could not load staff member.")
		return
	}

	oldValues := profileSnapshot(&profile)

	centres, err := h.loadCentres(req.CentreIDs)
	if err != nil {
		httperr.BadRequest(c, "unknown_centre", "One of the centre ids does not exist.")
		return
	}

	updates := map[string]any{
		"role":       string(role),
		"specialty":  req.Specialty,
		"phone_work": req.PhoneWork,
		"name":       req.Name,
		"postname":   req.Postname,
		"surname":    req.Surname,
	}

	if err := h.db.Model(&profile).Updates(updates).Error; err != nil {
		httperr.Internal(c, "staff_update_failed", "Could not update the account.")
		return
	}

	if err := h.db.Model(&profile).Association("Centres").Replace(centres); err != nil {
		httperr.Internal(c, "staff_update_failed", "Could not update centre assignments.")
		return
	}

	profile.Centres = centres

	dispatchAudit(h.audit, c, actor(c),
		audit.ActionUpdate, "profile", profile.ID,
		oldValues, profileSnapshot(&profile),
	)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ======================================================
// DELETE
// ======================================================

func (h *StaffHandler) Delete(c *gin.Context) {
	var profile models.Profile
	if err := h.db.Preload("Centres").
		Where("id = ?", c.Param("id")).
		First(&profile).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "staff_not_found", "No such staff member.")
			return
		}
		httperr.Internal(c, "staff_get_failed", "Could not load staff member.")
		return
	}

	oldValues := profileSnapshot(&profile)

	if err := h.db.Model(&profile).Association("Centres").Clear(); err != nil {
		httperr.Internal(c, "staff_delete_failed", "Could not remove centre assignments.")
		return
	}

	if err := h.db.Delete(&profile).Error; err != nil {
		httperr.Internal(c, "staff_delete_failed", "Could not delete the account.")
		return
	}

	// The audit row keeps the orphaned user id; the viewer shows
	// "unknown user" once the profile is gone.
	dispatchAudit(h.audit, c, actor(c),
		audit.ActionDelete, "profile", profile.ID,
		oldValues, nil,
	)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// --------- Helpers ---------

func (h *StaffHandler) loadCentres(ids []string) ([]models.Centre, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var centres []models.Centre
	if err := h.db.Where("id IN ?", ids).Find(&centres).Error; err != nil {
		return nil, err
	}
	if len(centres) != len(ids) {
		return nil, gorm.ErrRecordNotFound
	}
	return centres, nil
}

// profileSnapshot deliberately omits the password hash.
func profileSnapshot(p *models.Profile) map[string]any {
	centreIDs := make([]string, 0, len(p.Centres))
	for _, centre := range p.Centres {
		centreIDs = append(centreIDs, centre.ID)
	}

	return map[string]any{
		"email":      p.Email,
		"role":       p.Role,
		"specialty":  p.Specialty,
		"phone_work": p.PhoneWork,
		"name":       p.Name,
		"postname":   p.Postname,
		"surname":    p.Surname,
		"centre_ids": centreIDs,
	}
}

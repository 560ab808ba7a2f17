package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinicore/hospital-portal/internal/audit"
	"github.com/clinicore/hospital-portal/internal/httperr"
	"github.com/clinicore/hospital-portal/internal/models"
	"github.com/clinicore/hospital-portal/internal/validators"
)

type PatientHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewPatientHandler(db *gorm.DB, auditDispatcher *audit.Dispatcher) *PatientHandler {
	return &PatientHandler{db: db, audit: auditDispatcher}
}

type PatientRequest struct {
	CentreID *string `json:"centre_id"`

	Name     string `json:"name" binding:"required"`
	Postname string `json:"postname"`
	Surname  string `json:"surname"`

	BirthDate string `json:"birth_date"`
	Gender    string `json:"gender"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Address   string `json:"address"`
}

func (h *PatientHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Model(&models.Patient{}).Preload("Centre")

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR LOWER(surname) LIKE ? OR phone LIKE ?",
			like, like, like,
		)
	}

	var patients []models.Patient
	if err := q.Order("created_at DESC").Find(&patients).Error; err != nil {
		httperr.Internal(c, "patient_list_failed", "Could not list patients.")
		return
	}

	c.JSON(http.StatusOK, patients)
}

func (h *PatientHandler) Get(c *gin.Context) {
	var patient models.Patient
	if err := h.db.Preload("Centre").
		Where("id = ?", c.Param("id")).
		First(&patient).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "patient_not_found", "No such patient.")
			return
		}
		httperr.Internal(c, "patient_get_failed", "Could not load patient.")
		return
	}

	c.JSON(http.StatusOK, patient)
}

func (h *PatientHandler) Create(c *gin.Context) {
	var req PatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_birth_date", "Birth date must be YYYY-MM-DD.")
		return
	}

	if req.Email != "" && !validators.IsEmailFormatValid(req.Email) {
		httperr.BadRequest(c, "invalid_email", "The email address is malformed.")
		return
	}

	patient := models.Patient{
		ID:        uuid.NewString(),
		CentreID:  req.CentreID,
		Name:      req.Name,
		Postname:  req.Postname,
		Surname:   req.Surname,
		BirthDate: birthDate,
		Gender:    req.Gender,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
	}

	if err := h.db.Create(&patient).Error; err != nil {
		httperr.Internal(c, "patient_create_failed", "Could not create patient.")
		return
	}

	dispatchAudit(h.audit, c, actor(c),
		audit.ActionCreate, "patient", patient.ID,
		nil, patientSnapshot(&patient),
	)

	c.JSON(http.StatusCreated, patient)
}

func (h *PatientHandler) Update(c *gin.Context) {
	var req PatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	var patient models.Patient
	if err := h.db.Where("id = ?", c.Param("id")).First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "patient_not_found", "No such patient.")
			return
		}
		httperr.Internal(c, "patient_get_failed", "Could not load patient.")
		return
	}

	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_birth_date", "Birth date must be YYYY-MM-DD.")
		return
	}

	if req.Email != "" && !validators.IsEmailFormatValid(req.Email) {
		httperr.BadRequest(c, "invalid_email", "The email address is malformed.")
		return
	}

	oldValues := patientSnapshot(&patient)

	updates := map[string]any{
		"centre_id":  req.CentreID,
		"name":       req.Name,
		"postname":   req.Postname,
		"surname":    req.Surname,
		"birth_date": birthDate,
		"gender":     req.Gender,
		"phone":      req.Phone,
		"email":      req.Email,
		"address":    req.Address,
	}

	if err := h.db.Model(&patient).Updates(updates).Error; err != nil {
		httperr.Internal(c, "patient_update_failed", "Could not update patient.")
		return
	}

	dispatchAudit(h.audit, c, actor(c),
		audit.ActionUpdate, "patient", patient.ID,
		oldValues, patientSnapshot(&patient),
	)

	c.JSON(http.StatusOK, patient)
}

func (h *PatientHandler) Delete(c *gin.Context) {
	var patient models.Patient
	if err := h.db.Where("id = ?", c.Param("id")).First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "patient_not_found", "No such patient.")
			return
		}
		httperr.Internal(c, "patient_get_failed", "Could not load patient.")
		return
	}

	oldValues := patientSnapshot(&patient)

	if err := h.db.Delete(&patient).Error; err != nil {
		httperr.Internal(c, "patient_delete_failed", "Could not delete patient.")
		return
	}

	dispatchAudit(h.audit, c, actor(c),
		audit.ActionDelete, "patient", patient.ID,
		oldValues, nil,
	)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func parseBirthDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}

	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func patientSnapshot(p *models.Patient) map[string]any {
	return map[string]any{
		"centre_id": p.CentreID,
		"name":      p.Name,
		"postname":  p.Postname,
		"surname":   p.Surname,
		"gender":    p.Gender,
		"phone":     p.Phone,
		"email":     p.Email,
		"address":   p.Address,
	}
}

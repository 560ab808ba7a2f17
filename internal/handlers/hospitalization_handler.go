package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinicore/hospital-portal/internal/audit"
	"github.com/clinicore/hospital-portal/internal/httperr"
	"github.com/clinicore/hospital-portal/internal/middleware"
	"github.com/clinicore/hospital-portal/internal/models"
)

type HospitalizationHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewHospitalizationHandler(db *gorm.DB, auditDispatcher *audit.Dispatcher) *HospitalizationHandler {
	return &HospitalizationHandler{db: db, audit: auditDispatcher}
}

type AdmitRequest struct {
	PatientID string  `json:"patient_id" binding:"required"`
	CentreID  *string `json:"centre_id"`

	Ward   string `json:"ward"`
	Room   string `json:"room"`
	Reason string `json:"reason"`
}

func (h *HospitalizationHandler) List(c *gin.Context) {
	q := h.db.Model(&models.Hospitalization{}).
		Preload("Patient").
		Preload("Doctor")

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if patientID := c.Query("patient_id"); patientID != "" {
		q = q.Where("patient_id = ?", patientID)
	}

	var stays []models.Hospitalization
	if err := q.Order("admitted_at DESC").Find(&stays).Error; err != nil {
		httperr.Internal(c, "hospitalization_list_failed", "Could not list hospitalizations.")
		return
	}

	c.JSON(http.StatusOK, stays)
}

func (h *HospitalizationHandler) Get(c *gin.Context) {
	var stay models.Hospitalization
	if err := h.db.Preload("Patient").Preload("Doctor").
		Where("id = ?", c.Param("id")).
		First(&stay).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "hospitalization_not_found", "No such hospitalization.")
			return
		}
		httperr.Internal(c, "hospitalization_get_failed", "Could not load hospitalization.")
		return
	}

	c.JSON(http.StatusOK, stay)
}

func (h *HospitalizationHandler) Admit(c *gin.Context) {
	var req AdmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	doctorID := middleware.CurrentUserID(c)
	if doctorID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user_not_in_context"})
		return
	}

	var patient models.Patient
	if err := h.db.Where("id = ?", req.PatientID).First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "patient_not_found", "No such patient.")
			return
		}
		httperr.Internal(c, "hospitalization_create_failed", "Could not load patient.")
		return
	}

	stay := models.Hospitalization{
		ID:         uuid.NewString(),
		PatientID:  patient.ID,
		DoctorID:   doctorID,
		CentreID:   req.CentreID,
		Ward:       req.Ward,
		Room:       req.Room,
		Reason:     req.Reason,
		Status:     "admitted",
		AdmittedAt: time.Now(),
	}

	if err := h.db.Create(&stay).Error; err != nil {
		httperr.Internal(c, "hospitalization_create_failed", "Could not admit patient.")
		return
	}

	dispatchAudit(h.audit, c, actor(c),
		audit.ActionCreate, "hospitalization", stay.ID,
		nil, hospitalizationSnapshot(&stay),
	)

	c.JSON(http.StatusCreated, stay)
}

// Discharge closes an active stay. Discharging twice is a business error.
func (h *HospitalizationHandler) Discharge(c *gin.Context) {
	var stay models.Hospitalization
	if err := h.db.Where("id = ?", c.Param("id")).First(&stay).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "hospitalization_not_found", "No such hospitalization.")
			return
		}
		httperr.Internal(c, "hospitalization_get_failed", "Could not load hospitalization.")
		return
	}

	if stay.Status != "admitted" {
		httperr.BadRequest(c, "already_discharged", "This stay is already closed.")
		return
	}

	oldValues := hospitalizationSnapshot(&stay)

	now := time.Now()
	updates := map[string]any{
		"status":        "discharged",
		"discharged_at": &now,
	}

	if err := h.db.Model(&stay).Updates(updates).Error; err != nil {
		httperr.Internal(c, "hospitalization_update_failed", "Could not discharge patient.")
		return
	}

	dispatchAudit(h.audit, c, actor(c),
		audit.ActionUpdate, "hospitalization", stay.ID,
		oldValues, hospitalizationSnapshot(&stay),
	)

	c.JSON(http.StatusOK, stay)
}

func hospitalizationSnapshot(stay *models.Hospitalization) map[string]any {
	return map[string]any{
		"patient_id": stay.PatientID,
		"doctor_id":  stay.DoctorID,
		"centre_id":  stay.CentreID,
		"ward":       stay.Ward,
		"room":       stay.Room,
		"reason":     stay.Reason,
		"status":     stay.Status,
	}
}

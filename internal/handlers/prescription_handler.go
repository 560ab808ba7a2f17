package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinicore/hospital-portal/internal/audit"
	"github.com/clinicore/hospital-portal/internal/httperr"
	"github.com/clinicore/hospital-portal/internal/middleware"
	"github.com/clinicore/hospital-portal/internal/models"
)

type PrescriptionHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewPrescriptionHandler(db *gorm.DB, auditDispatcher *audit.Dispatcher) *PrescriptionHandler {
	return &PrescriptionHandler{db: db, audit: auditDispatcher}
}

type PrescriptionRequest struct {
	PatientID      string  `json:"patient_id" binding:"required"`
	ConsultationID *string `json:"consultation_id"`

	Medication   string `json:"medication" binding:"required"`
	Dosage       string `json:"dosage"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions"`
}

func (h *PrescriptionHandler) List(c *gin.Context) {
	q := h.db.Model(&models.Prescription{}).
		Preload("Patient").
		Preload("Doctor")

	if patientID := c.Query("patient_id"); patientID != "" {
		q = q.Where("patient_id = ?", patientID)
	}

	var prescriptions []models.Prescription
	if err := q.Order("created_at DESC").Find(&prescriptions).Error; err != nil {
		httperr.Internal(c, "prescription_list_failed", "Could not list prescriptions.")
		return
	}

	c.JSON(http.StatusOK, prescriptions)
}

func (h *PrescriptionHandler) Get(c *gin.Context) {
	var prescription models.Prescription
	if err := h.db.Preload("Patient").Preload("Doctor").
		Where("id = ?", c.Param("id")).
		First(&prescription).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "prescription_not_found", "No such prescription.")
			return
		}
		httperr.Internal(c, "prescription_get_failed", "Could not load prescription.")
		return
	}

	c.JSON(http.StatusOK, prescription)
}

func (h *PrescriptionHandler) Create(c *gin.Context) {
	var req PrescriptionRequest
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
		httperr.Internal(c, "prescription_create_failed", "Could not load patient.")
		return
	}

	prescription := models.Prescription{
		ID:             uuid.NewString(),
		PatientID:      patient.ID,
		DoctorID:       doctorID,
		ConsultationID: req.ConsultationID,
		Medication:     req.Medication,
		Dosage:         req.Dosage,
		Duration:       req.Duration,
		Instructions:   req.Instructions,
	}

	if err := h.db.Create(&prescription).Error; err != nil {
		httperr.Internal(c, "prescription_create_failed", "Could not create prescription.")
		return
	}

	dispatchAudit(h.audit, c, actor(c),
		audit.ActionCreate, "prescription", prescription.ID,
		nil, prescriptionSnapshot(&prescription),
	)

	c.JSON(http.StatusCreated, prescription)
}

func (h *PrescriptionHandler) Delete(c *gin.Context) {
	var prescription models.Prescription
	if err := h.db.Where("id = ?", c.Param("id")).First(&prescription).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "prescription_not_found", "No such prescription.")
			return
		}
		httperr.Internal(c, "prescription_get_failed", "Could not load prescription.")
		return
	}

	oldValues := prescriptionSnapshot(&prescription)

	if err := h.db.Delete(&prescription).Error; err != nil {
		httperr.Internal(c, "prescription_delete_failed", "Could not delete prescription.")
		return
	}

	dispatchAudit(h.audit, c, actor(c),
		audit.ActionDelete, "prescription", prescription.ID,
		oldValues, nil,
	)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func prescriptionSnapshot(p *models.Prescription) map[string]any {
	return map[string]any{
		"patient_id":      p.PatientID,
		"doctor_id":       p.DoctorID,
		"consultation_id": p.ConsultationID,
		"medication":      p.Medication,
		"dosage":          p.Dosage,
		"duration":        p.Duration,
		"instructions":    p.Instructions,
	}
}

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

type ConsultationHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewConsultationHandler(db *gorm.DB, auditDispatcher *audit.Dispatcher) *ConsultationHandler {
	return &ConsultationHandler{db: db, audit: auditDispatcher}
}

type ConsultationRequest struct {
	PatientID     string  `json:"patient_id" binding:"required"`
	AppointmentID *string `json:"appointment_id"`

	Diagnosis string `json:"diagnosis"`
	Notes     string `json:"notes"`
}

func (h *ConsultationHandler) List(c *gin.Context) {
	q := h.db.Model(&models.Consultation{}).
		Preload("Patient").
		Preload("Doctor")

	if patientID := c.Query("patient_id"); patientID != "" {
		q = q.Where("patient_id = ?", patientID)
	}
	if doctorID := c.Query("doctor_id"); doctorID != "" {
		q = q.Where("doctor_id = ?", doctorID)
	}

	var consultations []models.Consultation
	if err := q.Order("consulted_at DESC").Find(&consultations).Error; err != nil {
		httperr.Internal(c, "consultation_list_failed", "Could not list consultations.")
		return
	}

	c.JSON(http.StatusOK, consultations)
}

func (h *ConsultationHandler) Get(c *gin.Context) {
	var consultation models.Consultation
	if err := h.db.Preload("Patient").Preload("Doctor").
		Where("id = ?", c.Param("id")).
		First(&consultation).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "consultation_not_found", "No such consultation.")
			return
		}
		httperr.Internal(c, "consultation_get_failed", "Could not load consultation.")
		return
	}

	c.JSON(http.StatusOK, consultation)
}

// Create records a consultation performed by the signed-in doctor.
func (h *ConsultationHandler) Create(c *gin.Context) {
	var req ConsultationRequest
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
		httperr.Internal(c, "consultation_create_failed", "Could not load patient.")
		return
	}

	consultation := models.Consultation{
		ID:            uuid.NewString(),
		PatientID:     patient.ID,
		DoctorID:      doctorID,
		AppointmentID: req.AppointmentID,
		Diagnosis:     req.Diagnosis,
		Notes:         req.Notes,
		ConsultedAt:   time.Now(),
	}

	if err := h.db.Create(&consultation).Error; err != nil {
		httperr.Internal(c, "consultation_create_failed", "Could not record consultation.")
		return
	}

	dispatchAudit(h.audit, c, actor(c),
		audit.ActionCreate, "consultation", consultation.ID,
		nil, consultationSnapshot(&consultation),
	)

	c.JSON(http.StatusCreated, consultation)
}

func (h *ConsultationHandler) Update(c *gin.Context) {
	var req ConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	var consultation models.Consultation
	if err := h.db.Where("id = ?", c.Param("id")).First(&consultation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "consultation_not_found", "No such consultation.")
			return
		}
		httperr.Internal(c, "consultation_get_failed", "Could not load consultation.")
		return
	}

	oldValues := consultationSnapshot(&consultation)

	updates := map[string]any{
		"diagnosis": req.Diagnosis,
		"notes":     req.Notes,
	}

	if err := h.db.Model(&consultation).Updates(updates).Error; err != nil {
		httperr.Internal(c, "consultation_update_failed", "Could not update consultation.")
		return
	}

	dispatchAudit(h.audit, c, actor(c),
		audit.ActionUpdate, "consultation", consultation.ID,
		oldValues, consultationSnapshot(&consultation),
	)

	c.JSON(http.StatusOK, consultation)
}

func consultationSnapshot(cons *models.Consultation) map[string]any {
	return map[string]any{
		"patient_id":     cons.PatientID,
		"doctor_id":      cons.DoctorID,
		"appointment_id": cons.AppointmentID,
		"diagnosis":      cons.Diagnosis,
		"notes":          cons.Notes,
	}
}

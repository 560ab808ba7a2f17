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
	"github.com/clinicore/hospital-portal/internal/models"
)

type EmergencyHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewEmergencyHandler(db *gorm.DB, auditDispatcher *audit.Dispatcher) *EmergencyHandler {
	return &EmergencyHandler{db: db, audit: auditDispatcher}
}

type EmergencyRequest struct {
	// Unidentified arrivals come in without a patient id.
	PatientID *string `json:"patient_id"`
	CentreID  *string `json:"centre_id"`

	Severity    string `json:"severity" binding:"required"`
	Description string `json:"description"`
}

func (h *EmergencyHandler) List(c *gin.Context) {
	q := h.db.Model(&models.Emergency{}).
		Preload("Patient").
		Preload("HandledBy")

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var emergencies []models.Emergency
	if err := q.Order("occurred_at DESC").Find(&emergencies).Error; err != nil {
		httperr.Internal(c, "emergency_list_failed", "Could not list emergencies.")
		return
	}

	c.JSON(http.StatusOK, emergencies)
}

func (h *EmergencyHandler) Get(c *gin.Context) {
	var emergency models.Emergency
	if err := h.db.Preload("Patient").Preload("HandledBy").
		Where("id = ?", c.Param("id")).
		First(&emergency).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "emergency_not_found", "No such emergency.")
			return
		}
		httperr.Internal(c, "emergency_get_failed", "Could not load emergency.")
		return
	}

	c.JSON(http.StatusOK, emergency)
}

func (h *EmergencyHandler) Create(c *gin.Context) {
	var req EmergencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	emergency := models.Emergency{
		ID:          uuid.NewString(),
		PatientID:   req.PatientID,
		CentreID:    req.CentreID,
		Severity:    req.Severity,
		Description: req.Description,
		Status:      "open",
		OccurredAt:  time.Now(),
	}

	if err := h.db.Create(&emergency).Error; err != nil {
		httperr.Internal(c, "emergency_create_failed", "Could not record emergency.")
		return
	}

	dispatchAudit(h.audit, c, actor(c),
		audit.ActionCreate, "emergency", emergency.ID,
		nil, emergencySnapshot(&emergency),
	)

	c.JSON(http.StatusCreated, emergency)
}

// Resolve closes an open emergency and records who handled it.
func (h *EmergencyHandler) Resolve(c *gin.Context) {
	var emergency models.Emergency
	if err := h.db.Where("id = ?", c.Param("id")).First(&emergency).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "emergency_not_found", "No such emergency.")
			return
		}
		httperr.Internal(c, "emergency_get_failed", "Could not load emergency.")
		return
	}

	if emergency.Status != "open" {
		httperr.BadRequest(c, "already_resolved", "This emergency is already closed.")
		return
	}

	oldValues := emergencySnapshot(&emergency)

	updates := map[string]any{
		"status":        "resolved",
		"handled_by_id": actor(c),
	}

	if err := h.db.Model(&emergency).Updates(updates).Error; err != nil {
		httperr.Internal(c, "emergency_update_failed", "Could not resolve emergency.")
		return
	}

	dispatchAudit(h.audit, c, actor(c),
		audit.ActionUpdate, "emergency", emergency.ID,
		oldValues, emergencySnapshot(&emergency),
	)

	c.JSON(http.StatusOK, emergency)
}

func emergencySnapshot(e *models.Emergency) map[string]any {
	return map[string]any{
		"patient_id":    e.PatientID,
		"centre_id":     e.CentreID,
		"handled_by_id": e.HandledByID,
		"severity":      e.Severity,
		"description":   e.Description,
		"status":        e.Status,
	}
}

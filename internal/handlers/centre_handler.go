package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinicore/hospital-portal/internal/audit"
	"github.com/clinicore/hospital-portal/internal/httperr"
	"github.com/clinicore/hospital-portal/internal/models"
)

type CentreHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewCentreHandler(db *gorm.DB, auditDispatcher *audit.Dispatcher) *CentreHandler {
	return &CentreHandler{db: db, audit: auditDispatcher}
}

type CentreRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

func (h *CentreHandler) List(c *gin.Context) {
	var centres []models.Centre
	if err := h.db.Order("name ASC").Find(&centres).Error; err != nil {
		httperr.Internal(c, "centre_list_failed", "Could not list centres.")
		return
	}

	c.JSON(http.StatusOK, centres)
}

func (h *CentreHandler) Get(c *gin.Context) {
	var centre models.Centre
	if err := h.db.Where("id = ?", c.Param("id")).First(&centre).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "centre_not_found", "No such centre.")
			return
		}
		httperr.Internal(c, "centre_get_failed", "Could not load centre.")
		return
	}

	c.JSON(http.StatusOK, centre)
}

func (h *CentreHandler) Create(c *gin.Context) {
	var req CentreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	centre := models.Centre{
		ID:      uuid.NewString(),
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
	}

	if err := h.db.Create(&centre).Error; err != nil {
		httperr.Internal(c, "centre_create_failed", "Could not create centre.")
		return
	}

	dispatchAudit(h.audit, c, actor(c),
		audit.ActionCreate, "centre", centre.ID,
		nil, centreSnapshot(&centre),
	)

	c.JSON(http.StatusCreated, centre)
}

func (h *CentreHandler) Update(c *gin.Context) {
	var req CentreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	var centre models.Centre
	if err := h.db.Where("id = ?", c.Param("id")).First(&centre).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "centre_not_found", "No such centre.")
			return
		}
		httperr.Internal(c, "centre_get_failed", "Could not load centre.")
		return
	}

	oldValues := centreSnapshot(&centre)

	updates := map[string]any{
		"name":    req.Name,
		"address": req.Address,
		"phone":   req.Phone,
		"email":   req.Email,
	}

	if err := h.db.Model(&centre).Updates(updates).Error; err != nil {
		httperr.Internal(c, "centre_update_failed", "Could not update centre.")
		return
	}

	dispatchAudit(h.audit, c, actor(c),
		audit.ActionUpdate, "centre", centre.ID,
		oldValues, centreSnapshot(&centre),
	)

	c.JSON(http.StatusOK, centre)
}

func (h *CentreHandler) Delete(c *gin.Context) {
	var centre models.Centre
	if err := h.db.Where("id = ?", c.Param("id")).First(&centre).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "centre_not_found", "No such centre.")
			return
		}
		httperr.Internal(c, "centre_get_failed", "Could not load centre.")
		return
	}

	oldValues := centreSnapshot(&centre)

	if err := h.db.Delete(&centre).Error; err != nil {
		httperr.Internal(c, "centre_delete_failed", "Could not delete centre.")
		return
	}

	dispatchAudit(h.audit, c, actor(c),
		audit.ActionDelete, "centre", centre.ID,
		oldValues, nil,
	)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func centreSnapshot(centre *models.Centre) map[string]any {
	return map[string]any{
		"name":    centre.Name,
		"address": centre.Address,
		"phone":   centre.Phone,
		"email":   centre.Email,
	}
}

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/clinicore/hospital-portal/internal/audit"
	"github.com/clinicore/hospital-portal/internal/httperr"
	"github.com/clinicore/hospital-portal/internal/httpresp"
	"github.com/clinicore/hospital-portal/internal/middleware"
	usecase "github.com/clinicore/hospital-portal/internal/usecase/appointment"
)

type AppointmentHandler struct {
	schedule      *usecase.ScheduleAppointment
	cancel        *usecase.CancelAppointment
	complete      *usecase.CompleteAppointment
	listByDate    *usecase.ListAppointmentsByDate
	listByPatient *usecase.ListAppointmentsByPatient
}

func NewAppointmentHandler(
	schedule *usecase.ScheduleAppointment,
	cancel *usecase.CancelAppointment,
	complete *usecase.CompleteAppointment,
	listByDate *usecase.ListAppointmentsByDate,
	listByPatient *usecase.ListAppointmentsByPatient,
) *AppointmentHandler {
	return &AppointmentHandler{
		schedule:      schedule,
		cancel:        cancel,
		complete:      complete,
		listByDate:    listByDate,
		listByPatient: listByPatient,
	}
}

type ScheduleAppointmentRequest struct {
	PatientID string  `json:"patient_id" binding:"required"`
	DoctorID  string  `json:"doctor_id" binding:"required"`
	CentreID  *string `json:"centre_id"`

	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
	DurationMin int    `json:"duration_min"`

	Reason string `json:"reason"`
	Notes  string `json:"notes"`
}

func (h *AppointmentHandler) Schedule(c *gin.Context) {
	var req ScheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	ap, err := h.schedule.Execute(
		c.Request.Context(),
		middleware.CurrentUserID(c),
		requestMeta(c),
		usecase.ScheduleAppointmentInput{
			PatientID:   req.PatientID,
			DoctorID:    req.DoctorID,
			CentreID:    req.CentreID,
			Date:        req.Date,
			Time:        req.Time,
			DurationMin: req.DurationMin,
			Reason:      req.Reason,
			Notes:       req.Notes,
		},
	)
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	httpresp.Created(c, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	ap, err := h.cancel.Execute(
		c.Request.Context(),
		middleware.CurrentUserID(c),
		requestMeta(c),
		c.Param("id"),
	)
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	ap, err := h.complete.Execute(
		c.Request.Context(),
		middleware.CurrentUserID(c),
		requestMeta(c),
		c.Param("id"),
	)
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ListByDate returns one doctor's agenda for a day. Without an explicit
// doctor_id it shows the signed-in user's own agenda.
func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	doctorID := c.Query("doctor_id")
	if doctorID == "" {
		doctorID = middleware.CurrentUserID(c)
	}

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "Query parameter date=YYYY-MM-DD is required.")
		return
	}

	items, err := h.listByDate.Execute(c.Request.Context(), doctorID, date)
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	httpresp.List(c, items)
}

func (h *AppointmentHandler) ListByPatient(c *gin.Context) {
	items, err := h.listByPatient.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	httpresp.List(c, items)
}

func requestMeta(c *gin.Context) audit.Meta {
	return audit.Meta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

func writeAppointmentError(c *gin.Context, err error) {
	var be httperr.BusinessError
	if errors.As(err, &be) {
		if strings.HasSuffix(be.Code, "_not_found") {
			httperr.NotFound(c, be.Code, "The referenced record does not exist.")
			return
		}
		if be.Code == "time_conflict" {
			httperr.Conflict(c, be.Code, "The doctor already has an appointment in this slot.")
			return
		}
		httperr.BadRequest(c, be.Code, "The request violates a scheduling rule.")
		return
	}

	httperr.Internal(c, "appointment_operation_failed", "Something went wrong.")
}

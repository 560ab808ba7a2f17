package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/hospital-portal/internal/audit"
	domain "github.com/clinicore/hospital-portal/internal/domain/appointment"
	"github.com/clinicore/hospital-portal/internal/httperr"
	"github.com/clinicore/hospital-portal/internal/models"
	"github.com/clinicore/hospital-portal/internal/roles"
	"github.com/clinicore/hospital-portal/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type ScheduleAppointmentInput struct {
	PatientID string
	DoctorID  string
	CentreID  *string

	Date        string
	Time        string
	DurationMin int

	Reason string
	Notes  string
}

// ======================================================
// USE CASE
// ======================================================

type ScheduleAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewScheduleAppointment(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
) *ScheduleAppointment {
	return &ScheduleAppointment{
		repo:  repo,
		audit: auditDispatcher,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *ScheduleAppointment) Execute(
	ctx context.Context,
	actorID string,
	meta audit.Meta,
	in ScheduleAppointmentInput,
) (*models.Appointment, error) {

	patient, err := uc.repo.GetPatient(ctx, in.PatientID)
	if err != nil {
		return nil, httperr.ErrBusiness("patient_not_found")
	}

	doctor, err := uc.repo.GetDoctor(ctx, in.DoctorID)
	if err != nil {
		return nil, httperr.ErrBusiness("doctor_not_found")
	}

	if !roles.HasAnyRole(roles.Role(doctor.Role), roles.Doctor, roles.GeneralDoctor) {
		return nil, httperr.ErrBusiness("not_a_doctor")
	}

	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		timezone.Location(timezone.DefaultTimezone),
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	if start.Before(timezone.Now()) {
		return nil, httperr.ErrBusiness("in_the_past")
	}

	duration := in.DurationMin
	if duration <= 0 {
		duration = 30
	}
	end := start.Add(time.Duration(duration) * time.Minute)

	if err := uc.repo.AssertNoTimeConflict(
		ctx,
		in.DoctorID,
		start,
		end,
	); err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		ID:        uuid.NewString(),
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		CentreID:  in.CentreID,
		StartTime: start,
		EndTime:   end,
		Status:    string(domain.InitialStatus()),
		Reason:    in.Reason,
		Notes:     in.Notes,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	// Audit only after the row is committed.
	uc.audit.Dispatch(audit.Event{
		UserID:       &actorID,
		Action:       audit.ActionCreate,
		ResourceType: "appointment",
		ResourceID:   ap.ID,
		NewValues:    appointmentSnapshot(ap),
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
	})

	return ap, nil
}

func appointmentSnapshot(ap *models.Appointment) map[string]any {
	return map[string]any{
		"patient_id": ap.PatientID,
		"doctor_id":  ap.DoctorID,
		"start_time": ap.StartTime,
		"end_time":   ap.EndTime,
		"status":     ap.Status,
		"reason":     ap.Reason,
	}
}

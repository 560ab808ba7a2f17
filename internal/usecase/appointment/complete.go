package appointment

import (
	"context"

	"github.com/clinicore/hospital-portal/internal/audit"
	domain "github.com/clinicore/hospital-portal/internal/domain/appointment"
	"github.com/clinicore/hospital-portal/internal/httperr"
	"github.com/clinicore/hospital-portal/internal/models"
	"github.com/clinicore/hospital-portal/internal/timezone"
)

type CompleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCompleteAppointment(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:  repo,
		audit: auditDispatcher,
	}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	actorID string,
	meta audit.Meta,
	appointmentID string,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	oldValues := appointmentSnapshot(ap)

	now := timezone.Now()
	if err := domain.Complete(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:       &actorID,
		Action:       audit.ActionUpdate,
		ResourceType: "appointment",
		ResourceID:   ap.ID,
		OldValues:    oldValues,
		NewValues:    appointmentSnapshot(ap),
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
	})

	return ap, nil
}

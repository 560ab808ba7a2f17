package appointment

import (
	"context"

	domain "github.com/clinicore/hospital-portal/internal/domain/appointment"
	"github.com/clinicore/hospital-portal/internal/models"
)

type ListAppointmentsByPatient struct {
	repo domain.Repository
}

func NewListAppointmentsByPatient(repo domain.Repository) *ListAppointmentsByPatient {
	return &ListAppointmentsByPatient{repo: repo}
}

func (uc *ListAppointmentsByPatient) Execute(
	ctx context.Context,
	patientID string,
) ([]models.Appointment, error) {
	return uc.repo.ListAppointmentsForPatient(ctx, patientID)
}

package appointment

import (
	"context"
	"time"

	"github.com/clinicore/hospital-portal/internal/models"
)

type Repository interface {
	// -------- Participants --------
	GetPatient(
		ctx context.Context,
		id string,
	) (*models.Patient, error)

	GetDoctor(
		ctx context.Context,
		id string,
	) (*models.Profile, error)

	// -------- Appointment (create / conflict) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	AssertNoTimeConflict(
		ctx context.Context,
		doctorID string,
		start time.Time,
		end time.Time,
	) error

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		id string,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Listings --------
	ListAppointmentsForDay(
		ctx context.Context,
		doctorID string,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListAppointmentsForPatient(
		ctx context.Context,
		patientID string,
	) ([]models.Appointment, error)
}

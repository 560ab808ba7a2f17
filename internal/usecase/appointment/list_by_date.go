package appointment

import (
	"context"
	"time"

	domain "github.com/clinicore/hospital-portal/internal/domain/appointment"
	"github.com/clinicore/hospital-portal/internal/dto"
	"github.com/clinicore/hospital-portal/internal/httperr"
	"github.com/clinicore/hospital-portal/internal/timezone"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(repo domain.Repository) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{repo: repo}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	doctorID string,
	date string,
) ([]dto.AppointmentListDTO, error) {

	loc := timezone.Location(timezone.DefaultTimezone)

	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	start := day
	end := day.Add(24 * time.Hour)

	apps, err := uc.repo.ListAppointmentsForDay(ctx, doctorID, start, end)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(apps))
	for _, ap := range apps {
		out = append(out, dto.AppointmentListDTO{
			ID:          ap.ID,
			StartTime:   ap.StartTime,
			EndTime:     ap.EndTime,
			Status:      ap.Status,
			PatientName: ap.Patient.Name + " " + ap.Patient.Surname,
			Reason:      ap.Reason,
		})
	}

	return out, nil
}

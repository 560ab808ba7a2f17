package appointment

import (
	"context"
	"testing"

	"github.com/clinicore/hospital-portal/internal/audit"
	"github.com/clinicore/hospital-portal/internal/infra/repository"
	"github.com/clinicore/hospital-portal/internal/models"
	"github.com/clinicore/hospital-portal/internal/roles"
	"github.com/clinicore/hospital-portal/internal/testutil"
	"github.com/clinicore/hospital-portal/internal/timezone"
)

func TestCancelAndComplete(t *testing.T) {
	ctx := context.Background()

	t.Run("cancels a scheduled appointment and audits old and new state", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

		dispatcher := audit.NewDispatcher(audit.New(db))
		uc := NewCancelAppointment(repository.NewAppointmentGormRepository(db), dispatcher)

		patient := testutil.CreateTestPatient(t, db)
		doctor := testutil.CreateTestProfile(t, db, roles.Doctor)
		ap := testutil.CreateTestAppointment(t, db, patient.ID, doctor.ID,
			timezone.Now().AddDate(0, 0, 1))

		got, err := uc.Execute(ctx, doctor.ID, audit.Meta{}, ap.ID)
		testutil.AssertNoError(t, err)

		if got.Status != "cancelled" {
			t.Errorf("status = %q", got.Status)
		}
		if got.CancelledAt == nil {
			t.Error("cancelled_at should be set")
		}

		dispatcher.Close()

		var entry models.AuditLog
		testutil.AssertNoError(t,
			db.Where("resource_id = ?", ap.ID).First(&entry).Error)

		if entry.Action != "UPDATE" {
			t.Errorf("action = %q", entry.Action)
		}
		if entry.OldValues == "" || entry.NewValues == "" {
			t.Error("update events carry both snapshots")
		}
	})

	t.Run("cannot cancel twice", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

		dispatcher := audit.NewDispatcher(audit.New(db))
		uc := NewCancelAppointment(repository.NewAppointmentGormRepository(db), dispatcher)

		patient := testutil.CreateTestPatient(t, db)
		doctor := testutil.CreateTestProfile(t, db, roles.Doctor)
		ap := testutil.CreateTestAppointment(t, db, patient.ID, doctor.ID,
			timezone.Now().AddDate(0, 0, 1))

		_, err := uc.Execute(ctx, doctor.ID, audit.Meta{}, ap.ID)
		testutil.AssertNoError(t, err)

		_, err = uc.Execute(ctx, doctor.ID, audit.Meta{}, ap.ID)
		testutil.AssertBusinessError(t, err, "invalid_state")
	})

	t.Run("cannot complete a cancelled appointment", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

		dispatcher := audit.NewDispatcher(audit.New(db))
		repo := repository.NewAppointmentGormRepository(db)

		patient := testutil.CreateTestPatient(t, db)
		doctor := testutil.CreateTestProfile(t, db, roles.Doctor)
		ap := testutil.CreateTestAppointment(t, db, patient.ID, doctor.ID,
			timezone.Now().AddDate(0, 0, 1))

		_, err := NewCancelAppointment(repo, dispatcher).
			Execute(ctx, doctor.ID, audit.Meta{}, ap.ID)
		testutil.AssertNoError(t, err)

		_, err = NewCompleteAppointment(repo, dispatcher).
			Execute(ctx, doctor.ID, audit.Meta{}, ap.ID)
		testutil.AssertBusinessError(t, err, "invalid_state")
	})

	t.Run("completes a scheduled appointment", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

		dispatcher := audit.NewDispatcher(audit.New(db))
		uc := NewCompleteAppointment(repository.NewAppointmentGormRepository(db), dispatcher)

		patient := testutil.CreateTestPatient(t, db)
		doctor := testutil.CreateTestProfile(t, db, roles.Doctor)
		ap := testutil.CreateTestAppointment(t, db, patient.ID, doctor.ID,
			timezone.Now().AddDate(0, 0, 1))

		got, err := uc.Execute(ctx, doctor.ID, audit.Meta{}, ap.ID)
		testutil.AssertNoError(t, err)

		if got.Status != "completed" {
			t.Errorf("status = %q", got.Status)
		}
		if got.CompletedAt == nil {
			t.Error("completed_at should be set")
		}
	})

	t.Run("unknown appointment", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

		dispatcher := audit.NewDispatcher(audit.New(db))
		uc := NewCancelAppointment(repository.NewAppointmentGormRepository(db), dispatcher)

		_, err := uc.Execute(ctx, "actor", audit.Meta{}, "missing")
		testutil.AssertBusinessError(t, err, "appointment_not_found")
	})
}

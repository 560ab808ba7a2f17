package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/clinicore/hospital-portal/internal/models"
	"github.com/clinicore/hospital-portal/internal/roles"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestProfile creates a staff account with the given role, a
// hashed password ("password123") and a unique email.
func CreateTestProfile(t *testing.T, db *gorm.DB, role roles.Role) *models.Profile {
	t.Helper()
	email := fmt.Sprintf("staff%d@test.com", nextID())
	return CreateTestProfileWithEmail(t, db, email, role)
}

// CreateTestProfileWithEmail creates a staff account with the given email.
func CreateTestProfileWithEmail(t *testing.T, db *gorm.DB, email string, role roles.Role) *models.Profile {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	profile := &models.Profile{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         string(role),
		Name:         fmt.Sprintf("Staff %d", nextID()),
		Surname:      "Test",
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create test profile: %v", err)
	}
	return profile
}

// CreateTestCentre creates a centre with a unique name.
func CreateTestCentre(t *testing.T, db *gorm.DB) *models.Centre {
	t.Helper()

	centre := &models.Centre{
		ID:   uuid.NewString(),
		Name: fmt.Sprintf("Centre %d", nextID()),
	}
	if err := db.Create(centre).Error; err != nil {
		t.Fatalf("failed to create test centre: %v", err)
	}
	return centre
}

// CreateTestPatient creates a patient with a unique name.
func CreateTestPatient(t *testing.T, db *gorm.DB) *models.Patient {
	t.Helper()

	patient := &models.Patient{
		ID:      uuid.NewString(),
		Name:    fmt.Sprintf("Patient %d", nextID()),
		Surname: "Test",
	}
	if err := db.Create(patient).Error; err != nil {
		t.Fatalf("failed to create test patient: %v", err)
	}
	return patient
}

// CreateTestAppointment creates a scheduled appointment starting at the
// given time with a 30 minute slot.
func CreateTestAppointment(t *testing.T, db *gorm.DB, patientID, doctorID string, start time.Time) *models.Appointment {
	t.Helper()

	ap := &models.Appointment{
		ID:        uuid.NewString(),
		PatientID: patientID,
		DoctorID:  doctorID,
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
		Status:    "scheduled",
	}
	if err := db.Create(ap).Error; err != nil {
		t.Fatalf("failed to create test appointment: %v", err)
	}
	return ap
}

package models

import "time"

type Hospitalization struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	PatientID string  `gorm:"size:36;not null" json:"patient_id"`
	Patient   Patient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"patient"`

	DoctorID string  `gorm:"size:36;not null" json:"doctor_id"`
	Doctor   Profile `gorm:"foreignKey:DoctorID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"doctor"`

	CentreID *string `gorm:"size:36" json:"centre_id"`
	Centre   *Centre `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"centre,omitempty"`

	Ward string `gorm:"size:50" json:"ward"`
	Room string `gorm:"size:20" json:"room"`

	Reason string `gorm:"size:255" json:"reason"`
	Status string `gorm:"size:20;default:'admitted'" json:"status"`

	AdmittedAt   time.Time  `json:"admitted_at"`
	DischargedAt *time.Time `json:"discharged_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

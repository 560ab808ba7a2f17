package models

import "time"

type Consultation struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	PatientID string  `gorm:"size:36;not null" json:"patient_id"`
	Patient   Patient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"patient"`

	DoctorID string  `gorm:"size:36;not null" json:"doctor_id"`
	Doctor   Profile `gorm:"foreignKey:DoctorID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"doctor"`

	AppointmentID *string `gorm:"size:36" json:"appointment_id"`

	Diagnosis string `gorm:"size:255" json:"diagnosis"`
	Notes     string `gorm:"type:text" json:"notes"`

	ConsultedAt time.Time `json:"consulted_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package models

import "time"

type Prescription struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	PatientID string  `gorm:"size:36;not null" json:"patient_id"`
	Patient   Patient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"patient"`

	DoctorID string  `gorm:"size:36;not null" json:"doctor_id"`
	Doctor   Profile `gorm:"foreignKey:DoctorID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"doctor"`

	ConsultationID *string `gorm:"size:36" json:"consultation_id"`

	Medication   string `gorm:"size:100;not null" json:"medication"`
	Dosage       string `gorm:"size:100" json:"dosage"`
	Duration     string `gorm:"size:50" json:"duration"`
	Instructions string `gorm:"size:255" json:"instructions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

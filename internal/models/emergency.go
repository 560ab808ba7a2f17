package models

import "time"

type Emergency struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	// PatientID may be unset while the person is still being identified.
	PatientID *string  `gorm:"size:36" json:"patient_id"`
	Patient   *Patient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"patient,omitempty"`

	CentreID *string `gorm:"size:36" json:"centre_id"`
	Centre   *Centre `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"centre,omitempty"`

	HandledByID *string  `gorm:"size:36" json:"handled_by_id"`
	HandledBy   *Profile `gorm:"foreignKey:HandledByID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"handled_by,omitempty"`

	Severity    string `gorm:"size:20" json:"severity"`
	Description string `gorm:"size:255" json:"description"`
	Status      string `gorm:"size:20;default:'open'" json:"status"`

	OccurredAt time.Time `json:"occurred_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

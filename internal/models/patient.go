package models

import "time"

type Patient struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	CentreID *string `gorm:"size:36" json:"centre_id"`
	Centre   *Centre `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"centre,omitempty"`

	Name     string `gorm:"size:100;not null" json:"name"`
	Postname string `gorm:"size:100" json:"postname"`
	Surname  string `gorm:"size:100" json:"surname"`

	BirthDate *time.Time `json:"birth_date"`
	Gender    string     `gorm:"size:10" json:"gender"`
	Phone     string     `gorm:"size:20" json:"phone"`
	Email     string     `gorm:"size:100" json:"email"`
	Address   string     `gorm:"size:255" json:"address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

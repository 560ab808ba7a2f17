package models

import "time"

// Profile links an authenticated identity to its role and personal
// attributes. Role may be empty: the account exists but was never
// provisioned, and such users only reach the neutral landing page.
type Profile struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	Role      string `gorm:"size:20" json:"role"`
	Specialty string `gorm:"size:100" json:"specialty"`
	PhoneWork string `gorm:"size:20" json:"phone_work"`

	Name     string `gorm:"size:100;not null" json:"name"`
	Postname string `gorm:"size:100" json:"postname"`
	Surname  string `gorm:"size:100" json:"surname"`

	Centres []Centre `gorm:"many2many:profile_centres;" json:"centres"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

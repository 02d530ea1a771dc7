package models

import "time"

const MinUserAge = 15

type User struct {
	ID              uint64    `gorm:"primarykey" json:"id"`
	Username        string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email           string    `gorm:"type:varchar(255);not null" json:"email"`
	PasswordHash    string    `gorm:"type:varchar(255);not null" json:"-"`
	Age             *int      `json:"age"`
	CanBeContacted  bool      `gorm:"not null;default:false" json:"can_be_contacted"`
	CanDataBeShared bool      `gorm:"not null;default:false" json:"can_data_be_shared"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relations
	Projects      []Project     `gorm:"foreignKey:AuthorID" json:"-"`
	Contributions []Contributor `gorm:"foreignKey:UserID" json:"-"`
}

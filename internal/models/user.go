package models

import (
	"time"
)

// User is a registered account. Email is stored exactly as it was submitted
// at registration.
type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password;type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

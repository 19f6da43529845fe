package models

import (
	"time"
)

type Task struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Title       string    `gorm:"type:varchar(200);not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	AuthorID    uint64    `gorm:"not null" json:"authorId"`
	AssigneeID  uint64    `gorm:"not null" json:"assigneeId"`

	// Relations
	Author   User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Assignee User `gorm:"foreignKey:AssigneeID;constraint:OnDelete:CASCADE" json:"assignee,omitempty"`
}

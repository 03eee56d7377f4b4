package models

import (
	"time"

	"gorm.io/gorm"
)

// TaskUpdate is an append-only work-log entry. Rows are only removed together
// with their task.
type TaskUpdate struct {
	ID          uint64      `gorm:"primarykey" json:"id"`
	TaskID      uint64      `gorm:"not null;index" json:"task_id"`
	UserID      uint64      `gorm:"not null;index" json:"user_id"`
	Comment     string      `gorm:"type:text;not null" json:"comment"`
	Status      TaskStatus  `gorm:"type:varchar(20);not null" json:"status"`
	HoursWorked float64     `gorm:"type:decimal(5,2);not null" json:"hours_worked"`
	Attachments Attachments `gorm:"type:text" json:"attachments"`
	CreatedAt   time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (u *TaskUpdate) BeforeCreate(tx *gorm.DB) error {
	if u.Attachments == nil {
		u.Attachments = Attachments{}
	}
	return nil
}

func (u *TaskUpdate) AfterFind(tx *gorm.DB) error {
	if u.Attachments == nil {
		u.Attachments = Attachments{}
	}
	return nil
}

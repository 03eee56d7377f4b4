package models

import "time"

type Role string

const (
	RoleAdministrator Role = "Administrator"
	RoleEmployee      Role = "Employee"
)

func (r Role) Valid() bool {
	return r == RoleAdministrator || r == RoleEmployee
}

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	FullName     string    `gorm:"type:varchar(50);not null" json:"full_name"`
	Phone        string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Role         Role      `gorm:"type:varchar(20);not null;index" json:"role"`
	IsActive     bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	CreatedTasks []Task           `gorm:"foreignKey:CreatedBy" json:"-"`
	Assignments  []TaskAssignment `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) IsAdministrator() bool {
	return u.Role == RoleAdministrator
}

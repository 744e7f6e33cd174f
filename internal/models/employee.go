package models

import "time"

// Employee represents an account that can log in and hold memberships
// at restaurants. The internal ID never crosses the trust boundary;
// PublicID is the only identifier clients ever see.
type Employee struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	PublicID  string    `json:"id" gorm:"uniqueIndex;type:varchar(16);not null"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(100);not null" validate:"required,min=3,max=100"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null" validate:"required,email"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null" validate:"required,min=8,max=72"` // bcrypt digest, never serialized
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (Employee) TableName() string { return "employees" }

package models

import "time"

// Restaurant is the tenant. Every item, commanda and order is scoped to
// exactly one restaurant and never reassigned.
type Restaurant struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	PublicID  string    `json:"id" gorm:"uniqueIndex;type:varchar(16);not null"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null" validate:"required,min=2,max=255"`
	Address   string    `json:"address" gorm:"type:varchar(255);not null" validate:"required,max=255"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (Restaurant) TableName() string { return "restaurants" }

package models

import "time"

// Commanda is a customer's open tab at a restaurant, grouping order
// lines. TableNumber is optional (1-255).
type Commanda struct {
	ID           uint       `gorm:"primaryKey"`
	PublicID     string     `gorm:"uniqueIndex;type:varchar(16);not null"`
	CustomerName string     `gorm:"type:varchar(255);not null"`
	TableNumber  *int       `gorm:"type:smallint"`
	RestaurantID uint       `gorm:"not null;index"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Commanda) TableName() string { return "commandas" }

// CommandaDetail is the external view of a commanda, including the
// owning restaurant's public id for caller-side ownership checks.
type CommandaDetail struct {
	ID           string `json:"id"`
	CustomerName string `json:"customer"`
	TableNumber  *int   `json:"table,omitempty"`
	RestaurantID string `json:"restaurantId"`
}

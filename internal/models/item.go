package models

import "time"

// Item is a menu entry. Price is an integer in the smallest currency
// unit. Description is nullable so an absent description round-trips as
// absent, not as an empty string.
type Item struct {
	ID           uint       `gorm:"primaryKey"`
	PublicID     string     `gorm:"uniqueIndex;type:varchar(16);not null"`
	Name         string     `gorm:"type:varchar(255);not null"`
	Price        int64      `gorm:"not null"`
	Description  *string    `gorm:"type:varchar(255)"`
	Available    bool       `gorm:"not null;default:true"`
	RestaurantID uint       `gorm:"not null;index"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Item) TableName() string { return "items" }

// ItemDetail is the external view of an item. RestaurantID carries the
// restaurant's public id so callers can enforce tenant ownership.
type ItemDetail struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Price        int64   `json:"price"`
	Description  *string `json:"description,omitempty"`
	Available    bool    `json:"available"`
	RestaurantID string  `json:"restaurantId"`
}

// ItemSummary is the reduced item view used by statistics.
type ItemSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

package models

import "time"

// OrderPriority is the kitchen priority of an order line.
type OrderPriority string

const (
	PriorityLow    OrderPriority = "low"
	PriorityMedium OrderPriority = "medium"
	PriorityHigh   OrderPriority = "high"
)

func (p OrderPriority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// OrderStatus tracks an order line through the kitchen. Transitions are
// not enforced linearly; callers are expected to move forward only.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusInProgress OrderStatus = "in_progress"
	StatusDone       OrderStatus = "done"
)

func (s OrderStatus) Valid() bool {
	return s == StatusPending || s == StatusInProgress || s == StatusDone
}

// Order is a line item attached to a commanda and a catalog item.
// Invariant: the item and the commanda belong to the same restaurant,
// enforced atomically at insertion time.
type Order struct {
	ID         uint          `gorm:"primaryKey"`
	PublicID   string        `gorm:"uniqueIndex;type:varchar(16);not null"`
	Quantity   int           `gorm:"not null;default:1"`
	Priority   OrderPriority `gorm:"type:varchar(8);not null;default:'low'"`
	Status     OrderStatus   `gorm:"type:varchar(16);not null;default:'pending'"`
	Notes      *string       `gorm:"type:varchar(255)"`
	CommandaID uint          `gorm:"not null;index"`
	ItemID     uint          `gorm:"not null;index"`
	Commanda   Commanda      `gorm:"foreignKey:CommandaID;constraint:OnDelete:CASCADE"`
	Item       Item          `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Order) TableName() string { return "orders" }

// OrderDetail is the external view of an order line joined with its
// item and owning restaurant.
type OrderDetail struct {
	ID              string        `json:"id"`
	Quantity        int           `json:"quantity"`
	Priority        OrderPriority `json:"priority"`
	Status          OrderStatus   `json:"status"`
	Notes           *string       `json:"notes,omitempty"`
	RestaurantID    string        `json:"restaurantId"`
	ItemID          string        `json:"itemId"`
	ItemName        string        `json:"itemName"`
	ItemDescription *string       `json:"itemDescription,omitempty"`
}

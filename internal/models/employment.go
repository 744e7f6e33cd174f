package models

import "time"

// Role is an employee's role within one restaurant. A closed two-value
// enumeration checked at the membership boundary, not a hierarchy.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// Employment maps (employee, restaurant) to a role. At most one row per
// pair; this table is the sole source of truth for authorization.
type Employment struct {
	ID           uint       `gorm:"primaryKey"`
	EmployeeID   uint       `gorm:"not null;uniqueIndex:idx_employments_employee_restaurant"`
	RestaurantID uint       `gorm:"not null;uniqueIndex:idx_employments_employee_restaurant"`
	Role         Role       `gorm:"type:varchar(16);not null;default:'employee'"`
	Employee     Employee   `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Employment) TableName() string { return "employments" }

// Member is a row of a restaurant's member listing.
type Member struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

package repositories

import "comandero/internal/models"

// EmployeeUpdate is a partial credentials update; nil fields are left
// unchanged. Password must already be a digest.
type EmployeeUpdate struct {
	Username *string
	Email    *string
	Password *string
}

// EmployeeRepository defines the interface for employee data access.
type EmployeeRepository interface {
	Create(employee *models.Employee) error
	GetByPublicID(id string) (*models.Employee, error)
	GetByUsername(username string) (*models.Employee, error)
	GetByEmail(email string) (*models.Employee, error)
	Update(publicID string, upd EmployeeUpdate) error
	RotatePublicID(oldID, newID string) error
	Delete(publicID string) error
}

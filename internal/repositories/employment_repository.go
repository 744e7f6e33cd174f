package repositories

import "comandero/internal/models"

// EmploymentRepository is the access-control backbone: it owns the
// (employee, restaurant) -> role relation that every authorization
// decision is derived from.
type EmploymentRepository interface {
	// RoleOf is the single canonical authorization check. It fails
	// Forbidden, never NotFound, when no membership row exists: the
	// absence of a membership must be indistinguishable from the
	// restaurant not existing.
	RoleOf(employeePublicID, restaurantPublicID string) (models.Role, error)
	Add(employeePublicID, restaurantPublicID string, role models.Role) error
	SetRole(employeePublicID, restaurantPublicID string, role models.Role) error
	Remove(employeePublicID, restaurantPublicID string) error
	ListMembers(restaurantPublicID string) ([]models.Member, error)
	CountMembers(restaurantPublicID string) (int64, error)
}

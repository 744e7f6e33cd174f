package repositories

import (
	"errors"

	"gorm.io/gorm"

	"comandero/internal/apperrors"
	"comandero/internal/models"
)

// GORMEmploymentRepository is a GORM implementation of EmploymentRepository.
type GORMEmploymentRepository struct {
	db *gorm.DB
}

// NewGORMEmploymentRepository creates a new instance of GORMEmploymentRepository.
func NewGORMEmploymentRepository(db *gorm.DB) *GORMEmploymentRepository {
	return &GORMEmploymentRepository{db: db}
}

// RoleOf joins employee x employment x restaurant on public ids and
// returns the role, or Forbidden when no membership row exists.
func (r *GORMEmploymentRepository) RoleOf(employeePublicID, restaurantPublicID string) (models.Role, error) {
	var row struct {
		Role models.Role
	}
	err := r.db.Table("employments").
		Joins("JOIN employees ON employees.id = employments.employee_id").
		Joins("JOIN restaurants ON restaurants.id = employments.restaurant_id").
		Where("employees.public_id = ? AND restaurants.public_id = ?", employeePublicID, restaurantPublicID).
		Select("employments.role").
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.Forbidden("you are not a member of this restaurant")
		}
		return "", apperrors.Internal("failed to resolve role", err)
	}
	return row.Role, nil
}

// Add creates a membership. Both referenced entities must exist; the
// (employee, restaurant) pair is unique, so a second Add conflicts.
func (r *GORMEmploymentRepository) Add(employeePublicID, restaurantPublicID string, role models.Role) error {
	var employee models.Employee
	if err := r.db.Select("id").Where("public_id = ?", employeePublicID).Take(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("employee not found")
		}
		return apperrors.Internal("failed to load employee", err)
	}

	var restaurant models.Restaurant
	if err := r.db.Select("id").Where("public_id = ?", restaurantPublicID).Take(&restaurant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("restaurant not found")
		}
		return apperrors.Internal("failed to load restaurant", err)
	}

	employment := models.Employment{
		EmployeeID:   employee.ID,
		RestaurantID: restaurant.ID,
		Role:         role,
	}
	res := r.db.Create(&employment)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("employee is already a member of this restaurant")
		}
		return apperrors.Internal("employment not created", res.Error)
	}
	if res.RowsAffected != 1 {
		return apperrors.Internal("employment not created", nil)
	}
	return nil
}

// SetRole changes the role of an existing membership.
func (r *GORMEmploymentRepository) SetRole(employeePublicID, restaurantPublicID string, role models.Role) error {
	if _, err := r.RoleOf(employeePublicID, restaurantPublicID); err != nil {
		return err
	}

	res := r.db.Exec(`UPDATE employments SET role = ?
		WHERE employee_id = (SELECT id FROM employees WHERE public_id = ?)
		  AND restaurant_id = (SELECT id FROM restaurants WHERE public_id = ?)`,
		role, employeePublicID, restaurantPublicID)
	if res.Error != nil {
		return apperrors.Internal("role not updated", res.Error)
	}
	if res.RowsAffected != 1 {
		return apperrors.Internal("role not updated", nil)
	}
	return nil
}

// Remove deletes an existing membership. Dismissing the last admin is
// allowed; no implicit admin election happens.
func (r *GORMEmploymentRepository) Remove(employeePublicID, restaurantPublicID string) error {
	if _, err := r.RoleOf(employeePublicID, restaurantPublicID); err != nil {
		return err
	}

	res := r.db.Exec(`DELETE FROM employments
		WHERE employee_id = (SELECT id FROM employees WHERE public_id = ?)
		  AND restaurant_id = (SELECT id FROM restaurants WHERE public_id = ?)`,
		employeePublicID, restaurantPublicID)
	if res.Error != nil {
		return apperrors.Internal("membership not deleted", res.Error)
	}
	if res.RowsAffected != 1 {
		return apperrors.NotFound("membership not found")
	}
	return nil
}

// ListMembers returns every member of the restaurant with their role.
func (r *GORMEmploymentRepository) ListMembers(restaurantPublicID string) ([]models.Member, error) {
	var members []models.Member
	err := r.db.Table("employments").
		Joins("JOIN employees ON employees.id = employments.employee_id").
		Joins("JOIN restaurants ON restaurants.id = employments.restaurant_id").
		Where("restaurants.public_id = ?", restaurantPublicID).
		Select("employees.public_id AS id, employees.username, employees.email, employments.role").
		Scan(&members).Error
	if err != nil {
		return nil, apperrors.Internal("failed to list members", err)
	}
	return members, nil
}

// CountMembers returns the number of members of the restaurant.
func (r *GORMEmploymentRepository) CountMembers(restaurantPublicID string) (int64, error) {
	var count int64
	err := r.db.Table("employments").
		Joins("JOIN restaurants ON restaurants.id = employments.restaurant_id").
		Where("restaurants.public_id = ?", restaurantPublicID).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Internal("failed to count members", err)
	}
	return count, nil
}

package repositories

import (
	"errors"

	"gorm.io/gorm"

	"comandero/internal/apperrors"
	"comandero/internal/models"
)

// GORMEmployeeRepository is a GORM implementation of EmployeeRepository.
type GORMEmployeeRepository struct {
	db *gorm.DB
}

// NewGORMEmployeeRepository creates a new instance of GORMEmployeeRepository.
func NewGORMEmployeeRepository(db *gorm.DB) *GORMEmployeeRepository {
	return &GORMEmployeeRepository{db: db}
}

// Create inserts a new employee. Uniqueness of username and email is
// enforced by the store; violations surface as Conflict.
func (r *GORMEmployeeRepository) Create(employee *models.Employee) error {
	res := r.db.Create(employee)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("username or email already registered")
		}
		return apperrors.Internal("employee not created", res.Error)
	}
	if res.RowsAffected != 1 {
		return apperrors.Internal("employee not created", nil)
	}
	return nil
}

// GetByPublicID retrieves an employee by public id.
func (r *GORMEmployeeRepository) GetByPublicID(id string) (*models.Employee, error) {
	return r.getBy("public_id = ?", id)
}

// GetByUsername retrieves an employee by username.
func (r *GORMEmployeeRepository) GetByUsername(username string) (*models.Employee, error) {
	return r.getBy("username = ?", username)
}

// GetByEmail retrieves an employee by email. The returned row includes
// the password digest for credential verification.
func (r *GORMEmployeeRepository) GetByEmail(email string) (*models.Employee, error) {
	return r.getBy("email = ?", email)
}

func (r *GORMEmployeeRepository) getBy(query string, arg any) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.Where(query, arg).Take(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("employee not found")
		}
		return nil, apperrors.Internal("failed to load employee", err)
	}
	return &employee, nil
}

// Update applies a partial credentials update keyed on public id.
func (r *GORMEmployeeRepository) Update(publicID string, upd EmployeeUpdate) error {
	updates := map[string]any{}
	if upd.Username != nil {
		updates["username"] = *upd.Username
	}
	if upd.Email != nil {
		updates["email"] = *upd.Email
	}
	if upd.Password != nil {
		updates["password"] = *upd.Password
	}
	if len(updates) == 0 {
		return nil
	}

	res := r.db.Model(&models.Employee{}).Where("public_id = ?", publicID).Updates(updates)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("username or email already registered")
		}
		return apperrors.Internal("failed to update employee", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("employee not found")
	}
	return nil
}

// RotatePublicID replaces the public identifier, invalidating the old
// one everywhere it may have leaked.
func (r *GORMEmployeeRepository) RotatePublicID(oldID, newID string) error {
	res := r.db.Model(&models.Employee{}).Where("public_id = ?", oldID).Update("public_id", newID)
	if res.Error != nil {
		return apperrors.Internal("employee id not rotated", res.Error)
	}
	if res.RowsAffected != 1 {
		return apperrors.Internal("employee id not rotated", nil)
	}
	return nil
}

// Delete removes the employee row. Credential re-verification happens
// in the service before this is called.
func (r *GORMEmployeeRepository) Delete(publicID string) error {
	res := r.db.Where("public_id = ?", publicID).Delete(&models.Employee{})
	if res.Error != nil {
		return apperrors.Internal("employee not deleted", res.Error)
	}
	if res.RowsAffected != 1 {
		return apperrors.Internal("employee not deleted", nil)
	}
	return nil
}

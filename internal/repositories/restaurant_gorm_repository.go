package repositories

import (
	"errors"

	"gorm.io/gorm"

	"comandero/internal/apperrors"
	"comandero/internal/models"
)

// GORMRestaurantRepository is a GORM implementation of RestaurantRepository.
type GORMRestaurantRepository struct {
	db *gorm.DB
}

// NewGORMRestaurantRepository creates a new instance of GORMRestaurantRepository.
func NewGORMRestaurantRepository(db *gorm.DB) *GORMRestaurantRepository {
	return &GORMRestaurantRepository{db: db}
}

// CreateWithAdmin inserts the restaurant and the creator's admin
// employment atomically.
func (r *GORMRestaurantRepository) CreateWithAdmin(restaurant *models.Restaurant, creatorPublicID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var employee models.Employee
		if err := tx.Select("id").Where("public_id = ?", creatorPublicID).Take(&employee).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("employee not found")
			}
			return apperrors.Internal("failed to load employee", err)
		}

		res := tx.Create(restaurant)
		if res.Error != nil {
			return apperrors.Internal("restaurant not created", res.Error)
		}
		if res.RowsAffected != 1 {
			return apperrors.Internal("restaurant not created", nil)
		}

		employment := models.Employment{
			EmployeeID:   employee.ID,
			RestaurantID: restaurant.ID,
			Role:         models.RoleAdmin,
		}
		if err := tx.Create(&employment).Error; err != nil {
			return apperrors.Internal("employment not created", err)
		}
		return nil
	})
}

// GetByPublicID retrieves a restaurant by public id.
func (r *GORMRestaurantRepository) GetByPublicID(id string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.Where("public_id = ?", id).Take(&restaurant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("restaurant not found")
		}
		return nil, apperrors.Internal("failed to load restaurant", err)
	}
	return &restaurant, nil
}

// Update applies a partial update keyed on public id.
func (r *GORMRestaurantRepository) Update(publicID string, upd RestaurantUpdate) error {
	updates := map[string]any{}
	if upd.Name != nil {
		updates["name"] = *upd.Name
	}
	if upd.Address != nil {
		updates["address"] = *upd.Address
	}
	if len(updates) == 0 {
		return nil
	}

	res := r.db.Model(&models.Restaurant{}).Where("public_id = ?", publicID).Updates(updates)
	if res.Error != nil {
		return apperrors.Internal("failed to update restaurant", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("restaurant not found")
	}
	return nil
}

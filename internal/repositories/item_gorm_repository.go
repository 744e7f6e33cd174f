package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"comandero/internal/apperrors"
	"comandero/internal/models"
)

const itemDetailColumns = "items.public_id AS id, items.name, items.price, items.description, items.available, restaurants.public_id AS restaurant_id"

// GORMItemRepository is a GORM implementation of ItemRepository.
type GORMItemRepository struct {
	db *gorm.DB
}

// NewGORMItemRepository creates a new instance of GORMItemRepository.
func NewGORMItemRepository(db *gorm.DB) *GORMItemRepository {
	return &GORMItemRepository{db: db}
}

// Create inserts the item scoped to the restaurant, resolving the
// internal key from the public id in the same statement.
func (r *GORMItemRepository) Create(item *models.Item, restaurantPublicID string) error {
	now := time.Now()
	res := r.db.Exec(`INSERT INTO items (public_id, name, price, description, available, restaurant_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, (SELECT id FROM restaurants WHERE public_id = ?), ?, ?)`,
		item.PublicID, item.Name, item.Price, item.Description, item.Available, restaurantPublicID, now, now)
	if res.Error != nil {
		return apperrors.Internal("item not created", res.Error)
	}
	if res.RowsAffected != 1 {
		return apperrors.Internal("item not created", nil)
	}
	return nil
}

// GetByPublicID retrieves an item joined with its restaurant's public id.
func (r *GORMItemRepository) GetByPublicID(id string) (*models.ItemDetail, error) {
	var detail models.ItemDetail
	err := r.db.Table("items").
		Joins("JOIN restaurants ON restaurants.id = items.restaurant_id").
		Where("items.public_id = ?", id).
		Select(itemDetailColumns).
		Take(&detail).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("item not found")
		}
		return nil, apperrors.Internal("failed to load item", err)
	}
	return &detail, nil
}

// ListByRestaurant returns the restaurant's menu. Unless
// includeUnavailable is set, rows with available = false are filtered
// out.
func (r *GORMItemRepository) ListByRestaurant(restaurantPublicID string, includeUnavailable bool) ([]models.ItemDetail, error) {
	q := r.db.Table("items").
		Joins("JOIN restaurants ON restaurants.id = items.restaurant_id").
		Where("restaurants.public_id = ?", restaurantPublicID).
		Select(itemDetailColumns)
	if !includeUnavailable {
		q = q.Where("items.available = ?", true)
	}

	var items []models.ItemDetail
	if err := q.Scan(&items).Error; err != nil {
		return nil, apperrors.Internal("failed to list items", err)
	}
	return items, nil
}

// SetAvailability flips the availability flag.
func (r *GORMItemRepository) SetAvailability(publicID string, available bool) error {
	res := r.db.Model(&models.Item{}).Where("public_id = ?", publicID).Update("available", available)
	if res.Error != nil {
		return apperrors.Internal("failed to update item", res.Error)
	}
	if res.RowsAffected != 1 {
		return apperrors.NotFound("item not found")
	}
	return nil
}

// Delete removes the item row.
func (r *GORMItemRepository) Delete(publicID string) error {
	res := r.db.Where("public_id = ?", publicID).Delete(&models.Item{})
	if res.Error != nil {
		return apperrors.Internal("item not deleted", res.Error)
	}
	if res.RowsAffected != 1 {
		return apperrors.Internal("item not deleted", nil)
	}
	return nil
}

// CountByRestaurant returns the size of the restaurant's menu,
// availability regardless.
func (r *GORMItemRepository) CountByRestaurant(restaurantPublicID string) (int64, error) {
	var count int64
	err := r.db.Table("items").
		Joins("JOIN restaurants ON restaurants.id = items.restaurant_id").
		Where("restaurants.public_id = ?", restaurantPublicID).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Internal("failed to count items", err)
	}
	return count, nil
}

package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"comandero/internal/apperrors"
	"comandero/internal/models"
)

const commandaDetailColumns = "commandas.public_id AS id, commandas.customer_name, commandas.table_number, restaurants.public_id AS restaurant_id"

// GORMCommandaRepository is a GORM implementation of CommandaRepository.
type GORMCommandaRepository struct {
	db *gorm.DB
}

// NewGORMCommandaRepository creates a new instance of GORMCommandaRepository.
func NewGORMCommandaRepository(db *gorm.DB) *GORMCommandaRepository {
	return &GORMCommandaRepository{db: db}
}

// Create inserts the commanda, resolving the restaurant's internal key
// by subselect in the insert itself.
func (r *GORMCommandaRepository) Create(commanda *models.Commanda, restaurantPublicID string) error {
	now := time.Now()
	res := r.db.Exec(`INSERT INTO commandas (public_id, customer_name, table_number, restaurant_id, created_at, updated_at)
		VALUES (?, ?, ?, (SELECT id FROM restaurants WHERE public_id = ?), ?, ?)`,
		commanda.PublicID, commanda.CustomerName, commanda.TableNumber, restaurantPublicID, now, now)
	if res.Error != nil {
		return apperrors.Internal("commanda not created", res.Error)
	}
	if res.RowsAffected != 1 {
		return apperrors.Internal("commanda not created", nil)
	}
	return nil
}

// GetByPublicID retrieves a commanda joined with its restaurant's
// public id.
func (r *GORMCommandaRepository) GetByPublicID(id string) (*models.CommandaDetail, error) {
	var detail models.CommandaDetail
	err := r.db.Table("commandas").
		Joins("JOIN restaurants ON restaurants.id = commandas.restaurant_id").
		Where("commandas.public_id = ?", id).
		Select(commandaDetailColumns).
		Take(&detail).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("commanda not found")
		}
		return nil, apperrors.Internal("failed to load commanda", err)
	}
	return &detail, nil
}

// ListByRestaurant returns every open commanda of the restaurant.
func (r *GORMCommandaRepository) ListByRestaurant(restaurantPublicID string) ([]models.CommandaDetail, error) {
	var commandas []models.CommandaDetail
	err := r.db.Table("commandas").
		Joins("JOIN restaurants ON restaurants.id = commandas.restaurant_id").
		Where("restaurants.public_id = ?", restaurantPublicID).
		Select(commandaDetailColumns).
		Scan(&commandas).Error
	if err != nil {
		return nil, apperrors.Internal("failed to list commandas", err)
	}
	return commandas, nil
}

// ListOrders returns the commanda's order lines joined with their items.
func (r *GORMCommandaRepository) ListOrders(commandaPublicID string) ([]models.OrderDetail, error) {
	var orders []models.OrderDetail
	err := r.db.Table("orders").
		Joins("JOIN commandas ON commandas.id = orders.commanda_id").
		Joins("JOIN items ON items.id = orders.item_id").
		Joins("JOIN restaurants ON restaurants.id = items.restaurant_id").
		Where("commandas.public_id = ?", commandaPublicID).
		Select(orderDetailColumns).
		Scan(&orders).Error
	if err != nil {
		return nil, apperrors.Internal("failed to list orders", err)
	}
	return orders, nil
}

// Delete removes the commanda row.
func (r *GORMCommandaRepository) Delete(publicID string) error {
	res := r.db.Where("public_id = ?", publicID).Delete(&models.Commanda{})
	if res.Error != nil {
		return apperrors.Internal("commanda not deleted", res.Error)
	}
	if res.RowsAffected != 1 {
		return apperrors.Internal("commanda not deleted", nil)
	}
	return nil
}

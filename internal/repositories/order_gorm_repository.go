package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"comandero/internal/apperrors"
	"comandero/internal/models"
)

const orderDetailColumns = "orders.public_id AS id, orders.quantity, orders.priority, orders.status, orders.notes, items.public_id AS item_id, items.name AS item_name, items.description AS item_description, restaurants.public_id AS restaurant_id"

// sortColumns is the orderBy allow-list. Anything not in here is
// ignored rather than interpolated into SQL.
var sortColumns = map[string]string{
	"created_at": "orders.created_at",
	"priority":   "orders.priority",
	"status":     "orders.status",
	"quantity":   "orders.quantity",
}

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// Create resolves both parents' restaurants with two correlated scalar
// subqueries, rejects a tenant mismatch, and inserts the row resolving
// the internal keys by subselect. The whole sequence runs in one store
// transaction so the referenced rows cannot change between the check
// and the insert.
func (r *GORMOrderRepository) Create(order OrderCreate) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var owners struct {
			CommandaRestaurantID *uint
			ItemRestaurantID     *uint
		}
		err := tx.Raw(`SELECT
			(SELECT restaurant_id FROM commandas WHERE public_id = ?) AS commanda_restaurant_id,
			(SELECT restaurant_id FROM items WHERE public_id = ?) AS item_restaurant_id`,
			order.CommandaID, order.ItemID).Scan(&owners).Error
		if err != nil {
			return apperrors.Internal("failed to resolve order parents", err)
		}
		if owners.CommandaRestaurantID == nil {
			return apperrors.NotFound("commanda not found")
		}
		if owners.ItemRestaurantID == nil {
			return apperrors.NotFound("item not found")
		}
		if *owners.CommandaRestaurantID != *owners.ItemRestaurantID {
			return apperrors.Forbidden("item does not belong to the commanda's restaurant")
		}

		now := time.Now()
		res := tx.Exec(`INSERT INTO orders (public_id, quantity, priority, status, notes, commanda_id, item_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?,
				(SELECT id FROM commandas WHERE public_id = ?),
				(SELECT id FROM items WHERE public_id = ?), ?, ?)`,
			order.PublicID, order.Quantity, order.Priority, order.Status, order.Notes,
			order.CommandaID, order.ItemID, now, now)
		if res.Error != nil {
			return apperrors.Internal("order not created", res.Error)
		}
		if res.RowsAffected != 1 {
			return apperrors.Internal("order not created", nil)
		}
		return nil
	})
}

// GetByPublicID retrieves an order joined with its item and restaurant.
func (r *GORMOrderRepository) GetByPublicID(id string) (*models.OrderDetail, error) {
	var detail models.OrderDetail
	err := r.db.Table("orders").
		Joins("JOIN items ON items.id = orders.item_id").
		Joins("JOIN restaurants ON restaurants.id = items.restaurant_id").
		Where("orders.public_id = ?", id).
		Select(orderDetailColumns).
		Take(&detail).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order not found")
		}
		return nil, apperrors.Internal("failed to load order", err)
	}
	return &detail, nil
}

// Update applies a partial update; absent fields stay untouched.
func (r *GORMOrderRepository) Update(publicID string, upd OrderUpdate) error {
	updates := map[string]any{}
	if upd.Quantity != nil {
		updates["quantity"] = *upd.Quantity
	}
	if upd.Priority != nil {
		updates["priority"] = *upd.Priority
	}
	if upd.Status != nil {
		updates["status"] = *upd.Status
	}
	if upd.Notes != nil {
		updates["notes"] = *upd.Notes
	}
	if len(updates) == 0 {
		return nil
	}

	res := r.db.Model(&models.Order{}).Where("public_id = ?", publicID).Updates(updates)
	if res.Error != nil {
		return apperrors.Internal("failed to update order", res.Error)
	}
	if res.RowsAffected != 1 {
		return apperrors.NotFound("order not found")
	}
	return nil
}

// Delete removes the order row.
func (r *GORMOrderRepository) Delete(publicID string) error {
	res := r.db.Where("public_id = ?", publicID).Delete(&models.Order{})
	if res.Error != nil {
		return apperrors.Internal("order not deleted", res.Error)
	}
	if res.RowsAffected != 1 {
		return apperrors.NotFound("order not found")
	}
	return nil
}

// ListByRestaurant returns the restaurant's order lines, optionally
// filtered, sorted and bounded.
func (r *GORMOrderRepository) ListByRestaurant(restaurantPublicID string, q OrderQuery) ([]models.OrderDetail, error) {
	query := r.db.Table("orders").
		Joins("JOIN items ON items.id = orders.item_id").
		Joins("JOIN restaurants ON restaurants.id = items.restaurant_id").
		Where("restaurants.public_id = ?", restaurantPublicID).
		Select(orderDetailColumns)

	if q.Status != "" {
		query = query.Where("orders.status = ?", q.Status)
	}
	if q.Priority != "" {
		query = query.Where("orders.priority = ?", q.Priority)
	}
	if column, ok := sortColumns[q.OrderBy]; ok {
		direction := " ASC"
		if q.Desc {
			direction = " DESC"
		}
		query = query.Order(column + direction)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	var orders []models.OrderDetail
	if err := query.Scan(&orders).Error; err != nil {
		return nil, apperrors.Internal("failed to list orders", err)
	}
	return orders, nil
}

// CountByCommanda returns how many order lines a commanda holds.
func (r *GORMOrderRepository) CountByCommanda(commandaPublicID string) (int64, error) {
	var count int64
	err := r.db.Table("orders").
		Joins("JOIN commandas ON commandas.id = orders.commanda_id").
		Where("commandas.public_id = ?", commandaPublicID).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Internal("failed to count orders", err)
	}
	return count, nil
}

// MostSold returns the restaurant's item with the highest number of
// order lines.
func (r *GORMOrderRepository) MostSold(restaurantPublicID string) (*models.ItemSummary, error) {
	var item models.ItemSummary
	err := r.db.Table("orders").
		Joins("JOIN items ON items.id = orders.item_id").
		Joins("JOIN restaurants ON restaurants.id = items.restaurant_id").
		Where("restaurants.public_id = ?", restaurantPublicID).
		Group("items.id, items.public_id, items.name, items.price").
		Order("COUNT(orders.id) DESC").
		Limit(1).
		Select("items.public_id AS id, items.name, items.price").
		Take(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("no orders found")
		}
		return nil, apperrors.Internal("failed to resolve most sold item", err)
	}
	return &item, nil
}

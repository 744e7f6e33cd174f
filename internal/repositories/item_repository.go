package repositories

import "comandero/internal/models"

// ItemRepository defines the interface for catalog data access. It is
// tenant-blind: callers confirm that an item belongs to their
// restaurant before allowing a read or mutation.
type ItemRepository interface {
	Create(item *models.Item, restaurantPublicID string) error
	GetByPublicID(id string) (*models.ItemDetail, error)
	ListByRestaurant(restaurantPublicID string, includeUnavailable bool) ([]models.ItemDetail, error)
	SetAvailability(publicID string, available bool) error
	Delete(publicID string) error
	CountByRestaurant(restaurantPublicID string) (int64, error)
}

package repositories

import "comandero/internal/models"

// CommandaRepository defines the interface for commanda (tab) data
// access. Tenant-blind like ItemRepository; callers enforce ownership.
type CommandaRepository interface {
	Create(commanda *models.Commanda, restaurantPublicID string) error
	GetByPublicID(id string) (*models.CommandaDetail, error)
	ListByRestaurant(restaurantPublicID string) ([]models.CommandaDetail, error)
	ListOrders(commandaPublicID string) ([]models.OrderDetail, error)
	Delete(publicID string) error
}

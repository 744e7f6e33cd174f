package repositories

import "comandero/internal/models"

// RestaurantUpdate is a partial tenant metadata update.
type RestaurantUpdate struct {
	Name    *string
	Address *string
}

// RestaurantRepository defines the interface for restaurant data access.
type RestaurantRepository interface {
	// CreateWithAdmin inserts the restaurant and the creator's admin
	// membership in one transaction, so a restaurant never exists
	// without its first admin.
	CreateWithAdmin(restaurant *models.Restaurant, creatorPublicID string) error
	GetByPublicID(id string) (*models.Restaurant, error)
	Update(publicID string, upd RestaurantUpdate) error
}

package repositories

import "comandero/internal/models"

// OrderCreate carries a fully-defaulted order line for insertion. Both
// parents are referenced by public id and resolved to internal keys at
// the store.
type OrderCreate struct {
	PublicID   string
	Quantity   int
	Priority   models.OrderPriority
	Status     models.OrderStatus
	Notes      *string
	ItemID     string
	CommandaID string
}

// OrderUpdate is a partial update; nil fields are left unchanged.
type OrderUpdate struct {
	Quantity *int
	Priority *models.OrderPriority
	Status   *models.OrderStatus
	Notes    *string
}

// OrderQuery bounds and shapes an order listing. OrderBy is restricted
// to an enumerated allow-list so arbitrary column names never reach the
// SQL text.
type OrderQuery struct {
	OrderBy  string // one of created_at, priority, status, quantity
	Desc     bool
	Limit    int
	Status   models.OrderStatus
	Priority models.OrderPriority
}

// OrderRepository defines the interface for order line data access.
type OrderRepository interface {
	// Create enforces the cross-tenant invariant: the item and the
	// commanda must belong to the same restaurant, checked and
	// inserted inside one store transaction.
	Create(order OrderCreate) error
	GetByPublicID(id string) (*models.OrderDetail, error)
	Update(publicID string, upd OrderUpdate) error
	Delete(publicID string) error
	ListByRestaurant(restaurantPublicID string, q OrderQuery) ([]models.OrderDetail, error)
	CountByCommanda(commandaPublicID string) (int64, error)
	MostSold(restaurantPublicID string) (*models.ItemSummary, error)
}

package services

import (
	"encoding/json"

	"github.com/sirupsen/logrus"

	"comandero/internal/apperrors"
	"comandero/internal/models"
	"comandero/internal/repositories"
	"comandero/pkg/publicid"
	"comandero/pkg/rabbitmq"
)

// OrderService manages order lines. Creation enforces the cross-tenant
// invariant at the store; lifecycle events are published to the broker
// when one is configured.
type OrderService struct {
	orders repositories.OrderRepository
	mq     *rabbitmq.Client
	log    *logrus.Entry
}

// NewOrderService creates a new OrderService. mq may be nil, in which
// case no events are published.
func NewOrderService(orders repositories.OrderRepository, mq *rabbitmq.Client, log *logrus.Entry) *OrderService {
	return &OrderService{orders: orders, mq: mq, log: log}
}

// OrderCreateInput is the input for a new order line. Absent fields
// take the defaults: quantity 1, priority low, status pending.
type OrderCreateInput struct {
	ItemID   string
	Quantity *int
	Priority *models.OrderPriority
	Status   *models.OrderStatus
	Notes    *string
}

// OrderUpdateInput is a partial update; nil fields stay unchanged.
type OrderUpdateInput struct {
	Quantity *int
	Priority *models.OrderPriority
	Status   *models.OrderStatus
	Notes    *string
}

// Create places an order line against a commanda and returns its public
// id. Fails Forbidden when the item belongs to a different restaurant
// than the commanda.
func (s *OrderService) Create(in OrderCreateInput, commandaPublicID string) (string, error) {
	id, err := publicid.New()
	if err != nil {
		return "", apperrors.Internal("failed to generate id", err)
	}

	create := repositories.OrderCreate{
		PublicID:   id,
		Quantity:   1,
		Priority:   models.PriorityLow,
		Status:     models.StatusPending,
		Notes:      in.Notes,
		ItemID:     in.ItemID,
		CommandaID: commandaPublicID,
	}
	if in.Quantity != nil {
		create.Quantity = *in.Quantity
	}
	if in.Priority != nil {
		create.Priority = *in.Priority
	}
	if in.Status != nil {
		create.Status = *in.Status
	}

	if err := s.orders.Create(create); err != nil {
		return "", err
	}

	s.publish("order.created", map[string]any{
		"orderId":    id,
		"commandaId": commandaPublicID,
		"itemId":     in.ItemID,
		"quantity":   create.Quantity,
		"priority":   create.Priority,
		"status":     create.Status,
	})
	s.log.WithFields(logrus.Fields{"order": id, "commanda": commandaPublicID}).Info("order placed")
	return id, nil
}

// Get retrieves an order line joined with its item and restaurant.
func (s *OrderService) Get(publicID string) (*models.OrderDetail, error) {
	return s.orders.GetByPublicID(publicID)
}

// Update applies a partial update. Status may be set to any member of
// the enum; forward-only movement is expected of callers, not enforced.
func (s *OrderService) Update(publicID string, in OrderUpdateInput) error {
	upd := repositories.OrderUpdate{
		Quantity: in.Quantity,
		Priority: in.Priority,
		Status:   in.Status,
		Notes:    in.Notes,
	}
	if err := s.orders.Update(publicID, upd); err != nil {
		return err
	}

	event := map[string]any{"orderId": publicID}
	if in.Status != nil {
		event["status"] = *in.Status
	}
	s.publish("order.updated", event)
	return nil
}

// Delete removes an order line.
func (s *OrderService) Delete(publicID string) error {
	if err := s.orders.Delete(publicID); err != nil {
		return err
	}
	s.publish("order.deleted", map[string]any{"orderId": publicID})
	return nil
}

// List returns the restaurant's order lines per the query.
func (s *OrderService) List(restaurantPublicID string, q repositories.OrderQuery) ([]models.OrderDetail, error) {
	return s.orders.ListByRestaurant(restaurantPublicID, q)
}

// publish sends an event to the broker. Publish failures are logged and
// never fail the originating request.
func (s *OrderService) publish(routingKey string, event map[string]any) {
	if s.mq == nil {
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		s.log.WithError(err).Warn("failed to marshal order event")
		return
	}
	if err := s.mq.Publish(routingKey, body); err != nil {
		s.log.WithError(err).WithField("routingKey", routingKey).Warn("failed to publish order event")
	}
}

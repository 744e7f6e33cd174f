package services

import (
	"github.com/sirupsen/logrus"

	"comandero/internal/models"
	"comandero/internal/repositories"
)

// StatsService answers aggregate questions about a restaurant's orders.
type StatsService struct {
	orders repositories.OrderRepository
	log    *logrus.Entry
}

// NewStatsService creates a new StatsService.
func NewStatsService(orders repositories.OrderRepository, log *logrus.Entry) *StatsService {
	return &StatsService{orders: orders, log: log}
}

// MostSold returns the restaurant's item with the most order lines.
// Fails NotFound when the restaurant has no orders.
func (s *StatsService) MostSold(restaurantPublicID string) (*models.ItemSummary, error) {
	return s.orders.MostSold(restaurantPublicID)
}

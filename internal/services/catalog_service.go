package services

import (
	"github.com/sirupsen/logrus"

	"comandero/internal/apperrors"
	"comandero/internal/models"
	"comandero/internal/repositories"
	"comandero/pkg/publicid"
)

// CatalogService manages a restaurant's menu.
type CatalogService struct {
	items repositories.ItemRepository
	log   *logrus.Entry
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(items repositories.ItemRepository, log *logrus.Entry) *CatalogService {
	return &CatalogService{items: items, log: log}
}

// ItemCreate is the input for a new menu item.
type ItemCreate struct {
	Name        string
	Price       int64
	Description *string
}

// Create adds an item to the restaurant's menu, available by default,
// and returns its public id.
func (s *CatalogService) Create(in ItemCreate, restaurantPublicID string) (string, error) {
	id, err := publicid.New()
	if err != nil {
		return "", apperrors.Internal("failed to generate id", err)
	}

	item := &models.Item{
		PublicID:    id,
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		Available:   true,
	}
	if err := s.items.Create(item, restaurantPublicID); err != nil {
		return "", err
	}

	s.log.WithFields(logrus.Fields{"item": id, "restaurant": restaurantPublicID}).Info("item created")
	return id, nil
}

// Get retrieves an item by public id. The result carries the owning
// restaurant's public id; the caller is responsible for the ownership
// check.
func (s *CatalogService) Get(publicID string) (*models.ItemDetail, error) {
	return s.items.GetByPublicID(publicID)
}

// List returns the restaurant's menu, filtered to available items
// unless includeUnavailable is set.
func (s *CatalogService) List(restaurantPublicID string, includeUnavailable bool) ([]models.ItemDetail, error) {
	return s.items.ListByRestaurant(restaurantPublicID, includeUnavailable)
}

// SetAvailability flips an item's availability flag.
func (s *CatalogService) SetAvailability(publicID string, available bool) error {
	return s.items.SetAvailability(publicID, available)
}

// Delete removes an item from the menu.
func (s *CatalogService) Delete(publicID string) error {
	if err := s.items.Delete(publicID); err != nil {
		return err
	}
	s.log.WithField("item", publicID).Info("item deleted")
	return nil
}

// Count returns the menu size, availability regardless.
func (s *CatalogService) Count(restaurantPublicID string) (int64, error) {
	return s.items.CountByRestaurant(restaurantPublicID)
}

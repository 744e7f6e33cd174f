package services

import (
	"github.com/sirupsen/logrus"

	"comandero/internal/apperrors"
	"comandero/internal/models"
	"comandero/internal/repositories"
	"comandero/pkg/publicid"
)

// RestaurantService is the tenant store.
type RestaurantService struct {
	restaurants repositories.RestaurantRepository
	log         *logrus.Entry
}

// NewRestaurantService creates a new RestaurantService.
func NewRestaurantService(restaurants repositories.RestaurantRepository, log *logrus.Entry) *RestaurantService {
	return &RestaurantService{restaurants: restaurants, log: log}
}

// RestaurantUpdate is a partial tenant metadata update.
type RestaurantUpdate struct {
	Name    *string
	Address *string
}

// Create makes a restaurant whose first admin is the creator, in one
// transaction, and returns the restaurant's public id.
func (s *RestaurantService) Create(name, address, creatorPublicID string) (string, error) {
	id, err := publicid.New()
	if err != nil {
		return "", apperrors.Internal("failed to generate id", err)
	}

	restaurant := &models.Restaurant{PublicID: id, Name: name, Address: address}
	if err := s.restaurants.CreateWithAdmin(restaurant, creatorPublicID); err != nil {
		return "", err
	}

	s.log.WithFields(logrus.Fields{"restaurant": id, "admin": creatorPublicID}).Info("restaurant created")
	return id, nil
}

// Get retrieves a restaurant by public id.
func (s *RestaurantService) Get(publicID string) (*models.Restaurant, error) {
	return s.restaurants.GetByPublicID(publicID)
}

// Update applies a partial update of the restaurant's metadata.
func (s *RestaurantService) Update(publicID string, upd RestaurantUpdate) error {
	return s.restaurants.Update(publicID, repositories.RestaurantUpdate{Name: upd.Name, Address: upd.Address})
}

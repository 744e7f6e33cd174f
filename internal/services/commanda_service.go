package services

import (
	"github.com/sirupsen/logrus"

	"comandero/internal/apperrors"
	"comandero/internal/models"
	"comandero/internal/repositories"
	"comandero/pkg/publicid"
)

// CommandaService manages customer tabs.
type CommandaService struct {
	commandas repositories.CommandaRepository
	log       *logrus.Entry
}

// NewCommandaService creates a new CommandaService.
func NewCommandaService(commandas repositories.CommandaRepository, log *logrus.Entry) *CommandaService {
	return &CommandaService{commandas: commandas, log: log}
}

// CommandaCreate is the input for a new tab.
type CommandaCreate struct {
	CustomerName string
	TableNumber  *int
}

// Create opens a tab at the restaurant and returns its public id.
func (s *CommandaService) Create(in CommandaCreate, restaurantPublicID string) (string, error) {
	id, err := publicid.New()
	if err != nil {
		return "", apperrors.Internal("failed to generate id", err)
	}

	commanda := &models.Commanda{
		PublicID:     id,
		CustomerName: in.CustomerName,
		TableNumber:  in.TableNumber,
	}
	if err := s.commandas.Create(commanda, restaurantPublicID); err != nil {
		return "", err
	}

	s.log.WithFields(logrus.Fields{"commanda": id, "restaurant": restaurantPublicID}).Info("commanda created")
	return id, nil
}

// Get retrieves a commanda by public id; the result carries the owning
// restaurant's public id for the caller's ownership check.
func (s *CommandaService) Get(publicID string) (*models.CommandaDetail, error) {
	return s.commandas.GetByPublicID(publicID)
}

// List returns the restaurant's commandas.
func (s *CommandaService) List(restaurantPublicID string) ([]models.CommandaDetail, error) {
	return s.commandas.ListByRestaurant(restaurantPublicID)
}

// ListOrders returns the commanda's order lines.
func (s *CommandaService) ListOrders(commandaPublicID string) ([]models.OrderDetail, error) {
	return s.commandas.ListOrders(commandaPublicID)
}

// Delete closes and removes a commanda.
func (s *CommandaService) Delete(publicID string) error {
	if err := s.commandas.Delete(publicID); err != nil {
		return err
	}
	s.log.WithField("commanda", publicID).Info("commanda deleted")
	return nil
}

package services

import (
	"github.com/sirupsen/logrus"

	"comandero/internal/models"
	"comandero/internal/repositories"
)

// MembershipService exposes the (employee, restaurant) -> role relation
// that all tenant authorization derives from. The admin-only policy for
// mutating memberships is applied by the transport layer, which knows
// the caller; this service knows only the relation.
type MembershipService struct {
	employments repositories.EmploymentRepository
	log         *logrus.Entry
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(employments repositories.EmploymentRepository, log *logrus.Entry) *MembershipService {
	return &MembershipService{employments: employments, log: log}
}

// RoleOf resolves the caller's role at a restaurant. Fails Forbidden,
// never NotFound, when no membership exists.
func (s *MembershipService) RoleOf(employeePublicID, restaurantPublicID string) (models.Role, error) {
	return s.employments.RoleOf(employeePublicID, restaurantPublicID)
}

// Add hires an employee into a restaurant. An empty role defaults to
// employee.
func (s *MembershipService) Add(employeePublicID, restaurantPublicID string, role models.Role) error {
	if role == "" {
		role = models.RoleEmployee
	}
	if err := s.employments.Add(employeePublicID, restaurantPublicID, role); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{
		"employee":   employeePublicID,
		"restaurant": restaurantPublicID,
		"role":       role,
	}).Info("membership added")
	return nil
}

// SetRole changes an existing membership's role.
func (s *MembershipService) SetRole(employeePublicID, restaurantPublicID string, role models.Role) error {
	if err := s.employments.SetRole(employeePublicID, restaurantPublicID, role); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{
		"employee":   employeePublicID,
		"restaurant": restaurantPublicID,
		"role":       role,
	}).Info("role changed")
	return nil
}

// Remove dismisses a member. Removing the last admin is allowed.
func (s *MembershipService) Remove(employeePublicID, restaurantPublicID string) error {
	if err := s.employments.Remove(employeePublicID, restaurantPublicID); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{
		"employee":   employeePublicID,
		"restaurant": restaurantPublicID,
	}).Info("membership removed")
	return nil
}

// ListMembers returns the restaurant's members with their roles.
func (s *MembershipService) ListMembers(restaurantPublicID string) ([]models.Member, error) {
	return s.employments.ListMembers(restaurantPublicID)
}

// CountMembers returns the restaurant's member count.
func (s *MembershipService) CountMembers(restaurantPublicID string) (int64, error) {
	return s.employments.CountMembers(restaurantPublicID)
}

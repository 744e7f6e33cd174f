package services

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"comandero/internal/apperrors"
	"comandero/internal/models"
	"comandero/internal/repositories"
	"comandero/pkg/publicid"
)

// AuthService is the identity store: credential storage, login
// verification and account lifecycle.
type AuthService struct {
	employees repositories.EmployeeRepository
	log       *logrus.Entry
}

// NewAuthService creates a new AuthService.
func NewAuthService(employees repositories.EmployeeRepository, log *logrus.Entry) *AuthService {
	return &AuthService{employees: employees, log: log}
}

// CredentialsUpdate is a partial update of an employee's credentials.
type CredentialsUpdate struct {
	Username *string
	Email    *string
	Password *string
}

// Register creates an employee with a freshly generated public id and a
// bcrypt digest of the password. Fails Conflict when the username or
// email is taken.
func (s *AuthService) Register(username, email, password string) (string, error) {
	id, err := publicid.New()
	if err != nil {
		return "", apperrors.Internal("failed to generate id", err)
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.Internal("failed to hash password", err)
	}

	employee := &models.Employee{
		PublicID: id,
		Username: username,
		Email:    email,
		Password: string(digest),
	}
	if err := s.employees.Create(employee); err != nil {
		return "", err
	}

	s.log.WithField("employee", id).Info("employee registered")
	return id, nil
}

// Login verifies the credentials and returns the employee's public id.
// Fails NotFound when no employee has that email and Unauthorized on a
// digest mismatch.
func (s *AuthService) Login(email, password string) (string, error) {
	employee, err := s.employees.GetByEmail(email)
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.Password), []byte(password)); err != nil {
		return "", apperrors.Unauthorized("invalid password")
	}
	return employee.PublicID, nil
}

// Get retrieves an employee by public id.
func (s *AuthService) Get(publicID string) (*models.Employee, error) {
	return s.employees.GetByPublicID(publicID)
}

// GetByUsername retrieves an employee by username.
func (s *AuthService) GetByUsername(username string) (*models.Employee, error) {
	return s.employees.GetByUsername(username)
}

// UpdateCredentials applies a partial credentials update, re-hashing
// the password when present.
func (s *AuthService) UpdateCredentials(publicID string, upd CredentialsUpdate) error {
	repoUpd := repositories.EmployeeUpdate{Username: upd.Username, Email: upd.Email}
	if upd.Password != nil {
		digest, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), bcrypt.DefaultCost)
		if err != nil {
			return apperrors.Internal("failed to hash password", err)
		}
		hashed := string(digest)
		repoUpd.Password = &hashed
	}

	if err := s.employees.Update(publicID, repoUpd); err != nil {
		return err
	}
	s.log.WithField("employee", publicID).Info("credentials updated")
	return nil
}

// RotateID replaces the employee's public identifier and returns the
// new one. Memberships are keyed on internal ids and survive rotation.
func (s *AuthService) RotateID(publicID string) (string, error) {
	newID, err := publicid.New()
	if err != nil {
		return "", apperrors.Internal("failed to generate id", err)
	}
	if err := s.employees.RotatePublicID(publicID, newID); err != nil {
		return "", err
	}
	s.log.WithField("employee", newID).Info("employee id rotated")
	return newID, nil
}

// Delete re-verifies the credentials, then removes the account.
func (s *AuthService) Delete(email, password string) error {
	id, err := s.Login(email, password)
	if err != nil {
		return err
	}
	if err := s.employees.Delete(id); err != nil {
		return err
	}
	s.log.WithField("employee", id).Info("employee deleted")
	return nil
}

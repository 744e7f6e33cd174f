package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"comandero/internal/apperrors"
	"comandero/internal/models"
	"comandero/internal/services"
)

// MockEmploymentRepository is a mock implementation of repositories.EmploymentRepository
type MockEmploymentRepository struct {
	mock.Mock
}

func (m *MockEmploymentRepository) RoleOf(employeePublicID, restaurantPublicID string) (models.Role, error) {
	args := m.Called(employeePublicID, restaurantPublicID)
	return args.Get(0).(models.Role), args.Error(1)
}

func (m *MockEmploymentRepository) Add(employeePublicID, restaurantPublicID string, role models.Role) error {
	args := m.Called(employeePublicID, restaurantPublicID, role)
	return args.Error(0)
}

func (m *MockEmploymentRepository) SetRole(employeePublicID, restaurantPublicID string, role models.Role) error {
	args := m.Called(employeePublicID, restaurantPublicID, role)
	return args.Error(0)
}

func (m *MockEmploymentRepository) Remove(employeePublicID, restaurantPublicID string) error {
	args := m.Called(employeePublicID, restaurantPublicID)
	return args.Error(0)
}

func (m *MockEmploymentRepository) ListMembers(restaurantPublicID string) ([]models.Member, error) {
	args := m.Called(restaurantPublicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Member), args.Error(1)
}

func (m *MockEmploymentRepository) CountMembers(restaurantPublicID string) (int64, error) {
	args := m.Called(restaurantPublicID)
	return args.Get(0).(int64), args.Error(1)
}

func TestSessionService_TokenRoundTrip(t *testing.T) {
	employees := new(MockEmployeeRepository)
	employments := new(MockEmploymentRepository)
	session := services.NewSessionService(employees, employments, "test_jwt_secret", time.Hour, nil, testLogger())

	employee := &models.Employee{PublicID: "empAlice00000000", Username: "alice"}
	employees.On("GetByPublicID", "empAlice00000000").Return(employee, nil).Once()

	token, claim, err := session.Refresh("empAlice00000000", nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "empAlice00000000", claim.ID)
	assert.Nil(t, claim.Restaurant)

	claims, err := session.Validate(context.Background(), token)
	assert.NoError(t, err)
	assert.Equal(t, "empAlice00000000", claims.ID)
	assert.Nil(t, claims.Restaurant)
	assert.NotEmpty(t, claims.Id) // jti

	employees.AssertExpectations(t)
}

func TestSessionService_RestaurantClaim(t *testing.T) {
	employees := new(MockEmployeeRepository)
	employments := new(MockEmploymentRepository)
	session := services.NewSessionService(employees, employments, "test_jwt_secret", time.Hour, nil, testLogger())

	employee := &models.Employee{PublicID: "empAlice00000000", Username: "alice"}
	restaurantID := "resCafe000000000"

	employees.On("GetByPublicID", "empAlice00000000").Return(employee, nil).Once()
	employments.On("RoleOf", "empAlice00000000", restaurantID).Return(models.RoleAdmin, nil).Once()

	token, claim, err := session.Refresh("empAlice00000000", &restaurantID)
	assert.NoError(t, err)
	assert.NotNil(t, claim.Restaurant)
	assert.Equal(t, restaurantID, claim.Restaurant.ID)
	assert.Equal(t, models.RoleAdmin, claim.Restaurant.Role)

	claims, err := session.Validate(context.Background(), token)
	assert.NoError(t, err)
	assert.NotNil(t, claims.Restaurant)
	assert.Equal(t, models.RoleAdmin, claims.Restaurant.Role)

	employees.AssertExpectations(t)
	employments.AssertExpectations(t)
}

func TestSessionService_NonMemberCannotLogIntoRestaurant(t *testing.T) {
	employees := new(MockEmployeeRepository)
	employments := new(MockEmploymentRepository)
	session := services.NewSessionService(employees, employments, "test_jwt_secret", time.Hour, nil, testLogger())

	employee := &models.Employee{PublicID: "empBob0000000000", Username: "bob"}
	restaurantID := "resCafe000000000"

	employees.On("GetByPublicID", "empBob0000000000").Return(employee, nil).Once()
	employments.On("RoleOf", "empBob0000000000", restaurantID).
		Return(models.Role(""), apperrors.Forbidden("you are not a member of this restaurant")).Once()

	_, _, err := session.Refresh("empBob0000000000", &restaurantID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	employees.AssertExpectations(t)
	employments.AssertExpectations(t)
}

func TestSessionService_RejectsExpiredToken(t *testing.T) {
	employees := new(MockEmployeeRepository)
	employments := new(MockEmploymentRepository)
	session := services.NewSessionService(employees, employments, "test_jwt_secret", -time.Hour, nil, testLogger())

	token, err := session.IssueToken(services.Claim{ID: "empAlice00000000"})
	assert.NoError(t, err)

	_, err = session.Validate(context.Background(), token)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}

func TestSessionService_RejectsTamperedToken(t *testing.T) {
	employees := new(MockEmployeeRepository)
	employments := new(MockEmploymentRepository)

	signer := services.NewSessionService(employees, employments, "other_secret", time.Hour, nil, testLogger())
	session := services.NewSessionService(employees, employments, "test_jwt_secret", time.Hour, nil, testLogger())

	token, err := signer.IssueToken(services.Claim{ID: "empAlice00000000"})
	assert.NoError(t, err)

	_, err = session.Validate(context.Background(), token)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))

	_, err = session.Validate(context.Background(), "not.a.token")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}

func TestSessionService_RevokeWithoutDenylistIsNoop(t *testing.T) {
	employees := new(MockEmployeeRepository)
	employments := new(MockEmploymentRepository)
	session := services.NewSessionService(employees, employments, "test_jwt_secret", time.Hour, nil, testLogger())

	employees.On("GetByPublicID", "empAlice00000000").
		Return(&models.Employee{PublicID: "empAlice00000000"}, nil).Once()

	token, _, err := session.Refresh("empAlice00000000", nil)
	assert.NoError(t, err)

	claims, err := session.Validate(context.Background(), token)
	assert.NoError(t, err)
	assert.NoError(t, session.Revoke(context.Background(), claims))

	// Without a denylist the token stays valid until it expires.
	_, err = session.Validate(context.Background(), token)
	assert.NoError(t, err)
}

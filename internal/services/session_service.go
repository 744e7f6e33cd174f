package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"comandero/internal/apperrors"
	"comandero/internal/models"
	"comandero/internal/repositories"
)

// RestaurantClaim is the tenant part of a session claim. Only the
// restaurant's public id and the holder's role are embedded; never
// name or address, which would go stale inside a signed token.
type RestaurantClaim struct {
	ID   string      `json:"id"`
	Role models.Role `json:"role"`
}

// Claim is the signed payload of a session token: an identity and
// optionally a restaurant the holder is logged into.
type Claim struct {
	ID         string           `json:"id"`
	Restaurant *RestaurantClaim `json:"restaurant,omitempty"`
}

// TokenClaims is the wire form of a Claim inside a JWT.
type TokenClaims struct {
	ID         string           `json:"id"`
	Restaurant *RestaurantClaim `json:"restaurant,omitempty"`
	jwt.StandardClaims
}

// SessionService builds claims from current store state, signs and
// validates tokens, and re-issues tokens after identity-relevant
// mutations. The embedded role is trusted for the token's lifetime;
// the bounded TTL and the optional denylist cap the staleness window.
type SessionService struct {
	employees   repositories.EmployeeRepository
	employments repositories.EmploymentRepository
	secret      []byte
	tokenTTL    time.Duration
	denylist    *redis.Client
	log         *logrus.Entry
}

// NewSessionService creates a new SessionService. denylist may be nil,
// in which case revocation is a no-op and tokens stay valid until
// expiry.
func NewSessionService(
	employees repositories.EmployeeRepository,
	employments repositories.EmploymentRepository,
	jwtSecret string,
	tokenTTL time.Duration,
	denylist *redis.Client,
	log *logrus.Entry,
) *SessionService {
	return &SessionService{
		employees:   employees,
		employments: employments,
		secret:      []byte(jwtSecret),
		tokenTTL:    tokenTTL,
		denylist:    denylist,
		log:         log,
	}
}

// BuildClaim derives a fresh claim from current store state. With a
// restaurant id the membership is resolved via RoleOf, so a non-member
// fails Forbidden here.
func (s *SessionService) BuildClaim(employeePublicID string, restaurantPublicID *string) (Claim, error) {
	employee, err := s.employees.GetByPublicID(employeePublicID)
	if err != nil {
		return Claim{}, err
	}

	claim := Claim{ID: employee.PublicID}
	if restaurantPublicID != nil {
		role, err := s.employments.RoleOf(employee.PublicID, *restaurantPublicID)
		if err != nil {
			return Claim{}, err
		}
		claim.Restaurant = &RestaurantClaim{ID: *restaurantPublicID, Role: role}
	}
	return claim, nil
}

// IssueToken signs the claim into a token with a fresh jti.
func (s *SessionService) IssueToken(claim Claim) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		ID:         claim.ID,
		Restaurant: claim.Restaurant,
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.New().String(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.tokenTTL).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperrors.Internal("failed to sign token", err)
	}
	return signed, nil
}

// Refresh rebuilds the claim from current server state and issues a
// superseding token. Called after any mutation that could change the
// holder's identity or role.
func (s *SessionService) Refresh(employeePublicID string, restaurantPublicID *string) (string, Claim, error) {
	claim, err := s.BuildClaim(employeePublicID, restaurantPublicID)
	if err != nil {
		return "", Claim{}, err
	}
	token, err := s.IssueToken(claim)
	if err != nil {
		return "", Claim{}, err
	}
	return token, claim, nil
}

// Validate parses and verifies a token and checks the denylist when one
// is configured.
func (s *SessionService) Validate(ctx context.Context, tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}

	if s.denylist != nil && claims.Id != "" {
		denied, err := s.denylist.Exists(ctx, denyKey(claims.Id)).Result()
		if err != nil {
			return nil, apperrors.Internal("failed to check token revocation", err)
		}
		if denied > 0 {
			return nil, apperrors.Unauthorized("token revoked")
		}
	}
	return claims, nil
}

// Revoke denies the presenting token for its remaining validity. A
// no-op without a configured denylist: superseded tokens then simply
// age out within the bounded TTL.
func (s *SessionService) Revoke(ctx context.Context, claims *TokenClaims) error {
	if s.denylist == nil || claims == nil || claims.Id == "" {
		return nil
	}

	remaining := time.Until(time.Unix(claims.ExpiresAt, 0))
	if remaining <= 0 {
		return nil
	}
	if err := s.denylist.Set(ctx, denyKey(claims.Id), "1", remaining).Err(); err != nil {
		return apperrors.Internal("failed to revoke token", err)
	}
	s.log.WithField("jti", claims.Id).Info("token revoked")
	return nil
}

func denyKey(jti string) string {
	return "session:denied:" + jti
}

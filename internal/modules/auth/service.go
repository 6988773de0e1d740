package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rates-and-booking/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

// ServiceInterface defines the contract for the auth service.
type ServiceInterface interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
}

// service authenticates the single admin account configured at startup.
// There is no user table; rate cards and bookings belong to one operations
// team.
type service struct {
	adminEmail string
	adminHash  string
	jwtSecret  []byte
	now        func() time.Time
}

func NewService(adminEmail, adminPasswordHash, jwtSecret string) ServiceInterface {
	return &service{
		adminEmail: adminEmail,
		adminHash:  adminPasswordHash,
		jwtSecret:  []byte(jwtSecret),
		now:        time.Now,
	}
}

// Login checks the credentials against the configured bcrypt hash and issues
// a signed admin token.
func (s *service) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if !strings.EqualFold(req.Email, s.adminEmail) {
		return nil, models.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.adminHash), []byte(req.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	expiresAt := s.now().Add(tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  s.adminEmail,
		"role": "admin",
		"iat":  s.now().Unix(),
		"exp":  expiresAt.Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &models.LoginResponse{Token: signed, ExpiresAt: expiresAt}, nil
}

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"rates-and-booking/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func newTestService(t *testing.T, password string) ServiceInterface {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	svc := NewService("admin@example.com", string(hash), testSecret).(*service)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestLoginIssuesAdminToken(t *testing.T) {
	svc := newTestService(t, "s3cret")

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "Admin@Example.com", Password: "s3cret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	token, err := jwt.Parse(resp.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithoutClaimsValidation())
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["role"] != "admin" {
		t.Errorf("role = %v; want admin", claims["role"])
	}
	if claims["sub"] != "admin@example.com" {
		t.Errorf("sub = %v; want admin@example.com", claims["sub"])
	}
	wantExp := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	if !resp.ExpiresAt.Equal(wantExp) {
		t.Errorf("expires = %v; want %v", resp.ExpiresAt, wantExp)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService(t, "s3cret")

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@example.com", Password: "wrong"})
	if !errors.Is(err, models.ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v; want ErrInvalidCredentials", err)
	}

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "someone@example.com", Password: "s3cret"})
	if !errors.Is(err, models.ErrInvalidCredentials) {
		t.Errorf("wrong email: err = %v; want ErrInvalidCredentials", err)
	}
}

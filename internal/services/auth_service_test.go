package services

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func testSigner(email string, ttl time.Duration) (string, error) {
	return "token-for-" + email, nil
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(h)
}

func TestLoginSuccess(t *testing.T) {
	svc := NewAuthService("Admin@Lab.example", mustHash(t, "listen123"), testSigner, time.Hour)
	res, err := svc.Login("admin@lab.example", "listen123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token != "token-for-admin@lab.example" {
		t.Fatalf("token = %q", res.Token)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewAuthService("admin@lab.example", mustHash(t, "listen123"), testSigner, time.Hour)
	_, err := svc.Login("admin@lab.example", "wrong")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := NewAuthService("admin@lab.example", mustHash(t, "listen123"), testSigner, time.Hour)
	_, err := svc.Login("other@lab.example", "listen123")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	svc := NewAuthService("", "", testSigner, time.Hour)
	if svc.Enabled() {
		t.Fatal("account should be disabled")
	}
	_, err := svc.Login("admin@lab.example", "x")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

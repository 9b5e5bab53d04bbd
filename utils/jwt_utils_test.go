package utils

import (
	"strings"
	"testing"

	"github.com/chiragvadhavana/shopdeck-monitoring-api/models"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &models.User{ID: 42, Email: "ops@example.com"}

	token, err := GenerateJWT(user)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	claims, err := ValidateJWT(token)
	if err != nil {
		t.Fatalf("ValidateJWT() error = %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("claims.UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "ops@example.com" {
		t.Errorf("claims.Email = %q, want %q", claims.Email, "ops@example.com")
	}
	if claims.Issuer != "shopdeck-monitoring-api" {
		t.Errorf("claims.Issuer = %q", claims.Issuer)
	}
}

func TestValidateJWTRejectsTampered(t *testing.T) {
	token, err := GenerateJWT(&models.User{ID: 1, Email: "a@example.com"})
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d segments, want 3", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + ".AAAA" + parts[2][4:]

	if _, err := ValidateJWT(tampered); err == nil {
		t.Error("ValidateJWT() accepted a tampered signature")
	}
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	if _, err := ValidateJWT("not-a-token"); err == nil {
		t.Error("ValidateJWT() accepted a malformed token")
	}
}

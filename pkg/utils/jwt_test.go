package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestValidateTokenStringToUUID(t *testing.T) {
	userID := uuid.New()
	valid := signToken(t, jwt.MapClaims{
		"user_id":  userID.String(),
		"username": "demo",
		"email":    "demo@example.com",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	user, err := ValidateTokenStringToUUID("Bearer "+valid, testSecret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != userID || user.Username != "demo" {
		t.Errorf("unexpected user context: %+v", user)
	}
}

func TestValidateTokenErrors(t *testing.T) {
	expired := signToken(t, jwt.MapClaims{
		"user_id": uuid.NewString(),
		"exp":     time.Now().Add(-time.Hour).Unix(),
	}, testSecret)
	wrongSecret := signToken(t, jwt.MapClaims{
		"user_id": uuid.NewString(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}, "other")
	badUserID := signToken(t, jwt.MapClaims{
		"user_id": "not-a-uuid",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", ErrMissingToken},
		{"expired", expired, ErrExpiredToken},
		{"wrong secret", wrongSecret, ErrInvalidToken},
		{"bad user id", badUserID, ErrInvalidToken},
		{"garbage", "abc.def.ghi", ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateTokenStringToUUID(tt.token, testSecret)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExtractTokenFromHeader(tt.header); got != tt.want {
			t.Errorf("ExtractTokenFromHeader(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestRandomPaletteColor(t *testing.T) {
	allowed := make(map[string]bool, len(CategoryPalette))
	for _, c := range CategoryPalette {
		allowed[c] = true
	}
	for i := 0; i < 50; i++ {
		if c := RandomPaletteColor(); !allowed[c] {
			t.Fatalf("color %q not in palette", c)
		}
	}
}

package auth

import (
	"testing"
	"time"
)

func TestGenerateAndValidateToken(t *testing.T) {
	tm := NewTokenManager("test-secret", "dukapos-test")

	token, err := tm.GenerateToken(7, "mary", "admin", time.Hour)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := tm.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "mary" || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Issuer != "dukapos-test" {
		t.Fatalf("expected issuer dukapos-test, got %q", claims.Issuer)
	}
}

func TestGenerateTokenRequiresIdentity(t *testing.T) {
	tm := NewTokenManager("test-secret", "")

	if _, err := tm.GenerateToken(0, "mary", "user", time.Hour); err == nil {
		t.Fatal("expected error for zero user id")
	}
	if _, err := tm.GenerateToken(1, "", "user", time.Hour); err == nil {
		t.Fatal("expected error for empty username")
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", "").GenerateToken(1, "mary", "user", time.Hour)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := NewTokenManager("secret-b", "").ValidateToken(token); err == nil {
		t.Fatal("expected validation failure with wrong secret")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	tm := NewTokenManager("test-secret", "")

	token, err := tm.GenerateToken(1, "mary", "user", -time.Minute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := tm.ValidateToken(token); err == nil {
		t.Fatal("expected validation failure for expired token")
	}
}

func TestExtractToken(t *testing.T) {
	token, err := ExtractToken("Bearer abc.def.ghi")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if token != "abc.def.ghi" {
		t.Fatalf("unexpected token %q", token)
	}

	for _, header := range []string{"", "abc.def.ghi", "Basic abc", "Bearer a b"} {
		if _, err := ExtractToken(header); err == nil {
			t.Fatalf("expected error for header %q", header)
		}
	}
}

package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("secret", Claims{UserID: "u-1", Role: RoleManager}, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != "u-1" || claims.Role != RoleManager {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", Claims{UserID: "u-1", Role: RoleEmployee}, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := ParseToken("other", token); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken("secret", Claims{UserID: "u-1", Role: RoleEmployee}, -time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := ParseToken("secret", token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestSecretHashRoundTrip(t *testing.T) {
	hash, err := HashSecret("station-credential")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CheckSecret(hash, "station-credential"); err != nil {
		t.Fatalf("expected matching secret, got %v", err)
	}
	if err := CheckSecret(hash, "tampered"); err == nil {
		t.Fatal("expected mismatch error")
	}
}

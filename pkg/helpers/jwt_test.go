package helpers_test

import (
	"testing"
	"time"

	"github.com/oksasatya/volunteer-hub/pkg/helpers"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := helpers.NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)

	access, exp, err := m.GenerateAccessToken("u1", "ADMIN", "s1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expiry %s already passed", exp)
	}
	claims, err := m.ParseAccessToken(access)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "u1" || claims.Role != "ADMIN" || claims.SessionID != "s1" {
		t.Fatalf("claims = %+v", claims)
	}

	if _, err := m.ParseRefreshToken(access); err == nil {
		t.Fatal("access token must not verify with the refresh secret")
	}
}

func TestJWTManager_Expired(t *testing.T) {
	m := helpers.NewJWTManager("a", "r", -time.Minute, time.Hour)
	tok, _, err := m.GenerateAccessToken("u1", "VOLUNTEER", "s1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.ParseAccessToken(tok); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

package service

import "testing"

func TestSessionTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("secret")
	token, err := svc.GenerateSessionToken("s-1", "ana")
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}

	claims, err := svc.ValidateSessionToken(token)
	if err != nil {
		t.Fatalf("ValidateSessionToken: %v", err)
	}
	if claims.SessionID != "s-1" || claims.PlayerName != "ana" {
		t.Fatalf("claims = %+v", claims)
	}

	if _, err := NewTokenService("other").ValidateSessionToken(token); err != ErrInvalidToken {
		t.Fatalf("foreign secret: err = %v, want ErrInvalidToken", err)
	}
	if _, err := svc.ValidateSessionToken("not-a-token"); err != ErrInvalidToken {
		t.Fatalf("garbage: err = %v, want ErrInvalidToken", err)
	}
}

package jwtauth

import (
	"context"
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	svc := New("test-secret", time.Hour)

	token, err := svc.Issue("user-1", "admin1", "admin")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := svc.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.UserID != "user-1" || claims.Username != "admin1" || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %#v", claims)
	}
	if !claims.IsAdmin() {
		t.Fatalf("expected admin claims")
	}
}

func TestVerify_RejectsExpired(t *testing.T) {
	svc := New("test-secret", time.Hour)

	issued := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	token, err := svc.Issue("user-1", "admin1", "admin")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// 61 minutos después: el token de 1h ya venció.
	svc.now = func() time.Time { return issued.Add(61 * time.Minute) }

	if _, err := svc.Verify(context.Background(), token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestVerify_RejectsWrongSecret(t *testing.T) {
	issuer := New("secret-a", time.Hour)
	verifier := New("secret-b", time.Hour)

	token, err := issuer.Issue("user-1", "admin1", "admin")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := verifier.Verify(context.Background(), token); err == nil {
		t.Fatalf("expected token signed with other secret to be rejected")
	}
}

func TestVerify_RejectsGarbage(t *testing.T) {
	svc := New("test-secret", time.Hour)
	if _, err := svc.Verify(context.Background(), "not-a-token"); err == nil {
		t.Fatalf("expected garbage token to be rejected")
	}
}

package auth

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func newTestSessionService(secret string) *SessionService {
	return NewSessionService(SessionConfig{SecretKey: secret, Expiration: time.Hour})
}

func TestSessionIssueAndVerify(t *testing.T) {
	svc := newTestSessionService("test-secret")

	token, expiresAt, err := svc.Issue(7, "alice", RoleUser)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Errorf("expiresAt %v is not in the future", expiresAt)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != 7 || claims.Username != "alice" || claims.Role != RoleUser {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestSessionVerifyRejectsForeignSecret(t *testing.T) {
	token, _, err := newTestSessionService("one").Issue(0, "admin", RoleAdmin)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := newTestSessionService("two").Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestSessionVerifyExpired(t *testing.T) {
	svc := newTestSessionService("secret")
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := svc.Issue(1, "bob", RoleUser)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	svc.now = time.Now
	if _, err := svc.Verify(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Verify() error = %v, want ErrExpiredToken", err)
	}
}

func TestSessionVerifyGarbage(t *testing.T) {
	svc := newTestSessionService("secret")
	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.Verify(token); err == nil {
			t.Errorf("Verify(%q) succeeded, want error", token)
		}
	}
}

func TestCheckSecret(t *testing.T) {
	BcryptCost = bcrypt.MinCost
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	tests := []struct {
		name       string
		configured string
		candidate  string
		want       bool
	}{
		{"plain match", "admin123", "admin123", true},
		{"plain mismatch", "admin123", "admin124", false},
		{"hash match", hash, "s3cret", true},
		{"hash mismatch", hash, "S3cret", false},
		{"empty candidate", "admin123", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckSecret(tt.configured, tt.candidate); got != tt.want {
				t.Errorf("CheckSecret() = %v, want %v", got, tt.want)
			}
		})
	}
}

package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestAuth(t *testing.T, initialToken string, clock Clock) *AuthService {
	t.Helper()
	auth, err := NewAuthService(testSecret, initialToken, clock, discardLogger())
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	return auth
}

func TestBootstrapWithoutTokenIsAnonymous(t *testing.T) {
	auth := newTestAuth(t, "", nil)

	identity, err := auth.Bootstrap()
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if !identity.Anonymous {
		t.Fatal("expected anonymous identity")
	}
	if _, err := uuid.Parse(identity.UserID); err != nil {
		t.Fatalf("expected uuid user id, got %q", identity.UserID)
	}
}

func TestBootstrapUsesPreissuedToken(t *testing.T) {
	issuer := newTestAuth(t, "", nil)
	token, err := issuer.IssuePreissued("paciente-1", 0)
	if err != nil {
		t.Fatalf("IssuePreissued: %v", err)
	}

	identity, err := newTestAuth(t, token, nil).Bootstrap()
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if identity.UserID != "paciente-1" || identity.Anonymous {
		t.Fatalf("unexpected identity %+v", identity)
	}
}

func TestBootstrapFallsBackOnRejectedToken(t *testing.T) {
	other, err := NewAuthService("another-secret-another-secret-0000", "", nil, discardLogger())
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	foreign, err := other.IssuePreissued("intruder", 0)
	if err != nil {
		t.Fatalf("IssuePreissued: %v", err)
	}

	for _, token := range []string{"not-a-jwt", foreign} {
		identity, err := newTestAuth(t, token, nil).Bootstrap()
		if err != nil {
			t.Fatalf("Bootstrap: %v", err)
		}
		if !identity.Anonymous || identity.UserID == "intruder" {
			t.Fatalf("expected anonymous fallback, got %+v", identity)
		}
	}
}

func TestBootstrapFailsWhenIdentityCannotBeCreated(t *testing.T) {
	auth := newTestAuth(t, "", nil)
	auth.newID = func() (uuid.UUID, error) { return uuid.Nil, errors.New("entropy exhausted") }

	if _, err := auth.Bootstrap(); !errors.Is(err, ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
}

func TestSessionRoundTripAndPurpose(t *testing.T) {
	auth := newTestAuth(t, "", nil)

	token, err := auth.IssueSession(Identity{UserID: "u-1", Anonymous: true})
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}
	identity, err := auth.ParseSession(token)
	if err != nil {
		t.Fatalf("ParseSession: %v", err)
	}
	if identity.UserID != "u-1" || !identity.Anonymous {
		t.Fatalf("unexpected identity %+v", identity)
	}

	preissued, err := auth.IssuePreissued("u-1", 0)
	if err != nil {
		t.Fatalf("IssuePreissued: %v", err)
	}
	if _, err := auth.ParseSession(preissued); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("pre-issued token must not pass as a session, got %v", err)
	}
}

func TestSessionExpires(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	current := now
	clock := ClockFunc(func() time.Time { return current })
	auth := newTestAuth(t, "", clock)

	token, err := auth.IssueSession(Identity{UserID: "u-1"})
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}

	current = now.Add(SessionTokenTTL + time.Minute)
	if _, err := auth.ParseSession(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired session to be rejected, got %v", err)
	}
}

func TestNewAuthServiceRequiresSecret(t *testing.T) {
	if _, err := NewAuthService("  ", "", nil, discardLogger()); !errors.Is(err, ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
	if _, err := newTestAuth(t, "", nil).IssuePreissued(" ", time.Hour); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

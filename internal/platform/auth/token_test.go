package auth

import (
	"testing"
	"time"
)

func testIssuer(ttl time.Duration) *TokenIssuer {
	return NewTokenIssuer([]byte("test-secret"), ttl)
}

func TestIssueAndVerify(t *testing.T) {
	issuer := testIssuer(24 * time.Hour)

	p := Principal{
		Email:        "clinic@example.com",
		FacilityName: "Test Hospital",
		FacilityType: "Hospital",
	}

	token, err := issuer.Issue(p)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	got, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if got != p {
		t.Errorf("expected principal %+v, got %+v", p, got)
	}
}

func TestVerify_ExpiredToken(t *testing.T) {
	issuer := testIssuer(-time.Hour)

	token, err := issuer.Issue(Principal{Email: "a@b.com", FacilityName: "Clinic"})
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	if _, err := issuer.Verify(token); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerify_WrongKey(t *testing.T) {
	issuer := testIssuer(time.Hour)
	other := NewTokenIssuer([]byte("other-secret"), time.Hour)

	token, err := issuer.Issue(Principal{Email: "a@b.com", FacilityName: "Clinic"})
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	if _, err := other.Verify(token); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for wrong key, got %v", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	issuer := testIssuer(time.Hour)
	if _, err := issuer.Verify("not-a-jwt"); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

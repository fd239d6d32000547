package facility

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/patientconnect/api/internal/platform/auth"
)

// mockRepo is an in-memory Repository keyed by email and facility name.
type mockRepo struct {
	accounts map[string]*Account // by email
	registry map[string]*RegistryEntry
	fail     error
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		accounts: make(map[string]*Account),
		registry: make(map[string]*RegistryEntry),
	}
}

func (m *mockRepo) CreateAccount(_ context.Context, acct *Account) error {
	if m.fail != nil {
		return m.fail
	}
	acct.CreatedAt = time.Now().UTC()
	m.accounts[acct.Email] = acct
	return nil
}

func (m *mockRepo) AccountByEmail(_ context.Context, email string) (*Account, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	if acct, ok := m.accounts[email]; ok {
		return acct, nil
	}
	return nil, ErrNotFound
}

func (m *mockRepo) AccountByFacility(_ context.Context, name string) (*Account, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	for _, acct := range m.accounts {
		if acct.FacilityName == name {
			return acct, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) RegistryLookup(_ context.Context, name string) (*RegistryEntry, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	if entry, ok := m.registry[name]; ok {
		return entry, nil
	}
	return nil, ErrNotFound
}

func (m *mockRepo) RegistryAdd(_ context.Context, entry *RegistryEntry) error {
	if m.fail != nil {
		return m.fail
	}
	entry.CreatedAt = time.Now().UTC()
	m.registry[entry.FacilityName] = entry
	return nil
}

func newTestService(repo Repository) *Service {
	issuer := auth.NewTokenIssuer([]byte("test-secret-at-least-32-bytes-long"), 24*time.Hour)
	return NewService(repo, issuer)
}

func activeRegistry(repo *mockRepo, name, typ string) {
	repo.registry[name] = &RegistryEntry{FacilityName: name, FacilityType: typ, Status: RegistryStatusActive}
}

var validReq = RegisterRequest{
	Email:        "clinic@example.org",
	Password:     "s3cure-pass",
	FacilityName: "Mercy General",
}

func TestRegister(t *testing.T) {
	repo := newMockRepo()
	activeRegistry(repo, "Mercy General", "Hospital")
	svc := newTestService(repo)

	acct, err := svc.Register(context.Background(), validReq)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if acct.FacilityType != "Hospital" {
		t.Errorf("facility_type = %q, want stamped from registry", acct.FacilityType)
	}
	if acct.PasswordHash == validReq.Password {
		t.Error("password stored in the clear")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(validReq.Password)); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestRegisterUnknownFacility(t *testing.T) {
	svc := newTestService(newMockRepo())
	_, err := svc.Register(context.Background(), validReq)
	assertValidationField(t, err, "facility_name")
}

func TestRegisterInactiveFacility(t *testing.T) {
	repo := newMockRepo()
	repo.registry["Mercy General"] = &RegistryEntry{
		FacilityName: "Mercy General", FacilityType: "Hospital", Status: "Suspended",
	}
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), validReq)
	assertValidationField(t, err, "facility_name")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newMockRepo()
	activeRegistry(repo, "Mercy General", "Hospital")
	activeRegistry(repo, "Hope Clinic", "Clinic")
	svc := newTestService(repo)

	if _, err := svc.Register(context.Background(), validReq); err != nil {
		t.Fatalf("first register: %v", err)
	}

	dup := validReq
	dup.FacilityName = "Hope Clinic"
	_, err := svc.Register(context.Background(), dup)
	assertValidationField(t, err, "email")
}

func TestRegisterDuplicateFacility(t *testing.T) {
	repo := newMockRepo()
	activeRegistry(repo, "Mercy General", "Hospital")
	svc := newTestService(repo)

	if _, err := svc.Register(context.Background(), validReq); err != nil {
		t.Fatalf("first register: %v", err)
	}

	dup := validReq
	dup.Email = "other@example.org"
	_, err := svc.Register(context.Background(), dup)
	assertValidationField(t, err, "facility_name")
}

func TestRegisterPayloadValidation(t *testing.T) {
	svc := newTestService(newMockRepo())
	tests := []struct {
		name  string
		req   RegisterRequest
		field string
	}{
		{"missing email", RegisterRequest{Password: "s3cure-pass", FacilityName: "Mercy General"}, "email"},
		{"bad email", RegisterRequest{Email: "not-an-email", Password: "s3cure-pass", FacilityName: "Mercy General"}, "email"},
		{"short password", RegisterRequest{Email: "a@b.org", Password: "short", FacilityName: "Mercy General"}, "password"},
		{"missing facility", RegisterRequest{Email: "a@b.org", Password: "s3cure-pass"}, "facility_name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.req)
			assertValidationField(t, err, tt.field)
		})
	}
}

func TestLogin(t *testing.T) {
	repo := newMockRepo()
	activeRegistry(repo, "Mercy General", "Hospital")
	svc := newTestService(repo)

	if _, err := svc.Register(context.Background(), validReq); err != nil {
		t.Fatalf("register: %v", err)
	}

	token, err := svc.Login(context.Background(), validReq.Email, validReq.Password)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	p, err := svc.issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if p.FacilityName != "Mercy General" || p.FacilityType != "Hospital" {
		t.Errorf("token carries %q/%q, want facility identity", p.FacilityName, p.FacilityType)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	repo := newMockRepo()
	activeRegistry(repo, "Mercy General", "Hospital")
	svc := newTestService(repo)

	if _, err := svc.Register(context.Background(), validReq); err != nil {
		t.Fatalf("register: %v", err)
	}

	tests := []struct {
		name            string
		email, password string
	}{
		{"unknown email", "nobody@example.org", validReq.Password},
		{"wrong password", validReq.Email, "wrong-password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.email, tt.password)
			var aerr *AuthError
			if !errors.As(err, &aerr) {
				t.Fatalf("want *AuthError, got %v", err)
			}
		})
	}
}

func TestLoginEmailCaseInsensitive(t *testing.T) {
	repo := newMockRepo()
	activeRegistry(repo, "Mercy General", "Hospital")
	svc := newTestService(repo)

	if _, err := svc.Register(context.Background(), validReq); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Login(context.Background(), "  CLINIC@Example.org ", validReq.Password); err != nil {
		t.Fatalf("login with differently-cased email: %v", err)
	}
}

func TestRegisterUpstreamFailure(t *testing.T) {
	repo := newMockRepo()
	repo.fail = &UpstreamError{Op: "registry lookup", Err: errors.New("connection refused")}
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), validReq)
	var uerr *UpstreamError
	if !errors.As(err, &uerr) {
		t.Fatalf("want *UpstreamError, got %v", err)
	}
}

func assertValidationField(t *testing.T, err error, field string) {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want *ValidationError, got %v", err)
	}
	if verr.Field != field {
		t.Errorf("offending field = %q, want %q", verr.Field, field)
	}
}

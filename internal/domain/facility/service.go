package facility

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/patientconnect/api/internal/platform/auth"
)

// Service handles facility registration and login.
type Service struct {
	repo   Repository
	issuer *auth.TokenIssuer
}

func NewService(repo Repository, issuer *auth.TokenIssuer) *Service {
	return &Service{repo: repo, issuer: issuer}
}

// Register creates a facility account. The facility must appear in the
// regulatory registry with an Active status; its type is stamped from the
// registry entry. Email and facility name are each unique across accounts.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Account, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FacilityName = strings.TrimSpace(req.FacilityName)

	entry, err := s.repo.RegistryLookup(ctx, req.FacilityName)
	if errors.Is(err, ErrNotFound) {
		return nil, &ValidationError{Field: "facility_name", Reason: "not found in the facility registry"}
	}
	if err != nil {
		return nil, err
	}
	if !entry.Active() {
		return nil, &ValidationError{Field: "facility_name", Reason: "registry status is not Active"}
	}

	if _, err := s.repo.AccountByEmail(ctx, req.Email); err == nil {
		return nil, &ValidationError{Field: "email", Reason: "already registered"}
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if _, err := s.repo.AccountByFacility(ctx, req.FacilityName); err == nil {
		return nil, &ValidationError{Field: "facility_name", Reason: "already registered"}
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	acct := &Account{
		Email:        req.Email,
		FacilityName: req.FacilityName,
		FacilityType: entry.FacilityType,
		PasswordHash: string(hash),
	}
	if err := s.repo.CreateAccount(ctx, acct); err != nil {
		return nil, err
	}
	return acct, nil
}

// Login verifies the credentials and issues a bearer token carrying the
// facility identity. Unknown email and wrong password both yield the same
// *AuthError.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	acct, err := s.repo.AccountByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return "", &AuthError{Reason: "incorrect email or password"}
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return "", &AuthError{Reason: "incorrect email or password"}
	}

	return s.issuer.Issue(auth.Principal{
		Email:        acct.Email,
		FacilityName: acct.FacilityName,
		FacilityType: acct.FacilityType,
	})
}

package patient

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/patientconnect/api/internal/platform/auth"
)

// Service implements cross-facility visit aggregation and ingestion on top of
// the external record store. It is stateless: every call is an independent
// unit of work and all shared state lives in the store.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// FindVisits returns the patient's full visit history across all contributing
// facilities, oldest first with ingestion order breaking visit_date ties.
// A patient with no prior visits yields an empty list.
func (s *Service) FindVisits(ctx context.Context, key IdentityKey) ([]*VisitRecord, error) {
	visits, err := s.repo.QueryByIdentity(ctx, key)
	if err != nil {
		return nil, err
	}
	if visits == nil {
		visits = []*VisitRecord{}
	}
	return visits, nil
}

// SearchVisits resolves the search payload and returns the matching visit
// history. Validation failures surface as *ValidationError.
func (s *Service) SearchVisits(ctx context.Context, search VisitSearch) ([]*VisitRecord, error) {
	key, err := ResolveIdentity(search)
	if err != nil {
		return nil, err
	}
	return s.FindVisits(ctx, key)
}

// SubmitVisit validates and appends a new visit record under the resolved
// identity, stamping it with the submitting facility's identity and the
// server-side visit date. The record is immediately visible to subsequent
// FindVisits calls for the same key.
func (s *Service) SubmitVisit(ctx context.Context, search VisitSearch, details VisitDetails, principal auth.Principal) (*VisitRecord, error) {
	key, err := ResolveIdentity(search)
	if err != nil {
		return nil, err
	}

	if err := details.Validate(); err != nil {
		return nil, err
	}

	rec := &VisitRecord{
		ID:                  uuid.New(),
		FacilityName:        principal.FacilityName,
		FacilityType:        principal.FacilityType,
		VisitDate:           s.now().UTC(),
		PatientBio:          details.PatientBio,
		VisitVitals:         details.VisitVitals,
		VisitClinicalNotes:  details.VisitClinicalNotes,
		VisitInvestigations: details.VisitInvestigations,
		VisitLabs:           details.VisitLabs,
		VisitMedication:     details.VisitMedication,
	}

	return s.repo.Append(ctx, key, rec)
}

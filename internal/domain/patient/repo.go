package patient

import (
	"context"
)

// Repository is the external record store holding every facility's visit
// submissions. Append must be atomic per call: a record is either fully
// visible to concurrent queries or not visible at all, and the store assigns
// the ingestion sequence number without duplication under concurrent appends
// for the same identity.
type Repository interface {
	// QueryByIdentity returns every visit record grouped under the key,
	// ordered by visit_date ascending then ingestion sequence ascending.
	// An empty result is a valid outcome, not an error.
	QueryByIdentity(ctx context.Context, key IdentityKey) ([]*VisitRecord, error)

	// Append persists a new visit record under the key and returns it with
	// its assigned ingestion sequence number.
	Append(ctx context.Context, key IdentityKey, rec *VisitRecord) (*VisitRecord, error)
}

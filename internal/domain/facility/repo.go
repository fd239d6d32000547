package facility

import (
	"context"
)

// Repository persists facility accounts and reads the regulatory registry.
// Lookups return ErrNotFound when no row matches; transport failures are
// wrapped in *UpstreamError.
type Repository interface {
	CreateAccount(ctx context.Context, acct *Account) error
	AccountByEmail(ctx context.Context, email string) (*Account, error)
	AccountByFacility(ctx context.Context, facilityName string) (*Account, error)

	RegistryLookup(ctx context.Context, facilityName string) (*RegistryEntry, error)
	RegistryAdd(ctx context.Context, entry *RegistryEntry) error
}

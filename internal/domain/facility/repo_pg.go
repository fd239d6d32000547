package facility

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

// NewRepo returns a Postgres-backed account and registry store.
func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) CreateAccount(ctx context.Context, acct *Account) error {
	if acct.ID == uuid.Nil {
		acct.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO facility_account (id, email, facility_name, facility_type, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		acct.ID, acct.Email, acct.FacilityName, acct.FacilityType, acct.PasswordHash,
	).Scan(&acct.CreatedAt)
	if err != nil {
		return &UpstreamError{Op: "create account", Err: err}
	}
	return nil
}

func (r *repoPG) AccountByEmail(ctx context.Context, email string) (*Account, error) {
	return r.account(ctx, `email = $1`, email)
}

func (r *repoPG) AccountByFacility(ctx context.Context, facilityName string) (*Account, error) {
	return r.account(ctx, `facility_name = $1`, facilityName)
}

func (r *repoPG) account(ctx context.Context, where string, arg any) (*Account, error) {
	var acct Account
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, facility_name, facility_type, password_hash, created_at
		FROM facility_account
		WHERE `+where,
		arg,
	).Scan(&acct.ID, &acct.Email, &acct.FacilityName, &acct.FacilityType, &acct.PasswordHash, &acct.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &UpstreamError{Op: "lookup account", Err: err}
	}
	return &acct, nil
}

func (r *repoPG) RegistryLookup(ctx context.Context, facilityName string) (*RegistryEntry, error) {
	var entry RegistryEntry
	err := r.pool.QueryRow(ctx, `
		SELECT id, facility_name, facility_type, status, created_at
		FROM facility_registry
		WHERE facility_name = $1`,
		facilityName,
	).Scan(&entry.ID, &entry.FacilityName, &entry.FacilityType, &entry.Status, &entry.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &UpstreamError{Op: "registry lookup", Err: err}
	}
	return &entry, nil
}

func (r *repoPG) RegistryAdd(ctx context.Context, entry *RegistryEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Status == "" {
		entry.Status = RegistryStatusActive
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO facility_registry (id, facility_name, facility_type, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		entry.ID, entry.FacilityName, entry.FacilityType, entry.Status,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return &UpstreamError{Op: "registry add", Err: err}
	}
	return nil
}

package patient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

// NewRepo returns a Postgres-backed record store.
func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const visitCols = `seq, id, facility_name, facility_type, visit_date,
	patient_bio, visit_vitals, visit_clinical_notes,
	visit_investigations, visit_labs, visit_medication, created_at`

func (r *repoPG) QueryByIdentity(ctx context.Context, key IdentityKey) ([]*VisitRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+visitCols+`
		FROM patient_visit
		WHERE id_number = $1 AND is_child = $2 AND patient_name = $3 AND parent_name = $4
		ORDER BY visit_date ASC, seq ASC`,
		key.IDNumber, key.IsChild, key.Name, key.ParentName,
	)
	if err != nil {
		return nil, &UpstreamError{Op: "query", Err: err}
	}
	defer rows.Close()

	var visits []*VisitRecord
	for rows.Next() {
		rec, err := scanVisit(rows)
		if err != nil {
			return nil, &UpstreamError{Op: "query", Err: err}
		}
		visits = append(visits, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &UpstreamError{Op: "query", Err: err}
	}
	return visits, nil
}

func (r *repoPG) Append(ctx context.Context, key IdentityKey, rec *VisitRecord) (*VisitRecord, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	bio, err := json.Marshal(rec.PatientBio)
	if err != nil {
		return nil, fmt.Errorf("marshal patient_bio: %w", err)
	}
	vitals, err := json.Marshal(rec.VisitVitals)
	if err != nil {
		return nil, fmt.Errorf("marshal visit_vitals: %w", err)
	}
	investigations, err := json.Marshal(rec.VisitInvestigations)
	if err != nil {
		return nil, fmt.Errorf("marshal visit_investigations: %w", err)
	}
	labs, err := json.Marshal(rec.VisitLabs)
	if err != nil {
		return nil, fmt.Errorf("marshal visit_labs: %w", err)
	}
	medication, err := json.Marshal(rec.VisitMedication)
	if err != nil {
		return nil, fmt.Errorf("marshal visit_medication: %w", err)
	}

	// Single INSERT: the append is atomic and BIGSERIAL hands out the
	// ingestion sequence number without duplication under concurrency.
	err = r.pool.QueryRow(ctx, `
		INSERT INTO patient_visit (
			id, patient_name, id_number, is_child, parent_name,
			facility_name, facility_type, visit_date,
			patient_bio, visit_vitals, visit_clinical_notes,
			visit_investigations, visit_labs, visit_medication
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING seq, created_at`,
		rec.ID, key.Name, key.IDNumber, key.IsChild, key.ParentName,
		rec.FacilityName, rec.FacilityType, rec.VisitDate,
		bio, vitals, rec.VisitClinicalNotes,
		investigations, labs, medication,
	).Scan(&rec.Seq, &rec.CreatedAt)
	if err != nil {
		return nil, &UpstreamError{Op: "append", Err: err}
	}

	return rec, nil
}

func scanVisit(rows pgx.Rows) (*VisitRecord, error) {
	var rec VisitRecord
	var bio, vitals, investigations, labs, medication []byte

	err := rows.Scan(
		&rec.Seq, &rec.ID, &rec.FacilityName, &rec.FacilityType, &rec.VisitDate,
		&bio, &vitals, &rec.VisitClinicalNotes,
		&investigations, &labs, &medication, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(bio, &rec.PatientBio); err != nil {
		return nil, fmt.Errorf("unmarshal patient_bio: %w", err)
	}
	if err := json.Unmarshal(vitals, &rec.VisitVitals); err != nil {
		return nil, fmt.Errorf("unmarshal visit_vitals: %w", err)
	}
	if err := json.Unmarshal(investigations, &rec.VisitInvestigations); err != nil {
		return nil, fmt.Errorf("unmarshal visit_investigations: %w", err)
	}
	if err := json.Unmarshal(labs, &rec.VisitLabs); err != nil {
		return nil, fmt.Errorf("unmarshal visit_labs: %w", err)
	}
	if err := json.Unmarshal(medication, &rec.VisitMedication); err != nil {
		return nil, fmt.Errorf("unmarshal visit_medication: %w", err)
	}

	return &rec, nil
}

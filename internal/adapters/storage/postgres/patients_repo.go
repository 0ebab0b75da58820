package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"safemed/internal/domain/patients"
)

// Esquema esperado:
//
//	CREATE TABLE patients (
//	    id                TEXT PRIMARY KEY,
//	    tenant_id         TEXT NOT NULL DEFAULT '',
//	    full_name         TEXT NOT NULL,
//	    birth_date        DATE,
//	    sex               TEXT NOT NULL DEFAULT '',
//	    blood_type        TEXT NOT NULL DEFAULT '',
//	    phone             TEXT NOT NULL DEFAULT '',
//	    email             TEXT NOT NULL DEFAULT '',
//	    emergency_contact TEXT NOT NULL DEFAULT '',
//	    notes             TEXT NOT NULL DEFAULT '',
//	    created_at        TIMESTAMPTZ NOT NULL,
//	    updated_at        TIMESTAMPTZ NOT NULL
//	);
type PatientsRepo struct {
	db *sql.DB
}

func NewPatientsRepo(db *sql.DB) *PatientsRepo {
	return &PatientsRepo{db: db}
}

func (r *PatientsRepo) Create(ctx context.Context, p patients.Patient) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO patients (
			id, tenant_id, full_name, birth_date, sex, blood_type,
			phone, email, emergency_contact, notes,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		p.ID,
		p.TenantID,
		p.FullName,
		toNullTime(p.BirthDate),
		string(p.Sex),
		string(p.BloodType),
		p.Phone,
		p.Email,
		p.EmergencyContact,
		p.Notes,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return patients.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *PatientsRepo) GetByID(ctx context.Context, id string) (patients.Patient, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return patients.Patient{}, patients.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, tenant_id, full_name, birth_date, sex, blood_type,
			phone, email, emergency_contact, notes,
			created_at, updated_at
		FROM patients
		WHERE id = $1
	`, id)

	return scanPatient(row)
}

func (r *PatientsRepo) Update(ctx context.Context, p patients.Patient) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE patients
		SET
			full_name = $2,
			birth_date = $3,
			sex = $4,
			blood_type = $5,
			phone = $6,
			email = $7,
			emergency_contact = $8,
			notes = $9,
			updated_at = $10
		WHERE id = $1
	`,
		p.ID,
		p.FullName,
		toNullTime(p.BirthDate),
		string(p.Sex),
		string(p.BloodType),
		p.Phone,
		p.Email,
		p.EmergencyContact,
		p.Notes,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return patients.ErrNotFound
	}
	return nil
}

func (r *PatientsRepo) ListByTenant(ctx context.Context, tenantID string) ([]patients.Patient, error) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, tenant_id, full_name, birth_date, sex, blood_type,
			phone, email, emergency_contact, notes,
			created_at, updated_at
		FROM patients
		WHERE tenant_id = $1
		ORDER BY created_at ASC
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]patients.Patient, 0)
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPatient(row rowScanner) (patients.Patient, error) {
	var p patients.Patient
	var sex, blood string
	var birthDate sql.NullTime

	if err := row.Scan(
		&p.ID,
		&p.TenantID,
		&p.FullName,
		&birthDate,
		&sex,
		&blood,
		&p.Phone,
		&p.Email,
		&p.EmergencyContact,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return patients.Patient{}, patients.ErrNotFound
		}
		return patients.Patient{}, err
	}

	p.Sex = patients.Sex(sex)
	p.BloodType = patients.BloodType(blood)
	if birthDate.Valid {
		t := birthDate.Time
		p.BirthDate = &t
	}

	return p, nil
}

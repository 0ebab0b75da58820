package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"safemed/internal/domain/accessrequests"
)

// Esquema esperado:
//
//	CREATE TABLE access_requests (
//	    id           TEXT PRIMARY KEY,
//	    doctor_id    TEXT NOT NULL,
//	    patient_id   TEXT NOT NULL,
//	    message      TEXT NOT NULL DEFAULT '',
//	    status       TEXT NOT NULL,
//	    requested_at TIMESTAMPTZ NOT NULL,
//	    responded_at TIMESTAMPTZ
//	);
//
//	-- unicidad del pending por par; resuelve la carrera de Create
//	CREATE UNIQUE INDEX access_requests_pending_uniq
//	    ON access_requests (doctor_id, patient_id)
//	    WHERE status = 'pending';
type AccessRequestsRepo struct {
	db *sql.DB
}

func NewAccessRequestsRepo(db *sql.DB) *AccessRequestsRepo {
	return &AccessRequestsRepo{db: db}
}

const uniqueViolation = "23505"

// Create inserta el pedido. El índice único parcial sobre
// (doctor_id, patient_id) WHERE status='pending' hace atómico el chequeo
// de duplicados: el perdedor de una carrera ve ErrDuplicatePending.
func (r *AccessRequestsRepo) Create(ctx context.Context, req accessrequests.AccessRequest) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO access_requests (
			id, doctor_id, patient_id, message,
			status, requested_at, responded_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		req.ID,
		req.DoctorID,
		req.PatientID,
		req.Message,
		string(req.Status),
		req.RequestedAt,
		toNullTime(req.RespondedAt),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return accessrequests.ErrDuplicatePending
		}
		return err
	}
	return nil
}

func (r *AccessRequestsRepo) GetByID(ctx context.Context, id string) (accessrequests.AccessRequest, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return accessrequests.AccessRequest{}, accessrequests.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, doctor_id, patient_id, message,
			status, requested_at, responded_at
		FROM access_requests
		WHERE id = $1
	`, id)

	return scanAccessRequest(row)
}

func (r *AccessRequestsRepo) ListByPatient(ctx context.Context, patientID string) ([]accessrequests.AccessRequest, error) {
	return r.list(ctx, `
		SELECT
			id, doctor_id, patient_id, message,
			status, requested_at, responded_at
		FROM access_requests
		WHERE patient_id = $1
		ORDER BY requested_at DESC
	`, patientID)
}

func (r *AccessRequestsRepo) ListByDoctor(ctx context.Context, doctorID string) ([]accessrequests.AccessRequest, error) {
	return r.list(ctx, `
		SELECT
			id, doctor_id, patient_id, message,
			status, requested_at, responded_at
		FROM access_requests
		WHERE doctor_id = $1
		ORDER BY requested_at DESC
	`, doctorID)
}

// Decide transiciona con un UPDATE condicional sobre el status actual
// (compare-and-set), nunca un read-modify-write. Si no afecta filas,
// distinguimos "no existe" de "ya decidido" con una lectura posterior.
func (r *AccessRequestsRepo) Decide(ctx context.Context, id string, to accessrequests.Status, respondedAt time.Time) (accessrequests.AccessRequest, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE access_requests
		SET status = $2, responded_at = $3
		WHERE id = $1 AND status = 'pending'
		RETURNING
			id, doctor_id, patient_id, message,
			status, requested_at, responded_at
	`, id, string(to), respondedAt)

	req, err := scanAccessRequest(row)
	if err == nil {
		return req, nil
	}
	if !errors.Is(err, accessrequests.ErrNotFound) {
		return accessrequests.AccessRequest{}, err
	}

	// El UPDATE no matcheó: o el pedido no existe, o ya es terminal.
	if _, err := r.GetByID(ctx, id); err != nil {
		return accessrequests.AccessRequest{}, err
	}
	return accessrequests.AccessRequest{}, accessrequests.ErrAlreadyDecided
}

func (r *AccessRequestsRepo) HasApproved(ctx context.Context, doctorID, patientID string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM access_requests
			WHERE doctor_id = $1 AND patient_id = $2 AND status = 'approved'
		)
	`, doctorID, patientID).Scan(&ok)
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (r *AccessRequestsRepo) list(ctx context.Context, query, arg string) ([]accessrequests.AccessRequest, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]accessrequests.AccessRequest, 0)
	for rows.Next() {
		req, err := scanAccessRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccessRequest(row rowScanner) (accessrequests.AccessRequest, error) {
	var req accessrequests.AccessRequest
	var status string
	var respondedAt sql.NullTime

	if err := row.Scan(
		&req.ID,
		&req.DoctorID,
		&req.PatientID,
		&req.Message,
		&status,
		&req.RequestedAt,
		&respondedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return accessrequests.AccessRequest{}, accessrequests.ErrNotFound
		}
		return accessrequests.AccessRequest{}, err
	}

	req.Status = accessrequests.Status(status)
	if respondedAt.Valid {
		t := respondedAt.Time
		req.RespondedAt = &t
	}

	return req, nil
}

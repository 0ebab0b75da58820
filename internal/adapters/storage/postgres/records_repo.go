package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"safemed/internal/domain/records"
)

// Esquema esperado:
//
//	CREATE TABLE record_entries (
//	    id          TEXT PRIMARY KEY,
//	    patient_id  TEXT NOT NULL,
//	    type        TEXT NOT NULL,
//	    occurred_at TIMESTAMPTZ NOT NULL,
//	    recorded_at TIMESTAMPTZ NOT NULL,
//	    title       TEXT NOT NULL DEFAULT '',
//	    notes       TEXT NOT NULL DEFAULT '',
//	    details     JSONB NOT NULL DEFAULT '{}',
//	    actor_type  TEXT NOT NULL,
//	    actor_id    TEXT NOT NULL,
//	    source      TEXT NOT NULL,
//	    status      TEXT NOT NULL
//	);
type RecordsRepo struct {
	db *sql.DB
}

func NewRecordsRepo(db *sql.DB) *RecordsRepo {
	return &RecordsRepo{db: db}
}

func (r *RecordsRepo) Create(ctx context.Context, e records.RecordEntry) error {
	details, err := json.Marshal(e.Details)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO record_entries (
			id, patient_id,
			type, occurred_at, recorded_at,
			title, notes, details,
			actor_type, actor_id,
			source, status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		e.ID,
		e.PatientID,
		string(e.Type),
		e.OccurredAt,
		e.RecordedAt,
		e.Title,
		e.Notes,
		details,
		string(e.Actor.Type),
		e.Actor.ID,
		string(e.Source),
		string(e.Status),
	)
	return err
}

func (r *RecordsRepo) GetByID(ctx context.Context, id string) (records.RecordEntry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return records.RecordEntry{}, records.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, patient_id,
			type, occurred_at, recorded_at,
			title, notes, details,
			actor_type, actor_id,
			source, status
		FROM record_entries
		WHERE id = $1
	`, id)

	return scanRecordEntry(row)
}

func (r *RecordsRepo) ListByPatient(ctx context.Context, patientID string, filter records.ListFilter) ([]records.RecordEntry, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, nil
	}

	// Base query
	sb := strings.Builder{}
	sb.WriteString(`
		SELECT
			id, patient_id,
			type, occurred_at, recorded_at,
			title, notes, details,
			actor_type, actor_id,
			source, status
		FROM record_entries
		WHERE patient_id = $1
	`)

	args := []any{patientID}
	argN := 2

	// types filter
	if len(filter.Types) > 0 {
		placeholders := make([]string, 0, len(filter.Types))
		for _, t := range filter.Types {
			placeholders = append(placeholders, fmt.Sprintf("$%d", argN))
			args = append(args, string(t))
			argN++
		}
		sb.WriteString(" AND type IN (" + strings.Join(placeholders, ",") + ")")
	}

	// from/to (occurred_at)
	if filter.From != nil {
		sb.WriteString(fmt.Sprintf(" AND occurred_at >= $%d", argN))
		args = append(args, *filter.From)
		argN++
	}
	if filter.To != nil {
		sb.WriteString(fmt.Sprintf(" AND occurred_at <= $%d", argN))
		args = append(args, *filter.To)
		argN++
	}

	// query (título/notas)
	if q := strings.TrimSpace(filter.Query); q != "" {
		sb.WriteString(fmt.Sprintf(" AND (title ILIKE $%d OR notes ILIKE $%d)", argN, argN))
		args = append(args, "%"+q+"%")
		argN++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	sb.WriteString(fmt.Sprintf(" ORDER BY occurred_at DESC LIMIT $%d", argN))
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]records.RecordEntry, 0)
	for rows.Next() {
		e, err := scanRecordEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *RecordsRepo) Void(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE record_entries
		SET status = $2
		WHERE id = $1
	`, id, string(records.EntryStatusVoided))
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return records.ErrNotFound
	}
	return nil
}

func scanRecordEntry(row rowScanner) (records.RecordEntry, error) {
	var e records.RecordEntry
	var typ, actorType, source, status string
	var details []byte

	if err := row.Scan(
		&e.ID,
		&e.PatientID,
		&typ,
		&e.OccurredAt,
		&e.RecordedAt,
		&e.Title,
		&e.Notes,
		&details,
		&actorType,
		&e.Actor.ID,
		&source,
		&status,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return records.RecordEntry{}, records.ErrNotFound
		}
		return records.RecordEntry{}, err
	}

	e.Type = records.EntryType(typ)
	e.Actor.Type = records.ActorType(actorType)
	e.Source = records.Source(source)
	e.Status = records.EntryStatus(status)

	if len(details) > 0 {
		if err := json.Unmarshal(details, &e.Details); err != nil {
			return records.RecordEntry{}, err
		}
	}

	return e, nil
}

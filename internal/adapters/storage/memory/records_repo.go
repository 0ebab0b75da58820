package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"safemed/internal/domain/records"
)

type recordsRepo struct {
	mu   sync.RWMutex
	byID map[string]records.RecordEntry
}

func NewRecordsRepo() records.Repository {
	return &recordsRepo{
		byID: make(map[string]records.RecordEntry),
	}
}

func (r *recordsRepo) Create(ctx context.Context, e records.RecordEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" {
		return errors.New("entry id required")
	}
	if _, exists := r.byID[e.ID]; exists {
		return errors.New("entry already exists")
	}

	r.byID[e.ID] = e
	return nil
}

func (r *recordsRepo) GetByID(ctx context.Context, id string) (records.RecordEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return records.RecordEntry{}, records.ErrNotFound
	}
	return e, nil
}

func (r *recordsRepo) ListByPatient(ctx context.Context, patientID string, filter records.ListFilter) ([]records.RecordEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	out := make([]records.RecordEntry, 0)

	for _, e := range r.byID {
		if e.PatientID != patientID {
			continue
		}

		// Type filter
		if len(filter.Types) > 0 {
			ok := false
			for _, t := range filter.Types {
				if e.Type == t {
					ok = true
					break
				}
			}
			if !ok {
				continue
			}
		}

		// Date filters (occurred_at)
		if filter.From != nil && e.OccurredAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.OccurredAt.After(*filter.To) {
			continue
		}

		// Query filter
		if q := strings.TrimSpace(filter.Query); q != "" {
			hay := strings.ToLower(e.Title + " " + e.Notes)
			if !strings.Contains(hay, strings.ToLower(q)) {
				continue
			}
		}

		out = append(out, e)
	}

	// Orden por occurred_at desc (más reciente primero)
	sort.Slice(out, func(i, j int) bool {
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})

	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *recordsRepo) Void(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return records.ErrNotFound
	}
	e.Status = records.EntryStatusVoided
	r.byID[id] = e
	return nil
}

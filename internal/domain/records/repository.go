package records

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, e RecordEntry) error
	GetByID(ctx context.Context, id string) (RecordEntry, error)
	ListByPatient(ctx context.Context, patientID string, filter ListFilter) ([]RecordEntry, error)
	Void(ctx context.Context, id string) error
}

type ListFilter struct {
	Types []EntryType
	From  *time.Time
	To    *time.Time
	Query string
	Limit int
}

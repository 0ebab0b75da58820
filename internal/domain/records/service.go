package records

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Type       EntryType
	OccurredAt time.Time
	Title      string
	Notes      string
	Details    Details
	Source     Source
}

// validDetails exige que el payload tipado (si viene) coincida con el Type,
// y que los tipos estructurados traigan su payload mínimo.
func validDetails(t EntryType, d Details) bool {
	switch t {
	case EntryTypeMedication:
		if d.Medication == nil || strings.TrimSpace(d.Medication.Name) == "" {
			return false
		}
		return d.Vaccination == nil && d.Allergy == nil && d.Condition == nil && d.Document == nil
	case EntryTypeVaccination:
		if d.Vaccination == nil || strings.TrimSpace(d.Vaccination.Vaccine) == "" {
			return false
		}
		return d.Medication == nil && d.Allergy == nil && d.Condition == nil && d.Document == nil
	case EntryTypeAllergy:
		if d.Allergy == nil || strings.TrimSpace(d.Allergy.Substance) == "" {
			return false
		}
		return d.Medication == nil && d.Vaccination == nil && d.Condition == nil && d.Document == nil
	case EntryTypeCondition:
		if d.Condition == nil || strings.TrimSpace(d.Condition.Name) == "" {
			return false
		}
		return d.Medication == nil && d.Vaccination == nil && d.Allergy == nil && d.Document == nil
	case EntryTypeDocument:
		if d.Document == nil || strings.TrimSpace(d.Document.StorageKey) == "" {
			return false
		}
		return d.Medication == nil && d.Vaccination == nil && d.Allergy == nil && d.Condition == nil
	default:
		// NOTE no lleva payload tipado
		return d.Empty()
	}
}

func (s *Service) Create(ctx context.Context, patientID string, actor Actor, in CreateInput) (RecordEntry, error) {
	if strings.TrimSpace(patientID) == "" {
		return RecordEntry{}, ErrInvalidInput
	}
	if !ValidEntryType(in.Type) {
		return RecordEntry{}, ErrInvalidInput
	}
	if in.OccurredAt.IsZero() {
		return RecordEntry{}, ErrInvalidInput
	}
	if actor.Type == "" || strings.TrimSpace(actor.ID) == "" {
		return RecordEntry{}, ErrInvalidInput
	}
	if !validDetails(in.Type, in.Details) {
		return RecordEntry{}, ErrInvalidInput
	}

	now := s.now()

	src := in.Source
	if src == "" {
		src = SourceManual
	}

	e := RecordEntry{
		ID:         uuid.NewString(),
		PatientID:  patientID,
		Type:       in.Type,
		OccurredAt: in.OccurredAt,
		RecordedAt: now,
		Title:      strings.TrimSpace(in.Title),
		Notes:      strings.TrimSpace(in.Notes),
		Details:    in.Details,
		Actor:      actor,
		Source:     src,
		Status:     EntryStatusActive,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return RecordEntry{}, err
	}
	return e, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (RecordEntry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return RecordEntry{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID string, filter ListFilter) ([]RecordEntry, error) {
	return s.repo.ListByPatient(ctx, patientID, filter)
}

// Void marca la entrada como voided (no se borra).
func (s *Service) Void(ctx context.Context, id string) (RecordEntry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return RecordEntry{}, ErrInvalidInput
	}
	if err := s.repo.Void(ctx, id); err != nil {
		return RecordEntry{}, err
	}
	return s.repo.GetByID(ctx, id)
}

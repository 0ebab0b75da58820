package records

import (
	"context"
	"errors"
	"testing"
	"time"

	"safemed/internal/domain/records/details"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]RecordEntry
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]RecordEntry{}}
}

func (r *testRepo) Create(ctx context.Context, e RecordEntry) error {
	if e.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[e.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[e.ID] = e
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (RecordEntry, error) {
	e, ok := r.byID[id]
	if !ok {
		return RecordEntry{}, ErrNotFound
	}
	return e, nil
}

func (r *testRepo) ListByPatient(ctx context.Context, patientID string, filter ListFilter) ([]RecordEntry, error) {
	out := make([]RecordEntry, 0)
	for _, e := range r.byID {
		if e.PatientID != patientID {
			continue
		}
		if len(filter.Types) > 0 {
			match := false
			for _, t := range filter.Types {
				if e.Type == t {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		if filter.From != nil && e.OccurredAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.OccurredAt.After(*filter.To) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *testRepo) Void(ctx context.Context, id string) error {
	e, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	e.Status = EntryStatusVoided
	r.byID[id] = e
	return nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_MedicationEntry(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	occurred := now.Add(-2 * time.Hour)
	e, err := svc.Create(context.Background(), "P0009",
		Actor{Type: ActorTypePatient, ID: "P0009"},
		CreateInput{
			Type:       EntryTypeMedication,
			OccurredAt: occurred,
			Title:      "Ibuprofeno",
			Details: Details{
				Medication: &details.Medication{
					Name:      "Ibuprofeno",
					Dosage:    "400",
					DoseUnit:  "mg",
					Frequency: "cada 8h",
					StartDate: occurred,
				},
			},
		})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if e.ID == "" {
		t.Fatalf("expected generated id")
	}
	if e.Status != EntryStatusActive {
		t.Fatalf("expected active, got %s", e.Status)
	}
	if e.RecordedAt != now {
		t.Fatalf("expected RecordedAt = now")
	}
	if e.Source != SourceManual {
		t.Fatalf("expected default source manual, got %s", e.Source)
	}
}

func TestService_Create_DetailsMustMatchType(t *testing.T) {
	svc := NewService(newTestRepo())
	occurred := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	actor := Actor{Type: ActorTypePatient, ID: "P0009"}

	// MEDICATION sin payload
	_, err := svc.Create(context.Background(), "P0009", actor, CreateInput{
		Type:       EntryTypeMedication,
		OccurredAt: occurred,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing payload, got %v", err)
	}

	// payload cruzado: VACCINATION con detalle de medicación
	_, err = svc.Create(context.Background(), "P0009", actor, CreateInput{
		Type:       EntryTypeVaccination,
		OccurredAt: occurred,
		Details: Details{
			Medication: &details.Medication{Name: "Ibuprofeno", StartDate: occurred},
		},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for mismatched payload, got %v", err)
	}

	// NOTE con payload tipado tampoco vale
	_, err = svc.Create(context.Background(), "P0009", actor, CreateInput{
		Type:       EntryTypeNote,
		OccurredAt: occurred,
		Notes:      "control",
		Details: Details{
			Allergy: &details.Allergy{Substance: "maní"},
		},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for NOTE with payload, got %v", err)
	}
}

func TestService_Create_NoteWithoutDetails(t *testing.T) {
	svc := NewService(newTestRepo())

	e, err := svc.Create(context.Background(), "P0009",
		Actor{Type: ActorTypePatient, ID: "P0009"},
		CreateInput{
			Type:       EntryTypeNote,
			OccurredAt: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
			Notes:      "dolor de cabeza leve",
		})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !e.Details.Empty() {
		t.Fatalf("expected empty details for NOTE")
	}
}

func TestService_Create_RejectsUnknownType(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.Create(context.Background(), "P0009",
		Actor{Type: ActorTypePatient, ID: "P0009"},
		CreateInput{
			Type:       EntryType("SURGERY"),
			OccurredAt: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
		})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Void_MarksEntry(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	e, err := svc.Create(context.Background(), "P0009",
		Actor{Type: ActorTypePatient, ID: "P0009"},
		CreateInput{
			Type:       EntryTypeNote,
			OccurredAt: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
			Notes:      "entrada equivocada",
		})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	voided, err := svc.Void(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("Void error: %v", err)
	}
	if voided.Status != EntryStatusVoided {
		t.Fatalf("expected voided, got %s", voided.Status)
	}

	// la entrada sigue existiendo, nunca se borra
	got, err := svc.GetByID(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Status != EntryStatusVoided {
		t.Fatalf("expected voided preserved, got %s", got.Status)
	}
}

func TestService_Void_UnknownEntry(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.Void(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_ListByPatient_TypeFilter(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	occurred := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	actor := Actor{Type: ActorTypePatient, ID: "P0009"}

	if _, err := svc.Create(context.Background(), "P0009", actor, CreateInput{
		Type: EntryTypeNote, OccurredAt: occurred, Notes: "nota",
	}); err != nil {
		t.Fatalf("Create note error: %v", err)
	}
	if _, err := svc.Create(context.Background(), "P0009", actor, CreateInput{
		Type:       EntryTypeAllergy,
		OccurredAt: occurred,
		Details:    Details{Allergy: &details.Allergy{Substance: "maní"}},
	}); err != nil {
		t.Fatalf("Create allergy error: %v", err)
	}

	list, err := svc.ListByPatient(context.Background(), "P0009", ListFilter{
		Types: []EntryType{EntryTypeAllergy},
	})
	if err != nil {
		t.Fatalf("ListByPatient error: %v", err)
	}
	if len(list) != 1 || list[0].Type != EntryTypeAllergy {
		t.Fatalf("expected only the allergy entry, got %d items", len(list))
	}
}

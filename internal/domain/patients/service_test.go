package patients

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Patient
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Patient{}}
}

func (r *testRepo) Create(ctx context.Context, p Patient) error {
	if p.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[p.ID]; ok {
		return ErrAlreadyExists
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Patient, error) {
	p, ok := r.byID[id]
	if !ok {
		return Patient{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) Update(ctx context.Context, p Patient) error {
	if _, ok := r.byID[p.ID]; !ok {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) ListByTenant(ctx context.Context, tenantID string) ([]Patient, error) {
	out := make([]Patient, 0)
	for _, p := range r.byID {
		if p.TenantID == tenantID {
			out = append(out, p)
		}
	}
	return out, nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_NormalizesID(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	p, err := svc.Create(context.Background(), CreateInput{
		ID:       "p9",
		TenantID: "clinic-1",
		FullName: "Ana Pérez",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if p.ID != "P0009" {
		t.Fatalf("expected canonical id P0009, got %s", p.ID)
	}
	if p.CreatedAt != now || p.UpdatedAt != now {
		t.Fatalf("expected CreatedAt/UpdatedAt = now")
	}
}

func TestService_Create_RequiresFullName(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.Create(context.Background(), CreateInput{ID: "P0009", FullName: "   "})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Create_DuplicateAccount(t *testing.T) {
	svc := NewService(newTestRepo())

	if _, err := svc.Create(context.Background(), CreateInput{ID: "P0009", FullName: "Ana Pérez"}); err != nil {
		t.Fatalf("Create #1 error: %v", err)
	}

	// la misma cuenta escrita distinto sigue chocando
	_, err := svc.Create(context.Background(), CreateInput{ID: "p9", FullName: "Otra Persona"})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestService_GetByID_AcceptsAnyForm(t *testing.T) {
	svc := NewService(newTestRepo())

	if _, err := svc.Create(context.Background(), CreateInput{ID: "P0009", FullName: "Ana Pérez"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	for _, form := range []string{"p9", "P009", "P0009", " p0009 "} {
		p, err := svc.GetByID(context.Background(), form)
		if err != nil {
			t.Fatalf("GetByID(%q) error: %v", form, err)
		}
		if p.ID != "P0009" {
			t.Fatalf("GetByID(%q) = %s, want P0009", form, p.ID)
		}
	}
}

func TestService_Update_PartialPatch(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	created := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	svc.now = func() time.Time { return created }
	if _, err := svc.Create(context.Background(), CreateInput{
		ID:       "P0009",
		FullName: "Ana Pérez",
		Phone:    "555-0001",
	}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	svc.now = func() time.Time { return updated }
	phone := "555-0002"
	p, err := svc.Update(context.Background(), "P0009", UpdateInput{Phone: &phone})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if p.Phone != "555-0002" {
		t.Fatalf("expected phone updated, got %s", p.Phone)
	}
	if p.FullName != "Ana Pérez" {
		t.Fatalf("expected untouched fields preserved, got %s", p.FullName)
	}
	if p.UpdatedAt != updated {
		t.Fatalf("expected UpdatedAt bumped")
	}
}

func TestService_Update_EmptyNameRejected(t *testing.T) {
	svc := NewService(newTestRepo())

	if _, err := svc.Create(context.Background(), CreateInput{ID: "P0009", FullName: "Ana Pérez"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	empty := "  "
	_, err := svc.Update(context.Background(), "P0009", UpdateInput{FullName: &empty})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Exists(t *testing.T) {
	svc := NewService(newTestRepo())

	if _, err := svc.Create(context.Background(), CreateInput{ID: "P0009", FullName: "Ana Pérez"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	ok, err := svc.Exists(context.Background(), "P0009")
	if err != nil || !ok {
		t.Fatalf("expected existing account, got ok=%v err=%v", ok, err)
	}

	ok, err = svc.Exists(context.Background(), "P0077")
	if err != nil {
		t.Fatalf("Exists error: %v", err)
	}
	if ok {
		t.Fatalf("expected unknown account to not exist")
	}
}

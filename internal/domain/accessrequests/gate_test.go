package accessrequests

import (
	"context"
	"errors"
	"testing"

	"safemed/internal/ports/auth"
)

func TestGate_PatientReadsOwnRecord(t *testing.T) {
	svc, _ := newTestService("P0009")
	gate := NewGate(svc)

	claims := auth.Claims{UserID: "P0009", Role: auth.RolePatient}

	// el id puede venir en cualquier forma por la URL
	if err := gate.AllowRead(context.Background(), claims, "p9"); err != nil {
		t.Fatalf("expected patient to read own record, got %v", err)
	}
}

func TestGate_PatientCannotReadOthers(t *testing.T) {
	svc, _ := newTestService("P0009", "P0010")
	gate := NewGate(svc)

	claims := auth.Claims{UserID: "P0010", Role: auth.RolePatient}

	err := gate.AllowRead(context.Background(), claims, "P0009")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestGate_DoctorNeedsApproval(t *testing.T) {
	svc, _ := newTestService("P0009")
	gate := NewGate(svc)

	doctor := auth.Claims{UserID: "D0001", Role: auth.RoleDoctor}

	// sin pedido: forbidden
	if err := gate.AllowRead(context.Background(), doctor, "P0009"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden before request, got %v", err)
	}

	r, err := svc.CreateRequest(context.Background(), CreateInput{
		DoctorID:     "D0001",
		RawPatientID: "P0009",
	})
	if err != nil {
		t.Fatalf("CreateRequest error: %v", err)
	}

	// pending no alcanza
	if err := gate.AllowRead(context.Background(), doctor, "P0009"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden while pending, got %v", err)
	}

	if _, err := svc.Respond(context.Background(), r.ID, DecisionApproved); err != nil {
		t.Fatalf("Respond error: %v", err)
	}

	if err := gate.AllowRead(context.Background(), doctor, "P0009"); err != nil {
		t.Fatalf("expected approved doctor to read, got %v", err)
	}

	// otro médico sigue afuera
	other := auth.Claims{UserID: "D0002", Role: auth.RoleDoctor}
	if err := gate.AllowRead(context.Background(), other, "P0009"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for other doctor, got %v", err)
	}
}

func TestGate_AnonymousForbidden(t *testing.T) {
	svc, _ := newTestService("P0009")
	gate := NewGate(svc)

	err := gate.AllowRead(context.Background(), auth.Claims{}, "P0009")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for empty claims, got %v", err)
	}
}

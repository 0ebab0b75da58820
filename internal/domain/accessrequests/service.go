package accessrequests

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrDuplicatePending = errors.New("request already pending")
	ErrAlreadyDecided   = errors.New("request already decided")
)

// PatientDirectory evita importar el paquete patients (rompe ciclos).
// Es el colaborador externo "existe esta cuenta de paciente".
type PatientDirectory interface {
	Exists(ctx context.Context, patientID string) (bool, error)
}

type Service struct {
	repo     Repository
	patients PatientDirectory
	now      func() time.Time
}

func NewService(repo Repository, patients PatientDirectory) *Service {
	return &Service{
		repo:     repo,
		patients: patients,
		now:      time.Now,
	}
}

type CreateInput struct {
	DoctorID     string // del caller autenticado, no del body
	RawPatientID string // texto libre, se normaliza acá
	Message      string
}

// CreateRequest registra un pedido pending de un médico hacia un paciente.
// Falla con ErrNotFound si la cuenta de paciente no existe y con
// ErrDuplicatePending si ya hay un pedido pending para el mismo par.
func (s *Service) CreateRequest(ctx context.Context, in CreateInput) (AccessRequest, error) {
	doctorID := strings.TrimSpace(in.DoctorID)
	if doctorID == "" {
		return AccessRequest{}, ErrInvalidInput
	}

	patientID := NormalizePatientID(in.RawPatientID)
	if patientID == "" {
		return AccessRequest{}, ErrInvalidInput
	}

	ok, err := s.patients.Exists(ctx, patientID)
	if err != nil {
		return AccessRequest{}, err
	}
	if !ok {
		return AccessRequest{}, ErrNotFound
	}

	r := AccessRequest{
		ID:          uuid.NewString(),
		DoctorID:    doctorID,
		PatientID:   patientID,
		Message:     strings.TrimSpace(in.Message),
		Status:      StatusPending,
		RequestedAt: s.now(),
		RespondedAt: nil,
	}

	// La unicidad del pending vive en el repo: ante dos pedidos simultáneos
	// para el mismo par, uno gana y el otro ve ErrDuplicatePending.
	if err := s.repo.Create(ctx, r); err != nil {
		return AccessRequest{}, err
	}
	return r, nil
}

// ListForPatient devuelve los pedidos que referencian al paciente,
// más nuevos primero.
func (s *Service) ListForPatient(ctx context.Context, patientID string) ([]AccessRequest, error) {
	patientID = NormalizePatientID(patientID)
	if patientID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByPatient(ctx, patientID)
}

// ListForDoctor devuelve los pedidos creados por el médico, más nuevos primero.
func (s *Service) ListForDoctor(ctx context.Context, doctorID string) ([]AccessRequest, error) {
	doctorID = strings.TrimSpace(doctorID)
	if doctorID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByDoctor(ctx, doctorID)
}

// GetByID expone el pedido para el chequeo de identidad en el borde HTTP
// (quién puede responder se decide en el handler, no acá).
func (s *Service) GetByID(ctx context.Context, id string) (AccessRequest, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return AccessRequest{}, ErrNotFound
	}
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return AccessRequest{}, ErrNotFound
		}
		return AccessRequest{}, err
	}
	return r, nil
}

// Respond transiciona pending -> approved | rejected y estampa RespondedAt.
// Sobre un pedido ya decidido devuelve ErrAlreadyDecided; la decisión
// original nunca se pisa (el repo hace compare-and-set sobre el status).
func (s *Service) Respond(ctx context.Context, requestID string, decision Decision) (AccessRequest, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return AccessRequest{}, ErrInvalidInput
	}

	var to Status
	switch decision {
	case DecisionApproved:
		to = StatusApproved
	case DecisionRejected:
		to = StatusRejected
	default:
		return AccessRequest{}, ErrInvalidInput
	}

	return s.repo.Decide(ctx, requestID, to, s.now())
}

// IsAuthorized es el predicado que gatea toda lectura médico->historia:
// true sii existe al menos un pedido approved para (doctor, patient).
// Sin efectos secundarios y sin cache.
func (s *Service) IsAuthorized(ctx context.Context, doctorID, patientID string) (bool, error) {
	doctorID = strings.TrimSpace(doctorID)
	patientID = NormalizePatientID(patientID)
	if doctorID == "" || patientID == "" {
		return false, nil
	}
	return s.repo.HasApproved(ctx, doctorID, patientID)
}

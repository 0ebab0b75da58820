package patients

import (
	"context"
	"errors"
	"strings"
	"time"

	"safemed/internal/domain/accessrequests"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
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
	ID       string // id canónico de la cuenta; viene de claims, no del body
	TenantID string

	FullName  string
	BirthDate *time.Time
	Sex       string
	BloodType string

	Phone            string
	Email            string
	EmergencyContact string

	Notes string
}

// Create registra la ficha demográfica del paciente. El id se normaliza
// con la misma función que usa el workflow de accesos, así "p9" y "P0009"
// resuelven siempre a la misma ficha.
func (s *Service) Create(ctx context.Context, in CreateInput) (Patient, error) {
	id := accessrequests.NormalizePatientID(in.ID)
	if id == "" {
		return Patient{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.FullName) == "" {
		return Patient{}, ErrInvalidInput
	}

	if _, err := s.repo.GetByID(ctx, id); err == nil {
		return Patient{}, ErrAlreadyExists
	}

	now := s.now()
	p := Patient{
		ID:               id,
		TenantID:         strings.TrimSpace(in.TenantID),
		FullName:         strings.TrimSpace(in.FullName),
		BirthDate:        in.BirthDate,
		Sex:              Sex(strings.TrimSpace(in.Sex)),
		BloodType:        BloodType(strings.TrimSpace(in.BloodType)),
		Phone:            strings.TrimSpace(in.Phone),
		Email:            strings.TrimSpace(in.Email),
		EmergencyContact: strings.TrimSpace(in.EmergencyContact),
		Notes:            strings.TrimSpace(in.Notes),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Patient{}, err
	}
	return p, nil
}

// GetByID busca la ficha por id, normalizando el input (acepta "p9").
func (s *Service) GetByID(ctx context.Context, id string) (Patient, error) {
	id = accessrequests.NormalizePatientID(id)
	if id == "" {
		return Patient{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar.
	FullName         *string
	Sex              *string
	BloodType        *string
	Phone            *string
	Email            *string
	EmergencyContact *string
	Notes            *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Patient, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Patient{}, err
	}

	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if name == "" {
			return Patient{}, ErrInvalidInput
		}
		p.FullName = name
	}
	if in.Sex != nil {
		p.Sex = Sex(strings.TrimSpace(*in.Sex))
	}
	if in.BloodType != nil {
		p.BloodType = BloodType(strings.TrimSpace(*in.BloodType))
	}
	if in.Phone != nil {
		p.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Email != nil {
		p.Email = strings.TrimSpace(*in.Email)
	}
	if in.EmergencyContact != nil {
		p.EmergencyContact = strings.TrimSpace(*in.EmergencyContact)
	}
	if in.Notes != nil {
		p.Notes = strings.TrimSpace(*in.Notes)
	}

	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Patient{}, err
	}
	return p, nil
}

func (s *Service) ListByTenant(ctx context.Context, tenantID string) ([]Patient, error) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByTenant(ctx, tenantID)
}

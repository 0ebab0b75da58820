package patients

import "context"

type Repository interface {
	Create(ctx context.Context, p Patient) error
	GetByID(ctx context.Context, id string) (Patient, error)
	Update(ctx context.Context, p Patient) error
	ListByTenant(ctx context.Context, tenantID string) ([]Patient, error)
}

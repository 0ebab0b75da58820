package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"safemed/internal/domain/accessrequests"
)

type accessRequestsRepo struct {
	mu   sync.RWMutex
	byID map[string]accessrequests.AccessRequest
}

func NewAccessRequestsRepo() accessrequests.Repository {
	return &accessRequestsRepo{
		byID: make(map[string]accessrequests.AccessRequest),
	}
}

// Create inserta el pedido. El chequeo de "un solo pending por par" y el
// insert ocurren bajo el mismo lock: ante N creates simultáneos para el
// mismo (doctor, patient) gana exactamente uno.
func (r *accessRequestsRepo) Create(ctx context.Context, req accessrequests.AccessRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if req.ID == "" {
		return errors.New("request id required")
	}
	if _, exists := r.byID[req.ID]; exists {
		return errors.New("request already exists")
	}

	for _, other := range r.byID {
		if other.DoctorID == req.DoctorID &&
			other.PatientID == req.PatientID &&
			other.Status == accessrequests.StatusPending {
			return accessrequests.ErrDuplicatePending
		}
	}

	r.byID[req.ID] = req
	return nil
}

func (r *accessRequestsRepo) GetByID(ctx context.Context, id string) (accessrequests.AccessRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.byID[id]
	if !ok {
		return accessrequests.AccessRequest{}, accessrequests.ErrNotFound
	}
	return req, nil
}

func (r *accessRequestsRepo) ListByPatient(ctx context.Context, patientID string) ([]accessrequests.AccessRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]accessrequests.AccessRequest, 0)
	for _, req := range r.byID {
		if req.PatientID == patientID {
			out = append(out, req)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *accessRequestsRepo) ListByDoctor(ctx context.Context, doctorID string) ([]accessrequests.AccessRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]accessrequests.AccessRequest, 0)
	for _, req := range r.byID {
		if req.DoctorID == doctorID {
			out = append(out, req)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

// Decide es compare-and-set bajo lock: sólo transiciona si el status actual
// sigue siendo pending. El segundo de dos responds simultáneos ve
// ErrAlreadyDecided, nunca pisa la decisión del primero.
func (r *accessRequestsRepo) Decide(ctx context.Context, id string, to accessrequests.Status, respondedAt time.Time) (accessrequests.AccessRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.byID[id]
	if !ok {
		return accessrequests.AccessRequest{}, accessrequests.ErrNotFound
	}
	if req.Status != accessrequests.StatusPending {
		return accessrequests.AccessRequest{}, accessrequests.ErrAlreadyDecided
	}

	req.Status = to
	t := respondedAt
	req.RespondedAt = &t
	r.byID[id] = req

	return req, nil
}

func (r *accessRequestsRepo) HasApproved(ctx context.Context, doctorID, patientID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, req := range r.byID {
		if req.DoctorID == doctorID &&
			req.PatientID == patientID &&
			req.Status == accessrequests.StatusApproved {
			return true, nil
		}
	}
	return false, nil
}

func sortNewestFirst(items []accessrequests.AccessRequest) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].RequestedAt.After(items[j].RequestedAt)
	})
}

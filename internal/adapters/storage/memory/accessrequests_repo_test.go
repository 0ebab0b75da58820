package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"safemed/internal/domain/accessrequests"
)

func pendingReq(id string) accessrequests.AccessRequest {
	return accessrequests.AccessRequest{
		ID:          id,
		DoctorID:    "D0001",
		PatientID:   "P0009",
		Status:      accessrequests.StatusPending,
		RequestedAt: time.Now(),
	}
}

func TestAccessRequestsRepo_Create_ConcurrentSamePair(t *testing.T) {
	repo := NewAccessRequestsRepo()

	const n = 64

	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Create(context.Background(), pendingReq(fmt.Sprintf("req-%d", i)))
		}(i)
	}
	wg.Wait()

	okCount := 0
	for _, err := range errs {
		switch {
		case err == nil:
			okCount++
		case errors.Is(err, accessrequests.ErrDuplicatePending):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if okCount != 1 {
		t.Fatalf("expected exactly 1 pending insert to win, got %d", okCount)
	}
}

func TestAccessRequestsRepo_Decide_ConcurrentCAS(t *testing.T) {
	repo := NewAccessRequestsRepo()

	if err := repo.Create(context.Background(), pendingReq("req-1")); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	statuses := []accessrequests.Status{
		accessrequests.StatusApproved,
		accessrequests.StatusRejected,
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Decide(context.Background(), "req-1", statuses[i], time.Now())
		}(i)
	}
	wg.Wait()

	okCount, decidedCount := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			okCount++
		case errors.Is(err, accessrequests.ErrAlreadyDecided):
			decidedCount++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if okCount != 1 || decidedCount != 1 {
		t.Fatalf("expected 1 winner and 1 loser, got %d/%d", okCount, decidedCount)
	}

	got, err := repo.GetByID(context.Background(), "req-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Status == accessrequests.StatusPending {
		t.Fatalf("expected terminal status after decide")
	}
}

func TestAccessRequestsRepo_HasApproved(t *testing.T) {
	repo := NewAccessRequestsRepo()

	if err := repo.Create(context.Background(), pendingReq("req-1")); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	ok, err := repo.HasApproved(context.Background(), "D0001", "P0009")
	if err != nil {
		t.Fatalf("HasApproved error: %v", err)
	}
	if ok {
		t.Fatalf("expected no approval while pending")
	}

	if _, err := repo.Decide(context.Background(), "req-1", accessrequests.StatusApproved, time.Now()); err != nil {
		t.Fatalf("Decide error: %v", err)
	}

	ok, err = repo.HasApproved(context.Background(), "D0001", "P0009")
	if err != nil {
		t.Fatalf("HasApproved error: %v", err)
	}
	if !ok {
		t.Fatalf("expected approval visible immediately after decide")
	}
}

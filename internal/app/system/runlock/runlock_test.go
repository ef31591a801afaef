package runlock_test

import (
	"testing"
	"time"

	"github.com/dalemusser/capstonehub/internal/app/system/runlock"
	"github.com/dalemusser/capstonehub/internal/testutil"
)

func TestLock_AcquireRelease(t *testing.T) {
	db := testutil.SetupTestDB(t)
	lock := runlock.New(db, time.Minute)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	token, err := lock.Acquire(ctx, runlock.AssignmentRun, "instructor-1")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}

	holder, held, err := lock.Holder(ctx, runlock.AssignmentRun)
	if err != nil {
		t.Fatalf("Holder failed: %v", err)
	}
	if !held || holder != "instructor-1" {
		t.Errorf("holder: got (%q, %v), want (\"instructor-1\", true)", holder, held)
	}

	if err := lock.Release(ctx, runlock.AssignmentRun, token); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	_, held, err = lock.Holder(ctx, runlock.AssignmentRun)
	if err != nil {
		t.Fatalf("Holder after release failed: %v", err)
	}
	if held {
		t.Error("expected lock to be free after release")
	}
}

func TestLock_SecondAcquireFails(t *testing.T) {
	db := testutil.SetupTestDB(t)
	lock := runlock.New(db, time.Minute)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := lock.Acquire(ctx, runlock.AssignmentRun, "first"); err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}

	_, err := lock.Acquire(ctx, runlock.AssignmentRun, "second")
	if err != runlock.ErrHeld {
		t.Errorf("expected ErrHeld, got %v", err)
	}
}

func TestLock_ExpiredLockTakenOver(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	short := runlock.New(db, time.Millisecond)
	if _, err := short.Acquire(ctx, runlock.AssignmentRun, "crashed"); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	lock := runlock.New(db, time.Minute)
	token, err := lock.Acquire(ctx, runlock.AssignmentRun, "recovered")
	if err != nil {
		t.Fatalf("expected takeover of expired lock, got %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}

	holder, held, err := lock.Holder(ctx, runlock.AssignmentRun)
	if err != nil {
		t.Fatalf("Holder failed: %v", err)
	}
	if !held || holder != "recovered" {
		t.Errorf("holder: got (%q, %v), want (\"recovered\", true)", holder, held)
	}
}

func TestLock_StaleTokenReleaseIsNoop(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	short := runlock.New(db, time.Millisecond)
	staleToken, err := short.Acquire(ctx, runlock.AssignmentRun, "crashed")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	lock := runlock.New(db, time.Minute)
	if _, err := lock.Acquire(ctx, runlock.AssignmentRun, "recovered"); err != nil {
		t.Fatalf("takeover failed: %v", err)
	}

	// The old holder's release must not free the new holder's lock.
	if err := short.Release(ctx, runlock.AssignmentRun, staleToken); err != nil {
		t.Fatalf("stale Release failed: %v", err)
	}

	holder, held, err := lock.Holder(ctx, runlock.AssignmentRun)
	if err != nil {
		t.Fatalf("Holder failed: %v", err)
	}
	if !held || holder != "recovered" {
		t.Errorf("holder: got (%q, %v), want (\"recovered\", true)", holder, held)
	}
}

package matchrunstore_test

import (
	"testing"
	"time"

	matchrunstore "github.com/dalemusser/capstonehub/internal/app/store/matchruns"
	"github.com/dalemusser/capstonehub/internal/domain/models"
	"github.com/dalemusser/capstonehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func insertRun(t *testing.T, store *matchrunstore.Store, action string, started time.Time) models.MatchRun {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	run, err := store.Create(ctx, models.MatchRun{
		Action:     action,
		Mode:       models.RunModeFull,
		ActorID:    primitive.NewObjectID(),
		StartedAt:  started,
		FinishedAt: started.Add(time.Second),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return run
}

func TestStore_ListRecent_NewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := matchrunstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Now().UTC().Truncate(time.Millisecond)
	oldest := insertRun(t, store, models.RunActionCommit, base.Add(-2*time.Hour))
	middle := insertRun(t, store, models.RunActionClear, base.Add(-time.Hour))
	newest := insertRun(t, store, models.RunActionCommit, base)

	runs, err := store.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	want := []primitive.ObjectID{newest.ID, middle.ID, oldest.ID}
	for i, id := range want {
		if runs[i].ID != id {
			t.Errorf("runs[%d]: got %s, want %s", i, runs[i].ID.Hex(), id.Hex())
		}
	}
}

func TestStore_ListRecent_DefaultLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := matchrunstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Now().UTC()
	for i := 0; i < 25; i++ {
		insertRun(t, store, models.RunActionCommit, base.Add(time.Duration(i)*time.Minute))
	}

	runs, err := store.ListRecent(ctx, 0)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(runs) != 20 {
		t.Errorf("expected default limit of 20 runs, got %d", len(runs))
	}
}

func TestStore_PruneOlderThan(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := matchrunstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Now().UTC().Truncate(time.Millisecond)
	insertRun(t, store, models.RunActionCommit, base.Add(-48*time.Hour))
	insertRun(t, store, models.RunActionClear, base.Add(-36*time.Hour))
	kept := insertRun(t, store, models.RunActionCommit, base)

	removed, err := store.PruneOlderThan(ctx, base.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("PruneOlderThan failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed: got %d, want 2", removed)
	}

	runs, err := store.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != kept.ID {
		t.Errorf("expected only the recent run to survive, got %d runs", len(runs))
	}
}

package groupstore_test

import (
	"testing"

	groupstore "github.com/dalemusser/capstonehub/internal/app/store/groups"
	"github.com/dalemusser/capstonehub/internal/domain/models"
	"github.com/dalemusser/capstonehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	project := fixtures.CreateProject(ctx, "Compiler", 4)

	created, err := store.Create(ctx, models.Group{
		Name:      "Compiler",
		ProjectID: project.ID,
		Capacity:  4,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.NameCI == "" {
		t.Error("expected NameCI to be set")
	}
	if created.Status != "active" {
		t.Errorf("expected status 'active', got %q", created.Status)
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestStore_List_SortedByName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	project := fixtures.CreateProject(ctx, "Compiler", 4)
	fixtures.CreateGroup(ctx, "zeta", project.ID, 4)
	fixtures.CreateGroup(ctx, "Alpha", project.ID, 4)

	got, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(got))
	}
	if got[0].Name != "Alpha" || got[1].Name != "zeta" {
		t.Errorf("unexpected order: %q, %q", got[0].Name, got[1].Name)
	}
}

func TestStore_ListByProject(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p1 := fixtures.CreateProject(ctx, "Compiler", 4)
	p2 := fixtures.CreateProject(ctx, "Database", 4)
	fixtures.CreateGroup(ctx, "Compiler", p1.ID, 4)
	fixtures.CreateGroup(ctx, "Database", p2.ID, 4)

	got, err := store.ListByProject(ctx, p1.ID)
	if err != nil {
		t.Fatalf("ListByProject failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 group, got %d", len(got))
	}
	if got[0].ProjectID != p1.ID {
		t.Errorf("project: got %v, want %v", got[0].ProjectID, p1.ID)
	}
}

func TestStore_DeleteAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	project := fixtures.CreateProject(ctx, "Compiler", 4)
	fixtures.CreateGroup(ctx, "One", project.ID, 4)
	fixtures.CreateGroup(ctx, "Two", project.ID, 4)

	n, err := store.DeleteAll(ctx)
	if err != nil {
		t.Fatalf("DeleteAll failed: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted count: got %d, want 2", n)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("count after DeleteAll: got %d, want 0", count)
	}
}

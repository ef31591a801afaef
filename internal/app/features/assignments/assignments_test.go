package assignments_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/capstonehub/internal/app/features/assignments"
	"github.com/dalemusser/capstonehub/internal/app/features/errors"
	groupstore "github.com/dalemusser/capstonehub/internal/app/store/groups"
	matchrunstore "github.com/dalemusser/capstonehub/internal/app/store/matchruns"
	membershipstore "github.com/dalemusser/capstonehub/internal/app/store/memberships"
	"github.com/dalemusser/capstonehub/internal/app/system/runlock"
	"github.com/dalemusser/capstonehub/internal/domain/models"
	"github.com/dalemusser/capstonehub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newHandler(db *mongo.Database) *assignments.Handler {
	lock := runlock.New(db, time.Minute)
	return assignments.NewHandler(db, lock, errors.NewErrorLogger(zap.NewNop()), zap.NewNop())
}

type previewBody struct {
	Assignments []struct {
		StudentID     string `json:"student_id"`
		ProjectID     string `json:"project_id"`
		RankSatisfied string `json:"rank_satisfied"`
	} `json:"assignments"`
	Unassigned []string `json:"unassigned"`
	Stats      struct {
		Students   int `json:"students"`
		Assigned   int `json:"assigned"`
		Rank1      int `json:"rank1"`
		Fallback   int `json:"fallback"`
		Unassigned int `json:"unassigned"`
	} `json:"stats"`
}

func TestServePreview(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	project := fixtures.CreateProject(ctx, "Compiler", 2)
	a := fixtures.CreateStudent(ctx, "Ada Lovelace", "ada@test.com")
	b := fixtures.CreateStudent(ctx, "Grace Hopper", "grace@test.com")

	now := time.Now().UTC()
	fixtures.CreatePreference(ctx, a.ID, project.ID, 1, now)
	fixtures.CreatePreference(ctx, b.ID, project.ID, 1, now.Add(time.Second))

	h := newHandler(db)
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/assignments/preview", testutil.InstructorUser())
	rec := httptest.NewRecorder()

	h.ServePreview(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var body previewBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(body.Assignments) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(body.Assignments))
	}
	for _, row := range body.Assignments {
		if row.ProjectID != project.ID.Hex() {
			t.Errorf("project: got %s, want %s", row.ProjectID, project.ID.Hex())
		}
		if row.RankSatisfied != "1" {
			t.Errorf("rank satisfied: got %s, want 1", row.RankSatisfied)
		}
	}
	if body.Stats.Students != 2 || body.Stats.Assigned != 2 || body.Stats.Rank1 != 2 {
		t.Errorf("unexpected stats: %+v", body.Stats)
	}

	// A preview never writes groups.
	count, err := groupstore.New(db).Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no groups after preview, got %d", count)
	}
}

func TestServePreview_FallbackPlacement(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateProject(ctx, "Compiler", 2)
	fixtures.CreateStudent(ctx, "Ada Lovelace", "ada@test.com")

	h := newHandler(db)
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/assignments/preview", testutil.InstructorUser())
	rec := httptest.NewRecorder()

	h.ServePreview(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}

	var body previewBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(body.Assignments) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(body.Assignments))
	}
	if body.Assignments[0].RankSatisfied != "fallback" {
		t.Errorf("rank satisfied: got %s, want fallback", body.Assignments[0].RankSatisfied)
	}
	if body.Stats.Fallback != 1 {
		t.Errorf("fallback count: got %d, want 1", body.Stats.Fallback)
	}
}

func TestServePreview_EmptyCatalogReportsUnassigned(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateProjectWithStatus(ctx, "Still Pending", 4, models.ProjectPending)
	student := fixtures.CreateStudent(ctx, "Ada Lovelace", "ada@test.com")

	h := newHandler(db)
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/assignments/preview", testutil.InstructorUser())
	rec := httptest.NewRecorder()

	h.ServePreview(rec, req)

	// An empty catalog is a reportable outcome for a preview, not an
	// error: every student comes back unassigned.
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var body previewBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(body.Assignments) != 0 {
		t.Fatalf("expected no assignments, got %d", len(body.Assignments))
	}
	if len(body.Unassigned) != 1 || body.Unassigned[0] != student.ID.Hex() {
		t.Errorf("unassigned: got %v, want [%s]", body.Unassigned, student.ID.Hex())
	}
	if body.Stats.Students != 1 || body.Stats.Assigned != 0 || body.Stats.Unassigned != 1 {
		t.Errorf("unexpected stats: %+v", body.Stats)
	}
}

func TestServePreview_BadMode(t *testing.T) {
	db := testutil.SetupTestDB(t)

	h := newHandler(db)
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/assignments/preview?mode=bogus", testutil.InstructorUser())
	rec := httptest.NewRecorder()

	h.ServePreview(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleCommit_NoApprovedProjects(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateProjectWithStatus(ctx, "Still Pending", 4, models.ProjectPending)
	fixtures.CreateStudent(ctx, "Ada Lovelace", "ada@test.com")

	h := newHandler(db)
	req := testutil.NewAuthenticatedRequest(http.MethodPost, "/assignments/commit", testutil.InstructorUser())
	rec := httptest.NewRecorder()

	h.HandleCommit(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, http.StatusUnprocessableEntity, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "no_eligible_projects") {
		t.Errorf("expected no_eligible_projects code, got %s", rec.Body.String())
	}

	count, err := groupstore.New(db).Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no groups, got %d", count)
	}

	// The refused commit still releases the run lock.
	_, held, err := runlock.New(db, time.Minute).Holder(ctx, runlock.AssignmentRun)
	if err != nil {
		t.Fatalf("Holder failed: %v", err)
	}
	if held {
		t.Error("expected run lock to be released after a refused commit")
	}
}

func TestHandleCommit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	project := fixtures.CreateProject(ctx, "Compiler", 2)
	a := fixtures.CreateStudent(ctx, "Ada Lovelace", "ada@test.com")
	b := fixtures.CreateStudent(ctx, "Grace Hopper", "grace@test.com")

	now := time.Now().UTC()
	fixtures.CreatePreference(ctx, a.ID, project.ID, 1, now)
	fixtures.CreatePreference(ctx, b.ID, project.ID, 2, now)

	instructor := fixtures.CreateInstructor(ctx, "Prof Plum", "plum@test.com")

	h := newHandler(db)
	req := testutil.NewAuthenticatedRequest(http.MethodPost, "/assignments/commit",
		testutil.AsUser(instructor.ID, "Prof Plum", "instructor"))
	rec := httptest.NewRecorder()

	h.HandleCommit(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"groups_created":1`) {
		t.Errorf("expected 1 group created, got %s", rec.Body.String())
	}

	groups, err := groupstore.New(db).List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if groups[0].Name != "Compiler" {
		t.Errorf("group name: got %q, want %q", groups[0].Name, "Compiler")
	}
	if groups[0].ProjectID != project.ID {
		t.Errorf("group project: got %v, want %v", groups[0].ProjectID, project.ID)
	}

	members, err := membershipstore.New(db).ListByGroup(ctx, groups[0].ID)
	if err != nil {
		t.Fatalf("ListByGroup failed: %v", err)
	}
	if len(members) != 2 {
		t.Errorf("expected 2 members, got %d", len(members))
	}

	runs, err := matchrunstore.New(db).ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run record, got %d", len(runs))
	}
	if runs[0].Action != models.RunActionCommit {
		t.Errorf("run action: got %q, want %q", runs[0].Action, models.RunActionCommit)
	}
	if runs[0].ActorID != instructor.ID {
		t.Errorf("run actor: got %v, want %v", runs[0].ActorID, instructor.ID)
	}

	// The run lock is released once the commit finishes.
	_, held, err := runlock.New(db, time.Minute).Holder(ctx, runlock.AssignmentRun)
	if err != nil {
		t.Fatalf("Holder failed: %v", err)
	}
	if held {
		t.Error("expected run lock to be released after commit")
	}
}

func TestHandleCommit_FullReplacesExistingGroups(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	project := fixtures.CreateProject(ctx, "Compiler", 2)
	stale := fixtures.CreateGroup(ctx, "Stale Group", project.ID, 2)
	a := fixtures.CreateStudent(ctx, "Ada Lovelace", "ada@test.com")
	fixtures.CreateGroupMembership(ctx, a.ID, stale.ID, project.ID, 1)
	fixtures.CreatePreference(ctx, a.ID, project.ID, 1, time.Now().UTC())

	h := newHandler(db)
	req := testutil.NewAuthenticatedRequest(http.MethodPost, "/assignments/commit", testutil.InstructorUser())
	rec := httptest.NewRecorder()

	h.HandleCommit(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	groups, err := groupstore.New(db).List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("expected 1 group after full commit, got %d", len(groups))
	}
	if groups[0].ID == stale.ID {
		t.Error("expected the stale group to be replaced")
	}
}

func TestHandleCommit_Partial(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	project := fixtures.CreateProject(ctx, "Compiler", 2)
	existing := fixtures.CreateGroup(ctx, "Compiler", project.ID, 2)
	grouped := fixtures.CreateStudent(ctx, "Ada Lovelace", "ada@test.com")
	fixtures.CreateGroupMembership(ctx, grouped.ID, existing.ID, project.ID, 1)

	free := fixtures.CreateStudent(ctx, "Grace Hopper", "grace@test.com")
	fixtures.CreatePreference(ctx, free.ID, project.ID, 1, time.Now().UTC())

	h := newHandler(db)
	req := testutil.NewAuthenticatedRequest(http.MethodPost, "/assignments/commit?mode=partial", testutil.InstructorUser())
	rec := httptest.NewRecorder()

	h.HandleCommit(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	// The existing group survives and a new one holds the free student.
	groups, err := groupstore.New(db).List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups after partial commit, got %d", len(groups))
	}

	survived := false
	for _, g := range groups {
		if g.ID == existing.ID {
			survived = true
		}
	}
	if !survived {
		t.Error("expected the existing group to survive a partial commit")
	}

	has, err := membershipstore.New(db).HasGroup(ctx, free.ID)
	if err != nil {
		t.Fatalf("HasGroup failed: %v", err)
	}
	if !has {
		t.Error("expected the free student to be placed")
	}
}

func TestHandleCommit_LockHeld(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	project := fixtures.CreateProject(ctx, "Compiler", 2)
	student := fixtures.CreateStudent(ctx, "Ada Lovelace", "ada@test.com")
	fixtures.CreatePreference(ctx, student.ID, project.ID, 1, time.Now().UTC())

	lock := runlock.New(db, time.Minute)
	if _, err := lock.Acquire(ctx, runlock.AssignmentRun, "someone-else"); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	h := newHandler(db)
	req := testutil.NewAuthenticatedRequest(http.MethodPost, "/assignments/commit", testutil.InstructorUser())
	rec := httptest.NewRecorder()

	h.HandleCommit(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusConflict)
	}
	if !strings.Contains(rec.Body.String(), "concurrent_run") {
		t.Errorf("expected concurrent_run code, got %s", rec.Body.String())
	}

	// Nothing was written while the lock was held elsewhere.
	count, err := groupstore.New(db).Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no groups, got %d", count)
	}
}

func TestHandleClear(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	project := fixtures.CreateProject(ctx, "Compiler", 2)
	group := fixtures.CreateGroup(ctx, "Compiler", project.ID, 2)
	student := fixtures.CreateStudent(ctx, "Ada Lovelace", "ada@test.com")
	fixtures.CreateGroupMembership(ctx, student.ID, group.ID, project.ID, 1)
	fixtures.CreatePreference(ctx, student.ID, project.ID, 1, time.Now().UTC())

	h := newHandler(db)
	req := testutil.NewAuthenticatedRequest(http.MethodPost, "/assignments/clear", testutil.InstructorUser())
	rec := httptest.NewRecorder()

	h.HandleClear(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"groups_deleted":1`) {
		t.Errorf("expected 1 group deleted, got %s", rec.Body.String())
	}

	count, err := groupstore.New(db).Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no groups after clear, got %d", count)
	}

	// Preferences survive a clear.
	has, err := membershipstore.New(db).HasGroup(ctx, student.ID)
	if err != nil {
		t.Fatalf("HasGroup failed: %v", err)
	}
	if has {
		t.Error("expected membership removed by clear")
	}

	// Clearing again is a no-op that still succeeds.
	req = testutil.NewAuthenticatedRequest(http.MethodPost, "/assignments/clear", testutil.InstructorUser())
	rec = httptest.NewRecorder()
	h.HandleClear(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("second clear: got %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `"groups_deleted":0`) {
		t.Errorf("expected 0 groups deleted, got %s", rec.Body.String())
	}
}

func TestServeGroup_Policy(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	project := fixtures.CreateProject(ctx, "Compiler", 2)
	group := fixtures.CreateGroup(ctx, "Compiler", project.ID, 2)
	member := fixtures.CreateStudent(ctx, "Ada Lovelace", "ada@test.com")
	outsider := fixtures.CreateStudent(ctx, "Grace Hopper", "grace@test.com")
	fixtures.CreateGroupMembership(ctx, member.ID, group.ID, project.ID, 1)

	h := newHandler(db)

	serve := func(user testutil.TestUser) *httptest.ResponseRecorder {
		req := testutil.NewAuthenticatedRequest(http.MethodGet, "/assignments/groups/"+group.ID.Hex(), user)
		req = testutil.WithChiURLParam(req, "groupID", group.ID.Hex())
		rec := httptest.NewRecorder()
		h.ServeGroup(rec, req)
		return rec
	}

	if rec := serve(testutil.AsUser(member.ID, "Ada Lovelace", "student")); rec.Code != http.StatusOK {
		t.Errorf("member: got %d, want %d", rec.Code, http.StatusOK)
	}
	if rec := serve(testutil.AsUser(outsider.ID, "Grace Hopper", "student")); rec.Code != http.StatusForbidden {
		t.Errorf("outsider: got %d, want %d", rec.Code, http.StatusForbidden)
	}
	if rec := serve(testutil.InstructorUser()); rec.Code != http.StatusOK {
		t.Errorf("instructor: got %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestServeGroup_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)

	h := newHandler(db)
	missing := "65f000000000000000000000"
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/assignments/groups/"+missing, testutil.InstructorUser())
	req = testutil.WithChiURLParam(req, "groupID", missing)
	rec := httptest.NewRecorder()

	h.ServeGroup(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

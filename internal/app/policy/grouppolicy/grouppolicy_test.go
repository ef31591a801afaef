package grouppolicy_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/capstonehub/internal/app/policy/grouppolicy"
	"github.com/dalemusser/capstonehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIsMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	project := fixtures.CreateProject(ctx, "Compiler", 4)
	group := fixtures.CreateGroup(ctx, "Compiler", project.ID, 4)
	member := fixtures.CreateStudent(ctx, "Ada Lovelace", "ada@test.com")
	outsider := fixtures.CreateStudent(ctx, "Grace Hopper", "grace@test.com")
	fixtures.CreateGroupMembership(ctx, member.ID, group.ID, project.ID, 1)

	got, err := grouppolicy.IsMember(ctx, db, group.ID, member.ID)
	if err != nil {
		t.Fatalf("IsMember failed: %v", err)
	}
	if !got {
		t.Error("expected member to be reported as member")
	}

	got, err = grouppolicy.IsMember(ctx, db, group.ID, outsider.ID)
	if err != nil {
		t.Fatalf("IsMember failed: %v", err)
	}
	if got {
		t.Error("expected outsider not to be a member")
	}
}

func TestCanViewGroup_Roles(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sponsor := fixtures.CreateClient(ctx, "Acme Corp", "acme@test.com")
	project := fixtures.CreateProject(ctx, "Compiler", 4)
	if _, err := db.Collection("projects").UpdateByID(ctx, project.ID,
		bson.M{"$set": bson.M{"client_id": sponsor.ID}}); err != nil {
		t.Fatalf("failed to set project sponsor: %v", err)
	}

	group := fixtures.CreateGroup(ctx, "Compiler", project.ID, 4)
	member := fixtures.CreateStudent(ctx, "Ada Lovelace", "ada@test.com")
	outsider := fixtures.CreateStudent(ctx, "Grace Hopper", "grace@test.com")
	fixtures.CreateGroupMembership(ctx, member.ID, group.ID, project.ID, 1)

	otherSponsor := fixtures.CreateClient(ctx, "Rival Corp", "rival@test.com")

	cases := []struct {
		name string
		user testutil.TestUser
		want bool
	}{
		{"instructor", testutil.InstructorUser(), true},
		{"admin", testutil.AdminUser(), true},
		{"member student", testutil.AsUser(member.ID, "Ada Lovelace", "student"), true},
		{"outsider student", testutil.AsUser(outsider.ID, "Grace Hopper", "student"), false},
		{"sponsoring client", testutil.AsUser(sponsor.ID, "Acme Corp", "client"), true},
		{"other client", testutil.AsUser(otherSponsor.ID, "Rival Corp", "client"), false},
	}

	for _, tc := range cases {
		req := testutil.NewAuthenticatedRequest(http.MethodGet, "/", tc.user)
		got, err := grouppolicy.CanViewGroup(ctx, db, req, group.ID, project.ID)
		if err != nil {
			t.Fatalf("%s: CanViewGroup failed: %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCanViewGroup_Anonymous(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := testutil.NewRequest(http.MethodGet, "/")
	got, err := grouppolicy.CanViewGroup(ctx, db, req, primitive.NewObjectID(), primitive.NewObjectID())
	if err != nil {
		t.Fatalf("CanViewGroup failed: %v", err)
	}
	if got {
		t.Error("expected anonymous viewer to be denied")
	}
}

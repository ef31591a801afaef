package authz_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/capstonehub/internal/app/system/authz"
	"github.com/dalemusser/capstonehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserCtx_NoUser(t *testing.T) {
	req := testutil.NewRequest(http.MethodGet, "/")

	role, name, userID, ok := authz.UserCtx(req)
	if ok {
		t.Error("expected ok=false without a session user")
	}
	if role != "visitor" {
		t.Errorf("role: got %q, want %q", role, "visitor")
	}
	if name != "" {
		t.Errorf("name: got %q, want empty", name)
	}
	if userID != primitive.NilObjectID {
		t.Errorf("userID: got %v, want NilObjectID", userID)
	}
}

func TestUserCtx_ValidUser(t *testing.T) {
	id := primitive.NewObjectID()
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/",
		testutil.AsUser(id, "Prof Plum", "Instructor"))

	role, name, userID, ok := authz.UserCtx(req)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if role != "instructor" {
		t.Errorf("role: got %q, want lowercased %q", role, "instructor")
	}
	if name != "Prof Plum" {
		t.Errorf("name: got %q, want %q", name, "Prof Plum")
	}
	if userID != id {
		t.Errorf("userID: got %v, want %v", userID, id)
	}
}

func TestUserCtx_MalformedID(t *testing.T) {
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/", testutil.TestUser{
		ID:   "not-a-hex-id",
		Role: "admin",
	})

	_, _, _, ok := authz.UserCtx(req)
	if ok {
		t.Error("expected ok=false for a malformed user ID")
	}
}

func TestCanRunAssignments(t *testing.T) {
	cases := []struct {
		role string
		want bool
	}{
		{"admin", true},
		{"instructor", true},
		{"student", false},
		{"client", false},
	}
	for _, tc := range cases {
		req := testutil.NewAuthenticatedRequest(http.MethodGet, "/",
			testutil.AsUser(primitive.NewObjectID(), "Someone", tc.role))
		if got := authz.CanRunAssignments(req); got != tc.want {
			t.Errorf("CanRunAssignments(%s): got %v, want %v", tc.role, got, tc.want)
		}
	}
}

func TestRolePredicates(t *testing.T) {
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/",
		testutil.AsUser(primitive.NewObjectID(), "Someone", "client"))

	if !authz.IsClient(req) {
		t.Error("expected IsClient true")
	}
	if authz.IsAdmin(req) || authz.IsInstructor(req) || authz.IsStudent(req) {
		t.Error("expected other predicates false for a client")
	}
}

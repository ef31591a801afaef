package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/capstonehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given role.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		EmailCI:    text.Fold(email),
		Role:       role,
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateStudent creates a test student user.
func (f *Fixtures) CreateStudent(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "student")
}

// CreateInstructor creates a test instructor user.
func (f *Fixtures) CreateInstructor(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "instructor")
}

// CreateClient creates a test client (project sponsor) user.
func (f *Fixtures) CreateClient(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "client")
}

// CreateDisabledStudent creates a student with disabled status, which
// the matching roster must exclude.
func (f *Fixtures) CreateDisabledStudent(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		EmailCI:    text.Fold(email),
		Role:       "student",
		Status:     "disabled",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create disabled test student: %v", err)
	}

	return user
}

// CreateProject creates an approved test project with the given team size.
func (f *Fixtures) CreateProject(ctx context.Context, title string, teamSize int) models.Project {
	f.t.Helper()
	return f.CreateProjectWithStatus(ctx, title, teamSize, models.ProjectApproved)
}

// CreateProjectWithStatus creates a test project in the given status.
func (f *Fixtures) CreateProjectWithStatus(ctx context.Context, title string, teamSize int, stat string) models.Project {
	f.t.Helper()

	now := time.Now().UTC()
	project := models.Project{
		ID:        primitive.NewObjectID(),
		Title:     title,
		TitleCI:   text.Fold(title),
		TeamSize:  teamSize,
		Status:    stat,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("projects").InsertOne(ctx, project)
	if err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}

	return project
}

// CreatePreference records one ranked choice for a student. SubmittedAt
// is the timestamp the matching engine uses to break rank ties.
func (f *Fixtures) CreatePreference(ctx context.Context, studentID, projectID primitive.ObjectID, rank int, submittedAt time.Time) models.Preference {
	f.t.Helper()

	pref := models.Preference{
		ID:          primitive.NewObjectID(),
		StudentID:   studentID,
		ProjectID:   projectID,
		Rank:        rank,
		SubmittedAt: submittedAt,
	}

	_, err := f.db.Collection("preferences").InsertOne(ctx, pref)
	if err != nil {
		f.t.Fatalf("failed to create test preference: %v", err)
	}

	return pref
}

// CreateGroup creates a committed group for a project.
func (f *Fixtures) CreateGroup(ctx context.Context, name string, projectID primitive.ObjectID, capacity int) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	group := models.Group{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		ProjectID: projectID,
		Capacity:  capacity,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("groups").InsertOne(ctx, group)
	if err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}

	return group
}

// CreateGroupMembership creates a membership record linking a student
// to a group.
func (f *Fixtures) CreateGroupMembership(ctx context.Context, userID, groupID, projectID primitive.ObjectID, assignedRank int) models.GroupMembership {
	f.t.Helper()

	membership := models.GroupMembership{
		ID:           primitive.NewObjectID(),
		UserID:       userID,
		GroupID:      groupID,
		ProjectID:    projectID,
		AssignedRank: assignedRank,
		CreatedAt:    time.Now().UTC(),
	}

	_, err := f.db.Collection("group_memberships").InsertOne(ctx, membership)
	if err != nil {
		f.t.Fatalf("failed to create test group membership: %v", err)
	}

	return membership
}

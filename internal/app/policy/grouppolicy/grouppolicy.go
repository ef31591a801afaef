// internal/app/policy/grouppolicy/grouppolicy.go
package grouppolicy

import (
	"context"
	"net/http"

	"github.com/dalemusser/capstonehub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// IsMember returns true if the given user belongs to the given group
// according to the authoritative group_memberships collection.
func IsMember(ctx context.Context, db *mongo.Database, groupID, userID primitive.ObjectID) (bool, error) {
	c := db.Collection("group_memberships")
	n, err := c.CountDocuments(ctx, bson.M{
		"group_id": groupID,
		"user_id":  userID,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CanViewGroup reports whether the current request user can view the
// group's roster:
// - Admins and instructors always can
// - Students can only if they are a member of this specific group
// - Clients can only if the group was formed for one of their projects
// Returns an error if the database check fails, allowing callers to
// distinguish between "not authorized" (false, nil) and "database
// error" (false, err).
func CanViewGroup(ctx context.Context, db *mongo.Database, r *http.Request, groupID, projectID primitive.ObjectID) (bool, error) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false, nil
	}
	if role == "admin" || role == "instructor" {
		return true, nil
	}
	if role == "client" {
		n, err := db.Collection("projects").CountDocuments(ctx, bson.M{
			"_id":       projectID,
			"client_id": uid,
		})
		if err != nil {
			return false, err
		}
		return n > 0, nil
	}
	if role != "student" {
		return false, nil
	}
	return IsMember(ctx, db, groupID, uid)
}

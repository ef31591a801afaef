// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.

The unique indexes here are load-bearing: they are what enforce the
one-group-per-student and one-rank-per-student invariants at the store
level, independent of application logic.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureProjects(ctx, db); err != nil {
		problems = append(problems, "projects: "+err.Error())
	}
	if err := ensurePreferences(ctx, db); err != nil {
		problems = append(problems, "preferences: "+err.Error())
	}
	if err := ensureGroups(ctx, db); err != nil {
		problems = append(problems, "groups: "+err.Error())
	}
	if err := ensureGroupMemberships(ctx, db); err != nil {
		problems = append(problems, "group_memberships: "+err.Error())
	}
	if err := ensureMatchRuns(ctx, db); err != nil {
		problems = append(problems, "match_runs: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	logger.Info("indexes ensured")
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return createAll(ctx, db.Collection("users"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email_ci", Value: 1}},
			Options: options.Index().SetName("uniq_email_ci").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("role_status"),
		},
	})
}

func ensureProjects(ctx context.Context, db *mongo.Database) error {
	return createAll(ctx, db.Collection("projects"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "title_ci", Value: 1}},
			Options: options.Index().SetName("uniq_title_ci").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("status"),
		},
	})
}

func ensurePreferences(ctx context.Context, db *mongo.Database) error {
	return createAll(ctx, db.Collection("preferences"), []mongo.IndexModel{
		{
			// At most one preference per (student, rank).
			Keys:    bson.D{{Key: "student_id", Value: 1}, {Key: "rank", Value: 1}},
			Options: options.Index().SetName("uniq_student_rank").SetUnique(true),
		},
		{
			// A student may not list the same project twice.
			Keys:    bson.D{{Key: "student_id", Value: 1}, {Key: "project_id", Value: 1}},
			Options: options.Index().SetName("uniq_student_project").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}},
			Options: options.Index().SetName("project"),
		},
	})
}

func ensureGroups(ctx context.Context, db *mongo.Database) error {
	return createAll(ctx, db.Collection("groups"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}},
			Options: options.Index().SetName("project"),
		},
	})
}

func ensureGroupMemberships(ctx context.Context, db *mongo.Database) error {
	return createAll(ctx, db.Collection("group_memberships"), []mongo.IndexModel{
		{
			// A student belongs to at most one group system-wide.
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("uniq_user").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}},
			Options: options.Index().SetName("group"),
		},
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}},
			Options: options.Index().SetName("project"),
		},
	})
}

func ensureMatchRuns(ctx context.Context, db *mongo.Database) error {
	return createAll(ctx, db.Collection("match_runs"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "started_at", Value: -1}},
			Options: options.Index().SetName("started_at_desc"),
		},
	})
}

// createAll creates the desired indexes, tolerating the common
// already-exists conflicts so EnsureAll stays idempotent across
// restarts and minor option drift.
func createAll(ctx context.Context, coll *mongo.Collection, idxs []mongo.IndexModel) error {
	var errs []string
	for _, m := range idxs {
		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isConflictErr(err) {
				continue
			}
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Mongo/DocDB return IndexOptionsConflict or IndexKeySpecsConflict when
// an index with the same keys already exists under a different name or
// with different options.
func isConflictErr(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "IndexOptionsConflict") || strings.Contains(s, "IndexKeySpecsConflict")
}

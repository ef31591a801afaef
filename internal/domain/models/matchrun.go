// internal/domain/models/matchrun.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Match run actions and modes.
const (
	RunActionCommit = "commit"
	RunActionClear  = "clear"

	RunModeFull    = "full"
	RunModePartial = "partial"
)

// MatchRun is the audit record written for every committed assignment
// run and every clear, so instructors can see who ran what and when.
type MatchRun struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Action  string             `bson:"action" json:"action"`         // commit | clear
	Mode    string             `bson:"mode,omitempty" json:"mode,omitempty"` // full | partial (commit only)
	ActorID primitive.ObjectID `bson:"actor_id" json:"actor_id"`

	GroupsCreated   int `bson:"groups_created" json:"groups_created"`
	GroupsDeleted   int `bson:"groups_deleted" json:"groups_deleted"`
	StudentsPlaced  int `bson:"students_placed" json:"students_placed"`
	UnassignedCount int `bson:"unassigned_count" json:"unassigned_count"`

	StartedAt  time.Time `bson:"started_at" json:"started_at"`
	FinishedAt time.Time `bson:"finished_at" json:"finished_at"`
}

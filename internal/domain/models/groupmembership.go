// internal/domain/models/groupmembership.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RankFallback marks a membership granted by the fallback phase rather
// than by one of the student's declared preferences.
const RankFallback = 0

// GroupMembership is the authoritative join between students and groups.
// A unique index on user_id enforces that a student belongs to at most
// one group system-wide.
type GroupMembership struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID   primitive.ObjectID `bson:"group_id" json:"group_id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	ProjectID primitive.ObjectID `bson:"project_id" json:"project_id"`

	// AssignedRank records which declared preference this placement
	// satisfied (1..3), or RankFallback for fallback placements.
	AssignedRank int `bson:"assigned_rank" json:"assigned_rank"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

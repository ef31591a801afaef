// internal/domain/models/preference.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxPreferences is the most ranked choices a student may submit.
const MaxPreferences = 3

// Preference is one ranked project choice submitted by a student.
// Unique indexes enforce at most one document per (student_id, rank)
// and per (student_id, project_id).
//
// SubmittedAt is the tie-break timestamp used by the matching engine:
// when two students declare the same rank for the same project, the
// earlier submission wins. Replacing a preference list resets it.
type Preference struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID primitive.ObjectID `bson:"student_id" json:"student_id"`
	ProjectID primitive.ObjectID `bson:"project_id" json:"project_id"`
	Rank      int                `bson:"rank" json:"rank"` // 1..3

	SubmittedAt time.Time `bson:"submitted_at" json:"submitted_at"`
}

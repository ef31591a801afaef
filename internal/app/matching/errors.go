// internal/app/matching/errors.go
package matching

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IntegrityError reports a malformed preference snapshot: a duplicate
// rank, a project listed twice, or a reference to a project that is not
// approved. These indicate an upstream bug and are surfaced rather than
// silently dropped.
type IntegrityError struct {
	StudentID primitive.ObjectID
	ProjectID primitive.ObjectID
	Reason    string
}

func (e *IntegrityError) Error() string {
	switch {
	case e.StudentID.IsZero() && e.ProjectID.IsZero():
		return "preference data integrity: " + e.Reason
	case e.StudentID.IsZero():
		return fmt.Sprintf("preference data integrity: project %s: %s", e.ProjectID.Hex(), e.Reason)
	default:
		return fmt.Sprintf("preference data integrity: student %s: %s", e.StudentID.Hex(), e.Reason)
	}
}

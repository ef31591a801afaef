// internal/app/matching/snapshot.go
package matching

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxRank is the deepest preference a student may declare.
const MaxRank = 3

// Choice is one ranked project preference inside a snapshot.
// SubmittedAt is the tie-break timestamp: when two students contest the
// same seat at the same rank, the earlier submission wins.
type Choice struct {
	ProjectID   primitive.ObjectID
	Rank        int // 1..MaxRank
	SubmittedAt time.Time
}

// Student is an eligible student and their ordered preference list.
// Choices must be sorted by Rank ascending; an empty list is valid and
// routes the student to the fallback phase.
type Student struct {
	ID      primitive.ObjectID
	Choices []Choice
}

// Project is an open team slot set: a project with the number of seats
// it can still take. In a partial run Capacity is the residual capacity
// after previously committed groups.
type Project struct {
	ID       primitive.ObjectID
	Capacity int
}

// Snapshot is the immutable point-in-time input to one matching run.
// It is the sole input to Match: the same snapshot always produces the
// same result.
type Snapshot struct {
	Students []Student
	Projects []Project
}

// Validate checks the structural invariants the engine relies on:
// capacities of at least one seat, ranks within 1..MaxRank, and no
// duplicate rank or duplicate project within a student's list. It does
// not check that choices reference projects present in the snapshot;
// partial runs legitimately omit projects that are already full, and
// Match skips such choices.
func (s Snapshot) Validate() error {
	for _, p := range s.Projects {
		if p.Capacity < 1 {
			return &IntegrityError{ProjectID: p.ID, Reason: "project capacity must be at least 1"}
		}
	}
	for _, st := range s.Students {
		seenRank := make(map[int]bool, len(st.Choices))
		seenProj := make(map[primitive.ObjectID]bool, len(st.Choices))
		prevRank := 0
		for _, c := range st.Choices {
			if c.Rank < 1 || c.Rank > MaxRank {
				return &IntegrityError{StudentID: st.ID, ProjectID: c.ProjectID, Reason: "preference rank out of range"}
			}
			if seenRank[c.Rank] {
				return &IntegrityError{StudentID: st.ID, ProjectID: c.ProjectID, Reason: "duplicate preference rank"}
			}
			if seenProj[c.ProjectID] {
				return &IntegrityError{StudentID: st.ID, ProjectID: c.ProjectID, Reason: "project listed twice"}
			}
			if c.Rank < prevRank {
				return &IntegrityError{StudentID: st.ID, ProjectID: c.ProjectID, Reason: "choices not sorted by rank"}
			}
			seenRank[c.Rank] = true
			seenProj[c.ProjectID] = true
			prevRank = c.Rank
		}
	}
	return nil
}

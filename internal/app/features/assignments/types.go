// internal/app/features/assignments/types.go
package assignments

import (
	"sort"
	"strconv"

	"github.com/dalemusser/capstonehub/internal/app/matching"
)

// assignmentRow is one student's placement in a preview or commit
// response. RankSatisfied is "1", "2", "3", or "fallback".
type assignmentRow struct {
	StudentID     string `json:"student_id"`
	ProjectID     string `json:"project_id"`
	RankSatisfied string `json:"rank_satisfied"`
}

// previewResponse is the read-only view of a matching run.
type previewResponse struct {
	Assignments []assignmentRow  `json:"assignments"`
	Unassigned  []string         `json:"unassigned"`
	Stats       matching.Summary `json:"stats"`
}

// commitResponse reports a persisted run.
type commitResponse struct {
	GroupsCreated int              `json:"groups_created"`
	Unassigned    []string         `json:"unassigned"`
	Stats         matching.Summary `json:"stats"`
}

// clearResponse reports how many groups a clear removed.
type clearResponse struct {
	GroupsDeleted int `json:"groups_deleted"`
}

func rankLabel(rank int) string {
	if rank == matching.RankFallback {
		return "fallback"
	}
	return strconv.Itoa(rank)
}

// resultRows flattens a Result into response rows sorted by student ID
// so identical results always serialize identically.
func resultRows(res matching.Result) (rows []assignmentRow, unassigned []string) {
	rows = make([]assignmentRow, 0, len(res.Placements))
	for student, pl := range res.Placements {
		rows = append(rows, assignmentRow{
			StudentID:     student.Hex(),
			ProjectID:     pl.ProjectID.Hex(),
			RankSatisfied: rankLabel(pl.Rank),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].StudentID < rows[j].StudentID })

	unassigned = make([]string, 0, len(res.Unassigned))
	for _, id := range res.Unassigned {
		unassigned = append(unassigned, id.Hex())
	}
	return rows, unassigned
}

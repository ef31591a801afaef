// internal/app/matching/summary.go
package matching

import "sort"

// ProjectFill reports how full one project's team ended up relative to
// the capacity offered in the snapshot.
type ProjectFill struct {
	ProjectID string `json:"project_id"`
	Capacity  int    `json:"capacity"`
	Assigned  int    `json:"assigned"`
}

// Summary aggregates a Result for preview and commit responses:
// counts by satisfied rank, fallback and unassigned totals, and the
// per-project fill level.
type Summary struct {
	Students   int `json:"students"`
	Assigned   int `json:"assigned"`
	Rank1      int `json:"rank1"`
	Rank2      int `json:"rank2"`
	Rank3      int `json:"rank3"`
	Fallback   int `json:"fallback"`
	Unassigned int `json:"unassigned"`

	Projects []ProjectFill `json:"projects"` // sorted by project ID
}

// Summarize computes the aggregate view of res against snap. It reads
// both without modification, so it is as safe to call repeatedly as
// Match itself.
func Summarize(snap Snapshot, res Result) Summary {
	sum := Summary{
		Students:   len(snap.Students),
		Unassigned: len(res.Unassigned),
	}

	assigned := make(map[string]int, len(snap.Projects))
	for _, pl := range res.Placements {
		sum.Assigned++
		assigned[pl.ProjectID.Hex()]++
		switch pl.Rank {
		case 1:
			sum.Rank1++
		case 2:
			sum.Rank2++
		case 3:
			sum.Rank3++
		case RankFallback:
			sum.Fallback++
		}
	}

	sum.Projects = make([]ProjectFill, 0, len(snap.Projects))
	for _, p := range snap.Projects {
		sum.Projects = append(sum.Projects, ProjectFill{
			ProjectID: p.ID.Hex(),
			Capacity:  p.Capacity,
			Assigned:  assigned[p.ID.Hex()],
		})
	}
	sort.Slice(sum.Projects, func(i, j int) bool {
		return sum.Projects[i].ProjectID < sum.Projects[j].ProjectID
	})
	return sum
}

// internal/app/store/queries/matchsnapshot/matchsnapshot.go
package matchsnapshot

import (
	"context"
	"sort"

	"github.com/dalemusser/capstonehub/internal/app/matching"
	membershipstore "github.com/dalemusser/capstonehub/internal/app/store/memberships"
	preferencestore "github.com/dalemusser/capstonehub/internal/app/store/preferences"
	projectstore "github.com/dalemusser/capstonehub/internal/app/store/projects"
	userstore "github.com/dalemusser/capstonehub/internal/app/store/users"
	"github.com/dalemusser/capstonehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Mode selects which roster and capacities a snapshot covers.
type Mode string

const (
	// Full covers every active student and every approved project at
	// its full team size. A full commit replaces all existing groups.
	Full Mode = "full"

	// Partial covers only students without a committed group, against
	// the capacity left over after existing groups. A partial commit
	// adds groups without disturbing existing ones.
	Partial Mode = "partial"
)

// Load reads the current preferences, project catalog, and capacities
// into an immutable matching.Snapshot. It is a pure data fetch: the
// returned snapshot is the sole input to one engine run.
//
// A preference referencing a missing or non-approved project, or a
// duplicate rank within one student's list, returns a
// *matching.IntegrityError: these indicate an upstream bug and are
// surfaced rather than silently dropped.
func Load(ctx context.Context, db *mongo.Database, mode Mode) (matching.Snapshot, error) {
	projects, err := projectstore.New(db).ListApproved(ctx)
	if err != nil {
		return matching.Snapshot{}, err
	}

	approved := make(map[primitive.ObjectID]bool, len(projects))
	for _, p := range projects {
		if p.TeamSize < 1 {
			return matching.Snapshot{}, &matching.IntegrityError{ProjectID: p.ID, Reason: "project capacity must be at least 1"}
		}
		approved[p.ID] = true
	}

	students, err := userstore.New(db).ListActiveStudents(ctx)
	if err != nil {
		return matching.Snapshot{}, err
	}

	memberships := membershipstore.New(db)

	// Partial runs exclude students who already hold a group and offer
	// only the seats their groups have not consumed.
	var grouped map[primitive.ObjectID]bool
	occupancy := map[primitive.ObjectID]int{}
	if mode == Partial {
		ids, err := memberships.GroupedUserIDs(ctx)
		if err != nil {
			return matching.Snapshot{}, err
		}
		grouped = make(map[primitive.ObjectID]bool, len(ids))
		for _, id := range ids {
			grouped[id] = true
		}
		occupancy, err = memberships.CountByProject(ctx)
		if err != nil {
			return matching.Snapshot{}, err
		}
	}

	prefs, err := preferencestore.New(db).ListAll(ctx)
	if err != nil {
		return matching.Snapshot{}, err
	}

	byStudent := map[primitive.ObjectID][]matching.Choice{}
	ranksSeen := map[primitive.ObjectID]map[int]bool{}
	for _, pref := range prefs {
		if !approved[pref.ProjectID] {
			return matching.Snapshot{}, &matching.IntegrityError{
				StudentID: pref.StudentID,
				ProjectID: pref.ProjectID,
				Reason:    "preference references a project that is missing or not approved",
			}
		}
		if ranksSeen[pref.StudentID] == nil {
			ranksSeen[pref.StudentID] = map[int]bool{}
		}
		if ranksSeen[pref.StudentID][pref.Rank] {
			return matching.Snapshot{}, &matching.IntegrityError{
				StudentID: pref.StudentID,
				ProjectID: pref.ProjectID,
				Reason:    "duplicate preference rank",
			}
		}
		ranksSeen[pref.StudentID][pref.Rank] = true
		byStudent[pref.StudentID] = append(byStudent[pref.StudentID], matching.Choice{
			ProjectID:   pref.ProjectID,
			Rank:        pref.Rank,
			SubmittedAt: pref.SubmittedAt,
		})
	}

	snap := matching.Snapshot{}
	for _, u := range students {
		if grouped[u.ID] {
			continue
		}
		choices := byStudent[u.ID]
		sort.Slice(choices, func(i, j int) bool { return choices[i].Rank < choices[j].Rank })
		snap.Students = append(snap.Students, matching.Student{ID: u.ID, Choices: choices})
	}
	for _, p := range projects {
		capacity := p.TeamSize
		if mode == Partial {
			capacity -= occupancy[p.ID]
		}
		if capacity < 1 {
			continue
		}
		snap.Projects = append(snap.Projects, matching.Project{ID: p.ID, Capacity: capacity})
	}

	if err := snap.Validate(); err != nil {
		return matching.Snapshot{}, err
	}
	return snap, nil
}

// ProjectTitles returns a lookup of approved project titles for
// response building.
func ProjectTitles(projects []models.Project) map[primitive.ObjectID]string {
	titles := make(map[primitive.ObjectID]string, len(projects))
	for _, p := range projects {
		titles[p.ID] = p.Title
	}
	return titles
}

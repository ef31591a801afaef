// internal/app/features/assignments/commit.go
package assignments

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	uierrors "github.com/dalemusser/capstonehub/internal/app/features/errors"
	"github.com/dalemusser/capstonehub/internal/app/matching"
	groupstore "github.com/dalemusser/capstonehub/internal/app/store/groups"
	matchrunstore "github.com/dalemusser/capstonehub/internal/app/store/matchruns"
	membershipstore "github.com/dalemusser/capstonehub/internal/app/store/memberships"
	projectstore "github.com/dalemusser/capstonehub/internal/app/store/projects"
	"github.com/dalemusser/capstonehub/internal/app/store/queries/matchsnapshot"
	"github.com/dalemusser/capstonehub/internal/app/system/authz"
	"github.com/dalemusser/capstonehub/internal/app/system/runlock"
	"github.com/dalemusser/capstonehub/internal/app/system/timeouts"
	"github.com/dalemusser/capstonehub/internal/app/system/txn"
	"github.com/dalemusser/capstonehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandleCommit runs the matching engine and persists the result as
// groups and memberships. The run lock serializes commits and clears;
// a second commit while one is in flight gets 409 rather than queueing.
//
// A full commit replaces every existing group. A partial commit
// (mode=partial) places only ungrouped students into the seats left
// over, creating new groups and leaving existing ones untouched.
func (h *Handler) HandleCommit(w http.ResponseWriter, r *http.Request) {
	mode, ok := parseMode(r)
	if !ok {
		uierrors.RenderBadRequest(w, "mode must be full or partial")
		return
	}

	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderForbidden(w, "sign in required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	token, err := h.Lock.Acquire(ctx, runlock.AssignmentRun, actorID.Hex())
	if err != nil {
		if errors.Is(err, runlock.ErrHeld) {
			uierrors.RenderConflict(w, "concurrent_run", "another assignment run is already in progress")
			return
		}
		h.ErrLog.LogServerError(w, r, "acquire run lock", err, "could not start assignment run")
		return
	}
	defer h.releaseLock(token)

	started := time.Now().UTC()

	// A commit with nothing to assign students to is refused up front;
	// a preview of the same state just reports everyone unassigned.
	approved, err := projectstore.New(h.DB).CountApproved(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count approved projects", err, "could not load project catalog")
		return
	}
	if approved == 0 {
		uierrors.Render(w, http.StatusUnprocessableEntity, "no_eligible_projects", "no approved projects are available for assignment")
		return
	}

	// The snapshot is loaded after the lock is held so the data a
	// commit writes is the data it matched.
	snap, err := h.loadSnapshot(ctx, w, r, mode)
	if err != nil {
		return
	}

	res := matching.Match(snap)
	sum := matching.Summarize(snap, res)
	planned := planGroups(snap, res)

	titles, err := approvedTitles(ctx, h.DB)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load project titles", err, "could not load project catalog")
		return
	}

	groups := groupstore.New(h.DB)
	memberships := membershipstore.New(h.DB)

	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		if mode == matchsnapshot.Full {
			if _, err := memberships.DeleteAll(ctx); err != nil {
				return err
			}
			if _, err := groups.DeleteAll(ctx); err != nil {
				return err
			}
		}
		for _, pg := range planned {
			g, err := groups.Create(ctx, models.Group{
				Name:      titles[pg.projectID],
				ProjectID: pg.projectID,
				Capacity:  pg.capacity,
			})
			if err != nil {
				return err
			}
			rows := make([]models.GroupMembership, 0, len(pg.members))
			for _, m := range pg.members {
				rows = append(rows, models.GroupMembership{
					GroupID:      g.ID,
					UserID:       m.userID,
					ProjectID:    pg.projectID,
					AssignedRank: m.rank,
				})
			}
			if err := memberships.InsertMany(ctx, rows); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, membershipstore.ErrAlreadyGrouped) {
			uierrors.RenderConflict(w, "already_grouped", "a student in this run was placed into a group by another run")
			return
		}
		h.ErrLog.LogServerError(w, r, "commit assignment run", err, "could not commit assignments")
		return
	}

	run := models.MatchRun{
		Action:          models.RunActionCommit,
		Mode:            string(mode),
		ActorID:         actorID,
		GroupsCreated:   len(planned),
		StudentsPlaced:  sum.Assigned,
		UnassignedCount: sum.Unassigned,
		StartedAt:       started,
		FinishedAt:      time.Now().UTC(),
	}
	if _, err := matchrunstore.New(h.DB).Create(ctx, run); err != nil {
		// The commit itself succeeded; a failed audit write is logged
		// but does not fail the request.
		h.Log.Error("record match run", zap.Error(err))
	}

	h.Log.Info("assignments committed",
		zap.String("mode", string(mode)),
		zap.String("actor_id", actorID.Hex()),
		zap.Int("groups_created", len(planned)),
		zap.Int("students_placed", sum.Assigned),
		zap.Int("unassigned", sum.Unassigned))

	_, unassigned := resultRows(res)
	writeJSON(w, http.StatusOK, commitResponse{
		GroupsCreated: len(planned),
		Unassigned:    unassigned,
		Stats:         sum,
	})
}

// releaseLock frees the run lock on a fresh context, so the lock is
// returned even when the request context has expired or been canceled.
func (h *Handler) releaseLock(token string) {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Short())
	defer cancel()
	if err := h.Lock.Release(ctx, runlock.AssignmentRun, token); err != nil {
		h.Log.Warn("release run lock", zap.Error(err))
	}
}

type plannedMember struct {
	userID primitive.ObjectID
	rank   int
}

type plannedGroup struct {
	projectID primitive.ObjectID
	capacity  int
	members   []plannedMember
}

// planGroups turns an engine result into the groups a commit writes,
// ordered by project ID with members ordered by student ID, so the
// same result always produces the same documents.
func planGroups(snap matching.Snapshot, res matching.Result) []plannedGroup {
	capacity := make(map[primitive.ObjectID]int, len(snap.Projects))
	for _, p := range snap.Projects {
		capacity[p.ID] = p.Capacity
	}

	byProject := map[primitive.ObjectID][]plannedMember{}
	for student, pl := range res.Placements {
		byProject[pl.ProjectID] = append(byProject[pl.ProjectID], plannedMember{userID: student, rank: pl.Rank})
	}

	out := make([]plannedGroup, 0, len(byProject))
	for projectID, members := range byProject {
		sort.Slice(members, func(i, j int) bool {
			return bytes.Compare(members[i].userID[:], members[j].userID[:]) < 0
		})
		out = append(out, plannedGroup{projectID: projectID, capacity: capacity[projectID], members: members})
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i].projectID[:], out[j].projectID[:]) < 0
	})
	return out
}

func approvedTitles(ctx context.Context, db *mongo.Database) (map[primitive.ObjectID]string, error) {
	projects, err := projectstore.New(db).ListApproved(ctx)
	if err != nil {
		return nil, err
	}
	return matchsnapshot.ProjectTitles(projects), nil
}

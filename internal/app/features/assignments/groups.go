// internal/app/features/assignments/groups.go
package assignments

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/capstonehub/internal/app/features/errors"
	"github.com/dalemusser/capstonehub/internal/app/policy/grouppolicy"
	groupstore "github.com/dalemusser/capstonehub/internal/app/store/groups"
	"github.com/dalemusser/capstonehub/internal/app/store/queries/groupmembers"
	"github.com/dalemusser/capstonehub/internal/app/system/gates"
	"github.com/dalemusser/capstonehub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type groupMemberRow struct {
	UserID       string `json:"user_id"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	AssignedRank int    `json:"assigned_rank"`
}

type groupRow struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	ProjectID string           `json:"project_id"`
	Capacity  int              `json:"capacity"`
	Members   []groupMemberRow `json:"members"`
}

// ServeGroups returns the committed roster: every group with its
// members, ranks included, so instructors can see who landed where
// and how well preferences were honored.
func (h *Handler) ServeGroups(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	groups, err := groupstore.New(h.DB).List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list groups", err, "could not load groups")
		return
	}

	rows := make([]groupRow, 0, len(groups))
	for _, g := range groups {
		members, err := groupmembers.ListGroupMembers(ctx, h.DB, g.ID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "list group members", err, "could not load group members")
			return
		}
		row := groupRow{
			ID:        g.ID.Hex(),
			Name:      g.Name,
			ProjectID: g.ProjectID.Hex(),
			Capacity:  g.Capacity,
			Members:   make([]groupMemberRow, 0, len(members)),
		}
		for _, m := range members {
			row.Members = append(row.Members, groupMemberRow{
				UserID:       m.User.ID.Hex(),
				FullName:     m.User.FullName,
				Email:        m.User.Email,
				AssignedRank: m.AssignedRank,
			})
		}
		rows = append(rows, row)
	}

	writeJSON(w, http.StatusOK, rows)
}

// ServeGroup returns one group's roster. Unlike the full roster view
// this is open to any signed-in user, with the policy layer deciding
// who may see which group: students see their own group, clients the
// groups formed for their projects, instructors and admins all of them.
func (h *Handler) ServeGroup(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	groupID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	if err != nil {
		uierrors.RenderBadRequest(w, "invalid group id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := groupstore.New(h.DB).GetByID(ctx, groupID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			uierrors.RenderNotFound(w, "group not found")
			return
		}
		h.ErrLog.LogServerError(w, r, "get group", err, "could not load group")
		return
	}

	allowed, err := grouppolicy.CanViewGroup(ctx, h.DB, r, g.ID, g.ProjectID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "check group view policy", err, "could not load group")
		return
	}
	if !allowed {
		uierrors.RenderForbidden(w, "you do not have access to this group")
		return
	}

	members, err := groupmembers.ListGroupMembers(ctx, h.DB, g.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list group members", err, "could not load group members")
		return
	}

	row := groupRow{
		ID:        g.ID.Hex(),
		Name:      g.Name,
		ProjectID: g.ProjectID.Hex(),
		Capacity:  g.Capacity,
		Members:   make([]groupMemberRow, 0, len(members)),
	}
	for _, m := range members {
		row.Members = append(row.Members, groupMemberRow{
			UserID:       m.User.ID.Hex(),
			FullName:     m.User.FullName,
			Email:        m.User.Email,
			AssignedRank: m.AssignedRank,
		})
	}
	writeJSON(w, http.StatusOK, row)
}

// internal/app/features/projects/projects.go
package projects

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/capstonehub/internal/app/features/errors"
	projectstore "github.com/dalemusser/capstonehub/internal/app/store/projects"
	"github.com/dalemusser/capstonehub/internal/app/system/authz"
	"github.com/dalemusser/capstonehub/internal/app/system/limits"
	"github.com/dalemusser/capstonehub/internal/app/system/timeouts"
	"github.com/dalemusser/capstonehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TeamSize    int    `json:"team_size"`
}

// ServeList returns the project catalog. Students and clients see only
// approved projects; instructors and admins see everything and may
// narrow with a status query parameter.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	stat := models.ProjectApproved
	if authz.CanRunAssignments(r) {
		stat = r.URL.Query().Get("status")
		switch stat {
		case "", models.ProjectPending, models.ProjectApproved, models.ProjectRejected:
		default:
			uierrors.RenderBadRequest(w, "status must be pending, approved, or rejected")
			return
		}
	}

	out, err := projectstore.New(h.DB).List(ctx, stat)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list projects", err, "could not load projects")
		return
	}
	if out == nil {
		out = []models.Project{}
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleCreate records a new project proposal. Client submissions
// start in pending until an instructor approves them; instructors and
// admins may submit on a client's behalf the same way.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderForbidden(w, "sign in required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxJSONBodySize)
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		uierrors.RenderBadRequest(w, "invalid JSON body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		uierrors.RenderBadRequest(w, "title is required")
		return
	}
	if req.TeamSize < 1 {
		uierrors.RenderBadRequest(w, "team_size must be at least 1")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p := models.Project{
		Title:       req.Title,
		Description: req.Description,
		TeamSize:    req.TeamSize,
	}
	if authz.IsClient(r) {
		p.ClientID = actorID
	}

	created, err := projectstore.New(h.DB).Create(ctx, p)
	if err != nil {
		if errors.Is(err, projectstore.ErrDuplicateTitle) {
			uierrors.RenderConflict(w, "duplicate_title", err.Error())
			return
		}
		h.ErrLog.LogServerError(w, r, "create project", err, "could not create project")
		return
	}

	h.Log.Info("project proposed",
		zap.String("project_id", created.ID.Hex()),
		zap.String("actor_id", actorID.Hex()))

	writeJSON(w, http.StatusCreated, created)
}

// HandleApprove marks a project approved, adding it to the catalog the
// matching run draws from.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, models.ProjectApproved)
}

// HandleReject marks a project rejected.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, models.ProjectRejected)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request, stat string) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "projectID"))
	if err != nil {
		uierrors.RenderBadRequest(w, "invalid project id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	store := projectstore.New(h.DB)
	if _, err := store.GetByID(ctx, id); err != nil {
		uierrors.RenderNotFound(w, "project not found")
		return
	}
	if err := store.SetStatus(ctx, id, stat); err != nil {
		h.ErrLog.LogServerError(w, r, "set project status", err, "could not update project")
		return
	}

	h.Log.Info("project status changed",
		zap.String("project_id", id.Hex()),
		zap.String("status", stat))

	updated, err := store.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "reload project", err, "could not load project")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

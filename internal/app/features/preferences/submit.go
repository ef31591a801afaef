// internal/app/features/preferences/submit.go
package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/capstonehub/internal/app/features/errors"
	preferencestore "github.com/dalemusser/capstonehub/internal/app/store/preferences"
	projectstore "github.com/dalemusser/capstonehub/internal/app/store/projects"
	settingsstore "github.com/dalemusser/capstonehub/internal/app/store/settings"
	"github.com/dalemusser/capstonehub/internal/app/system/authz"
	"github.com/dalemusser/capstonehub/internal/app/system/limits"
	"github.com/dalemusser/capstonehub/internal/app/system/timeouts"
	"github.com/dalemusser/capstonehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type choiceInput struct {
	ProjectID string `json:"project_id"`
	Rank      int    `json:"rank"`
}

type submitRequest struct {
	Choices []choiceInput `json:"choices"`
}

// HandleSubmit replaces the calling student's preference list with the
// submitted choices. Submitting again before the deadline overwrites
// the previous list; the new list gets a fresh submission timestamp,
// which is the tie-break order the matching engine uses.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	_, _, studentID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderForbidden(w, "sign in required")
		return
	}

	if ok, reason := h.Limit.Check(r, studentID.Hex()); !ok {
		uierrors.Render(w, http.StatusTooManyRequests, "rate_limited", reason)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxJSONBodySize)
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		uierrors.RenderBadRequest(w, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !h.deadlineOpen(ctx, w, r) {
		return
	}

	choices, err := h.validateChoices(ctx, req.Choices)
	if err != nil {
		uierrors.RenderBadRequest(w, err.Error())
		return
	}

	prefs, err := preferencestore.New(h.DB).ReplaceForStudent(ctx, studentID, choices)
	if err != nil {
		if errors.Is(err, preferencestore.ErrDuplicatePreference) {
			uierrors.RenderBadRequest(w, err.Error())
			return
		}
		h.ErrLog.LogServerError(w, r, "replace preferences", err, "could not save preferences")
		return
	}

	h.Log.Info("preferences submitted",
		zap.String("student_id", studentID.Hex()),
		zap.Int("choices", len(prefs)))

	writeJSON(w, http.StatusOK, prefs)
}

// HandleWithdraw removes the calling student's preference list. A
// student with no preferences on file is matched only by the fallback
// phase. Withdrawing when nothing is on file succeeds.
func (h *Handler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	_, _, studentID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderForbidden(w, "sign in required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if !h.deadlineOpen(ctx, w, r) {
		return
	}

	deleted, err := preferencestore.New(h.DB).DeleteByStudent(ctx, studentID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "withdraw preferences", err, "could not withdraw preferences")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

// ServeMine returns the calling student's current preference list in
// rank order.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	_, _, studentID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderForbidden(w, "sign in required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	prefs, err := preferencestore.New(h.DB).ListByStudent(ctx, studentID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list preferences", err, "could not load preferences")
		return
	}
	if prefs == nil {
		prefs = []models.Preference{}
	}
	writeJSON(w, http.StatusOK, prefs)
}

// deadlineOpen checks the submission deadline and writes the 409
// response itself when the window has closed.
func (h *Handler) deadlineOpen(ctx context.Context, w http.ResponseWriter, r *http.Request) bool {
	settings, err := settingsstore.New(h.DB).Get(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load site settings", err, "could not check submission deadline")
		return false
	}
	if settings.PreferenceDeadline != nil && time.Now().After(*settings.PreferenceDeadline) {
		uierrors.RenderConflict(w, "deadline_passed", "the preference submission deadline has passed")
		return false
	}
	return true
}

// validateChoices checks the submitted list against the intake rules:
// at most MaxPreferences choices, ranks 1..MaxPreferences each used at
// most once, no repeated projects, and every project approved.
func (h *Handler) validateChoices(ctx context.Context, in []choiceInput) ([]preferencestore.Choice, error) {
	if len(in) == 0 {
		return nil, errors.New("at least one choice is required")
	}
	if len(in) > models.MaxPreferences {
		return nil, errors.New("at most 3 choices are allowed")
	}

	ranks := map[int]bool{}
	projects := map[primitive.ObjectID]bool{}
	store := projectstore.New(h.DB)

	out := make([]preferencestore.Choice, 0, len(in))
	for _, c := range in {
		if c.Rank < 1 || c.Rank > models.MaxPreferences {
			return nil, errors.New("rank must be between 1 and 3")
		}
		if ranks[c.Rank] {
			return nil, errors.New("each rank may be used only once")
		}
		ranks[c.Rank] = true

		id, err := primitive.ObjectIDFromHex(c.ProjectID)
		if err != nil {
			return nil, errors.New("invalid project id")
		}
		if projects[id] {
			return nil, errors.New("each project may be chosen only once")
		}
		projects[id] = true

		p, err := store.GetByID(ctx, id)
		if err != nil {
			return nil, errors.New("project not found")
		}
		if p.Status != models.ProjectApproved {
			return nil, errors.New("project is not open for preferences")
		}

		out = append(out, preferencestore.Choice{ProjectID: id, Rank: c.Rank})
	}
	return out, nil
}

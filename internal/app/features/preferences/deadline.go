// internal/app/features/preferences/deadline.go
package preferences

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/capstonehub/internal/app/features/errors"
	settingsstore "github.com/dalemusser/capstonehub/internal/app/store/settings"
	"github.com/dalemusser/capstonehub/internal/app/system/authz"
	"github.com/dalemusser/capstonehub/internal/app/system/limits"
	"github.com/dalemusser/capstonehub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type deadlineResponse struct {
	Deadline *time.Time `json:"deadline"`
	Open     bool       `json:"open"`
}

type deadlineRequest struct {
	// Deadline is RFC 3339; null clears the deadline, leaving
	// submissions open indefinitely.
	Deadline *time.Time `json:"deadline"`
}

// ServeDeadline reports the submission deadline and whether the intake
// window is currently open.
func (h *Handler) ServeDeadline(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	settings, err := settingsstore.New(h.DB).Get(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load site settings", err, "could not load deadline")
		return
	}

	open := settings.PreferenceDeadline == nil || time.Now().Before(*settings.PreferenceDeadline)
	writeJSON(w, http.StatusOK, deadlineResponse{Deadline: settings.PreferenceDeadline, Open: open})
}

// HandleSetDeadline sets or clears the submission deadline.
func (h *Handler) HandleSetDeadline(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderForbidden(w, "sign in required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxJSONBodySize)
	var req deadlineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		uierrors.RenderBadRequest(w, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := settingsstore.New(h.DB).SetPreferenceDeadline(ctx, req.Deadline, actorID); err != nil {
		h.ErrLog.LogServerError(w, r, "set preference deadline", err, "could not update deadline")
		return
	}

	h.Log.Info("preference deadline updated", zap.String("actor_id", actorID.Hex()))

	open := req.Deadline == nil || time.Now().Before(*req.Deadline)
	writeJSON(w, http.StatusOK, deadlineResponse{Deadline: req.Deadline, Open: open})
}

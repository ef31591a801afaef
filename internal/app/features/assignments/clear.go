// internal/app/features/assignments/clear.go
package assignments

import (
	"context"
	"errors"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/capstonehub/internal/app/features/errors"
	groupstore "github.com/dalemusser/capstonehub/internal/app/store/groups"
	matchrunstore "github.com/dalemusser/capstonehub/internal/app/store/matchruns"
	membershipstore "github.com/dalemusser/capstonehub/internal/app/store/memberships"
	"github.com/dalemusser/capstonehub/internal/app/system/authz"
	"github.com/dalemusser/capstonehub/internal/app/system/runlock"
	"github.com/dalemusser/capstonehub/internal/app/system/timeouts"
	"github.com/dalemusser/capstonehub/internal/app/system/txn"
	"github.com/dalemusser/capstonehub/internal/domain/models"
	"go.uber.org/zap"
)

// HandleClear removes every committed group and membership. Student
// preferences are left alone, so a fresh commit can follow a clear
// immediately. Clearing an empty portal succeeds and reports zero.
func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
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
		h.ErrLog.LogServerError(w, r, "acquire run lock", err, "could not start clear")
		return
	}
	defer h.releaseLock(token)

	started := time.Now().UTC()

	groups := groupstore.New(h.DB)
	memberships := membershipstore.New(h.DB)

	var deleted int64
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		if _, err := memberships.DeleteAll(ctx); err != nil {
			return err
		}
		n, err := groups.DeleteAll(ctx)
		if err != nil {
			return err
		}
		deleted = n
		return nil
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "clear assignments", err, "could not clear assignments")
		return
	}

	run := models.MatchRun{
		Action:        models.RunActionClear,
		ActorID:       actorID,
		GroupsDeleted: int(deleted),
		StartedAt:     started,
		FinishedAt:    time.Now().UTC(),
	}
	if _, err := matchrunstore.New(h.DB).Create(ctx, run); err != nil {
		h.Log.Error("record match run", zap.Error(err))
	}

	h.Log.Info("assignments cleared",
		zap.String("actor_id", actorID.Hex()),
		zap.Int64("groups_deleted", deleted))

	writeJSON(w, http.StatusOK, clearResponse{GroupsDeleted: int(deleted)})
}

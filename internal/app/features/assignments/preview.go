// internal/app/features/assignments/preview.go
package assignments

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/capstonehub/internal/app/features/errors"
	"github.com/dalemusser/capstonehub/internal/app/matching"
	"github.com/dalemusser/capstonehub/internal/app/store/queries/matchsnapshot"
	"github.com/dalemusser/capstonehub/internal/app/system/timeouts"
)

// ServePreview runs the matching engine against current data and
// returns the would-be placements without writing anything. It never
// takes the run lock: previews are read-only and may run concurrently
// with anything, including a commit. An empty project catalog is a
// valid preview and comes back with every student unassigned, not an
// error.
func (h *Handler) ServePreview(w http.ResponseWriter, r *http.Request) {
	mode, ok := parseMode(r)
	if !ok {
		uierrors.RenderBadRequest(w, "mode must be full or partial")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	snap, err := h.loadSnapshot(ctx, w, r, mode)
	if err != nil {
		return
	}

	res := matching.Match(snap)
	rows, unassigned := resultRows(res)
	writeJSON(w, http.StatusOK, previewResponse{
		Assignments: rows,
		Unassigned:  unassigned,
		Stats:       matching.Summarize(snap, res),
	})
}

// parseMode reads the mode query parameter, defaulting to a full run.
func parseMode(r *http.Request) (matchsnapshot.Mode, bool) {
	switch r.URL.Query().Get("mode") {
	case "", "full":
		return matchsnapshot.Full, true
	case "partial":
		return matchsnapshot.Partial, true
	default:
		return "", false
	}
}

// loadSnapshot fetches the matching snapshot and writes the error
// response itself when the stored data fails an integrity check.
// A non-nil error means the response has already been written.
func (h *Handler) loadSnapshot(ctx context.Context, w http.ResponseWriter, r *http.Request, mode matchsnapshot.Mode) (matching.Snapshot, error) {
	snap, err := matchsnapshot.Load(ctx, h.DB, mode)
	if err != nil {
		var ie *matching.IntegrityError
		if errors.As(err, &ie) {
			uierrors.Render(w, http.StatusInternalServerError, "data_integrity", ie.Error())
			return matching.Snapshot{}, err
		}
		h.ErrLog.LogServerError(w, r, "load matching snapshot", err, "could not load matching data")
		return matching.Snapshot{}, err
	}
	return snap, nil
}

// internal/app/features/assignments/runs.go
package assignments

import (
	"context"
	"net/http"
	"strconv"

	matchrunstore "github.com/dalemusser/capstonehub/internal/app/store/matchruns"
	"github.com/dalemusser/capstonehub/internal/app/system/timeouts"
)

// ServeRuns returns the recent run history, newest first. The limit
// query parameter caps the page size; the store applies its default
// when the parameter is absent or invalid.
func (h *Handler) ServeRuns(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	runs, err := matchrunstore.New(h.DB).ListRecent(ctx, limit)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list match runs", err, "could not load run history")
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

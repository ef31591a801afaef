// internal/app/features/roster/upload.go
package roster

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/capstonehub/internal/app/features/errors"
	userstore "github.com/dalemusser/capstonehub/internal/app/store/users"
	"github.com/dalemusser/capstonehub/internal/app/system/csvutil"
	"github.com/dalemusser/capstonehub/internal/app/system/timeouts"
	"github.com/dalemusser/capstonehub/internal/domain/models"
	"go.uber.org/zap"
)

type uploadResponse struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// HandleUploadStudents imports students from an uploaded CSV file. The
// whole file is validated before any user is written; a file with bad
// rows is rejected outright so a partial import never happens. Rows
// whose email already exists are skipped, which makes re-uploading the
// same roster safe.
func (h *Handler) HandleUploadStudents(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(csvutil.MaxUploadSize); err != nil {
		uierrors.RenderBadRequest(w, "could not parse upload; is the file too large?")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		uierrors.RenderBadRequest(w, "missing file field in upload")
		return
	}
	defer file.Close()

	rows, problems, err := csvutil.PreScanStudentsCSV(file)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "scan roster csv", err, "could not read uploaded file")
		return
	}
	if len(problems) > 0 {
		writeJSON(w, http.StatusBadRequest, uploadResponse{Errors: problems})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	users := userstore.New(h.DB)
	resp := uploadResponse{}
	for _, row := range rows {
		_, err := users.Create(ctx, models.User{
			FullName: row.FullName,
			Email:    row.Email,
			Role:     "student",
		})
		if err != nil {
			if errors.Is(err, userstore.ErrDuplicateEmail) {
				resp.Skipped++
				continue
			}
			h.ErrLog.LogServerError(w, r, "create student from roster", err, "could not import roster")
			return
		}
		resp.Created++
	}

	h.Log.Info("roster imported",
		zap.Int("created", resp.Created),
		zap.Int("skipped", resp.Skipped))

	writeJSON(w, http.StatusOK, resp)
}

// ServeStudents lists the active students the next full run will cover.
func (h *Handler) ServeStudents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	students, err := userstore.New(h.DB).ListActiveStudents(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list students", err, "could not load students")
		return
	}
	if students == nil {
		students = []models.User{}
	}
	writeJSON(w, http.StatusOK, students)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

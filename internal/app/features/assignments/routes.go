// internal/app/features/assignments/routes.go
package assignments

import (
	"github.com/dalemusser/capstonehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Everything under /assignments requires an instructor or admin.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole("instructor", "admin"))

		// PREVIEW (read-only, never locks)
		pr.Get("/preview", h.ServePreview)

		// COMMIT / CLEAR (serialized by the run lock)
		pr.Post("/commit", h.HandleCommit)
		pr.Post("/clear", h.HandleClear)

		// COMMITTED ROSTER
		pr.Get("/groups", h.ServeGroups)

		// RUN HISTORY
		pr.Get("/runs", h.ServeRuns)
	})

	// SINGLE GROUP (any signed-in user; the policy layer decides who
	// may see which group)
	r.Group(func(gr chi.Router) {
		gr.Use(auth.RequireSignedIn)
		gr.Get("/groups/{groupID}", h.ServeGroup)
	})

	return r
}

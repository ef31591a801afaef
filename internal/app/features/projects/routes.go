// internal/app/features/projects/routes.go
package projects

import (
	"github.com/dalemusser/capstonehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// CATALOG (any signed-in user; instructors and admins see every
	// status, everyone else sees only approved projects)
	r.Group(func(cr chi.Router) {
		cr.Use(auth.RequireSignedIn)
		cr.Get("/", h.ServeList)
	})

	// PROPOSALS
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole("client", "instructor", "admin"))
		pr.Post("/", h.HandleCreate)
	})

	// APPROVAL WORKFLOW
	r.Group(func(ar chi.Router) {
		ar.Use(auth.RequireRole("instructor", "admin"))
		ar.Post("/{projectID}/approve", h.HandleApprove)
		ar.Post("/{projectID}/reject", h.HandleReject)
	})

	return r
}

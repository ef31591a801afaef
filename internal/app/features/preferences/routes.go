// internal/app/features/preferences/routes.go
package preferences

import (
	"github.com/dalemusser/capstonehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// STUDENT INTAKE
	r.Group(func(sr chi.Router) {
		sr.Use(auth.RequireRole("student"))
		sr.Get("/", h.ServeMine)
		sr.Put("/", h.HandleSubmit)
		sr.Delete("/", h.HandleWithdraw)
	})

	// DEADLINE
	r.Group(func(dr chi.Router) {
		dr.Use(auth.RequireSignedIn)
		dr.Get("/deadline", h.ServeDeadline)
	})
	r.Group(func(ir chi.Router) {
		ir.Use(auth.RequireRole("instructor", "admin"))
		ir.Put("/deadline", h.HandleSetDeadline)
	})

	return r
}

// internal/app/features/roster/routes.go
package roster

import (
	"github.com/dalemusser/capstonehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole("instructor", "admin"))
		pr.Get("/students", h.ServeStudents)
		pr.Post("/students", h.HandleUploadStudents)
	})

	return r
}

// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	assignmentsfeature "github.com/dalemusser/capstonehub/internal/app/features/assignments"
	errorsfeature "github.com/dalemusser/capstonehub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/capstonehub/internal/app/features/health"
	preferencesfeature "github.com/dalemusser/capstonehub/internal/app/features/preferences"
	projectsfeature "github.com/dalemusser/capstonehub/internal/app/features/projects"
	rosterfeature "github.com/dalemusser/capstonehub/internal/app/features/roster"
	"github.com/dalemusser/capstonehub/internal/app/system/auth"
	"github.com/dalemusser/capstonehub/internal/app/system/runlock"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this
// WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. CapstoneHub initializes the
// session store, applies session middleware, and mounts the feature
// routers: health, projects, roster, preference intake, and
// assignment runs.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	if err := auth.InitSessionStore(appCfg.SessionKey, appCfg.SessionDomain, secure, logger); err != nil {
		logger.Error("session store init failed", zap.Error(err))
		return nil, err
	}

	errLog := errorsfeature.NewErrorLogger(logger)
	lock := runlock.New(deps.MongoDatabase, appCfg.RunLockTTL)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged
	// in, making the current user available via auth.CurrentUser(r).
	r.Use(auth.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Project catalog: client proposals and the approval workflow
	projectsHandler := projectsfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/projects", projectsfeature.Routes(projectsHandler))

	// Student roster management (CSV import)
	rosterHandler := rosterfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/roster", rosterfeature.Routes(rosterHandler))

	// Student preference intake and the submission deadline
	preferencesHandler := preferencesfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/preferences", preferencesfeature.Routes(preferencesHandler))

	// Assignment runs: preview, commit, clear, roster, run history
	assignmentsHandler := assignmentsfeature.NewHandler(deps.MongoDatabase, lock, errLog, logger)
	r.Mount("/assignments", assignmentsfeature.Routes(assignmentsHandler))

	return r, nil
}

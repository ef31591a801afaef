// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	matchrunstore "github.com/dalemusser/capstonehub/internal/app/store/matchruns"
	"github.com/dalemusser/capstonehub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// runPruner is started once in Startup and stopped in Shutdown.
var runPruner *workers.RunPruner

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// It starts the background worker that prunes old match run records.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	runPruner = workers.NewRunPruner(
		matchrunstore.New(deps.MongoDatabase),
		logger,
		time.Hour,
		appCfg.RunRetention,
	)
	runPruner.Start()

	logger.Info("capstonehub starting",
		zap.String("env", coreCfg.Env),
		zap.Duration("run_lock_ttl", appCfg.RunLockTTL))
	return nil
}

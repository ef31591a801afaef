// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/capstonehub/internal/app/system/indexes"
	"github.com/dalemusser/capstonehub/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// EnsureSchema creates collections with JSON-Schema validators and the
// indexes the stores rely on, including the unique indexes that back
// the one-group-per-student and one-rank-per-choice invariants.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := validators.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		return err
	}
	return indexes.EnsureAll(ctx, deps.MongoDatabase, logger)
}

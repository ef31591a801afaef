// internal/app/features/assignments/handler.go
package assignments

import (
	uierrors "github.com/dalemusser/capstonehub/internal/app/features/errors"
	"github.com/dalemusser/capstonehub/internal/app/system/runlock"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the assignments
// feature: preview, commit, clear, run history, and the committed
// group roster all share the same database, run lock, and loggers.
type Handler struct {
	DB     *mongo.Database
	Lock   *runlock.Lock
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

// NewHandler constructs an assignments Handler. It is typically called
// from the bootstrap BuildHandler function, where the application's
// DB, run lock, and logger are already initialized.
func NewHandler(db *mongo.Database, lock *runlock.Lock, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Lock:   lock,
		ErrLog: errLog,
		Log:    logger,
	}
}

// internal/app/features/preferences/handler.go
package preferences

import (
	uierrors "github.com/dalemusser/capstonehub/internal/app/features/errors"
	"github.com/dalemusser/capstonehub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves preference intake: students declaring, revising, and
// withdrawing their ranked project choices, plus the submission
// deadline instructors control.
type Handler struct {
	DB     *mongo.Database
	Limit  *ratelimit.SubmitLimiter
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Limit:  ratelimit.NewSubmitLimiter(),
		ErrLog: errLog,
		Log:    logger,
	}
}

// Package txn runs a function inside a MongoDB multi-document
// transaction, falling back to plain sequential execution when the
// server does not support transactions (standalone mongod, some
// DocumentDB configurations).
//
// The fallback loses atomicity, so callers should still order their
// writes destructive-last where possible. Against a replica set the
// callback is all-or-nothing: any error aborts the transaction and no
// partial write becomes visible.
package txn

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Run executes fn inside a transaction on db's client. The context
// passed to fn is the session context; all store calls made with it
// participate in the transaction.
//
// If the server rejects the transaction as unsupported, Run logs a
// warning and re-executes fn once without a transaction.
func Run(ctx context.Context, db *mongo.Database, logger *zap.Logger, fn func(ctx context.Context) error) error {
	client := db.Client()

	sess, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			logger.Warn("mongo sessions unavailable; running without transaction", zap.Error(err))
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		logger.Warn("mongo transactions unsupported; running without transaction", zap.Error(err))
		return fn(ctx)
	}
	return err
}

// Server error codes that indicate transactions are not available.
const (
	codeIllegalOperation  = 20 // "Transaction numbers are only allowed on a replica set member"
	codeCommandNotAllowed = 51
	codeNotSupportedInTxn = 263
)

// IsNotSupported reports whether err means the server cannot run
// multi-document transactions (as opposed to the transaction failing).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	if ce, ok := err.(mongo.CommandError); ok {
		switch ce.Code {
		case codeIllegalOperation, codeCommandNotAllowed, codeNotSupportedInTxn:
			return true
		}
	}

	// Fall back to message sniffing for drivers/proxies that wrap the
	// command error. Require two keywords so an ordinary failed
	// transaction does not match.
	msg := strings.ToLower(err.Error())
	pairs := [][2]string{
		{"transaction", "replica set"},
		{"transaction", "session"},
		{"session", "not supported"},
		{"illegal operation", "transaction"},
	}
	for _, p := range pairs {
		if strings.Contains(msg, p[0]) && strings.Contains(msg, p[1]) {
			return true
		}
	}
	return false
}

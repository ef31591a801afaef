package bootstrap

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestValidateConfig_RejectsBadMongoURI(t *testing.T) {
	cfg := AppConfig{
		MongoURI:   "not-a-mongo-uri",
		RunLockTTL: 5 * time.Minute,
	}
	err := ValidateConfig(nil, cfg, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for invalid MongoDB URI")
	}
	if !strings.Contains(err.Error(), "MongoDB URI") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateConfig_RejectsNonPositiveLockTTL(t *testing.T) {
	cfg := AppConfig{
		MongoURI:   "mongodb://localhost:27017",
		RunLockTTL: 0,
	}
	err := ValidateConfig(nil, cfg, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for zero run_lock_ttl")
	}
}

func TestValidateConfig_AcceptsDefaults(t *testing.T) {
	cfg := AppConfig{
		MongoURI:   "mongodb://localhost:27017",
		RunLockTTL: 5 * time.Minute,
	}
	if err := ValidateConfig(nil, cfg, zap.NewNop()); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

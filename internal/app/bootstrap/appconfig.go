// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level and format, CORS, and request limits.
// AppConfig is where everything specific to CapstoneHub lives.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: capstonehub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Base URL for links in notifications and client-facing payloads
	BaseURL string // e.g., "https://capstonehub.example.edu" or "http://localhost:3000"

	// RunLockTTL bounds how long an assignment run may hold the run
	// lock before another run is allowed to take it over. It protects
	// against a crashed run leaving the lock held forever.
	RunLockTTL time.Duration

	// RunRetention is how long match run audit records are kept before
	// the background pruner removes them.
	RunRetention time.Duration
}

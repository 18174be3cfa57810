// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables (RELIEFHUB_*), config files,
// or command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers
// the framework-level settings: ports, TLS, logging, CORS and body limits.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Admin bearer tokens
	JWTSecret string        // HS256 signing secret (at least 32 bytes in production)
	JWTExpiry time.Duration // Token lifetime (default: 8h)

	// Super-admin bootstrap; both blank disables it
	SuperAdminEmail    string
	SuperAdminPassword string

	// Audit logging modes: all, db, log, off
	AuditLogAuth  string
	AuditLogAdmin string

	// Login throttling
	LoginRateIP    int // attempts per client IP per minute
	LoginRateEmail int // attempts per email per five minutes

	// Honor X-Forwarded-For / X-Real-IP; only set behind a proxy that overwrites them
	TrustProxy bool

	// Sign-in history kept before the pruning worker deletes it; 0 keeps it forever
	LoginHistoryRetention time.Duration
}

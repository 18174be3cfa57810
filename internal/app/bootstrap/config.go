// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/reliefhub/internal/app/system/auditlog"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// devJWTSecret is only accepted outside production.
const devJWTSecret = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for ReliefHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: RELIEFHUB_MONGO_URI, RELIEFHUB_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "wayne_relief_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Admin tokens
	{Name: "jwt_secret", Default: devJWTSecret, Desc: "HS256 signing secret for admin tokens (must be strong in production)"},
	{Name: "jwt_expiry", Default: "8h", Desc: "Admin token lifetime (e.g., 8h, 30m)"},

	// SuperAdmin bootstrap
	{Name: "superadmin_email", Default: "", Desc: "Email of the super-admin (created or promoted on startup)"},
	{Name: "superadmin_password", Default: "", Desc: "Password of the super-admin account"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Sign-in/out event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Login throttling
	{Name: "login_rate_ip", Default: ratelimit.DefaultIPPerMinute, Desc: "Login attempts allowed per IP per minute"},
	{Name: "login_rate_email", Default: ratelimit.DefaultEmailPer5Min, Desc: "Login attempts allowed per email per five minutes"},
	{Name: "trust_proxy", Default: false, Desc: "Take the client IP from X-Forwarded-For/X-Real-IP (only behind a trusted proxy)"},
	{Name: "login_history_retention", Default: "2160h", Desc: "How long admin sign-in history is kept (0 keeps it forever)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, RELIEFHUB_* for app) and flags,
// merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "RELIEFHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret: appValues.String("jwt_secret"),
		JWTExpiry: appValues.Duration("jwt_expiry", 8*time.Hour),

		SuperAdminEmail:    strings.ToLower(strings.TrimSpace(appValues.String("superadmin_email"))),
		SuperAdminPassword: appValues.String("superadmin_password"),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		LoginRateIP:    appValues.Int("login_rate_ip"),
		LoginRateEmail: appValues.Int("login_rate_email"),
		TrustProxy:     appValues.Bool("trust_proxy"),

		LoginHistoryRetention: appValues.Duration("login_history_retention", 90*24*time.Hour),
	}

	return coreCfg, appCfg, nil
}

// auditConfig maps the audit_log_* settings onto the audit logger.
func (c AppConfig) auditConfig() auditlog.Config {
	return auditlog.Config{Auth: c.AuditLogAuth, Admin: c.AuditLogAdmin}
}

// ValidateConfig performs app-specific config validation.
//
// ReliefHub checks the MongoDB URI format before attempting to connect,
// refuses the development JWT secret (or any short one) in production, and
// requires a positive token lifetime.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.JWTExpiry <= 0 {
		return fmt.Errorf("jwt_expiry must be positive, got %s", appCfg.JWTExpiry)
	}

	if coreCfg != nil && coreCfg.Env == "prod" {
		if appCfg.JWTSecret == devJWTSecret || len(appCfg.JWTSecret) < auth.MinSecretLen {
			return fmt.Errorf("jwt_secret must be at least %d bytes and not the development default in production", auth.MinSecretLen)
		}
	} else if appCfg.JWTSecret == "" {
		return errors.New("jwt_secret is required")
	}

	if (appCfg.SuperAdminEmail == "") != (appCfg.SuperAdminPassword == "") {
		logger.Warn("superadmin bootstrap needs both superadmin_email and superadmin_password; skipping")
	}

	return nil
}

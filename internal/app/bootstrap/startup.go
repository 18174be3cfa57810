// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	"github.com/dalemusser/reliefhub/internal/app/services/adminusers"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/reliefhub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// loginPruneInterval is how often the sign-in history is trimmed.
const loginPruneInterval = time.Hour

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built: timeout
// overrides, the super-admin bootstrap, and background workers.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		cur := timeouts.Current()
		logger.Info("timeouts overridden from environment",
			zap.Int("count", n),
			zap.Duration("short", cur.Short),
			zap.Duration("medium", cur.Medium),
			zap.Duration("long", cur.Long))
	}

	svc, err := newServices(appCfg, deps.ReliefHubMongoDatabase, logger)
	if err != nil {
		return err
	}

	if err := ensureSuperAdmin(ctx, svc.AdminUsers, appCfg, logger); err != nil {
		return err
	}

	if appCfg.LoginHistoryRetention > 0 {
		startLoginPrune(workers.NewLoginPrune(svc.Logins, logger, loginPruneInterval, appCfg.LoginHistoryRetention))
	}
	return nil
}

// SuperAdminBootstrapper is the slice of the admin user service Startup needs.
type SuperAdminBootstrapper interface {
	EnsureSuperAdmin(ctx context.Context, email, password string) (adminusers.BootstrapResult, error)
}

// ensureSuperAdmin creates or promotes the configured super-admin. Blank
// credentials skip it.
func ensureSuperAdmin(ctx context.Context, users SuperAdminBootstrapper, appCfg AppConfig, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	res, err := users.EnsureSuperAdmin(ctx, appCfg.SuperAdminEmail, appCfg.SuperAdminPassword)
	if err != nil {
		logger.Error("super admin bootstrap failed", zap.Error(err))
		return err
	}
	switch res {
	case adminusers.BootstrapSkipped:
		logger.Info("super admin bootstrap skipped; superadmin_email or superadmin_password not set")
	case adminusers.BootstrapUnchanged:
		logger.Debug("super admin already configured", zap.String("email", appCfg.SuperAdminEmail))
	default:
		logger.Info("super admin bootstrapped",
			zap.String("email", appCfg.SuperAdminEmail),
			zap.String("result", string(res)))
	}
	return nil
}

// Command reliefctl runs maintenance tasks against a ReliefHub database:
// seeding starter content, bootstrapping a super-admin, and printing the
// dashboard analytics.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dalemusser/reliefhub/internal/app/bootstrap"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// App holds what every command needs once the root pre-run has connected.
type App struct {
	ctx    context.Context
	logger *zap.Logger
	deps   bootstrap.DBDeps
}

func (a *App) db() *mongo.Database { return a.deps.ReliefHubMongoDatabase }

// Flags shared by every command. Defaults come from the same RELIEFHUB_*
// variables the server reads.
var (
	mongoURI string
	database string
	verbose  bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(ctx).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(ctx context.Context) *cobra.Command {
	app := &App{ctx: ctx}

	root := &cobra.Command{
		Use:          "reliefctl",
		Short:        "ReliefHub admin CLI",
		Long:         `Maintenance commands for a ReliefHub deployment: seed starter content, bootstrap a super-admin, and print dashboard analytics.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.close()
		},
	}

	root.PersistentFlags().StringVar(&mongoURI, "mongo-uri", envOr("RELIEFHUB_MONGO_URI", "mongodb://localhost:27017"), "MongoDB connection string")
	root.PersistentFlags().StringVar(&database, "db", envOr("RELIEFHUB_MONGO_DATABASE", "reliefhub"), "MongoDB database name")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	root.AddCommand(seedCmd(app))
	root.AddCommand(createSuperAdminCmd(app))
	root.AddCommand(analyticsCmd(app))
	return root
}

// init sets up the logger, connects to MongoDB, and ensures indexes.
func (a *App) init() error {
	var err error
	a.logger, err = newLogger(verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	appCfg := bootstrap.AppConfig{MongoURI: mongoURI, MongoDatabase: database}
	a.deps, err = bootstrap.ConnectDB(a.ctx, nil, appCfg, a.logger)
	if err != nil {
		return err
	}
	return bootstrap.EnsureSchema(a.ctx, nil, appCfg, a.deps, a.logger)
}

func (a *App) close() {
	if a.deps.ReliefHubMongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), timeouts.Short())
		defer cancel()
		_ = a.deps.ReliefHubMongoClient.Disconnect(ctx)
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// newLogger writes human-readable logs to stderr so stdout stays clean
// for command output.
func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.DisableStacktrace = true
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	return cfg.Build()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

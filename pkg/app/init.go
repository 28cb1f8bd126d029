package app

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"

	"spawn-admin/pkg/config"
	"spawn-admin/pkg/database"
	"spawn-admin/pkg/logging"

	"github.com/joho/godotenv"
)

// AppContext holds the shared application context and dependencies
type AppContext struct {
	MongoDB          *database.MongoDB
	Redis            *database.Redis
	TelemetryManager *logging.TelemetryManager
	ServiceName      string
	shutdownFuncs    []func(context.Context) error
}

// Options tune InitializeApp
type Options struct {
	// LogOutput receives console logs; defaults to stdout
	LogOutput io.Writer
	// SkipRedis leaves AppContext.Redis nil, e.g. for the migration runner
	SkipRedis bool
}

// InitializeApp initializes common application dependencies. MongoDB and
// Redis failures are logged and leave the connection nil; callers decide
// whether they can run without them.
func InitializeApp(ctx context.Context, serviceName string, opts Options) (*AppContext, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️  Error loading .env file: %v", err)
	}

	telemetryManager := logging.NewTelemetryManager(serviceName)
	if opts.LogOutput != nil {
		telemetryManager.WithOutput(opts.LogOutput)
	}
	if err := telemetryManager.Initialize(ctx); err != nil {
		log.Printf("⚠️  Failed to initialize telemetry: %v", err)
	}

	appCtx := &AppContext{
		TelemetryManager: telemetryManager,
		ServiceName:      serviceName,
	}

	mongodb, err := database.NewMongoDB(ctx, database.LoadMongoConfig("spawn"))
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
	} else {
		appCtx.MongoDB = mongodb
		appCtx.shutdownFuncs = append(appCtx.shutdownFuncs, mongodb.Close)
	}

	if !opts.SkipRedis {
		redis, err := database.NewRedis(ctx)
		if err != nil {
			slog.Warn("Redis unavailable, refresh runs are serialized per process only", "error", err)
		} else {
			appCtx.Redis = redis
			appCtx.shutdownFuncs = append(appCtx.shutdownFuncs, func(context.Context) error {
				return redis.Close()
			})
		}
	}

	appCtx.shutdownFuncs = append(appCtx.shutdownFuncs, telemetryManager.Shutdown)
	return appCtx, nil
}

// Shutdown gracefully shuts down all application dependencies
func (a *AppContext) Shutdown(ctx context.Context) error {
	slog.Debug("Shutting down application", "service", a.ServiceName)

	for _, shutdown := range a.shutdownFuncs {
		if err := shutdown(ctx); err != nil {
			slog.Error("Error during shutdown", "error", err)
		}
	}
	a.shutdownFuncs = nil
	return nil
}

// GetPort returns the port from environment or default
func GetPort(defaultPort string) string {
	return config.GetEnv("PORT", defaultPort)
}

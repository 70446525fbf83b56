// Package providers contains dependency injection providers for the
// offline sync core.
package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/dharmaapp/dharma-core/internal/config"
	"github.com/dharmaapp/dharma-core/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Format:      cfg.Logger.Format,
		Environment: cfg.App.Environment,
	})

	log.Info("Starting dharma sync core",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_dir", cfg.Storage.DataDir,
		"download_dir", cfg.Storage.DownloadDir,
	)

	return log, nil
}

// ProvideSlogLogger provides the underlying slog.Logger for packages
// that take the standard type.
func ProvideSlogLogger(i do.Injector) (*slog.Logger, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return log.Logger, nil
}

package bootstrap

import (
	"fmt"

	"github.com/meltingdad/gsc-arena/internal/config"
	"github.com/meltingdad/gsc-arena/internal/logger"
	"github.com/meltingdad/gsc-arena/internal/version"
)

// validateAllConfiguration validates all configuration settings
func validateAllConfiguration(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// initializeLogger sets up the global zap logger and, with SENTRY_DSN,
// error reporting to Sentry.
func initializeLogger(cfg *config.Config) error {
	environment := "development"
	if cfg.IsProduction {
		environment = "production"
	}

	err := logger.Initialize(logger.Config{
		Debug:       cfg.Debug,
		SentryDSN:   cfg.SentryDSN,
		Environment: environment,
		Release:     version.String(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

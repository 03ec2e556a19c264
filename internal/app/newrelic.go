package app

import (
	"github.com/newrelic/go-agent/v3/newrelic"
	"go.uber.org/zap"

	"tawseel/internal/config"
)

// NewNewRelic starts the APM agent. It returns nil when New Relic is
// disabled or fails to start; callers treat nil as "not instrumented".
func NewNewRelic(cfg config.NewRelicConfig, logger *zap.Logger) *newrelic.Application {
	if !cfg.Enabled || cfg.LicenseKey == "" {
		return nil
	}

	nrApp, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.AppName),
		newrelic.ConfigLicense(cfg.LicenseKey),
		newrelic.ConfigDistributedTracerEnabled(true),
		newrelic.ConfigAppLogForwardingEnabled(true),
	)
	if err != nil {
		logger.Warn("failed to initialize New Relic", zap.Error(err))
		return nil
	}

	logger.Info("New Relic enabled", zap.String("app", cfg.AppName))
	return nrApp
}

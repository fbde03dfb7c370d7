// Package logger constructs the application's zap logger.
package logger

import (
	"go.uber.org/zap"
)

// New returns a production zap logger, or a development one when APP_ENV
// suggests local work. Callers are responsible for Sync on shutdown.
func New(env string) (*zap.Logger, error) {
	if env == "development" || env == "dev" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

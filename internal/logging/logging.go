// Package logging builds the process-wide zap logger. The logger is
// constructed once in main and handed to components explicitly.
package logging

import (
	"go.uber.org/zap"
)

// New returns a production logger unless env is "development", in which
// case the human-readable development config is used.
func New(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

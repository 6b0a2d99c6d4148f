// Package logging builds the application zap logger.
package logging

import (
	"go.uber.org/zap"
)

// New returns a console logger for development and a JSON logger otherwise.
// The logger is also installed as the zap global.
func New(env string) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if env == "development" || env == "dev" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

// Package logging builds the console's logrus logger
package logging

import (
	"io"

	"gateway-console/internal/domain/errors"

	"github.com/sirupsen/logrus"
)

// New creates a logger writing to out with the given level and format
// ("json" or "text")
func New(out io.Writer, level, format string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(out)

	switch format {
	case "", "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, errors.NewConfigurationError("unknown log format: "+format, nil)
	}

	if level == "" {
		level = "info"
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.NewConfigurationError("unknown log level: "+level, err)
	}
	logger.SetLevel(parsed)

	return logger, nil
}

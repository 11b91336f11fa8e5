package utils

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the service logger. format "json" selects the JSON
// formatter; anything else gives full-timestamp text. An unknown level falls
// back to info.
func NewLogger(service, level, format string) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.EqualFold(format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	logger.AddHook(serviceHook{service: service})
	return logger
}

// serviceHook stamps every entry with the service name.
type serviceHook struct {
	service string
}

func (h serviceHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h serviceHook) Fire(entry *logrus.Entry) error {
	if _, ok := entry.Data["service"]; !ok {
		entry.Data["service"] = h.service
	}
	return nil
}

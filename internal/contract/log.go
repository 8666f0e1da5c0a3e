package contract

import (
	"os"

	"github.com/sirupsen/logrus"
)

var log *logrus.Logger

// InitLogging initializes the process logger. Diagnostics go to stderr so
// stdout stays clean for rendered output. LOG_LEVEL overrides the level
// derived from the verbose flag.
func InitLogging(verbose bool) {
	log = logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})

	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "info":
		log.SetLevel(logrus.InfoLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	}
}

// GetLogger returns the configured logger instance.
func GetLogger() *logrus.Logger {
	if log == nil {
		InitLogging(false)
	}
	return log
}

// LogDebug logs a debug message with structured fields.
func LogDebug(msg string, fields logrus.Fields) {
	GetLogger().WithFields(fields).Debug(msg)
}

// LogWarn logs a warning with its cause.
func LogWarn(msg string, err error) {
	GetLogger().WithError(err).Warn(msg)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	GetLogger().WithError(err).Fatal(msg)
}

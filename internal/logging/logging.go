// Package logging builds the application logger.
package logging

import (
	"io"
	"os"

	"github.com/handiism/radiotracks/internal/config"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New creates a logger from the logging settings.
//
// Output goes to console (stderr) and, when settings.File is set, to a
// rotating log file as well. A nil console logs to the file only, which the
// terminal UI uses to keep the screen clean; with neither, logs are dropped.
func New(settings config.LoggingSettings, console io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(settings.Level)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(level)

	if settings.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	var writers []io.Writer
	if console != nil {
		writers = append(writers, console)
	}
	if settings.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   settings.File,
			MaxSize:    settings.MaxSizeMB,
			MaxBackups: settings.MaxBackups,
		})
	}

	switch len(writers) {
	case 0:
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}

	return logger, nil
}

// Default returns a text logger on stderr at info level, used before the
// settings are loaded.
func Default() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return logger
}

package main

import (
	"flag"

	"github.com/handiism/radiotracks/internal/config"
	"github.com/handiism/radiotracks/internal/logging"
	"github.com/handiism/radiotracks/internal/tui"
)

func main() {
	configFlag := flag.String("config", config.DefaultPath, "Path to config file")
	flag.Parse()

	// Until the settings are known, errors go to stderr.
	fallback := logging.Default()

	settings, err := config.Load(*configFlag)
	if err != nil {
		fallback.WithError(err).WithField("config", *configFlag).Fatal("Loading config failed")
	}

	// The screen belongs to the UI: log to the configured file only.
	logger, err := logging.New(settings.Logging, nil)
	if err != nil {
		fallback.WithError(err).Fatal("Creating logger failed")
	}

	if err := tui.Run(settings, logger); err != nil {
		fallback.WithError(err).Fatal("Terminal UI failed")
	}
}

// Package config provides configuration management for radiotracks.
//
// This package handles:
//   - Loading and saving settings from TOML files
//   - Loading .env files
//   - Environment variable overrides (RADIOTRACKS_*)
//   - Default configuration values and validation
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Talks to https://www.verticalradio.ch
//	// Caches plays in ./vertical_radio_tracks.csv
//	// Serves the web UI on 0.0.0.0:8080
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/radiotracks.toml")
//	if err != nil {
//	    // Missing files fall back to defaults; parse and validation errors don't
//	}
//
// Precedence, lowest first: defaults, the TOML file, variables from .env,
// the process environment.
//
// # Saving Settings
//
//	settings.Cache.Path = "/var/lib/radiotracks/tracks.csv"
//	err := settings.Save("/path/to/radiotracks.toml")
package config

package main

import (
	"strings"
	"sync"

	"github.com/handiism/radiotracks/internal/catalog"
	"github.com/handiism/radiotracks/internal/config"
	"github.com/handiism/radiotracks/internal/logging"
	"github.com/handiism/radiotracks/internal/radio"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type commandContext struct {
	configFlag  *string
	verboseFlag *bool

	once     sync.Once
	settings *config.Settings
	logger   *logrus.Logger
	err      error
}

func newCommandContext(configFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil || strings.TrimSpace(*c.configFlag) == "" {
		return config.DefaultPath
	}
	return strings.TrimSpace(*c.configFlag)
}

// ensure loads the settings and builds the logger once per process.
func (c *commandContext) ensure(cmd *cobra.Command) (*config.Settings, *logrus.Logger, error) {
	c.once.Do(func() {
		settings, err := config.Load(c.configPath())
		if err != nil {
			c.err = err
			return
		}
		if c.verboseFlag != nil && *c.verboseFlag {
			settings.Logging.Level = "debug"
		}
		logger, err := logging.New(settings.Logging, cmd.ErrOrStderr())
		if err != nil {
			c.err = err
			return
		}
		c.settings = settings
		c.logger = logger
	})
	return c.settings, c.logger, c.err
}

func (c *commandContext) verbose() bool {
	return c.verboseFlag != nil && *c.verboseFlag
}

// catalog wires the catalog for the loaded settings.
func (c *commandContext) catalog(cmd *cobra.Command, opts ...catalog.Option) (*catalog.Catalog, *radio.Fetcher, error) {
	settings, logger, err := c.ensure(cmd)
	if err != nil {
		return nil, nil, err
	}
	cat, fetcher := catalog.NewFromSettings(settings, logger, opts...)
	return cat, fetcher, nil
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var verboseFlag bool

	ctx := newCommandContext(&configFlag, &verboseFlag)

	rootCmd := &cobra.Command{
		Use:           "radiotracks",
		Short:         "Search the tracks aired on Vertical Radio",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["skipConfigLoad"] == "true" {
				return nil
			}
			_, _, err := ctx.ensure(cmd)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path (default "+config.DefaultPath+")")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Show debug output")

	rootCmd.AddCommand(newRefreshCommand(ctx))
	rootCmd.AddCommand(newSearchCommand(ctx))
	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}

package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/promptlib/internal/app"
	"github.com/MrSnakeDoc/promptlib/internal/config"
	"github.com/MrSnakeDoc/promptlib/internal/logger"
	"github.com/MrSnakeDoc/promptlib/internal/version"
)

// cli carries the state shared by every command.
type cli struct {
	verbose bool
	now     func() time.Time
}

func newRootCmd() *cobra.Command {
	c := &cli{now: time.Now}

	rootCmd := &cobra.Command{
		Use:   "promptlib",
		Short: "A personal library of reusable AI prompts",
		Long: `promptlib keeps a library of reusable prompts for AI tools.

Prompts have a title, the prompt text, a category and an optional reference
URL, and can be starred as favorites. The library can be searched, exported
to a JSON file and merged back from one, or served over HTTP.

Storage is chosen with PROMPTLIB_STORE (file, sqlite, redis or memory).`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log at the configured level instead of warn")

	rootCmd.AddCommand(
		c.addCmd(),
		c.listCmd(),
		c.showCmd(),
		c.editCmd(),
		c.favCmd(),
		c.rmCmd(),
		c.importCmd(),
		c.exportCmd(),
		c.seedCmd(),
		c.categoriesCmd(),
		c.serveCmd(),
		versionCmd(),
	)
	return rootCmd
}

// setup loads the configuration and builds the logger. One-shot commands
// log at warn unless --verbose; the server always uses the configured level.
func (c *cli) setup(server bool) (*config.Config, logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	level := cfg.LogLevel
	if !server && !c.verbose {
		level = "warn"
	}
	return cfg, logger.New(level, cfg.PrettyLog), nil
}

// withLibrary opens the configured library for the duration of fn.
func (c *cli) withLibrary(cmd *cobra.Command, fn func(lib *app.Library) error) error {
	cfg, log, err := c.setup(false)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	lib, err := app.OpenLibrary(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer lib.Close()

	return fn(lib)
}

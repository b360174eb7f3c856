package main

import (
	"context"
	"fmt"

	"mealwise/internal/app"
	"mealwise/internal/config"
	"mealwise/internal/logging"

	"github.com/spf13/cobra"
)

// opener builds the App a command runs against.
type opener func(ctx context.Context) (*app.App, error)

func openFromEnv(ctx context.Context) (*app.App, error) {
	cfg, err := config.NewFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	return app.New(ctx, cfg, logger)
}

// cli carries the App between the root hooks and the subcommands.
type cli struct {
	open opener
	app  *app.App
}

func newRootCmd(open opener) *cobra.Command {
	c := &cli{open: open}

	root := &cobra.Command{
		Use:           "mealwise",
		Short:         "Plan the week's meals and build the shopping list",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			c.app = a
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if c.app == nil {
				return nil
			}
			err := c.app.Close()
			c.app = nil
			return err
		},
	}

	root.AddCommand(
		c.recipesCmd(),
		c.weekCmd(),
		c.shoppingCmd(),
		c.booksCmd(),
		c.clipCmd(),
		c.importGhostCmd(),
		c.publishCmd(),
		c.suggestCmd(),
		c.metricsCleanupCmd(),
	)
	return root
}

// save persists the planner after a mutating command.
func (c *cli) save(cmd *cobra.Command) error {
	return c.app.Save(cmd.Context())
}

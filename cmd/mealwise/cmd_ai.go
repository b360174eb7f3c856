package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) clipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clip <url>",
		Short: "Extract a recipe from a web page and add it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.app.ClipURL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Clipped %s with %d ingredients\n", r.Name, len(r.Ingredients))
			return nil
		},
	}
}

func (c *cli) importGhostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-ghost",
		Short: "Import recipe posts from the Ghost blog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sum, err := c.app.ImportGhost(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d, skipped %d, failed %d\n", sum.Imported, sum.Skipped, sum.Failed)
			return nil
		},
	}
}

func (c *cli) publishCmd() *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish the week and its shopping list as a Ghost draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			post, err := c.app.Publish(cmd.Context(), title)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Draft %q created (%s)\n", post.Title, post.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "post title")
	return cmd
}

func (c *cli) suggestCmd() *cobra.Command {
	var prefs, ingredients string
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Ask for recipe ideas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := c.app.Suggest(cmd.Context(), prefs, ingredients)
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), "- "+n)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&prefs, "prefs", "", "dietary preferences")
	cmd.Flags().StringVar(&ingredients, "ingredients", "", "ingredients at hand")
	return cmd
}

func (c *cli) metricsCleanupCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "metrics-cleanup",
		Short: "Delete LLM execution metrics older than --days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := c.app.CleanupMetrics(cmd.Context(), days)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d metrics\n", n)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "retention in days")
	return cmd
}

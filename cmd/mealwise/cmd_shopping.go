package main

import (
	"fmt"

	"mealwise/internal/app"
	"mealwise/internal/shopping"

	"github.com/spf13/cobra"
)

func (c *cli) shoppingCmd() *cobra.Command {
	var (
		acquired []string
		all      bool
	)

	// build derives the list for this run and marks the given item ids as acquired.
	build := func() (*app.Session, error) {
		s := c.app.Planner().NewSession()
		s.Refresh()
		for _, id := range acquired {
			if !s.MarkAcquired(id) {
				return nil, fmt.Errorf("unknown shopping item %q", id)
			}
		}
		return s, nil
	}

	cmd := &cobra.Command{
		Use:   "shopping",
		Short: "Print the shopping list for the planned week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := build()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			items := s.Visible()
			if all {
				items = s.Items()
			}
			if len(items) == 0 {
				fmt.Fprintln(out, "Nothing to buy.")
				return nil
			}
			for _, it := range items {
				mark := " "
				if it.Acquired {
					mark = "x"
				}
				fmt.Fprintf(out, "[%s] %s (%s) - for %s  %s\n", mark, it.Name, it.Quantity, it.RecipeName, it.ID)
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringSliceVar(&acquired, "acquired", nil, "item ids already bought")
	cmd.Flags().BoolVar(&all, "all", false, "include acquired items")

	cmd.AddCommand(&cobra.Command{
		Use:   "export",
		Short: "Print the remaining items as plain text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := build()
			if err != nil {
				return err
			}
			if text := shopping.Export(s.Visible()); text != "" {
				fmt.Fprintln(cmd.OutOrStdout(), text)
			}
			return nil
		},
	})
	return cmd
}

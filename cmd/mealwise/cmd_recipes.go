package main

import (
	"fmt"
	"strings"

	"mealwise/internal/recipe"

	"github.com/spf13/cobra"
)

func (c *cli) recipesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "Manage the recipe collection",
	}
	cmd.AddCommand(c.recipesAddCmd(), c.recipesListCmd(), c.recipesDeleteCmd())
	return cmd
}

func (c *cli) recipesAddCmd() *cobra.Command {
	var (
		ingredients  []string
		instructions string
		color        string
	)
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a recipe",
		Long: `Add a recipe. Ingredients are given as name=quantity, for example:

  mealwise recipes add "Tomato Soup" -i "Tomato=6" -i "Basil=1 bunch"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := recipe.Recipe{
				Name:         strings.Join(args, " "),
				Instructions: instructions,
				Color:        color,
			}
			for _, raw := range ingredients {
				r.Ingredients = append(r.Ingredients, parseIngredient(raw))
			}

			added, err := c.app.Planner().AddRecipe(r)
			if err != nil {
				return err
			}
			if err := c.save(cmd); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", added.Name, added.ID)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&ingredients, "ingredient", "i", nil, "ingredient as name=quantity (repeatable)")
	cmd.Flags().StringVar(&instructions, "instructions", "", "preparation steps")
	cmd.Flags().StringVar(&color, "color", "", "display color as #rrggbb")
	return cmd
}

func parseIngredient(raw string) recipe.Ingredient {
	name, qty, _ := strings.Cut(raw, "=")
	return recipe.Ingredient{Name: strings.TrimSpace(name), Quantity: strings.TrimSpace(qty)}
}

func (c *cli) recipesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			recipes := c.app.Planner().Recipes()
			if len(recipes) == 0 {
				fmt.Fprintln(out, "No recipes yet.")
				return nil
			}
			for _, r := range recipes {
				fmt.Fprintf(out, "%s\t%s\t%d ingredients\n", r.ID, r.Name, len(r.Ingredients))
			}
			return nil
		},
	}
}

func (c *cli) recipesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id|name>",
		Short: "Delete a recipe; planned slots that used it become empty",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.app.Planner()
			r, err := p.ResolveRecipe(strings.Join(args, " "))
			if err != nil {
				return err
			}
			p.DeleteRecipe(r.ID)
			if err := c.save(cmd); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", r.Name)
			return nil
		},
	}
}

package main

import (
	"fmt"
	"strings"

	"mealwise/internal/schedule"

	"github.com/spf13/cobra"
)

func (c *cli) weekCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show and edit the weekly schedule",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the week",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				fmt.Fprint(cmd.OutOrStdout(), c.app.Planner().WeekMarkdown())
				return nil
			},
		},
		&cobra.Command{
			Use:   "assign <day> <lunch|dinner> <recipe>",
			Short: "Plan a recipe for a slot",
			Args:  cobra.MinimumNArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				day, slot, err := parseSlot(args[0], args[1])
				if err != nil {
					return err
				}
				p := c.app.Planner()
				r, err := p.ResolveRecipe(strings.Join(args[2:], " "))
				if err != nil {
					return err
				}
				if err := p.Assign(day, slot, r.ID); err != nil {
					return err
				}
				if err := c.save(cmd); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", day, slot, r.Name)
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear [<day> <lunch|dinner>]",
			Short: "Clear one slot, or the whole week",
			Args: func(cmd *cobra.Command, args []string) error {
				if len(args) != 0 && len(args) != 2 {
					return fmt.Errorf("accepts 0 or 2 args, received %d", len(args))
				}
				return nil
			},
			RunE: func(cmd *cobra.Command, args []string) error {
				p := c.app.Planner()
				if len(args) == 0 {
					p.Clear()
				} else {
					day, slot, err := parseSlot(args[0], args[1])
					if err != nil {
						return err
					}
					if err := p.Assign(day, slot, ""); err != nil {
						return err
					}
				}
				return c.save(cmd)
			},
		},
		&cobra.Command{
			Use:   "move <day> <slot> <to-day> <to-slot>",
			Short: "Move a planned recipe to another slot",
			Args:  cobra.ExactArgs(4),
			RunE: func(cmd *cobra.Command, args []string) error {
				fromDay, fromSlot, err := parseSlot(args[0], args[1])
				if err != nil {
					return err
				}
				toDay, toSlot, err := parseSlot(args[2], args[3])
				if err != nil {
					return err
				}
				moved, err := c.app.Planner().Move(fromDay, fromSlot, toDay, toSlot)
				if err != nil {
					return err
				}
				if !moved {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s is empty, nothing moved\n", fromDay, fromSlot)
					return nil
				}
				return c.save(cmd)
			},
		},
		&cobra.Command{
			Use:   "autofill",
			Short: "Fill every slot with a random recipe",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				p := c.app.Planner()
				if err := p.AutoFill(); err != nil {
					return err
				}
				if err := c.save(cmd); err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), p.WeekMarkdown())
				return nil
			},
		},
	)
	return cmd
}

func parseSlot(dayArg, slotArg string) (schedule.Day, schedule.Slot, error) {
	day, err := schedule.ParseDay(dayArg)
	if err != nil {
		return "", "", err
	}
	slot, err := schedule.ParseSlot(slotArg)
	if err != nil {
		return "", "", err
	}
	return day, slot, nil
}

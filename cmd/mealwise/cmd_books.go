package main

import (
	"fmt"
	"strconv"
	"strings"

	"mealwise/internal/books"

	"github.com/spf13/cobra"
)

func (c *cli) booksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "Track books on the reading shelf",
	}
	cmd.AddCommand(
		c.booksAddCmd(),
		c.booksListCmd(),
		c.booksStatusCmd(),
		c.booksRateCmd(),
		c.booksRemoveCmd(),
	)
	return cmd
}

func (c *cli) booksAddCmd() *cobra.Command {
	var (
		author string
		status string
		year   int
		isbn   string
		notes  string
	)
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a book",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := books.ParseStatus(status)
			if err != nil {
				return err
			}
			b := c.app.Planner().SaveBook(books.TrackedBook{
				Title:         strings.Join(args, " "),
				Author:        author,
				PublishedYear: year,
				ISBN:          isbn,
				Notes:         notes,
				Status:        st,
			})
			if err := c.save(cmd); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", b.Title, b.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&author, "author", "", "author name")
	cmd.Flags().StringVar(&status, "status", string(books.WantToRead), "want-to-read, reading or completed")
	cmd.Flags().IntVar(&year, "year", 0, "first publication year")
	cmd.Flags().StringVar(&isbn, "isbn", "", "ISBN")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	return cmd
}

func (c *cli) booksListCmd() *cobra.Command {
	var (
		status string
		f      books.Filters
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if status != "" {
				st, err := books.ParseStatus(status)
				if err != nil {
					return err
				}
				f.Status = st
			}
			out := cmd.OutOrStdout()
			list := c.app.Planner().Books(f)
			if len(list) == 0 {
				fmt.Fprintln(out, "No books.")
				return nil
			}
			for _, b := range list {
				line := fmt.Sprintf("%s\t%s", b.ID, b.Title)
				if b.Author != "" {
					line += " by " + b.Author
				}
				line += "\t" + string(b.Status)
				if b.Rating > 0 {
					line += "\t" + strings.Repeat("*", b.Rating)
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only books with this status")
	cmd.Flags().IntVar(&f.Rating, "rating", 0, "only books with this rating")
	cmd.Flags().StringVar(&f.Author, "author", "", "author contains")
	cmd.Flags().StringVar(&f.SearchQuery, "search", "", "title or author contains")
	return cmd
}

func (c *cli) findBook(ref string) (books.TrackedBook, error) {
	b, ok := c.app.Planner().Book(ref)
	if !ok {
		return books.TrackedBook{}, fmt.Errorf("book %q not found", ref)
	}
	return b, nil
}

func (c *cli) booksStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id|title> <status>",
		Short: "Move a book to want-to-read, reading or completed",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := books.ParseStatus(args[len(args)-1])
			if err != nil {
				return err
			}
			b, err := c.findBook(strings.Join(args[:len(args)-1], " "))
			if err != nil {
				return err
			}
			c.app.Planner().UpdateBookStatus(b.ID, st)
			return c.save(cmd)
		},
	}
}

func (c *cli) booksRateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rate <id|title> <1-5>",
		Short: "Rate a book",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := strconv.Atoi(args[len(args)-1])
			if err != nil {
				return books.ErrInvalidRating
			}
			b, err := c.findBook(strings.Join(args[:len(args)-1], " "))
			if err != nil {
				return err
			}
			if _, err := c.app.Planner().RateBook(b.ID, rating); err != nil {
				return err
			}
			return c.save(cmd)
		},
	}
}

func (c *cli) booksRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id|title>",
		Short: "Remove a book",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := c.findBook(strings.Join(args, " "))
			if err != nil {
				return err
			}
			c.app.Planner().RemoveBook(b.ID)
			return c.save(cmd)
		},
	}
}

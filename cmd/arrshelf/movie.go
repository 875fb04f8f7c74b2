package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/arrshelf/internal/library"
)

func newMovieCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "movie",
		Short: "Look up and manage watched movies",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "lookup <text>",
		Short: "Search TMDB for movies matching text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.open()
			if err != nil {
				return err
			}
			defer a.Close()

			text := strings.Join(args, " ")
			results, err := a.resolver.LookupMovies(cmd.Context(), text)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No movies found matching %q\n", text)
				return nil
			}
			printMovies(cmd, results)
			return nil
		},
	})

	cmd.AddCommand(movieWatchCommand(ctx, "watch", true))
	cmd.AddCommand(movieWatchCommand(ctx, "unwatch", false))

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List watched movies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.open()
			if err != nil {
				return err
			}
			defer a.Close()

			movies, err := a.store.WatchedMovies()
			if err != nil {
				return err
			}
			if len(movies) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No movies are being watched")
				return nil
			}
			printMovies(cmd, movies)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear <id>",
		Short: "Drop a cached movie and fetch it again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := ctx.open()
			if err != nil {
				return err
			}
			defer a.Close()

			m, err := a.resolver.ClearMovie(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("movie %d: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Refreshed %d: %s (%d)\n", m.ID, m.Title, m.Year)
			return nil
		},
	})

	return cmd
}

func movieWatchCommand(ctx *commandContext, use string, watch bool) *cobra.Command {
	short := "Start watching a movie"
	if !watch {
		short = "Stop watching a movie"
	}
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := ctx.open()
			if err != nil {
				return err
			}
			defer a.Close()

			m, err := a.resolver.WatchMovie(cmd.Context(), id, watch)
			if err != nil {
				return fmt.Errorf("movie %d: %w", id, err)
			}
			if watch {
				fmt.Fprintf(cmd.OutOrStdout(), "Watching %d: %s (%d)\n", m.ID, m.Title, m.Year)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Stopped watching %d: %s (%d)\n", m.ID, m.Title, m.Year)
			}
			return nil
		},
	}
}

func printMovies(cmd *cobra.Command, movies []*library.Movie) {
	rows := make([][]string, 0, len(movies))
	for _, m := range movies {
		year := ""
		if m.Year > 0 {
			year = strconv.Itoa(m.Year)
		}
		rows = append(rows, []string{
			strconv.FormatInt(m.ID, 10),
			m.Title,
			year,
			m.MPAARating,
			truncate(m.Description, 60),
		})
	}
	printTable(cmd.OutOrStdout(), []string{"ID", "Title", "Year", "Rating", "Description"}, rows)
}

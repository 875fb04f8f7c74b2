package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/arrshelf/internal/library"
)

func newSeriesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "series",
		Short: "Look up and manage watched TV series",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "lookup <name>",
		Short: "Search TheTVDB for series matching name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.open()
			if err != nil {
				return err
			}
			defer a.Close()

			name := strings.Join(args, " ")
			results, err := a.resolver.LookupSeries(cmd.Context(), name)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No series found matching %q\n", name)
				return nil
			}
			printSeries(cmd, results)
			return nil
		},
	})

	cmd.AddCommand(seriesWatchCommand(ctx, "watch", true))
	cmd.AddCommand(seriesWatchCommand(ctx, "unwatch", false))

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List watched series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.open()
			if err != nil {
				return err
			}
			defer a.Close()

			series, err := a.store.WatchedSeries()
			if err != nil {
				return err
			}
			if len(series) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No series are being watched")
				return nil
			}
			printSeries(cmd, series)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear <id>",
		Short: "Clear the cached episodes of a series",
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

			series, err := a.store.GetSeries(id)
			if err != nil {
				return fmt.Errorf("series %d: %w", id, err)
			}
			n, err := a.resolver.ClearEpisodes(id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cached episode(s) of %s\n", n, series.Title)
			return nil
		},
	})

	return cmd
}

func seriesWatchCommand(ctx *commandContext, use string, watch bool) *cobra.Command {
	short := "Start watching a series"
	if !watch {
		short = "Stop watching a series"
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

			s, err := a.resolver.WatchSeries(cmd.Context(), id, watch)
			if err != nil {
				return fmt.Errorf("series %d: %w", id, err)
			}
			if watch {
				fmt.Fprintf(cmd.OutOrStdout(), "Watching %d: %s\n", s.ID, s.Title)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Stopped watching %d: %s\n", s.ID, s.Title)
			}
			return nil
		},
	}
}

func printSeries(cmd *cobra.Command, series []*library.Series) {
	rows := make([][]string, 0, len(series))
	for _, s := range series {
		rows = append(rows, []string{
			strconv.FormatInt(s.ID, 10),
			s.Title,
			strings.Join(s.Genres, ", "),
			s.ContentRating,
			truncate(s.Description, 60),
		})
	}
	printTable(cmd.OutOrStdout(), []string{"ID", "Title", "Genres", "Rating", "Description"}, rows)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %s", s)
	}
	return id, nil
}

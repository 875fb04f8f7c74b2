package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/arrshelf/internal/library"
)

// episodeQuery is a parsed series_id[:season[:episode]] pattern.
type episodeQuery struct {
	SeriesID int64
	Season   int // -1 for all seasons
	Episode  int // -1 for all episodes
}

func parseEpisodeQuery(s string) (episodeQuery, error) {
	q := episodeQuery{Season: -1, Episode: -1}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return q, fmt.Errorf("pattern must be series_id[:season[:episode]], got %q", s)
	}

	id, err := parseID(parts[0])
	if err != nil {
		return q, err
	}
	q.SeriesID = id

	if len(parts) > 1 {
		if q.Season, err = strconv.Atoi(parts[1]); err != nil || q.Season < 0 {
			return q, fmt.Errorf("invalid season: %s", parts[1])
		}
	}
	if len(parts) > 2 {
		if q.Episode, err = strconv.Atoi(parts[2]); err != nil || q.Episode < 0 {
			return q, fmt.Errorf("invalid episode: %s", parts[2])
		}
	}
	return q, nil
}

func newEpisodesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "episodes <series_id[:season[:episode]]>",
		Short: "List the episodes of a series",
		Long: `Lists the cached episodes of a series, fetching the full episode list
from TheTVDB when none are cached. A season narrows the list; a season and
episode look up that single episode.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := parseEpisodeQuery(args[0])
			if err != nil {
				return err
			}
			a, err := ctx.open()
			if err != nil {
				return err
			}
			defer a.Close()

			c := cmd.Context()
			series, err := a.resolver.ResolveSeries(c, q.SeriesID)
			if err != nil {
				return fmt.Errorf("series %d: %w", q.SeriesID, err)
			}

			if q.Episode >= 0 {
				ep, err := a.resolver.ResolveEpisode(c, series, q.Season, q.Episode)
				if err != nil {
					return fmt.Errorf("%s season %d, episode %d: %w", series.Title, q.Season, q.Episode, err)
				}
				printEpisodes(cmd, series, []*library.Episode{ep})
				return nil
			}

			all, err := a.resolver.AllEpisodes(c, series)
			if err != nil {
				return err
			}
			var eps []*library.Episode
			for _, ep := range all {
				if q.Season < 0 || ep.Season == q.Season {
					eps = append(eps, ep)
				}
			}
			if len(eps) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No episodes of %s found\n", series.Title)
				return nil
			}
			printEpisodes(cmd, series, eps)
			return nil
		},
	}
}

func printEpisodes(cmd *cobra.Command, series *library.Series, eps []*library.Episode) {
	rows := make([][]string, 0, len(eps))
	for _, ep := range eps {
		aired := ""
		if ep.AirDate != nil {
			aired = ep.AirDate.Format(library.AirDateLayout)
		}
		rows = append(rows, []string{
			series.Title,
			strconv.Itoa(ep.Season),
			strconv.Itoa(ep.Episode),
			aired,
			ep.Title,
		})
	}
	printTable(cmd.OutOrStdout(), []string{"Series", "Season", "Episode", "Aired", "Title"}, rows)
}

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"

	"github.com/vmunix/arrshelf/internal/importer"
)

// printTable writes rows as a rounded table on a terminal and as
// tab-separated lines otherwise, so output can be piped.
func printTable(w io.Writer, headers []string, rows [][]string) {
	tw := table.NewWriter()

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)
	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range headers {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	if isTerminal(w) {
		tw.SetStyle(table.StyleRounded)
		fmt.Fprintln(w, tw.Render())
		return
	}
	fmt.Fprintln(w, tw.RenderTSV())
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func printSummary(w io.Writer, sum *importer.Summary) {
	fmt.Fprintf(w, "Scanned %d file(s)\n", sum.Scanned)
	if sum.Placed > 0 {
		fmt.Fprintf(w, "  placed:     %d (%s)\n", sum.Placed, humanize.Bytes(uint64(sum.Bytes)))
	}
	if sum.Generated > 0 {
		fmt.Fprintf(w, "  generated:  %d\n", sum.Generated)
	}
	if n := sum.Skipped(); n > 0 {
		fmt.Fprintf(w, "  skipped:    %d (no match %d, not found %d, already exists %d, too fresh %d)\n",
			n, sum.NoMatch, sum.NotFound, sum.AlreadyExists, sum.TooFresh)
	}
	if sum.Failed > 0 {
		fmt.Fprintf(w, "  failed:     %d\n", sum.Failed)
		for _, o := range sum.Outcomes {
			if o.Status == importer.StatusFailed {
				fmt.Fprintf(w, "    %s: %v\n", o.Path, o.Err)
			}
		}
	}
	if sum.Swept > 0 {
		fmt.Fprintf(w, "  swept:      %d recent addition(s)\n", sum.Swept)
	}
}

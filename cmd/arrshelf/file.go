package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func newFileCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file",
		Short: "Identify a single media file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "name <path>",
		Short: "Print the library path a file would be placed at",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.open()
			if err != nil {
				return err
			}
			defer a.Close()

			m, err := a.processor.Identify(cmd.Context(), args[0], true)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), m.Dest)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "metadata <path>",
		Short: "Print the metadata that would be written for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.open()
			if err != nil {
				return err
			}
			defer a.Close()

			path := args[0]
			m, err := a.processor.Identify(cmd.Context(), path, true)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			recorded := time.Now()
			if info, err := os.Stat(path); err == nil {
				recorded = info.ModTime()
			}
			for _, line := range a.processor.Sidecar(m, recorded) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	})

	return cmd
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/arrshelf/internal/config"
	"github.com/vmunix/arrshelf/internal/lock"
	"github.com/vmunix/arrshelf/internal/runner"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var (
		move  bool
		every time.Duration
	)

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Process the input directories and organize the library",
		Long: `Walks the input directories, identifies media files of watched series and
movies, and files them into the library with metadata. Only one process
run can be active at a time.

With --every the pass repeats on that interval until interrupted; passes
that find the lock held are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.open(func(cfg *config.Config) {
				if move {
					cfg.Process.Move = true
				}
			})
			if err != nil {
				return err
			}
			defer a.Close()

			pass := func(ctx context.Context) error {
				sum, err := a.processor.Process(ctx)
				if errors.Is(err, lock.ErrLockHeld) {
					return fmt.Errorf("another arrshelf process is running (%s): %w", a.cfg.Process.LockFile, err)
				}
				if err != nil {
					return err
				}
				printSummary(cmd.OutOrStdout(), sum)
				return nil
			}
			if every <= 0 {
				return pass(cmd.Context())
			}

			sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			err = runner.New(pass, runner.Config{Interval: every}, a.log).Run(sigCtx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&move, "move", false, "Move files into the library instead of copying them")
	cmd.Flags().DurationVar(&every, "every", 0, "Repeat the pass on this interval until interrupted")
	return cmd
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <dir>",
		Short: "Generate metadata for every media file in a directory",
		Long:  "Recursively walks dir and writes metadata for each identifiable media file. Existing metadata is overwritten.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.open()
			if err != nil {
				return err
			}
			defer a.Close()

			sum, err := a.processor.Generate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), sum)
			return nil
		},
	}
}

func newRegenerateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "regenerate",
		Short: "Regenerate metadata for the library directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.open()
			if err != nil {
				return err
			}
			defer a.Close()

			sum, err := a.processor.Regenerate(cmd.Context())
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), sum)
			return nil
		},
	}
}

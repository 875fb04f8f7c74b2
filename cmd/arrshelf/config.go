package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/arrshelf/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	var initPath string
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a sample configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := initPath
			if path == "" {
				path = config.DefaultPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.WriteDefault(path); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", path)
			return nil
		},
	}
	initCmd.Flags().StringVar(&initPath, "path", "", "Destination (default "+config.DefaultPath()+")")
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	validateCmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate configuration file",
		Long:  "Validates config.toml syntax, required fields and environment variable substitution.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			var err error
			if len(args) > 0 {
				path = args[0]
			} else if path, err = ctx.configPath(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Validating %s...\n\n", path)

			cfg, err := config.Load(path)
			if err != nil {
				var cfgErr *config.ConfigError
				if errors.As(err, &cfgErr) {
					printConfigErrors(out, cfgErr)
					return fmt.Errorf("configuration invalid")
				}
				return fmt.Errorf("failed to load config: %w", err)
			}

			printConfigSummary(out, cfg)
			fmt.Fprintln(out, "\nConfiguration valid!")
			return nil
		},
	}

	cmd.AddCommand(initCmd, validateCmd)
	return cmd
}

func printConfigErrors(w io.Writer, e *config.ConfigError) {
	if len(e.Missing) > 0 {
		fmt.Fprintln(w, "Missing environment variables:")
		for _, m := range e.Missing {
			fmt.Fprintf(w, "  - %s\n", m)
		}
		fmt.Fprintln(w)
	}
	if len(e.Errors) > 0 {
		fmt.Fprintln(w, "Validation errors:")
		for _, err := range e.Errors {
			fmt.Fprintf(w, "  - %s\n", err)
		}
		fmt.Fprintln(w)
	}
}

func printConfigSummary(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Configuration Summary:")
	fmt.Fprintf(w, "  Log:        %s\n", cfg.Log.Level)
	fmt.Fprintf(w, "  Database:   %s\n", cfg.Database.Path)
	fmt.Fprintf(w, "  Input:      %s\n", cfg.Library.InputPath)
	fmt.Fprintf(w, "  TV:         %s\n", cfg.Library.TVPath)
	if cfg.Library.MoviePath != "" {
		fmt.Fprintf(w, "  Movies:     %s\n", cfg.Library.MoviePath)
	}
	if cfg.Library.RecentPath != "" {
		fmt.Fprintf(w, "  Recent:     %s (%s, kept %s)\n", cfg.Library.RecentPath, cfg.Library.RecentMode, cfg.Library.RecentRetention)
	}
	fmt.Fprintf(w, "  Format:     %s\n", cfg.Library.Format)

	providers := []string{"tvdb"}
	if cfg.TMDB.APIKey != "" {
		providers = append(providers, "tmdb")
	}
	fmt.Fprintf(w, "  Providers:  %s\n", strings.Join(providers, ", "))
}

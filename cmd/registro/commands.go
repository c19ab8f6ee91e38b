package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/registro/internal/cli"
	"github.com/terraincognita07/registro/internal/config"
	applog "github.com/terraincognita07/registro/internal/logger"
)

// withRuntime loads configuration and opens the store for one maintenance command.
func withRuntime(ctx context.Context, run func(runtime *cli.Runtime) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := applog.New(cfg.IsDevelopment(), cfg.SentryDSN).With("mode", "cli")

	runtime, err := cli.OpenRuntime(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := runtime.Close(); err != nil {
			slog.Warn("runtime close failed", "error", err)
		}
	}()
	return run(runtime)
}

func sampleCmd() *cobra.Command {
	var userID string

	sample := &cobra.Command{
		Use:   "sample",
		Short: "Manage generated sample records",
	}
	sample.PersistentFlags().StringVar(&userID, "user", "", "user id owning the records")

	sample.AddCommand(&cobra.Command{
		Use:   "load",
		Short: "Generate and store 30 days of sample records",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(runtime *cli.Runtime) error {
				return cli.RunSampleLoad(cmd.Context(), runtime, userID, cmd.OutOrStdout())
			})
		},
	})
	sample.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every record of the user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(runtime *cli.Runtime) error {
				return cli.RunSampleClear(cmd.Context(), runtime, userID, cmd.OutOrStdout())
			})
		},
	})
	return sample
}

func exportCmd() *cobra.Command {
	var userID string
	var outPath string

	command := &cobra.Command{
		Use:   "export",
		Short: "Write the CSV history of a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(runtime *cli.Runtime) error {
				var out io.Writer = cmd.OutOrStdout()
				if outPath != "" {
					file, err := os.Create(outPath)
					if err != nil {
						return fmt.Errorf("create %s: %w", outPath, err)
					}
					defer file.Close()
					out = file
				}
				return cli.RunExport(cmd.Context(), runtime, userID, out)
			})
		},
	}
	command.Flags().StringVar(&userID, "user", "", "user id to export")
	command.Flags().StringVar(&outPath, "out", "", "output file, stdout when empty")
	return command
}

func tokenCmd() *cobra.Command {
	var userID string
	var ttl time.Duration

	command := &cobra.Command{
		Use:   "token",
		Short: "Issue a pre-issued token for INITIAL_AUTH_TOKEN",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(runtime *cli.Runtime) error {
				return cli.RunIssueToken(runtime, userID, ttl, cmd.OutOrStdout())
			})
		},
	}
	command.Flags().StringVar(&userID, "user", "", "user id the token identifies")
	command.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime, no expiry when zero")
	return command
}

func migrateCmd() *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Inspect sqlite schema migrations",
	}
	migrate.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List applied migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(runtime *cli.Runtime) error {
				return cli.RunMigrationStatus(runtime, cmd.OutOrStdout())
			})
		},
	})
	return migrate
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/flowscope/flowscope/internal/pkg/logger"
	"github.com/flowscope/flowscope/internal/requirements"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		dir      string
		packages string
		logLevel string
	)

	root := &cobra.Command{
		Use:          "reqsync",
		Short:        "Keep generated Python requirement files in sync with their YAML specifications",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&dir, "requirements-yaml-location", "requirements", "directory holding the requirement YAML specifications")
	root.PersistentFlags().StringVar(&packages, "package-names", strings.Join(requirements.PackageGroups, ","), "comma-separated package groups to regenerate")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level")

	sync := &cobra.Command{
		Use:   "sync",
		Short: "Normalize specifications and regenerate requirement files if they changed",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Init(logger.Config{Level: logLevel, Format: "console"}); err != nil {
				return err
			}
			defer logger.Sync()

			refresher := requirements.NewRefresher(dir, splitGroups(packages), logger.Log)
			_, err := refresher.Run(cmd.Context())
			return err
		},
	}

	watch := &cobra.Command{
		Use:   "watch",
		Short: "Watch the specifications and re-normalize on every change",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Init(logger.Config{Level: logLevel, Format: "console"}); err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			w := &requirements.Watcher{
				Dir:        dir,
				Normalizer: &requirements.YAMLNormalizer{Logger: logger.Log},
				Logger:     logger.Log,
			}
			if err := w.Watch(ctx); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}

	root.AddCommand(sync, watch)
	return root
}

func splitGroups(raw string) []string {
	var groups []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			groups = append(groups, trimmed)
		}
	}
	return groups
}

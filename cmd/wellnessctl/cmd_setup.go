package main

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/zhouzirui/wellness/backend/internal/service/launcher"
)

var pullModel bool

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Check the local model runtime and optionally pull the default model",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	l := launcher.New(cfg.Runtime, logger.Named("launcher"))

	version, err := l.Require(ctx)
	if errors.Is(err, launcher.ErrNotInstalled) {
		fmt.Fprintln(out, "✗ Ollama is not installed or not in PATH")
		fmt.Fprintln(out)
		fmt.Fprintln(out, launcher.InstallHint(runtime.GOOS))
		fmt.Fprintln(out, "\nAfter installing Ollama, run this command again.")
		return err
	}
	fmt.Fprintf(out, "✓ Ollama is installed: %s\n", version)

	if !pullModel {
		fmt.Fprintf(out, "Run `wellnessctl setup --pull` to download %s.\n", cfg.Runtime.DefaultModel)
		return nil
	}

	if !l.Running(ctx) {
		if err := l.Start(ctx); err != nil {
			return fmt.Errorf("model runtime must be running to pull models: %w", err)
		}
	}

	fmt.Fprintf(out, "Downloading %s (this may take a while)...\n", cfg.Runtime.DefaultModel)
	if err := l.Pull(ctx, cfg.Runtime.DefaultModel, out); err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ %s downloaded successfully\n", cfg.Runtime.DefaultModel)
	return nil
}

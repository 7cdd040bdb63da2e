package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zhouzirui/wellness/backend/internal/config"
	"github.com/zhouzirui/wellness/backend/internal/logging"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "wellnessctl",
	Short: "Manage the wellness companion backend",
	Long: `wellnessctl prepares the local model runtime and runs the backend services.

  setup   check the runtime installation and optionally pull the default model
  serve   start the runtime if needed, then run the model proxy and the advisor
  probe   look for a running chat service on the usual local ports`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Log.Level = "debug"
		}
		logger, err = logging.New(cfg.Log)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("CONFIG_PATH"), "YAML config file (environment variables override it)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	setupCmd.Flags().BoolVar(&pullModel, "pull", false, "Pull the default model after checking the installation")
	serveCmd.Flags().BoolVar(&requireModel, "require-model", false, "Fail when no model matching the marker is installed")
	serveCmd.Flags().BoolVar(&skipRuntime, "skip-runtime", false, "Do not check or start the local runtime")
	probeCmd.Flags().DurationVar(&probeTimeout, "timeout", defaultProbeTimeout, "Per-port request timeout")

	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(probeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

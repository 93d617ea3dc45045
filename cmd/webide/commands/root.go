// Package commands provides the CLI commands for webide.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mobidic/webide/internal/api"
	"github.com/mobidic/webide/internal/config"
	"github.com/mobidic/webide/internal/logging"
)

var (
	// Version information set at build time
	Version   = "0.1.0"
	BuildTime = "dev"
)

// Global flags
var (
	flagBaseURL  string
	flagToken    string
	flagLogLevel string
	printLogs    bool
)

var rootCmd = &cobra.Command{
	Use:   "webide",
	Short: "webide - browser-IDE session engine on the command line",
	Long: `webide drives a remote project workspace: the file tree, versioned
file contents, and websocket code execution of a shared IDE backend.

Run 'webide serve' to start a local in-memory backend, then
'webide run' to execute a project file against it.`,
	Version:           Version,
	PersistentPreRunE: setup,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "Backend base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "Bearer token (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (DEBUG|INFO|WARN|ERROR)")
	rootCmd.PersistentFlags().BoolVar(&printLogs, "print-logs", false, "Print logs to stderr")

	rootCmd.SetVersionTemplate(fmt.Sprintf("webide %s (%s)\n", Version, BuildTime))

	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(serveCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// cfg is the loaded configuration, ready after setup ran.
var cfg *config.Config

func setup(cmd *cobra.Command, args []string) error {
	// A local .env is optional.
	_ = godotenv.Load()

	workDir, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err = config.Load(workDir)
	if err != nil {
		return err
	}
	if flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}
	if flagToken != "" {
		cfg.Token = flagToken
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.LogLevel)
	logCfg.Pretty = true
	if !printLogs {
		logCfg.Output = io.Discard
	}
	logging.Init(logCfg)
	return nil
}

// newClient builds an API client from the effective configuration.
func newClient() *api.Client {
	return api.New(cfg.BaseURL, api.WithToken(cfg.Token))
}

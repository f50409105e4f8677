// Package main is the entry point for the slackagent CLI.
// slackagent connects a Slack workspace to MCP tool servers: mentions
// are classified into web search, workspace queries, or chat, and
// complex requests run through an LLM-planned tool loop across the
// configured backends.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bahakizil/slack-mcp/internal/config"
	"github.com/bahakizil/slack-mcp/internal/logging"
)

var (
	version = "0.3.0"
	cfgPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "slackagent",
		Short: "Autonomous MCP agent for Slack",
		Long: `slackagent is a Slack bot that routes mentions to web search,
workspace queries, or AI chat, and plans multi-step tool runs across
MCP backends for anything more involved.

Run the bot:        slackagent serve
One-shot question:  slackagent ask "which backends are live?"
Web search:         slackagent search "golang 1.24 release notes"
Research report:    slackagent research "vector databases" --focus pricing`,
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (default ~/.slack-mcp/config.yaml)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(runsCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(researchCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("slackagent v%s\n", version)
		},
	}
}

// loadConfig reads the file named by --config (or the default path)
// with environment overrides applied, and builds the logger from its
// logging section.
func loadConfig() (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger := logging.NewWithConfig(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File)
	return cfg, logger, nil
}

package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bahakizil/slack-mcp/internal/agent"
	"github.com/bahakizil/slack-mcp/internal/journal"
	"github.com/bahakizil/slack-mcp/internal/llm"
	"github.com/bahakizil/slack-mcp/internal/mcp"
)

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Run one orchestration pass from the terminal",
		Long: `ask runs the same plan-execute-synthesize loop the bot uses for
complex mentions, without Slack: probe backends, discover tools, plan,
execute, and print the synthesized answer.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			provider := llm.NewOpenAI(&llm.Config{
				APIKey: cfg.OpenAI.APIKey,
				Model:  cfg.OpenAI.Model,
			})

			var store *journal.Store
			if cfg.Journal.Path != "" {
				s, err := journal.Open(cfg.Journal.Path)
				if err != nil {
					return fmt.Errorf("open journal: %w", err)
				}
				defer s.Close()
				store = s
			}

			orchestrator := agent.New(cfg.Backends, mcp.NewClient(logger.Logger), provider, store, logger.Logger)
			answer, err := orchestrator.Execute(ctx, strings.Join(args, " "), nil)
			if err != nil {
				return err
			}
			fmt.Println(answer)
			return nil
		},
	}
}

func runsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent orchestration runs from the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Close()

			if cfg.Journal.Path == "" {
				return fmt.Errorf("no journal configured (set journal.path)")
			}
			store, err := journal.Open(cfg.Journal.Path)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("No runs recorded yet.")
				return nil
			}
			for _, run := range runs {
				status := "ok"
				if run.Error != "" {
					status = "error: " + run.Error
				}
				fmt.Printf("%s  %s  [%s]\n    %s\n", run.StartedAt.Format("2006-01-02 15:04:05"), run.ID, status, oneLine(run.Request, 120))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "number of runs to show")
	return cmd
}

func oneLine(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}

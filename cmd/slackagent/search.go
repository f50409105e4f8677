package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bahakizil/slack-mcp/internal/llm"
	"github.com/bahakizil/slack-mcp/internal/search"
)

func searchCmd() *cobra.Command {
	var newsMode bool
	var days int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the web from the terminal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Close()

			client := search.NewClient(cfg.Tavily.APIKey)
			if !client.Available() {
				return errors.New("web search unavailable - API key not configured")
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			provider := llm.NewOpenAI(&llm.Config{
				APIKey: cfg.OpenAI.APIKey,
				Model:  cfg.OpenAI.Model,
			})
			svc := search.NewService(client, provider, logger.Logger)

			query := strings.Join(args, " ")
			var out string
			if newsMode {
				out, err = svc.CuratedNews(ctx, query, days)
			} else {
				out, err = svc.Respond(ctx, query)
			}
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&newsMode, "news", false, "news search against curated outlets")
	cmd.Flags().IntVar(&days, "days", 0, "restrict news to the last N days (max 30, default 7)")
	return cmd
}

func researchCmd() *cobra.Command {
	var focus []string

	cmd := &cobra.Command{
		Use:   "research <topic>",
		Short: "Build a research report on a topic",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Close()

			client := search.NewClient(cfg.Tavily.APIKey)
			if !client.Available() {
				return errors.New("web search unavailable - API key not configured")
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			report, err := client.Research(ctx, strings.Join(args, " "), focus)
			if err != nil {
				return err
			}
			fmt.Println(search.FormatReport(report))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&focus, "focus", nil, "focus areas for report sections (up to three)")
	return cmd
}

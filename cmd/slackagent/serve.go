package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/bahakizil/slack-mcp/internal/agent"
	slackadapter "github.com/bahakizil/slack-mcp/internal/channels/slack"
	"github.com/bahakizil/slack-mcp/internal/config"
	"github.com/bahakizil/slack-mcp/internal/discovery"
	"github.com/bahakizil/slack-mcp/internal/journal"
	"github.com/bahakizil/slack-mcp/internal/llm"
	"github.com/bahakizil/slack-mcp/internal/logging"
	"github.com/bahakizil/slack-mcp/internal/mcp"
	"github.com/bahakizil/slack-mcp/internal/metrics"
	"github.com/bahakizil/slack-mcp/internal/router"
	"github.com/bahakizil/slack-mcp/internal/search"
	"github.com/bahakizil/slack-mcp/internal/workspace"
)

const sweepSchedule = "@every 5m"

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Slack bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Close()
			return runServe(cfg, logger)
		},
	}
}

func runServe(cfg *config.Config, logger *logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting slackagent", "version", version, "backends", len(cfg.Backends))

	provider := llm.NewOpenAI(&llm.Config{
		APIKey: cfg.OpenAI.APIKey,
		Model:  cfg.OpenAI.Model,
	})
	client := mcp.NewClient(logger.Logger)

	var store *journal.Store
	if cfg.Journal.Path != "" {
		s, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer s.Close()
		store = s
		logger.Info("run journal open", "path", cfg.Journal.Path)
	}

	adapter, err := slackadapter.New(cfg.Slack.BotToken, cfg.Slack.AppToken, logger.Logger)
	if err != nil {
		return err
	}
	if err := adapter.Start(ctx); err != nil {
		return err
	}
	defer adapter.Stop()

	orchestrator := agent.New(cfg.Backends, client, provider, store, logger.Logger)
	searchSvc := search.NewService(search.NewClient(cfg.Tavily.APIKey), provider, logger.Logger)
	workspaceSvc := workspace.NewService(adapter.Client(), logger.Logger)

	rtr := router.New(
		adapter,
		router.NewSearchHandler(adapter, searchSvc, logger.Logger),
		router.NewWorkspaceHandler(adapter, workspaceSvc, orchestrator, logger.Logger),
		router.NewChatHandler(adapter, provider, logger.Logger),
		logger.Logger,
	)

	// Liveness sweep. The gauge and log line reflect the periodic
	// probe only; each orchestration run still builds its own registry.
	sweep := func() { sweepBackends(cfg.Backends, client, logger) }
	sweep()
	cr := cron.New()
	if _, err := cr.AddFunc(sweepSchedule, sweep); err != nil {
		return fmt.Errorf("schedule backend sweep: %w", err)
	}
	cr.Start()
	defer cr.Stop()

	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		logger.Info("metrics listening", "addr", cfg.Metrics.Addr)
	}

	logger.Info("bot ready, waiting for mentions")
	rtr.Run(ctx, adapter.Incoming())

	logger.Info("shutting down")
	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics shutdown", "error", err)
		}
	}
	return nil
}

func sweepBackends(backends []config.Backend, prober discovery.Prober, logger *logging.Logger) {
	reg := discovery.BuildRegistry(context.Background(), backends, prober, logger.Logger)
	metrics.LiveBackends.Set(float64(reg.Len()))
	logger.Info("backend sweep", "live", reg.Len(), "configured", len(backends), "names", reg.Names())
}

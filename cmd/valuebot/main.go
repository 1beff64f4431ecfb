// Package main provides the entry point for the value bet engine.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/valuebet-engine/internal/config"
	"github.com/yourusername/valuebet-engine/internal/database"
	"github.com/yourusername/valuebet-engine/internal/datasource"
	"github.com/yourusername/valuebet-engine/internal/health"
	applogger "github.com/yourusername/valuebet-engine/internal/logger"
	"github.com/yourusername/valuebet-engine/internal/metrics"
	"github.com/yourusername/valuebet-engine/internal/notify"
	"github.com/yourusername/valuebet-engine/internal/repository"
	"github.com/yourusername/valuebet-engine/internal/scheduler"
	"github.com/yourusername/valuebet-engine/internal/service"
	"github.com/yourusername/valuebet-engine/internal/strategy"
	"github.com/yourusername/valuebet-engine/internal/tracing"
)

// Build information - set via ldflags
var (
	Version = "dev"
)

var (
	configFile string
	logger     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	betRepo    repository.BetRepository
	statsRepo  repository.TeamStatsRepository
	pipeline   *service.Pipeline
	settlement *service.Settlement
	state      *service.WorkerState
	bot        *notify.TelegramNotifier
	listener   *notify.Listener
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:   "valuebot",
	Short: "Football value bet detection engine",
	Long: `Detects value bets by comparing Poisson model probabilities against
bookmaker odds, persists them to Postgres and reports them over Telegram.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one pipeline pass",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce(cmd.Context())
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh team strength data from standings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return pipeline.RefreshStrengths(cmd.Context())
	},
}

var settleCmd = &cobra.Command{
	Use:   "settle",
	Short: "Settle pending bets against final results",
	RunE: func(cmd *cobra.Command, args []string) error {
		settled, err := settlement.SettlePending(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Settled %d bets\n", settled)
		return nil
	},
}

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the scheduled worker with the Telegram command listener",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWorker(cmd.Context())
	},
}

func main() {
	rootCmd.AddCommand(runCmd, refreshCmd, settleCmd, workerCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig(ctx context.Context) error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if err := config.LoadSecretsFromAWS(ctx, cfg); err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	return config.Validate(cfg)
}

func setupDependencies(ctx context.Context) error {
	logger = applogger.NewLogger(cfg.App.LogLevel)
	logger.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
	}).Info("Value bet engine starting")

	if os.Getenv("XRAY_ENABLED") == "true" {
		daemonAddr := os.Getenv("XRAY_DAEMON_ADDR")
		if daemonAddr == "" {
			daemonAddr = "localhost:2000"
		}
		if err := tracing.Initialize(tracing.Config{
			ServiceName: cfg.App.Name,
			Enabled:     true,
			DaemonAddr:  daemonAddr,
		}, logger); err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}

	metrics.InitRegistry()

	var err error
	db, err = database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info("Database connection established")

	betRepo = repository.NewPostgresBetRepository(db)
	statsRepo = repository.NewPostgresTeamStatsRepository(db)

	fixturesClient := datasource.NewAPISportsClient(
		cfg.APISports.BaseURL,
		cfg.APISports.APIKey,
		newHTTPClient(cfg.APISports.RequestsPerMinute, cfg.APISports.TimeoutSeconds),
		logger,
	)
	oddsClient := datasource.NewOddsAPIClient(
		cfg.OddsAPI.BaseURL,
		cfg.OddsAPI.APIKey,
		cfg.OddsAPI.Regions,
		cfg.OddsAPI.Bookmakers,
		time.Duration(cfg.OddsAPI.CacheTTLSeconds)*time.Second,
		newHTTPClient(cfg.OddsAPI.RequestsPerMinute, cfg.OddsAPI.TimeoutSeconds),
		logger,
	)

	state = service.NewWorkerState()
	midnight := time.Now().UTC().Truncate(24 * time.Hour)
	if count, err := betRepo.CountSince(ctx, midnight); err != nil {
		logger.WithError(err).Warn("Failed to restore today's bet counter")
	} else {
		state.SeedBetsToday(count)
	}

	scorer := strategy.NewValueScorer(cfg.Pipeline.ValueThreshold, cfg.Pipeline.MinProbability)

	// A typed nil in the interface would bypass the notifier == nil checks,
	// so only assign when Telegram is enabled.
	var notifier service.Notifier
	if cfg.Telegram.Enabled {
		botAPI, err := notify.NewBot(cfg.Telegram.BotToken)
		if err != nil {
			return fmt.Errorf("failed to initialize telegram bot: %w", err)
		}
		bot = notify.NewTelegramNotifier(botAPI, cfg.Telegram.ChatID, cfg.Telegram.TopBets, logger)
		notifier = bot
		logger.Info("Telegram notifier initialized")
	} else {
		logger.Info("Telegram disabled; run summaries will only be logged")
	}

	pipeline = service.NewPipeline(
		fixturesClient,
		fixturesClient,
		oddsClient,
		betRepo,
		statsRepo,
		scorer,
		notifier,
		state,
		service.PipelineConfig{
			Leagues:     cfg.Pipeline.LeagueIDs(),
			LeagueNames: cfg.Pipeline.LeagueNameMap(),
			Season:      cfg.Pipeline.Season,
			DaysAhead:   cfg.Pipeline.DaysAhead,
		},
		logger,
	)
	settlement = service.NewSettlement(fixturesClient, betRepo, logger)

	if cfg.Telegram.Enabled {
		listener = notify.NewListener(bot.Bot(), cfg.Telegram.ChatID, pipeline, state, betRepo, logger)
	}

	return nil
}

func newHTTPClient(requestsPerMinute, timeoutSeconds int) *datasource.RateLimitedHTTPClient {
	httpCfg := datasource.DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(timeoutSeconds) * time.Second
	httpCfg.RateLimit = float64(requestsPerMinute) / 60.0
	return datasource.NewRateLimitedHTTPClient(httpCfg, nil)
}

func runOnce(ctx context.Context) error {
	ctx, seg := tracing.StartSegment(ctx, "pipeline_run")
	report, err := pipeline.Run(ctx)
	if err != nil {
		tracing.AddError(ctx, err)
		seg.Close(err)
		return err
	}
	seg.Close(nil)

	logger.WithFields(logrus.Fields{
		"fixtures": report.FixturesSeen,
		"bets":     len(report.BetsFound),
		"errors":   len(report.Errors),
		"duration": report.Duration.String(),
	}).Info("Pipeline run finished")

	return nil
}

func runWorker(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sched := scheduler.NewScheduler(pipeline, settlement, logger)
	if err := sched.ScheduleStrengthRefresh(cfg.Schedule.RefreshHour); err != nil {
		return err
	}
	if err := sched.ScheduleDailyRun(cfg.Schedule.RunHour); err != nil {
		return err
	}
	if err := sched.ScheduleSettlement(cfg.Schedule.SettleHour); err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}

	var healthServer *health.Server
	if cfg.Health.Enabled {
		healthServer = health.NewServer(health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Port:        fmt.Sprintf("%d", cfg.Health.Port),
			Logger:      logger,
			DB:          db,
			Bets:        betRepo,
			State:       state,
		})
		if err := healthServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start health server: %w", err)
		}
		healthServer.SetReady(true)
	}

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
		metricsServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: mux,
		}
		go func() {
			logger.WithField("port", cfg.Metrics.Port).Info("Metrics server starting")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.WithError(err).Error("Metrics server error")
			}
		}()
	}

	if listener != nil {
		go listener.Listen(ctx)
	}

	logger.WithFields(logrus.Fields{
		"next_run": sched.GetNextRun().Format(time.RFC3339),
		"telegram": cfg.Telegram.Enabled,
	}).Info("Worker started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Shutdown signal received")
	case <-ctx.Done():
	}

	cancel()
	sched.Stop()

	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("Metrics server shutdown error")
		}
	}

	logger.Info("Worker shut down")
	return nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/jengzang/records-drivecost/internal/api"
	"github.com/jengzang/records-drivecost/internal/config"
	"github.com/jengzang/records-drivecost/internal/database"
	"github.com/jengzang/records-drivecost/internal/logger"
	"github.com/jengzang/records-drivecost/internal/metrics"
	"github.com/jengzang/records-drivecost/internal/middleware"
	"github.com/jengzang/records-drivecost/internal/pipeline"
	"github.com/jengzang/records-drivecost/internal/report"
	"github.com/jengzang/records-drivecost/internal/repository"
	"github.com/jengzang/records-drivecost/internal/service"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to the YAML configuration file")
	timeline := flag.String("timeline", "", "location history export (overrides config)")
	inflation := flag.String("inflation", "", "inflation rate CSV (overrides config)")
	serve := flag.Bool("serve", false, "serve the report API after generating the report")
	issueToken := flag.String("issue-token", "", "print an API token for the given subject and exit")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "drivecost: %v\n", err)
		os.Exit(2)
	}
	if *timeline != "" {
		cfg.Input.TimelinePath = *timeline
	}
	if *inflation != "" {
		cfg.Input.InflationPath = *inflation
	}
	if *serve {
		cfg.Server.Enabled = true
	}

	if err := logger.Setup(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "drivecost: %v\n", err)
		os.Exit(2)
	}

	if *issueToken != "" {
		if cfg.Auth.JWTSecret == "" {
			log.Fatal().Msg("auth.jwt_secret (or JWT_SECRET) must be set to issue tokens")
		}
		token, err := middleware.IssueToken(cfg.Auth.JWTSecret, *issueToken, 24*time.Hour)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to issue token")
		}
		fmt.Println(token)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.New(registry)

	out, err := pipeline.New(cfg, recorder).Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Report generation failed")
	}
	if err := report.WriteConsole(os.Stdout, out.Report); err != nil {
		log.Fatal().Err(err).Msg("Failed to write report")
	}

	if !cfg.Server.Enabled {
		if len(out.Report.Failures) > 0 {
			os.Exit(1)
		}
		return
	}

	if err := runServer(ctx, cfg, out, recorder, registry); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

func runServer(ctx context.Context, cfg *config.Config, out *pipeline.Output, recorder *metrics.Recorder, registry *prometheus.Registry) error {
	// 初始化数据库
	db, err := database.Open(ctx, database.Config{Path: cfg.Database.Path})
	if err != nil {
		return fmt.Errorf("open event index: %w", err)
	}
	defer db.Close()

	reports := service.NewReportService(repository.NewEventRepository(db))
	if err := reports.Publish(ctx, out.Report, out.Events); err != nil {
		return fmt.Errorf("publish report: %w", err)
	}

	// 初始化路由
	router := api.SetupRouter(ctx, cfg, api.Deps{
		Reports:  reports,
		Recorder: recorder,
		Gatherer: registry,
	})
	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("component", "server").
			Str("addr", cfg.Server.Port).
			Bool("auth", cfg.Auth.JWTSecret != "").
			Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	log.Info().Str("component", "server").Msg("Server shutting down")
	return srv.Shutdown(shutdownCtx)
}

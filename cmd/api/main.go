package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julesapp/crm-api/docs"
	"github.com/julesapp/crm-api/internal/app"
	"github.com/julesapp/crm-api/internal/config"
	"github.com/julesapp/crm-api/internal/http/handler"
	"github.com/julesapp/crm-api/internal/http/middleware"
	"github.com/julesapp/crm-api/internal/http/router"
	"github.com/julesapp/crm-api/internal/jobs"
	"github.com/julesapp/crm-api/internal/logger"
	"github.com/julesapp/crm-api/internal/navigation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// @title CRM API
// @version 1.0
// @description Small-business CRM: clients, projects, tasks, sales, documents and calendar.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Session token as "Bearer <token>". The session cookie is accepted too.

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	if host := os.Getenv("PUBLIC_HOST"); host != "" {
		docs.SwaggerInfo.Host = host
	}

	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	deps, err := app.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.Close()

	shell, err := navigation.New(cfg.App.Title, cfg.Server.NavigationCapabilities)
	if err != nil {
		return fmt.Errorf("invalid navigation settings: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := deps.Services
	handlers := router.Handlers{
		Health: handler.NewHealthHandler(log, deps.HealthChecks()...),
		Auth: handler.NewAuthHandler(deps.Sessions, handler.CookieSettings{
			Name:   cfg.Auth.CookieName,
			Secure: cfg.Auth.CookieSecure,
		}, log),
		Client:     handler.NewClientHandler(s.Clients, s.Contacts, log),
		Project:    handler.NewProjectHandler(s.Projects, log),
		Task:       handler.NewTaskHandler(s.Tasks, log),
		Sale:       handler.NewSaleHandler(s.Sales, log),
		Document:   handler.NewDocumentHandler(s.Documents, cfg.Storage.MaxUploadSizeMB, log),
		Event:      handler.NewEventHandler(s.Events, log),
		Calendar:   handler.NewCalendarHandler(s.Calendar, log),
		Dashboard:  handler.NewDashboardHandler(s.Dashboard, log),
		Navigation: handler.NewNavigationHandler(shell, log),
		Stream:     handler.NewStreamHandler(s.Clients, s.Tasks, deps.Sessions.Hub(), log),
	}
	if cfg.Server.StaticDir != "" {
		handlers.SPA = handler.NewSPAHandler(cfg.Server.StaticDir, log)
		log.Info("Serving front end", zap.String("dir", cfg.Server.StaticDir))
	}

	rt := router.NewRouter(
		cfg,
		log,
		deps.AuthMiddleware(cfg.Auth.CookieName),
		middleware.NewRateLimiter(&cfg.RateLimit, log),
		registry,
		handlers,
	)

	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)
		if err := jobs.RegisterMarginReconcileJob(scheduler, s.Margins, cfg.Jobs.MarginRepair, log, cfg.Jobs.MarginReconcileSchedule); err != nil {
			log.Error("Failed to register margin reconcile job", zap.Error(err))
		}
		if deps.LocalAuth != nil {
			if err := jobs.RegisterRevocationPurgeJob(scheduler, deps.LocalAuth, log, cfg.Jobs.RevocationPurgeSchedule); err != nil {
				log.Error("Failed to register revocation purge job", zap.Error(err))
			}
		}
		scheduler.Start()
		log.Info("Scheduler started", zap.Strings("jobs", scheduler.GetJobNames()))
	} else {
		log.Info("Background jobs disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			<-scheduler.Stop().Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Open streams never finish on their own
		srv.RegisterOnShutdown(deps.Sessions.Hub().CloseAll)
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}

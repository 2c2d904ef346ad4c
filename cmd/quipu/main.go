package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/quipu-erp/quipu/internal/accounting/accounts"
	"github.com/quipu-erp/quipu/internal/accounting/journals"
	"github.com/quipu-erp/quipu/internal/accounting/mappings"
	"github.com/quipu-erp/quipu/internal/app"
	"github.com/quipu-erp/quipu/internal/auth"
	"github.com/quipu-erp/quipu/internal/catalog/customers"
	"github.com/quipu-erp/quipu/internal/catalog/products"
	"github.com/quipu-erp/quipu/internal/dashboard"
	"github.com/quipu-erp/quipu/internal/invoicing"
	"github.com/quipu-erp/quipu/internal/shared"
	"github.com/quipu-erp/quipu/internal/tenant"
	"github.com/quipu-erp/quipu/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := pgxpool.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "quipu_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())

	companyRepo := tenant.NewRepository(dbpool)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService)

	accountsRepo := accounts.NewRepository(dbpool)
	accountsService := accounts.NewService(accountsRepo)
	accountsHandler := accounts.NewHandler(logger, accountsService)

	journalsRepo := journals.NewRepository(dbpool)
	journalsService := journals.NewService(journalsRepo)
	journalsHandler := journals.NewHandler(logger, journalsService)

	mappingsRepo := mappings.NewRepository(dbpool)
	mappingsHandler := mappings.NewHandler(logger, mappingsRepo, accountsService)

	customersRepo := customers.NewRepository(dbpool)
	customersHandler := customers.NewHandler(logger, customersRepo)

	productsRepo := products.NewRepository(dbpool)
	productsHandler := products.NewHandler(logger, productsRepo)

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	invoicesRepo := invoicing.NewRepository(dbpool)
	invoicesService := invoicing.NewService(logger, invoicesRepo, customersRepo, productsRepo, jobClient)
	invoicesHandler := invoicing.NewHandler(logger, invoicesService)

	dashboardRepo := dashboard.NewRepository(dbpool)
	dashboardService := dashboard.NewService(dashboardRepo, redisClient)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		CompanyRepo:      companyRepo,
		AuthHandler:      authHandler,
		AccountsHandler:  accountsHandler,
		JournalsHandler:  journalsHandler,
		MappingsHandler:  mappingsHandler,
		CustomersHandler: customersHandler,
		ProductsHandler:  productsHandler,
		InvoicesHandler:  invoicesHandler,
		DashboardHandler: dashboardHandler,
		JobHandler:       jobHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

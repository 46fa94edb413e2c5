// Package main запускает HTTP-сервер сервиса бронирования авиабилетов.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/airline-booking/internal/config"
	"github.com/mmeshcher/airline-booking/internal/handler"
	"github.com/mmeshcher/airline-booking/internal/idgen"
	"github.com/mmeshcher/airline-booking/internal/loyalty"
	"github.com/mmeshcher/airline-booking/internal/middleware"
	"github.com/mmeshcher/airline-booking/internal/notification"
	"github.com/mmeshcher/airline-booking/internal/repository"
	"github.com/mmeshcher/airline-booking/internal/seed"
	"github.com/mmeshcher/airline-booking/internal/service"
)

type store interface {
	service.FlightStore
	service.CustomerStore
	service.ProgramStore
	Close() error
}

func openStore(dsn string) (store, error) {
	if dsn == "" {
		return repository.NewMemoryRepository(), nil
	}
	repo, err := repository.NewPostgresRepository(dsn)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	repo, err := openStore(cfg.DatabaseURI)
	if err != nil {
		sugar.Fatalw("storage initialization error", "error", err.Error())
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var dispatcher *notification.Dispatcher
	var notifier service.Notifier
	if cfg.NotifyWebhookURL != "" {
		dispatcher = notification.NewDispatcher(notification.NewClient(cfg.NotifyWebhookURL), notification.DefaultQueueSize, logger)
		notifier = dispatcher
	}

	ids := idgen.NewRandom()
	ledger := loyalty.NewLedger(ids)

	flights := service.NewFlightService(repo, repo, logger)
	payments := service.NewPaymentService(repo, repo, ledger, notifier, ids, logger)
	accounts := service.NewAccountService(repo, ids, logger)

	svc := handler.Services{
		Accounts: accounts,
		Flights:  flights,
		Bookings: service.NewBookingService(repo, flights, payments, notifier, ids, logger),
		Payments: payments,
		Loyalty:  service.NewLoyaltyService(repo, ledger, logger),
		Programs: service.NewProgramService(repo, ids, logger),
	}

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if _, err := accounts.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			sugar.Fatalw("admin account error", "error", err.Error())
		}
	}

	if cfg.SeedFile != "" {
		catalog, err := seed.Load(cfg.SeedFile)
		if err != nil {
			sugar.Fatalw("flight catalog error", "error", err.Error())
		}
		if _, err := seed.Apply(ctx, flights, catalog, logger); err != nil {
			sugar.Fatalw("flight catalog error", "error", err.Error())
		}
	}

	if cfg.AuthSecret == "" {
		sugar.Warn("AUTH_SECRET is not set, sessions will not survive a restart")
	}
	authMiddleware := middleware.NewAuthMiddleware(cfg.AuthSecret)
	h := handler.NewHandler(svc, logger, authMiddleware)

	server := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           h.SetupRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	// Доставка событий бронирования во внешнюю систему уведомлений
	if dispatcher != nil {
		g.Go(func() error {
			return dispatcher.Run(ctx)
		})
	}

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting airline booking server", "addr", cfg.RunAddress, "postgres", cfg.DatabaseURI != "")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}

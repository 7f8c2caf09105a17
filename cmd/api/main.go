package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food-ordering/internal/config"
	"food-ordering/internal/database"
	"food-ordering/internal/events"
	"food-ordering/internal/handler"
	"food-ordering/internal/repository"
	"food-ordering/internal/router"
	"food-ordering/internal/service"
	"food-ordering/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting food-ordering server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool, logger)
	menuRepo := repository.NewMenuRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	// Session revocation: Redis when enabled, otherwise in process
	revoker := session.NewMemoryRevoker()
	if cfg.Redis.Enabled {
		client, err := session.ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer client.Close()

		revoker = session.NewRedisRevoker(client)
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("using redis for session revocation")
	} else {
		logger.Info().Msg("using in-memory session revocation (redis disabled)")
	}

	// Order events: AMQP when enabled, otherwise discarded
	publisher := events.NewNopPublisher()
	if cfg.AMQP.Enabled {
		publisher, err = events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize event publisher: %w", err)
		}
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close event publisher")
		}
	}()

	// Initialize services
	authService, err := service.NewAuthService(userRepo, cfg.Auth.BcryptCost, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize auth service: %w", err)
	}
	menuService := service.NewMenuService(menuRepo, logger)
	orderService := service.NewOrderService(orderRepo, menuRepo, publisher, logger)
	userService := service.NewUserService(userRepo, logger)

	if cfg.Auth.BootstrapAdmin() {
		admin, err := authService.EnsureAdmin(ctx, cfg.Auth.AdminName, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword)
		if err != nil {
			return fmt.Errorf("failed to ensure admin account: %w", err)
		}
		logger.Info().Int64("user_id", admin.ID).Str("email", admin.Email).Msg("admin account ready")
	}

	sessions := session.NewManager(cfg.Session, revoker, logger)

	renderer, err := handler.NewRenderer(sessions, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize templates: %w", err)
	}

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Home:       handler.NewHomeHandler(renderer),
		Auth:       handler.NewAuthHandler(authService, sessions, renderer, logger),
		Customer:   handler.NewCustomerHandler(menuService, orderService, sessions, renderer, logger),
		Restaurant: handler.NewRestaurantHandler(menuService, orderService, sessions, renderer, logger),
		Admin:      handler.NewAdminHandler(userService, sessions, renderer, logger),
	}

	// Initialize router
	mux := router.New(handlers, sessions, userService, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

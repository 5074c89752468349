package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"client-gate/internal/adapter/gateway"
	adapterhandler "client-gate/internal/adapter/handler"
	"client-gate/internal/domain"
	infrasession "client-gate/internal/infrastructure/session"
	infratoken "client-gate/internal/infrastructure/token"
	"client-gate/internal/usecase"

	"client-gate/config"
	appmiddleware "client-gate/middleware"
	"client-gate/utils/logger"
	"client-gate/utils/otel"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Handle healthcheck subcommand (for Docker healthcheck in distroless image)
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		if err := runHealthcheck(); err != nil {
			fmt.Fprintf(os.Stderr, "Healthcheck failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Local development convenience; the file is absent in containers.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Initialize OpenTelemetry
	otelCfg := otel.ConfigFromEnv()
	otelShutdown, err := otel.InitProvider(ctx, otelCfg)
	if err != nil {
		slog.Warn("failed to initialize OpenTelemetry, continuing without tracing", "error", err)
		otelCfg.Enabled = false
		otelShutdown = func(context.Context) error { return nil }
	}

	// Initialize structured logger
	logger.Init(otelCfg.Enabled)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.InfoContext(ctx, "configuration loaded",
		"kratos_url", cfg.KratosURL,
		"mongo_database", cfg.MongoDatabase,
		"session_backend", cfg.SessionBackend,
		"port", cfg.Port)

	// Infrastructure
	mongoClient, err := gateway.ConnectMongo(ctx, cfg.MongoURI, 10*time.Second)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to directory store", "error", err)
		os.Exit(1)
	}
	directory := gateway.NewMongoDirectory(mongoClient.Database(cfg.MongoDatabase))
	provider := gateway.NewKratosGateway(cfg.KratosURL, cfg.KratosAdminURL, 5*time.Second)

	var sessions domain.SessionStore
	var redisStore *infrasession.RedisStore
	if cfg.SessionBackend == "redis" {
		redisStore = infrasession.NewRedisStore(cfg.RedisAddr, cfg.RedisDB, cfg.SessionTTL)
		if err := redisStore.Ping(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to connect to session store", "error", err)
			os.Exit(1)
		}
		sessions = redisStore
	} else {
		sessions = infrasession.NewMemoryStore(cfg.SessionTTL)
	}

	issuer := infratoken.NewJWTIssuer(infratoken.JWTConfig{
		Secret:   cfg.BackendTokenSecret,
		Issuer:   cfg.BackendTokenIssuer,
		Audience: cfg.BackendTokenAudience,
		TTL:      cfg.BackendTokenTTL,
	})

	// Usecases
	log := slog.Default()
	guardUC := usecase.NewGuard(sessions, issuer, usecase.GuardConfig{
		LoginURL:       cfg.LoginRedirectURL,
		SessionTimeout: cfg.SessionTimeout,
	}, log)
	loginUC := usecase.NewLogin(provider, directory, sessions, cfg.SuccessRedirectURL, log)
	logoutUC := usecase.NewLogout(sessions, log)
	signInUC := usecase.NewSignIn(provider, directory, loginUC, log)

	// Handlers
	guardHandler := adapterhandler.NewGuardHandler(guardUC, cfg.SessionCookie, cfg.SessionTTL)
	authHandler := adapterhandler.NewAuthHandler(loginUC, logoutUC, signInUC, cfg.SessionCookie, cfg.SessionTTL)
	adminHandler := adapterhandler.NewAdminHandler(
		usecase.NewCreateUser(provider, log),
		usecase.NewDeleteUser(provider, directory, sessions, log),
		usecase.NewSendPasswordSetup(provider, log),
	)
	consoleHandler := adapterhandler.NewConsoleHandler(
		usecase.NewListUsers(directory, log),
		usecase.NewCreateManagedUser(provider, directory, log),
		usecase.NewListAdmins(directory, log),
		usecase.NewCreateAdmin(provider, directory, log),
		usecase.NewListClients(directory, log),
		usecase.NewCreateClient(directory, log),
		usecase.NewDeleteClient(provider, directory, sessions, log),
		usecase.NewDashboard(directory, log),
	)
	providerConfigHandler := adapterhandler.NewProviderConfigHandler(adapterhandler.ProviderConfig{
		URL:     cfg.ProviderPublicURL,
		AppName: cfg.ProviderAppName,
	})
	healthHandler := adapterhandler.NewHealthHandler()

	// Setup Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = adapterhandler.NewRequestValidator()

	// Security middleware
	e.Use(appmiddleware.SecurityHeaders())

	// OpenTelemetry tracing
	if otelCfg.Enabled {
		e.Use(otelecho.Middleware(otelCfg.ServiceName))
		e.Use(appmiddleware.OTelStatusMiddleware())
	}

	// Request logging
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path == "/health" || path == "/metrics"
		},
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			rctx := c.Request().Context()
			if v.Error == nil {
				slog.InfoContext(rctx, "request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				slog.ErrorContext(rctx, "request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	}))

	e.Use(middleware.Recover())

	// Rate limiters per endpoint group
	guardRL := appmiddleware.NewRateLimiter(appmiddleware.PerMinute(300), 20)
	authRL := appmiddleware.NewRateLimiter(appmiddleware.PerMinute(30), 5)
	apiRL := appmiddleware.NewRateLimiter(appmiddleware.PerMinute(60), 10)

	// Gate routes
	e.GET("/guard", guardHandler.Handle, guardRL.Middleware())
	e.POST("/auth", authHandler.Handle, authRL.Middleware())
	e.GET("/health", healthHandler.Handle)

	// Metrics, behind the internal shared secret when one is configured
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()),
		appmiddleware.InternalAuth(cfg.MetricsSharedSecret))

	// Admin and console API (bearer token + directory admin record)
	api := e.Group("/api",
		apiRL.Middleware(),
		appmiddleware.BearerAuth(provider),
		appmiddleware.RequireAdmin(directory),
	)
	api.POST("/users", adminHandler.CreateUser)
	api.DELETE("/users/:uid", adminHandler.DeleteUser)
	api.POST("/users/send-password-setup", adminHandler.SendPasswordSetup)
	api.GET("/users", consoleHandler.ListUsers)
	api.POST("/console/users", consoleHandler.CreateUser)
	api.GET("/admins", consoleHandler.ListAdmins)
	api.POST("/admins", consoleHandler.CreateAdmin)
	api.GET("/clients", consoleHandler.ListClients)
	api.POST("/clients", consoleHandler.CreateClient)
	api.DELETE("/clients/:id", consoleHandler.DeleteClient)
	api.GET("/dashboard", consoleHandler.Dashboard)

	// The login surface fetches the provider settings unauthenticated.
	e.GET("/api/provider-config", providerConfigHandler.Handle, authRL.Middleware())

	// Start server with errgroup for graceful shutdown
	address := fmt.Sprintf(":%s", cfg.Port)
	slog.InfoContext(ctx, "starting client-gate server", "address", address)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if redisStore != nil {
			if err := redisStore.Close(); err != nil {
				slog.Warn("failed to close session store", "error", err)
			}
		}
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			slog.Warn("failed to disconnect directory store", "error", err)
		}
		return otelShutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited properly")
}

// runHealthcheck performs a health check against the local server.
func runHealthcheck() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%s/health", port))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint returned status: %d", resp.StatusCode)
	}
	return nil
}

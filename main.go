package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stayease/config"
	"stayease/handlers"
	"stayease/middleware"
	"stayease/routes"
	"stayease/services/api"
	"stayease/services/identity"
	"stayease/services/notify"
	"stayease/services/session"
	"stayease/services/tokenstore"
	"stayease/utils"
	"stayease/views"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	cfg := config.AppConfig

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// Token persistence.
	healthChecks := map[string]utils.HealthCheck{}
	var tokens tokenstore.Store
	switch cfg.TokenStore {
	case "redis":
		client, err := utils.GetTokenCacheClient()
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize token store: %v", err)
		}
		tokens = tokenstore.NewRedisStore(client)
		healthChecks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	default:
		fileStore, err := tokenstore.NewFileStore(cfg.TokenFile)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize token store: %v", err)
		}
		tokens = fileStore
	}

	// Remote booking API.
	apiClient, err := api.NewClient(api.ClientConfig{
		BaseURL:        cfg.APIBaseURL,
		Timeout:        cfg.APITimeout,
		RequestsPerSec: cfg.APIRequestsPerSec,
		Tokens:         tokenstore.Reader(tokens, config.TokenStorageKey),
	}, logger.Named("api"))
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize API client: %v", err)
	}

	// Identity provider.
	admin, err := utils.FirebaseAuthClient(rootCtx)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize firebase admin: %v", err)
	}
	firebaseCfg := identity.FirebaseConfig{
		APIKey:         cfg.FirebaseAPIKey,
		SecureTokenURL: config.FirebaseSecureTokenURL,
		Admin:          admin,
		Persist:        tokens,
	}
	if cfg.GoogleClientID != "" {
		firebaseCfg.Federated = identity.NewGoogleFlow(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectPort, logger.Named("google"))
	}
	provider, err := identity.NewFirebaseProvider(rootCtx, firebaseCfg, logger.Named("identity"))
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize identity provider: %v", err)
	}

	// Session and views.
	sessions := session.NewStore(provider, tokens, apiClient, logger.Named("session"))
	if err := sessions.Init(rootCtx); err != nil {
		logger.Warn("main: could not restore previous session", zap.Error(err))
	}
	bus := notify.NewBus(logger.Named("notify"))
	deps := views.Deps{
		API:               apiClient,
		Bus:               bus,
		Session:           sessions,
		Logger:            logger.Named("views"),
		ReviewConcurrency: cfg.ReviewFetchConcurrency,
		CarouselInterval:  cfg.CarouselInterval,
	}

	utils.StartHealthMonitor(rootCtx, healthChecks, time.Minute)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger.Named("http")))
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	handler := handlers.NewHandler(deps, sessions, utils.GetHealthStatus, logger.Named("handlers"))
	routes.RegisterRoutes(router, handlers.NewHandlerBundle(handler))

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "127.0.0.1:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return rootCtx },
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	if utils.TokenCacheClient != nil {
		_ = utils.TokenCacheClient.Close()
	}
	_ = logger.Sync()

	logger.Sugar().Info("main: server stopped gracefully")
}

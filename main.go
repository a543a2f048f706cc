package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cokothon/config"
	"cokothon/handlers"
	"cokothon/middleware"
	"cokothon/routes"
	"cokothon/services/apiclient"
	"cokothon/services/session"
	"cokothon/templates"
	"cokothon/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	utils.InitRedis()

	// Spans are sampled locally; an exporter can be attached through the
	// provider without touching the client.
	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	categoryCache := apiclient.NewRedisCategoryCache(utils.GetCacheClient(), utils.CategoryCacheKey, cfg.CategoryCacheTTL)
	api := apiclient.New(cfg.APIBaseURL, cfg.APITimeout, logger.Named("apiclient"),
		apiclient.WithTracerProvider(tp),
		apiclient.WithCategoryCache(categoryCache),
	)

	sessionStore := session.NewRedisStore(utils.GetSessionClient(), utils.NewSealer(cfg.SessionSecret), cfg.SessionTTL)
	sessionService := session.NewSessionService(api, logger.Named("session"))
	signer := utils.NewSessionSigner(cfg.SessionSecret)

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	requestLimiter := middleware.NewRateLimiter("requests", cfg.MaxRequestsPerMin)
	authLimiter := middleware.NewRateLimiter("auth", cfg.MaxAuthAttemptsPerMin)
	requestLimiter.StartJanitor(bgCtx, 10*time.Minute)
	authLimiter.StartJanitor(bgCtx, 10*time.Minute)

	utils.StartHealthMonitor(bgCtx, []*redis.Client{utils.GetSessionClient(), utils.GetCacheClient()}, api.Ping)

	// Create the Gin router.
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxyList()); err != nil {
		logger.Fatal("Invalid TRUSTED_PROXIES", zap.Error(err))
	}
	router.SetHTMLTemplate(templates.MustLoad())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(utils.ErrorHandler())
	router.Use(requestLimiter.Middleware())

	handlerBundle := handlers.NewHandlerBundle(api, sessionService)
	routes.RegisterRoutes(router, handlerBundle, routes.Options{
		Session: middleware.SessionMiddleware(sessionStore, sessionService, signer, middleware.SessionOptions{
			CookieName:      cfg.SessionCookieName,
			TTL:             cfg.SessionTTL,
			RecheckInterval: cfg.SessionRecheckInterval,
			Secure:          config.IsProduction(),
		}),
		AuthLimiter:    authLimiter.Middleware(),
		AllowedOrigins: cfg.AllowedOrigins(),
	})

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "3000"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           otelhttp.NewHandler(router, "cokothon-web"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr), zap.String("backend", cfg.APIBaseURL))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")
	stopBackground()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	if err := tp.Shutdown(ctx); err != nil {
		logger.Warn("main: tracer provider shutdown failed", zap.Error(err))
	}
	for _, client := range []*redis.Client{utils.GetSessionClient(), utils.GetCacheClient()} {
		_ = client.Close()
	}

	logger.Info("main: server stopped gracefully")
}

package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"golang.org/x/sync/errgroup"

	"github.com/tair/retail-pos/docs"
	"github.com/tair/retail-pos/internal/inventory"
	"github.com/tair/retail-pos/internal/inventory/alerts"
	grpcDelivery "github.com/tair/retail-pos/internal/inventory/delivery/grpc"
	httpDelivery "github.com/tair/retail-pos/internal/inventory/delivery/http"
	inventoryRepository "github.com/tair/retail-pos/internal/inventory/repository"
	"github.com/tair/retail-pos/internal/user"
	userRepository "github.com/tair/retail-pos/internal/user/repository"
	"github.com/tair/retail-pos/kafka"
	"github.com/tair/retail-pos/pkg/auth"
	"github.com/tair/retail-pos/pkg/config"
	"github.com/tair/retail-pos/pkg/database"
	"github.com/tair/retail-pos/pkg/logger"
	"github.com/tair/retail-pos/pkg/metrics"
	"github.com/tair/retail-pos/pkg/ratelimit"
	"github.com/tair/retail-pos/pkg/tracing"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(logger.Options{
		ServiceName:   cfg.Service.Name,
		IsDevelopment: cfg.IsDevelopment(),
		Level:         cfg.Service.LogLevel,
	})

	logger.Logger.Info().
		Str("service", cfg.Service.Name).
		Str("environment", cfg.Service.Environment).
		Str("log_level", cfg.Service.LogLevel).
		Str("timezone", cfg.Store.TimeZone).
		Msg("Starting POS service")

	tp, err := tracing.InitTracer(tracing.Config{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: "1.0.0",
		JaegerEndpoint: cfg.Tracing.JaegerEndpoint,
		Environment:    cfg.Service.Environment,
	})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize tracer")
	}

	db, err := database.NewGormConnection(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	if err := userRepository.AutoMigrate(db); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to migrate users")
	}
	if err := inventoryRepository.AutoMigrate(db); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to migrate products and sales")
	}
	logger.Logger.Info().Msg("Database initialized successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient := connectRedis(ctx, cfg.Redis)
	if redisClient != nil {
		defer redisClient.Close()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(reg)
	salesMetrics := metrics.NewSalesMetrics(reg)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Service.Name)
	var limiter *ratelimit.Limiter
	if redisClient != nil {
		limiter = ratelimit.NewLimiter(redisClient, "pos:ratelimit:auth", cfg.HTTP.RateLimit, cfg.HTTP.RateLimitWindow)
	}

	g, ctx := errgroup.WithContext(ctx)

	publisher, consumer := startKafka(cfg.Kafka, reg)
	if publisher != nil {
		defer publisher.Close()
	}
	if consumer != nil {
		defer consumer.Close()
		g.Go(func() error { return consumer.Start(ctx) })
	}

	userHandler, err := user.InitializeHTTPHandler(db, tp, tokens, limiter, httpMetrics)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize user handler")
	}
	inventoryHandler, err := inventory.InitializeHTTPHandler(db, tp, redisClient, publisher, cfg, tokens, httpMetrics, salesMetrics)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize inventory handler")
	}

	router := mux.NewRouter()
	middlewareConfig := httpDelivery.DefaultMiddlewareConfig(cfg.HTTP.RequestTimeout)
	httpDelivery.RegisterMiddlewares(router, middlewareConfig)

	userHandler.RegisterRoutes(router)
	inventoryHandler.RegisterRoutes(router)
	inventoryHandler.RegisterHealthCheck(router, sqlDB)
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	docs.SwaggerInfo.Host = "localhost:" + cfg.HTTP.Port
	httpDelivery.RegisterSwaggerDocs(router, httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           httpDelivery.SetupCORS(middlewareConfig)(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	healthServer := grpcDelivery.NewHealthServer(sqlDB, cfg.GRPC.HealthInterval)
	grpcServer := grpcDelivery.NewServer(healthServer, reg)

	g.Go(func() error {
		logger.Logger.Info().
			Str("port", cfg.HTTP.Port).
			Str("metrics_endpoint", "/metrics").
			Str("swagger", "/swagger/index.html").
			Msg("HTTP server started")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		lis, err := net.Listen("tcp", ":"+cfg.GRPC.Port)
		if err != nil {
			return err
		}
		logger.Logger.Info().Str("port", cfg.GRPC.Port).Msg("gRPC health server started")
		return grpcServer.Serve(lis)
	})

	g.Go(func() error {
		healthServer.Run(ctx)
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Logger.Info().Msg("Shutting down servers...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		grpcServer.GracefulStop()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
		}
		if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
			logger.Logger.Error().Err(err).Msg("Tracer shutdown failed")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Server stopped with error")
	}
	logger.Logger.Info().Msg("Server stopped")
}

// connectRedis returns nil when redis is unreachable; caching and rate limiting are then disabled
func connectRedis(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Logger.Warn().Err(err).Str("addr", cfg.Addr).Msg("Redis unavailable, metrics cache and rate limiting disabled")
		client.Close()
		return nil
	}

	logger.Logger.Info().Str("addr", cfg.Addr).Msg("Connected to Redis")
	return client
}

// startKafka returns nil values when no brokers are configured or the brokers cannot be reached
func startKafka(cfg config.KafkaConfig, reg prometheus.Registerer) (*kafka.Publisher, *kafka.Consumer) {
	brokers := cfg.BrokerList()
	if len(brokers) == 0 {
		logger.Logger.Info().Msg("Kafka disabled, sale events will not be published")
		return nil, nil
	}

	publisher, err := kafka.NewPublisher(brokers)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Kafka publisher unavailable, sale events will not be published")
		return nil, nil
	}

	consumer, err := kafka.NewConsumer(brokers, cfg.GroupID, []string{kafka.TopicSaleRecorded})
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Kafka consumer unavailable, low stock alerts disabled")
		return publisher, nil
	}
	alerts.NewLowStockAlerter(reg).Register(consumer)

	return publisher, consumer
}

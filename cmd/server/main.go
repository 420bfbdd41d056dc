package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	httphandler "github.com/pariskandee/real-estate/internal/adapter/http/handler"
	httprouter "github.com/pariskandee/real-estate/internal/adapter/http/router"
	natsadapter "github.com/pariskandee/real-estate/internal/adapter/messaging/nats"
	"github.com/pariskandee/real-estate/internal/adapter/repository/cache"
	"github.com/pariskandee/real-estate/internal/adapter/repository/mongodb"
	"github.com/pariskandee/real-estate/internal/adapter/storage/s3"
	"github.com/pariskandee/real-estate/internal/config"
	listingdomain "github.com/pariskandee/real-estate/internal/listing/domain"
	listingusecase "github.com/pariskandee/real-estate/internal/listing/usecase"
	"github.com/pariskandee/real-estate/internal/mailer"
	"github.com/pariskandee/real-estate/internal/platform/logger"
	"github.com/pariskandee/real-estate/internal/platform/metrics"
	"github.com/pariskandee/real-estate/internal/platform/tracer"
	userusecase "github.com/pariskandee/real-estate/internal/user/usecase"
)

func main() {
	log := logger.New()
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracer.Init(ctx, cfg.ServiceName, cfg.Tracing.OTLPEndpoint)
	if err != nil {
		log.Fatal("failed to initialize tracer", zap.Error(err))
	}
	if tp != nil {
		defer func() { _ = tp.Shutdown(context.Background()) }()
	}

	metricsManager := metrics.NewManager(cfg.ServiceName)
	go func() {
		if err := metrics.StartServer(cfg.Metrics.Port, log, metricsManager.Registry); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server stopped", zap.Error(err))
		}
	}()

	// Mongo: listings, counters and the user directory.
	connectCtx, cancel := context.WithTimeout(ctx, cfg.Mongo.ConnectTimeout)
	defer cancel()
	clientOptions := options.Client().ApplyURI(cfg.Mongo.URI)
	if cfg.Mongo.Username != "" && cfg.Mongo.Password != "" {
		clientOptions.SetAuth(options.Credential{Username: cfg.Mongo.Username, Password: cfg.Mongo.Password})
	}
	if cfg.Mongo.MinPoolSize > 0 {
		clientOptions.SetMinPoolSize(cfg.Mongo.MinPoolSize)
	}
	if cfg.Mongo.MaxPoolSize > 0 {
		clientOptions.SetMaxPoolSize(cfg.Mongo.MaxPoolSize)
	}
	mongoClient, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		log.Fatal("failed to connect to MongoDB", zap.String("uri", cfg.Mongo.URI), zap.Error(err))
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()
	if err := mongoClient.Ping(connectCtx, readpref.Primary()); err != nil {
		log.Fatal("failed to ping MongoDB", zap.Error(err))
	}
	db := mongoClient.Database(cfg.Mongo.Database)

	listingRepo := mongodb.NewListingRepository(db)
	if err := listingRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal("failed to ensure listing indexes", zap.Error(err))
	}
	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal("failed to ensure user indexes", zap.Error(err))
	}

	// Redis read cache. The service still works without it.
	var listingCache *cache.ListingCache
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Warn("Redis unavailable, running without listing cache", zap.Error(err))
	} else {
		defer func() { _ = redisClient.Close() }()
		listingCache = cache.NewListingCache(redisClient, cfg.Redis.TTL)
	}

	storageClient, err := s3.NewS3Storage(ctx,
		cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, cfg.MinIO.Bucket, cfg.MinIO.UseSSL, log)
	if err != nil {
		log.Fatal("failed to initialize media storage", zap.Error(err))
	}

	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL, cfg.NATS.ConnectTimeout)
	if err != nil {
		log.Fatal("failed to connect to NATS", zap.Error(err))
	}
	defer publisher.Close()

	var notifier listingusecase.Notifier
	if cfg.SMTP.Enabled {
		notifier = mailer.New(cfg.SMTP)
	}

	submitUC := listingusecase.NewSubmitUsecase(listingRepo, storageClient, publisher, notifier,
		listingusecase.SubmissionPolicy{MinImages: cfg.Submission.MinImages, MaxImages: cfg.Submission.MaxImages},
		metricsManager, log)
	moderationUC := listingusecase.NewModerationUsecase(listingRepo, storageClient, cacheOrNil(listingCache), publisher, notifier, userRepo, metricsManager, log)
	queryUC := listingusecase.NewQueryUsecase(listingRepo, cacheOrNil(listingCache),
		listingusecase.PagePolicy{DefaultPageSize: cfg.Submission.DefaultPageSize, MaxPageSize: cfg.Submission.MaxPageSize}, log)
	editUC := listingusecase.NewEditUsecase(listingRepo, cacheOrNil(listingCache), log)
	userUC := userusecase.NewUserUsecase(userRepo, log)

	listingHandler := httphandler.NewListingHandler(submitUC, moderationUC, queryUC, editUC, cfg.Submission, log)
	userHandler := httphandler.NewUserHandler(userUC, queryUC, log)

	mux := httprouter.New(listingHandler, userHandler, cfg.Auth.JWTSecret, cfg.ServiceName, metricsManager, log)

	server := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      mux,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
	log.Info("server stopped")
}

// cacheOrNil keeps the usecases' nil checks honest: a nil *ListingCache
// must become a nil interface, not a non-nil interface holding nil.
func cacheOrNil(c *cache.ListingCache) listingdomain.Cache {
	if c == nil {
		return nil
	}
	return c
}

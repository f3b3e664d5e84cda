package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/daniyar-kh/marketplace-backend/internal/adapter/httpapi"
	natsadapter "github.com/daniyar-kh/marketplace-backend/internal/adapter/messaging/nats"
	"github.com/daniyar-kh/marketplace-backend/internal/adapter/repository/cache"
	"github.com/daniyar-kh/marketplace-backend/internal/adapter/repository/mongodb"
	"github.com/daniyar-kh/marketplace-backend/internal/adapter/storage/s3"
	"github.com/daniyar-kh/marketplace-backend/internal/config"
	"github.com/daniyar-kh/marketplace-backend/internal/listing/usecase"
	"github.com/daniyar-kh/marketplace-backend/internal/mailer"
	"github.com/daniyar-kh/marketplace-backend/internal/platform/auth"
	"github.com/daniyar-kh/marketplace-backend/internal/platform/logger"
	"github.com/daniyar-kh/marketplace-backend/internal/platform/tracer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracer.Init(ctx, "marketplace-backend", cfg.OTLPEndpoint)
	if err != nil {
		zlog.Fatal("Failed to initialize tracer", zap.Error(err))
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		zlog.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	db := mongoClient.Database(cfg.MongoDB)

	listingRepo := mongodb.NewListingRepository(db)
	userRepo := mongodb.NewUserRepository(db)

	listingCache, err := cache.NewListingCache(cfg.RedisAddress)
	if err != nil {
		zlog.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	mediaStore, err := s3.NewMediaStore(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL, zlog)
	if err != nil {
		zlog.Fatal("Failed to initialize media store", zap.Error(err))
	}

	publisher, err := natsadapter.NewPublisher(cfg.NATSURL)
	if err != nil {
		zlog.Fatal("Failed to connect to NATS", zap.Error(err))
	}

	var notifier usecase.StockNotifier
	if m := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword); m.Enabled() {
		notifier = m
	}

	verifier, err := auth.NewVerifier(cfg.JWTSecret)
	if err != nil {
		zlog.Fatal("Failed to initialize token verifier", zap.Error(err))
	}

	listingUC := usecase.NewListingUsecase(listingRepo, mediaStore, listingCache, publisher, notifier, zlog)
	profileUC := usecase.NewProfileUsecase(userRepo, zlog)

	handler := httpapi.NewHandler(listingUC, profileUC, zlog)
	router := httpapi.NewRouter(handler, verifier, zlog)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		zlog.Info("Starting HTTP server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error("HTTP server shutdown failed", zap.Error(err))
	}
	publisher.Close()
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		zlog.Error("MongoDB disconnect failed", zap.Error(err))
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Tracer shutdown failed", zap.Error(err))
	}
}

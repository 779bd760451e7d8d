package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docuflow/docuflow-backend/config"
	"github.com/docuflow/docuflow-backend/internal/bootstrap"
	"github.com/docuflow/docuflow-backend/internal/gateway"
	cronjob "github.com/docuflow/docuflow-backend/internal/mirror/cron"
	mirrorrepo "github.com/docuflow/docuflow-backend/internal/mirror/repository"
	projectsrepo "github.com/docuflow/docuflow-backend/internal/projects/repository"
	"github.com/docuflow/docuflow-backend/internal/storage/objectstore"
)

const serviceName = "docuflow-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	pool, err := bootstrap.OpenDB(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	redisClient, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()

	s3Client, err := bootstrap.OpenS3(ctx, cfg.S3)
	if err != nil {
		log.Fatalf("s3: %v", err)
	}
	store := objectstore.New(s3Client, cfg.S3.Bucket)

	gatewayClient := gateway.NewClient(cfg.Gateway.URL, cfg.Gateway.RateLimit, cfg.Gateway.Burst)

	reconciler := cronjob.NewReconciler(
		mirrorrepo.NewMirrorRepository(redisClient),
		projectsrepo.New(pool),
	)
	reconciler.Start()
	defer reconciler.Stop()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		DB:          pool,
		Redis:       redisClient,
		Store:       store,
		Gateway:     gatewayClient,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"shopreco/internal/app/cache"
	"shopreco/internal/app/catalog"
	"shopreco/internal/app/console"
	"shopreco/internal/app/db"
	"shopreco/internal/app/recommend"
	"shopreco/internal/app/storage"
	"shopreco/internal/app/store"
	"shopreco/internal/app/transport"
	"shopreco/internal/configs"
	"shopreco/internal/handler"
	"shopreco/internal/pkg/logx"
)

const shutdownTimeout = 5 * time.Second

// runAPI wires the backend API and serves it until ctx ends.
func runAPI(ctx context.Context, cfg *configs.AppConfig) error {
	deps, cleanup, err := buildAPIDeps(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	server := newServer(cfg.Port, handler.APIRouter(ctx, deps))
	return serve(ctx, "api", server, nil)
}

// runConsole wires the console server and serves it until ctx ends.
func runConsole(ctx context.Context, cfg *configs.AppConfig) error {
	client := transport.New(cfg.Client.BackendURL, cfg.Client.RequestTimeout)
	hub := console.NewHub(client)

	server := newServer(cfg.ConsolePort, handler.ConsoleRouter(&handler.ConsoleDeps{
		Config: cfg,
		Hub:    hub,
	}))
	return serve(ctx, "console", server, hub.Shutdown)
}

func buildAPIDeps(ctx context.Context, cfg *configs.AppConfig) (*handler.AppDeps, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var st store.Store = store.NewMemory()
	if cfg.DatabaseDSN != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, pool.Close)
		st = store.NewPostgres(pool)
		logx.Info("Using Postgres store")
	}

	src := catalog.Source{Path: cfg.Catalog.Path, S3Key: cfg.Catalog.S3Key}
	if cfg.Storage.S3BucketName != "" {
		objects, err := storage.NewObjectStore(ctx, storage.ServiceConfig{
			S3BucketName:      cfg.Storage.S3BucketName,
			S3Endpoint:        cfg.Storage.S3Endpoint,
			S3AccessKeyID:     cfg.Storage.S3AccessKeyID,
			S3SecretAccessKey: cfg.Storage.S3SecretAccessKey,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to initialize object storage: %w", err)
		}
		src.Objects = objects
	}

	cat, err := catalog.Load(ctx, src)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	logx.Info("Catalog loaded", "products", cat.Len())

	var recoCache recommend.Cache
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedis(ctx, cfg.RedisAddr, cfg.Recommend.CacheTTL)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, func() { _ = rc.Close() })
		recoCache = rc
		logx.Info("Recommendation cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.Recommend.CacheTTL.String())
	}

	return &handler.AppDeps{
		Config:      cfg,
		Store:       st,
		Catalog:     cat,
		Recommender: recommend.NewService(st, recommend.NewEngine(cat), recoCache),
	}, cleanup, nil
}

func newServer(port int, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      h,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// serve runs server until ctx ends, then shuts it down and calls after, if set.
func serve(ctx context.Context, name string, server *http.Server, after func()) error {
	errCh := make(chan error, 1)

	go func() {
		logx.Info(fmt.Sprintf("shopreco %s starting on http://localhost%s", name, server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("%s server failed: %w", name, err)
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
	case <-ctx.Done():
		logx.Info("Received shutdown signal. Starting graceful shutdown...", "server", name)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "Server forced to shutdown", "server", name)
	}

	if after != nil {
		after()
	}

	logx.Info("Server gracefully stopped.", "server", name)
	return nil
}

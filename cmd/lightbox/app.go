package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/user/lightbox-fetcher/internal/config"
	"github.com/user/lightbox-fetcher/internal/fetcher"
	"github.com/user/lightbox-fetcher/internal/monitoring"
	"github.com/user/lightbox-fetcher/internal/proxy"
	"github.com/user/lightbox-fetcher/internal/render"
	"github.com/user/lightbox-fetcher/internal/service"
	"github.com/user/lightbox-fetcher/internal/storage"
	"github.com/user/lightbox-fetcher/pkg/logger"
)

// app is the wired object graph shared by every command.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	service *service.ImageService
	closers []func()
}

// registerer receives the application metrics.
var registerer prometheus.Registerer = prometheus.DefaultRegisterer

func newApp(ctx context.Context) (_ *app, err error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("could not load config: %w", err)
	}

	l, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("could not build logger: %w", err)
	}
	a := &app{cfg: cfg, logger: l}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	if err := os.MkdirAll(cfg.DataPath, 0o755); err != nil {
		return nil, fmt.Errorf("could not create data path: %w", err)
	}

	proxyManager, err := proxy.NewManager(cfg.ProxyURLs, cfg.UserAgents)
	if err != nil {
		return nil, err
	}
	timeout := time.Duration(cfg.FetchTimeout) * time.Second
	client := proxyManager.Client(timeout)

	var pages fetcher.PageSource = fetcher.NewHTTPPageSource(client)
	if cfg.PageRenderer == config.RendererChrome {
		chrome := render.NewChromeSource(timeout, proxyManager.GetUserAgent(), l)
		a.closers = append(a.closers, chrome.Close)
		pages = chrome
	}

	imageFetcher, err := fetcher.New(fetcher.Options{
		BaseURL:      cfg.HomeURL,
		OutputDir:    cfg.DataPath,
		StrictStatus: cfg.StrictStatus,
	}, pages, client, l)
	if err != nil {
		return nil, err
	}

	// Stores stay nil interfaces when not configured.
	var results service.ResultStore
	if cfg.PostgresURL != "" {
		pgStore, err := storage.NewPostgresStore(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pgStore.Close)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		results = pgStore
	}

	var recent service.RecentCache
	if cfg.RedisAddr != "" {
		redisStore := storage.NewRedisStore(cfg.RedisAddr)
		a.closers = append(a.closers, func() { redisStore.Close() })
		recent = redisStore
	}

	metrics := monitoring.NewMetrics(registerer)
	ttl := time.Duration(cfg.DeduplicationDays) * 24 * time.Hour
	a.service = service.NewImageService(imageFetcher, results, recent, metrics, l, ttl)

	l.Debug("application wired",
		zap.String("home_url", cfg.HomeURL),
		zap.String("data_path", cfg.DataPath),
		zap.String("renderer", cfg.PageRenderer),
		zap.Bool("ledger", results != nil),
		zap.Bool("cache", recent != nil),
		zap.Int("deduplication_days", cfg.DeduplicationDays),
	)
	return a, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
	_ = a.logger.Sync()
}

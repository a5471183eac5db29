package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/parsi-learn/academy/internal/colloc"
	"github.com/parsi-learn/academy/internal/content"
	"github.com/parsi-learn/academy/internal/dict"
	"github.com/parsi-learn/academy/internal/handlers"
	"github.com/parsi-learn/academy/internal/httpx"
	"github.com/parsi-learn/academy/internal/lesson"
	"github.com/parsi-learn/academy/internal/offline"
	"github.com/parsi-learn/academy/internal/platform/cache"
	"github.com/parsi-learn/academy/internal/platform/config"
	"github.com/parsi-learn/academy/internal/platform/database"
	"github.com/parsi-learn/academy/internal/profile"
	"github.com/parsi-learn/academy/internal/progress"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	startCtx, startCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startCancel()

	fetcher, origin, err := contentBackend(cfg)
	if err != nil {
		slog.Error("failed to open content backend", "error", err)
		os.Exit(1)
	}

	source, err := content.NewSource(fetcher, logger)
	if err != nil {
		slog.Error("failed to build content source", "error", err)
		os.Exit(1)
	}
	generator, err := colloc.NewGenerator()
	if err != nil {
		slog.Error("failed to build collocation generator", "error", err)
		os.Exit(1)
	}
	renderer, err := lesson.NewRenderer()
	if err != nil {
		slog.Error("failed to parse lesson templates", "error", err)
		os.Exit(1)
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	builder := lesson.NewBuilder(generator, rng.Shuffle)

	checks := make(map[string]handlers.Checker)

	// The database and Redis are optional: without them progress falls
	// back to memory and the offline cache to an in-process store.
	var store progress.Store = progress.NewMemoryStore()
	if db, err := database.New(startCtx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns); err != nil {
		slog.Warn("database unavailable, using in-memory progress store", "error", err)
	} else {
		defer db.Close()
		pg, err := progress.NewPostgresStore(db.Pool)
		if err != nil {
			slog.Error("failed to build progress store", "error", err)
			os.Exit(1)
		}
		if err := pg.Migrate(startCtx); err != nil {
			slog.Error("failed to migrate progress schema", "error", err)
			os.Exit(1)
		}
		store = pg
		checks["database"] = db
	}

	var storage offline.Storage = offline.NewMemory()
	if c, err := cache.New(startCtx, cfg.Cache.URL); err != nil {
		slog.Warn("cache unavailable, using in-memory offline storage", "error", err)
	} else {
		defer c.Close()
		storage = offline.NewRedis(c)
		checks["cache"] = c
	}

	worker := offline.New(storage, origin, cfg.Content.CacheVersion, "", "", logger)
	if err := worker.Install(startCtx); err != nil {
		slog.Warn("offline precache incomplete", "error", err)
	}
	if err := worker.Activate(startCtx); err != nil {
		slog.Warn("offline cache activation failed", "error", err)
	}

	h := handlers.New(
		logger,
		source,
		dict.NewStore(fetcher, cfg.Content.DictShards),
		profile.NewStore(fetcher),
		builder,
		renderer,
		colloc.NewIndex(fetcher),
		progress.NewService(store, progress.WithSessionTTL(time.Duration(cfg.Auth.SessionTTL)*24*time.Hour)),
		checks,
	).WithOffline(worker)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      h.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// contentBackend picks the asset source: a local directory when configured,
// otherwise the remote base URL with retrying fetches.
func contentBackend(cfg *config.Config) (content.Fetcher, offline.Origin, error) {
	if cfg.Content.Dir != "" {
		if dir, err := httpx.NewDir(cfg.Content.Dir); err == nil {
			origin := offline.OriginFunc(func(ctx context.Context, path string) (offline.Cached, error) {
				body, ct, err := dir.Asset(path)
				if err != nil {
					return offline.Cached{}, err
				}
				return offline.Cached{Status: http.StatusOK, ContentType: ct, Body: body}, nil
			})
			return dir, origin, nil
		} else if cfg.Content.BaseURL == "" {
			return nil, nil, err
		} else {
			slog.Warn("content dir unavailable, falling back to base URL", "dir", cfg.Content.Dir, "error", err)
		}
	}

	client, err := httpx.NewClient(cfg.Content.BaseURL, httpx.WithAttempts(cfg.Content.FetchAttempts))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid content base URL: %w", err)
	}
	origin := offline.OriginFunc(func(ctx context.Context, path string) (offline.Cached, error) {
		return fetchAsset(ctx, client.Resolve(path))
	})
	return client, origin, nil
}

// fetchAsset pulls one raw asset from the content origin.
func fetchAsset(ctx context.Context, url string) (offline.Cached, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return offline.Cached{}, err
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return offline.Cached{}, err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return offline.Cached{}, fmt.Errorf("HTTP %d: %s", res.StatusCode, url)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return offline.Cached{}, err
	}
	return offline.Cached{
		Status:      res.StatusCode,
		ContentType: res.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

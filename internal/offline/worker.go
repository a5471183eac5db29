package offline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
)

// CachePrefix names the cache family; the version is appended to form the
// active cache name. Activation drops every other version of the family.
const CachePrefix = "toefl-academic-"

const offlinePage = "offline.html"

// coreAssets is the app-shell manifest precached during install, relative
// to the base path.
var coreAssets = []string{
	"index.html",
	"dictionary.html",
	"lesson.html",
	"exercise.html",
	"word.html",
	"collocation.html",
	offlinePage,
	"manifest.json",
	"assets/data/registry.json",
	"assets/data/lexicon.json",
	"assets/data/lexicon_updated.json",
	"assets/data/collocations_index.json",
	"assets/icons/icon-192.png",
	"assets/icons/icon-512.png",
}

// ErrNotHandled marks requests the cache policy does not cover; the caller
// should hit the origin directly.
var ErrNotHandled = errors.New("request not handled by offline cache")

// Origin fetches a path from the upstream content host.
type Origin interface {
	Fetch(ctx context.Context, path string) (Cached, error)
}

// OriginFunc adapts a function to Origin.
type OriginFunc func(ctx context.Context, path string) (Cached, error)

func (f OriginFunc) Fetch(ctx context.Context, path string) (Cached, error) { return f(ctx, path) }

// Result is a served response together with where it came from.
type Result struct {
	Cached
	Source string // "cache", "network", or "offline"
}

// Worker runs the cache lifecycle for one version. Serve dispatches each
// request to a policy based on its path class.
type Worker struct {
	storage  Storage
	origin   Origin
	version  string
	basePath string
	host     string
	log      *slog.Logger

	// spawn runs revalidation work off the request path. Tests replace it
	// to run inline.
	spawn func(func())

	mu        sync.Mutex
	activated bool
}

// New returns a worker for the given cache version. basePath is the URL
// prefix the app is hosted under ("" at the root) and host is the app's
// own host for the same-origin check.
func New(storage Storage, origin Origin, version, basePath, host string, log *slog.Logger) *Worker {
	if log == nil {
		log = slog.Default()
	}
	return &Worker{
		storage:  storage,
		origin:   origin,
		version:  version,
		basePath: strings.TrimSuffix(basePath, "/"),
		host:     host,
		log:      log,
		spawn:    func(fn func()) { go fn() },
	}
}

// CacheName returns the active cache name.
func (w *Worker) CacheName() string { return CachePrefix + w.version }

func (w *Worker) withBase(path string) string {
	return w.basePath + "/" + strings.TrimPrefix(path, "/")
}

// Install precaches the core-asset manifest, always fetching fresh copies
// from the origin. Any failed asset fails the install.
func (w *Worker) Install(ctx context.Context) error {
	name := w.CacheName()
	for _, asset := range coreAssets {
		path := w.withBase(asset)
		res, err := w.origin.Fetch(ctx, path)
		if err != nil {
			return fmt.Errorf("precaching %s: %w", path, err)
		}
		if err := w.storage.Put(ctx, name, path, res); err != nil {
			return err
		}
	}
	w.log.Info("offline cache installed", "cache", name, "assets", len(coreAssets))
	return nil
}

// Activate drops every other version of the cache family. Calling it again
// is a no-op.
func (w *Worker) Activate(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.activated {
		return nil
	}
	names, err := w.storage.Names(ctx)
	if err != nil {
		return err
	}
	current := w.CacheName()
	for _, name := range names {
		if strings.HasPrefix(name, CachePrefix) && name != current {
			if err := w.storage.Drop(ctx, name); err != nil {
				return err
			}
			w.log.Info("dropped stale offline cache", "cache", name)
		}
	}
	w.activated = true
	return nil
}

func (w *Worker) isUnder(path, prefix string) bool {
	return strings.HasPrefix(path, w.withBase(prefix))
}

func isNavigation(req *http.Request) bool {
	if req.Header.Get("Sec-Fetch-Mode") == "navigate" {
		return true
	}
	return strings.Contains(req.Header.Get("Accept"), "text/html")
}

// Serve applies the cache policy to a request. Only same-origin GETs are
// handled; everything else returns ErrNotHandled.
func (w *Worker) Serve(ctx context.Context, req *http.Request) (Result, error) {
	if req.Method != http.MethodGet {
		return Result{}, ErrNotHandled
	}
	if req.URL.IsAbs() && req.URL.Host != w.host {
		return Result{}, ErrNotHandled
	}
	path := req.URL.Path

	switch {
	case w.isUnder(path, "assets/data/"):
		return w.staleWhileRevalidate(ctx, path)
	case w.isUnder(path, "assets/images/") || w.isUnder(path, "assets/icons/"):
		return w.cacheFirst(ctx, path)
	case isNavigation(req):
		return w.networkFirst(ctx, path)
	default:
		return w.cacheFallingBackToNetwork(ctx, path)
	}
}

// staleWhileRevalidate serves the cached copy immediately and refreshes it
// off the request path. A miss falls through to the network.
func (w *Worker) staleWhileRevalidate(ctx context.Context, path string) (Result, error) {
	name := w.CacheName()
	cached, ok, err := w.storage.Get(ctx, name, path)
	if err != nil {
		return Result{}, err
	}
	if ok {
		revalidateCtx := context.WithoutCancel(ctx)
		w.spawn(func() {
			res, err := w.origin.Fetch(revalidateCtx, path)
			if err != nil {
				w.log.Debug("revalidation failed", "path", path, "error", err)
				return
			}
			if err := w.storage.Put(revalidateCtx, name, path, res); err != nil {
				w.log.Warn("revalidation store failed", "path", path, "error", err)
			}
		})
		return Result{Cached: cached, Source: "cache"}, nil
	}
	res, err := w.origin.Fetch(ctx, path)
	if err != nil {
		return Result{}, err
	}
	if err := w.storage.Put(ctx, name, path, res); err != nil {
		w.log.Warn("cache store failed", "path", path, "error", err)
	}
	return Result{Cached: res, Source: "network"}, nil
}

// cacheFirst serves from cache, fetching and storing on a miss. When the
// network also fails it falls back to the offline page.
func (w *Worker) cacheFirst(ctx context.Context, path string) (Result, error) {
	name := w.CacheName()
	cached, ok, err := w.storage.Get(ctx, name, path)
	if err != nil {
		return Result{}, err
	}
	if ok {
		return Result{Cached: cached, Source: "cache"}, nil
	}
	res, err := w.origin.Fetch(ctx, path)
	if err != nil {
		return w.offlineFallback(ctx, err)
	}
	if err := w.storage.Put(ctx, name, path, res); err != nil {
		w.log.Warn("cache store failed", "path", path, "error", err)
	}
	return Result{Cached: res, Source: "network"}, nil
}

// networkFirst fetches and stores, falling back to the cached copy, then
// to the offline page.
func (w *Worker) networkFirst(ctx context.Context, path string) (Result, error) {
	name := w.CacheName()
	res, err := w.origin.Fetch(ctx, path)
	if err == nil {
		if err := w.storage.Put(ctx, name, path, res); err != nil {
			w.log.Warn("cache store failed", "path", path, "error", err)
		}
		return Result{Cached: res, Source: "network"}, nil
	}
	cached, ok, getErr := w.storage.Get(ctx, name, path)
	if getErr != nil {
		return Result{}, getErr
	}
	if ok {
		return Result{Cached: cached, Source: "cache"}, nil
	}
	return w.offlineFallback(ctx, err)
}

// cacheFallingBackToNetwork serves from cache without revalidation, going
// to the network only on a miss. Network responses are not stored.
func (w *Worker) cacheFallingBackToNetwork(ctx context.Context, path string) (Result, error) {
	cached, ok, err := w.storage.Get(ctx, w.CacheName(), path)
	if err != nil {
		return Result{}, err
	}
	if ok {
		return Result{Cached: cached, Source: "cache"}, nil
	}
	res, err := w.origin.Fetch(ctx, path)
	if err != nil {
		return Result{}, err
	}
	return Result{Cached: res, Source: "network"}, nil
}

func (w *Worker) offlineFallback(ctx context.Context, cause error) (Result, error) {
	page, ok, err := w.storage.Get(ctx, w.CacheName(), w.withBase(offlinePage))
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, cause
	}
	return Result{Cached: page, Source: "offline"}, nil
}

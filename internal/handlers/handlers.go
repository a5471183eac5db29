// Package handlers wires the HTTP surface: lesson and dictionary pages,
// the progress and exercise APIs, and health checks.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/parsi-learn/academy/internal/colloc"
	"github.com/parsi-learn/academy/internal/content"
	"github.com/parsi-learn/academy/internal/dict"
	"github.com/parsi-learn/academy/internal/lesson"
	"github.com/parsi-learn/academy/internal/offline"
	"github.com/parsi-learn/academy/internal/profile"
	"github.com/parsi-learn/academy/internal/progress"
)

// Checker is a dependency that can report whether it is reachable.
type Checker interface {
	HealthCheck(ctx context.Context) error
}

// Handlers holds the application dependencies behind the HTTP surface.
type Handlers struct {
	log      *slog.Logger
	source   *content.Source
	dict     *dict.Store
	profiles *profile.Store
	builder  *lesson.Builder
	renderer *lesson.Renderer
	index    *colloc.Index
	progress *progress.Service
	offline  *offline.Worker

	// readiness checks by dependency name; nil entries are skipped.
	checks map[string]Checker
}

// WithOffline routes asset requests through the offline cache worker.
func (h *Handlers) WithOffline(w *offline.Worker) *Handlers {
	h.offline = w
	return h
}

// New assembles the handler set. db and cache checkers may be nil when the
// server runs without those backends.
func New(
	log *slog.Logger,
	source *content.Source,
	dictStore *dict.Store,
	profiles *profile.Store,
	builder *lesson.Builder,
	renderer *lesson.Renderer,
	index *colloc.Index,
	progressSvc *progress.Service,
	checks map[string]Checker,
) *Handlers {
	if log == nil {
		log = slog.Default()
	}
	return &Handlers{
		log:      log,
		source:   source,
		dict:     dictStore,
		profiles: profiles,
		builder:  builder,
		renderer: renderer,
		index:    index,
		progress: progressSvc,
		checks:   checks,
	}
}

// Routes builds the router.
func (h *Handlers) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("GET /lesson", h.handleLesson)
	mux.HandleFunc("GET /dictionary", h.handleDictionary)
	mux.HandleFunc("GET /word", h.handleWord)
	mux.HandleFunc("GET /collocation", h.handleCollocation)
	mux.HandleFunc("GET /grammar", h.handleGrammar)
	mux.HandleFunc("GET /exercise", h.handleExercise)

	mux.HandleFunc("GET /api/dictionary", h.handleAPIDictionary)
	mux.HandleFunc("GET /api/exercise/session", h.handleExerciseSession)
	mux.HandleFunc("POST /api/auth/register", h.handleRegister)
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", h.handleLogout)
	mux.HandleFunc("POST /api/progress/quiz", h.handleProgressQuiz)
	mux.HandleFunc("POST /api/progress/attempt", h.handleProgressAttempt)
	mux.HandleFunc("GET /api/progress", h.handleProgressSummary)

	mux.HandleFunc("GET /healthz", h.handleHealthz)
	mux.HandleFunc("GET /readyz", h.handleReadyz)

	if h.offline != nil {
		mux.HandleFunc("GET /assets/", h.handleAsset)
	}

	return mux
}

// handleAsset serves content-tree files through the offline cache worker.
func (h *Handlers) handleAsset(w http.ResponseWriter, r *http.Request) {
	res, err := h.offline.Serve(r.Context(), r)
	if err != nil {
		h.log.Warn("asset fetch failed", "path", r.URL.Path, "error", err)
		http.NotFound(w, r)
		return
	}
	if res.ContentType != "" {
		w.Header().Set("Content-Type", res.ContentType)
	}
	w.Header().Set("X-Cache", res.Source)
	status := res.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	w.Write(res.Body)
}

func (h *Handlers) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) handleReadyz(w http.ResponseWriter, r *http.Request) {
	for name, c := range h.checks {
		if c == nil {
			continue
		}
		if err := c.HealthCheck(r.Context()); err != nil {
			h.log.Warn("readiness check failed", "dependency", name, "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"failed": name,
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

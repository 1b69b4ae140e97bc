// Package http serves the marketing site and the hero session API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/identify-labs/marquee"
	"github.com/identify-labs/marquee/internal/logging"
	"github.com/identify-labs/marquee/pkg/domain"
	"github.com/identify-labs/marquee/pkg/observability"
	"github.com/identify-labs/marquee/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server holds the site and hero API state.
type Server struct {
	Sessions *SessionManager
	Streams  *StreamManager
	Metrics  *observability.Metrics

	siteDir     string
	maintenance bool
	registry    *prometheus.Registry
	logger      *slog.Logger
	base        context.Context
	store       ports.SnapshotStore
	locker      ports.DistributedLocker
	sessionTTL  time.Duration
	playerOpts  []marquee.Option
}

// Option configures the Server.
type Option func(*Server)

// WithSiteDir sets the directory static files are served from (default ".").
func WithSiteDir(dir string) Option {
	return func(s *Server) {
		s.siteDir = dir
	}
}

// WithMaintenance redirects every page to the maintenance page.
func WithMaintenance(enabled bool) Option {
	return func(s *Server) {
		s.maintenance = enabled
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRegistry sets the Prometheus registry metrics are registered to and served from.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = reg
	}
}

// WithSnapshotStore persists session snapshots.
func WithSnapshotStore(store ports.SnapshotStore) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithLocker serialises mutations of a session across replicas sharing a
// snapshot store.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(s *Server) {
		s.locker = locker
	}
}

// WithSessionTTL drops sessions from memory once they have been idle (and not
// running) for ttl. Zero keeps them until deleted.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) {
		s.sessionTTL = ttl
	}
}

// WithPlayerOptions passes options to every session's Player.
func WithPlayerOptions(opts ...marquee.Option) Option {
	return func(s *Server) {
		s.playerOpts = append(s.playerOpts, opts...)
	}
}

// WithBaseContext sets the parent context of every session. Cancelling it
// halts all running sequences.
func WithBaseContext(ctx context.Context) Option {
	return func(s *Server) {
		s.base = ctx
	}
}

// NewServer builds the server state without routing.
func NewServer(opts ...Option) *Server {
	s := &Server{
		siteDir: ".",
		logger:  logging.NewNop(),
		base:    context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}

	s.Metrics = observability.NewMetrics(s.registry)
	s.Streams = NewStreamManager(s.logger)
	s.Sessions = newSessionManager(s.base, s.Streams, s.logger)
	s.Sessions.store = s.store
	s.Sessions.locker = s.locker
	s.Sessions.ttl = s.sessionTTL
	s.Sessions.hooks = s.Metrics.Hooks()
	s.Sessions.opts = s.playerOpts
	return s
}

// NewHandler creates the HTTP handler for the site.
func NewHandler(opts ...Option) (http.Handler, *Server) {
	s := NewServer(opts...)
	return s.Routes(), s
}

// Routes wires the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if s.maintenance {
		r.Use(maintenance)
	}

	r.Get("/health", s.GetHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/contact", s.SubmitContact)

		r.Route("/hero", func(r chi.Router) {
			r.Post("/", s.CreateHero)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.GetHero)
				r.Delete("/", s.DeleteHero)
				r.Post("/start", s.StartHero)
				r.Post("/skip", s.SkipHero)
				r.Post("/replay", s.ReplayHero)
				r.Get("/events", s.SubscribeEvents)
			})
		})
	})

	r.NotFound(s.serveStatic)
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": strings.TrimSpace(marquee.Version),
	})
}

// CreateHero handles POST /api/hero.
func (s *Server) CreateHero(w http.ResponseWriter, r *http.Request) {
	id, err := s.Sessions.Create(r.Context())
	if err != nil {
		s.logger.Error("CreateHero failed", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	snap, err := s.Sessions.Snapshot(r.Context(), id)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	w.Header().Set("Location", "/api/hero/"+id)
	writeJSON(w, http.StatusCreated, snap)
}

// GetHero handles GET /api/hero/{id}.
func (s *Server) GetHero(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Sessions.Snapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// DeleteHero handles DELETE /api/hero/{id}.
func (s *Server) DeleteHero(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeSessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StartHero handles POST /api/hero/{id}/start?reduced_motion=.
func (s *Server) StartHero(w http.ResponseWriter, r *http.Request) {
	reduced := false
	if v := r.URL.Query().Get("reduced_motion"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid reduced_motion: %q", v))
			return
		}
		reduced = b
	}

	snap, err := s.Sessions.Start(r.Context(), chi.URLParam(r, "id"), reduced)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// SkipHero handles POST /api/hero/{id}/skip.
func (s *Server) SkipHero(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Sessions.Skip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// ReplayHero handles POST /api/hero/{id}/replay.
func (s *Server) ReplayHero(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Sessions.Replay(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// SubscribeEvents handles GET /api/hero/{id}/events (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Sessions.Ensure(r.Context(), id); err != nil {
		s.writeSessionError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()
	s.logger.Info("SSE: Subscribing to hero events", "session_id", id)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "session_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// Close stops every session.
func (s *Server) Close() {
	s.Sessions.Close()
}

func (s *Server) writeSessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.logger.Error("hero session error", "err", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

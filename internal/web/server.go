package web

import (
	"context"
	"embed"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"calendar-manager/internal/auth"
	"calendar-manager/internal/handler"
	"calendar-manager/internal/middleware"
)

//go:embed static/index.html
var static embed.FS

// Pinger reports database health; *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Config struct {
	Auth     auth.Config
	Limiter  *middleware.RateLimiter // nil disables rate limiting
	Location *time.Location
	Origins  []string
	DB       Pinger
	Logger   zerolog.Logger
}

// Server is the browser-facing HTTP surface. It calls the same Handler the
// gRPC service uses and keeps one calendar.Session per browser.
type Server struct {
	h        *handler.Handler
	cfg      Config
	sessions *sessions
	log      zerolog.Logger
}

func New(h *handler.Handler, cfg Config) *Server {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if len(cfg.Origins) == 0 {
		cfg.Origins = []string{"*"}
	}
	s := &Server{
		h:        h,
		cfg:      cfg,
		sessions: newSessions(maxSessions, sessionIdle),
		log:      cfg.Logger.With().Str("component", "web").Logger(),
	}
	go s.sessions.sweep(sessionSweep)
	return s
}

// Close stops the session sweeper.
func (s *Server) Close() {
	s.sessions.Stop()
}

// Handler builds the router with CORS, logging, recovery, rate limiting and
// token checks applied.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests, s.recoverPanics)

	r.HandleFunc("/", s.index).Methods(http.MethodGet)
	r.HandleFunc("/health", s.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	if s.cfg.Limiter != nil {
		api.Use(middleware.RateLimitHTTP(s.cfg.Limiter))
	}
	api.HandleFunc("/login", s.login).Methods(http.MethodPost)

	protect := middleware.RequireToken(s.cfg.Auth)
	route := func(path string, fn http.HandlerFunc, method string) {
		api.Handle(path, protect(fn)).Methods(method)
	}

	route("/calendar-events", s.calendarEvents, http.MethodGet)
	route("/events", s.listEvents, http.MethodGet)
	route("/events", s.createEvent, http.MethodPost)
	route("/events.ics", s.exportICS, http.MethodGet)
	route("/events/{id:[0-9]+}", s.getEvent, http.MethodGet)
	route("/events/{id:[0-9]+}", s.updateEvent, http.MethodPut)
	route("/events/{id:[0-9]+}", s.deleteEvent, http.MethodDelete)

	route("/session", s.sessionState, http.MethodGet)
	route("/session/select", s.selectEvent, http.MethodPost)
	route("/session/edit", s.openEdit, http.MethodPost)
	route("/session/cancel", s.cancelEdit, http.MethodPost)

	return cors.New(cors.Options{
		AllowedOrigins:   s.cfg.Origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	page, err := static.ReadFile("static/index.html")
	if err != nil {
		s.log.Error().Err(err).Msg("read index")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if s.cfg.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.cfg.DB.PingContext(ctx); err != nil {
			s.log.Error().Err(err).Msg("health check")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sw.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				s.log.Error().Interface("panic", v).Str("path", r.URL.Path).Msg("recovered")
				writeError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/meur/whichgame/internal/session"
	"github.com/meur/whichgame/internal/storage"
)

// AdminTokenHeader carries the token returned by the unlock endpoint.
const AdminTokenHeader = "X-Admin-Token"

var validate = validator.New()

// Options configures the HTTP layer
type Options struct {
	CORSOrigins       []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	Logger            zerolog.Logger
}

// Server holds the HTTP server dependencies
type Server struct {
	session *session.Session
	store   *storage.Store
	router  chi.Router
	logger  zerolog.Logger
	opts    Options
}

// New creates a new API server
func New(sess *session.Session, store *storage.Store, opts Options) *Server {
	s := &Server{
		session: sess,
		store:   store,
		router:  chi.NewRouter(),
		logger:  opts.Logger,
		opts:    opts,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Router exposes the chi router so callers can mount extra handlers
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", AdminTokenHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/players", s.handleGetPlayers)
		r.Get("/games", s.handleGetGames)
		r.Get("/warnings", s.handleGetWarnings)
		r.Post("/recommendations", s.handleRecommend)

		r.Route("/admin", func(r chi.Router) {
			r.With(httprate.LimitByIP(s.opts.RateLimitRequests, s.opts.RateLimitWindow)).
				Post("/unlock", s.handleUnlock)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAdmin)
				r.Get("/preferences", s.handleGetAdminTable)
				r.Put("/preferences", s.handleSaveEdits)
				r.Post("/reset", s.handleReset)
				r.Post("/data", s.handleLoadData)
			})
		})
	})

	// Health check
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// requestLogger logs one line per request through zerolog
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info().
					Str("request_id", middleware.GetReqID(r.Context())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", ww.Status()).
					Int("bytes", ww.BytesWritten()).
					Dur("duration", time.Since(start)).
					Msg("HTTP request")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondSessionError maps session errors to HTTP statuses
func respondSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "Admin token required")
	case errors.Is(err, session.ErrLocked):
		respondError(w, http.StatusForbidden, "Incorrect passcode.")
	case errors.Is(err, session.ErrUnknownPlayer):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrNotLoaded):
		respondError(w, http.StatusServiceUnavailable, "Data not loaded.")
	default:
		respondError(w, http.StatusInternalServerError, "Internal error")
	}
}

// decodeJSON decodes the body into v and validates its struct tags
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return validate.Struct(v)
}

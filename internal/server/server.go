package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/spigell/search-calculator/internal/engine"
	"github.com/spigell/search-calculator/internal/logger"
	"github.com/spigell/search-calculator/internal/report"
)

// Config holds HTTP server settings.
type Config struct {
	Port            int           `mapstructure:"port"`
	AllowedOrigins  []string      `mapstructure:"allowed-origins"`
	RatePerMinute   int           `mapstructure:"rate-per-minute"`
	MaxBodyBytes    int64         `mapstructure:"max-body-bytes"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
}

func DefaultConfig() Config {
	return Config{
		Port: 8080,
		AllowedOrigins: []string{
			"https://search-calculator.vercel.app",
			"https://talent-gurus.com",
			"https://www.talent-gurus.com",
			"https://search-intelligence-engine.vercel.app",
		},
		RatePerMinute:   10,
		MaxBodyBytes:    50000,
		ShutdownTimeout: 10 * time.Second,
	}
}

// RoleLister lists the roles with market data.
type RoleLister interface {
	Names() []string
}

// Server exposes the engine and report builder over HTTP.
type Server struct {
	cfg      Config
	engine   *engine.Engine
	reports  *report.Builder
	roles    RoleLister
	logger   *zap.Logger
	validate *validator.Validate
	limiter  *ipLimiter
}

func New(cfg Config, eng *engine.Engine, reports *report.Builder, roles RoleLister, log *zap.Logger) *Server {
	defaults := DefaultConfig()
	if cfg.Port <= 0 {
		cfg.Port = defaults.Port
	}
	if cfg.RatePerMinute <= 0 {
		cfg.RatePerMinute = defaults.RatePerMinute
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaults.MaxBodyBytes
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaults.ShutdownTimeout
	}
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Server{
		cfg:      cfg,
		engine:   eng,
		reports:  reports,
		roles:    roles,
		logger:   logger.Component(log, "server"),
		validate: validate,
		limiter:  newIPLimiter(cfg.RatePerMinute),
	}
}

// Routes returns the router with all middleware attached.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.withLogging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/roles", s.handleRoles)
		r.Post("/whatif", s.handleWhatIf)
		r.Post("/compare", s.handleCompare)
		r.Get("/share/{token}", s.handleShare)

		r.With(s.withRateLimit).Post("/score", s.handleScore)
	})

	return r
}

// ListenAndServe serves on the configured port until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+strconv.Itoa(s.cfg.Port))
	if err != nil {
		return eris.Wrapf(err, "listen on port %d", s.cfg.Port)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln and shuts down gracefully once ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		// enrichment may take up to two full attempts
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return eris.Wrap(err, "serve")
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "server shutdown failed")
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
			zapClient(r),
		)
	})
}

func zapClient(r *http.Request) zap.Field {
	return zap.String("client", clientID(r))
}

// decode reads a JSON body into v and validates it.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &ErrBodyTooLarge{Limit: tooLarge.Limit}
		}
		return &ErrBadRequest{Reason: "invalid JSON body"}
	}

	if err := s.validate.Struct(v); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) && len(fields) > 0 {
			return &ErrValidation{Field: fields[0].Field(), Message: fields[0].Tag()}
		}
		return eris.Wrap(err, "validate request")
	}
	return nil
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode response", zap.Error(err))
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	s.errorResponse(w, status, publicMessage(err))
}

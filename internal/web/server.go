// Package web exposes the loan-broker operations over HTTP.
package web

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"loan-broker/internal/common/auth"
	"loan-broker/internal/common/config"
	apperrors "loan-broker/internal/common/errors"
	"loan-broker/internal/common/logger"
	"loan-broker/internal/common/observability"
	recorddecision "loan-broker/internal/operations/application/record-decision"
	uploadimage "loan-broker/internal/operations/media/upload-image"
	"loan-broker/internal/search"
)

const defaultCookieName = "__session"

// Deps are the long-lived clients the server wires into its operations.
type Deps struct {
	Config        *config.Config
	DB            *sql.DB
	Redis         redis.Cmdable
	Sessions      *auth.SessionManager
	LoginLimiter  *auth.LoginLimiter
	Hasher        auth.PasswordHasher
	Index         *search.Index
	Notifier      recorddecision.Notifier
	Uploader      uploadimage.Uploader
	Observability *observability.Observability
	Logger        logger.Logger
}

type Server struct {
	deps       Deps
	ops        *operations
	router     *mux.Router
	errors     *apperrors.ErrorHandler
	limiter    *RateLimiter
	logger     logger.Logger
	cookieName string
	secure     bool
	opTimeout  time.Duration
	maxUpload  int64
	httpServer *http.Server
}

func NewServer(deps Deps) *Server {
	cfg := deps.Config
	log := deps.Logger.WithFields(map[string]interface{}{"component": "web"})

	s := &Server{
		deps:       deps,
		ops:        newOperations(deps),
		router:     mux.NewRouter(),
		errors:     apperrors.NewErrorHandler(log),
		limiter:    NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, log),
		logger:     log,
		cookieName: cfg.Session.CookieName,
		secure:     cfg.App.IsProduction(),
		opTimeout:  config.GetDuration(cfg.HTTP.OperationTimeout),
		maxUpload:  cfg.HTTP.MaxUploadBytes,
	}
	if s.cookieName == "" {
		s.cookieName = defaultCookieName
	}
	if s.maxUpload <= 0 {
		s.maxUpload = uploadimage.LoadConfig().MaxBytes
	}

	s.routes()
	return s
}

// Handler is the root handler with every middleware applied.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks until the server stops. It returns nil after Shutdown.
func (s *Server) ListenAndServe() error {
	cfg := s.deps.Config.HTTP
	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.router,
		ReadTimeout:  config.GetDuration(cfg.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.WriteTimeout),
	}

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go s.limiter.Sweep(sweepCtx, time.Minute, 10*time.Minute)

	s.logger.Info("HTTP server listening", map[string]interface{}{"address": cfg.Address})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

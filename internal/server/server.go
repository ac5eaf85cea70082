package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/danmuck/bitsctl/internal/config"
	"github.com/danmuck/bitsctl/internal/observability"
	"github.com/danmuck/bitsctl/internal/transmission"
)

// Server exposes the decoder over HTTP.
type Server struct {
	name     string
	addr     string
	appeared time.Time
	decoder  *transmission.Decoder
	logger   zerolog.Logger
	router   *gin.Engine
}

func New(cfg config.ServerConfig, decoder *transmission.Decoder, logger zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		name:     cfg.Name,
		addr:     cfg.Addr,
		appeared: time.Now(),
		decoder:  decoder,
		logger:   logger,
		router:   gin.New(),
	}
	s.router.Use(gin.Recovery())
	s.router.Use(observability.RequestObserver(cfg.Name, logger))
	if len(cfg.CorsOrigins) > 0 {
		s.router.Use(cors.New(cors.Config{
			AllowOrigins: cfg.CorsOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}
	s.registerRoutes()
	return s
}

// Handler returns the routed engine.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.addr).Str("name", s.name).Msg("decode server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		s.logger.Info().Msg("decode server stopped")
		return nil
	}
}

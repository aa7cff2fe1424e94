// Package server exposes prayer schedules over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/salah/internal/cache"
	"github.com/smokyabdulrahman/salah/internal/method"
	"github.com/smokyabdulrahman/salah/internal/prayer"
)

// Defaults fill in whatever a request does not specify.
type Defaults struct {
	// Location is used when a request has no lat/lon. Nil makes them
	// required.
	Location        *prayer.Location
	Config          method.Config
	HijriCorrection int
}

// Options configures a Server.
type Options struct {
	Defaults  Defaults
	Schedules *cache.Schedules
	Now       func() time.Time
}

// Server serves the /v1 API.
type Server struct {
	defaults  Defaults
	schedules *cache.Schedules
	now       func() time.Time
	engine    *gin.Engine
}

// New builds a server and registers its routes.
func New(opts Options) *Server {
	s := &Server{
		defaults:  opts.Defaults,
		schedules: opts.Schedules,
		now:       opts.Now,
	}
	if s.schedules == nil {
		s.schedules = cache.NewSchedules(1024, 24*time.Hour)
	}
	if s.now == nil {
		s.now = time.Now
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLogger())
	s.routes(r)
	s.engine = r
	return s
}

func (s *Server) routes(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "cached_schedules": s.schedules.Len()})
	})

	v1 := r.Group("/v1")
	v1.GET("/timings", resolve(s.timings))
	v1.GET("/current", resolve(s.current))
	v1.GET("/hijri", resolve(s.hijri))
	v1.GET("/methods", resolve(s.methods))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

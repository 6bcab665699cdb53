// Package server assembles the gin engine and HTTP server lifecycle shared by all services.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apperrors "github.com/shopswift/marketplace/services/common/errors"
	"github.com/shopswift/marketplace/services/common/logger"
	"github.com/shopswift/marketplace/services/common/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const requestTimeout = 30 * time.Second

type Options struct {
	Service        string
	Env            string
	AllowedOrigins string
	Registry       *prometheus.Registry
}

// NewEngine returns a gin engine with the common middleware chain, /health,
// /metrics and the not-found handler installed.
func NewEngine(log *zap.Logger, opts Options) *gin.Engine {
	if opts.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	opts.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestID())
	r.Use(middleware.NewHTTPMetrics(opts.Registry, opts.Service).Middleware())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(opts.AllowedOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(apperrors.ErrorMiddleware(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": opts.Service})
	})
	r.GET("/metrics", middleware.MetricsHandler(opts.Registry))
	r.NoRoute(apperrors.NoRoute)

	return r
}

// Run serves handler on port until SIGINT or SIGTERM, then drains for five seconds.
func Run(log *zap.Logger, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server started", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-quit:
	}

	log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	log.Info("Server exited cleanly")
	return nil
}

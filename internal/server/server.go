package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/aura-dbt/backend/config"
	"github.com/aura-dbt/backend/internal/api"
	"github.com/aura-dbt/backend/internal/database"
	"github.com/aura-dbt/backend/internal/middleware"
	"github.com/aura-dbt/backend/internal/service"
	"github.com/aura-dbt/backend/internal/session"
)

// Server owns the HTTP listener and the background reminder loop.
type Server struct {
	router   *gin.Engine
	logger   *zap.Logger
	reminder *service.ReminderService
}

// Options collects the server dependencies. HealthDB, Redis and S3 may be
// nil; the corresponding features are then disabled.
type Options struct {
	Config   *config.Config
	DB       *gorm.DB
	HealthDB *database.DB
	Redis    *redis.Client
	S3       *config.S3Config
	Logger   *zap.Logger
}

// NewServer wires the services and handlers onto a gin router.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		if opts.HealthDB != nil {
			if err := opts.HealthDB.HealthCheck(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := service.NewAuthService(opts.DB, opts.Config.JWTSecret)
	profiles := service.NewProfileStore(opts.DB, logger)
	diaries := service.NewDiaryStore(opts.DB, opts.Redis, logger)
	sessions := session.NewRegistry(logger)

	var export *service.ExportService
	if opts.S3 != nil {
		export = service.NewExportService(opts.S3, profiles, diaries, logger)
	}

	api.SetupAPI(router, api.Deps{
		Auth:     auth,
		Profiles: profiles,
		Diaries:  diaries,
		Export:   export,
		Sessions: sessions,
		Redis:    opts.Redis,
		Logger:   logger,
	})

	return &Server{
		router:   router,
		logger:   logger,
		reminder: service.NewReminderService(opts.DB, diaries, logger),
	}
}

// Router exposes the underlying handler, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully. The
// reminder loop runs for the lifetime of the listener.
func (s *Server) Start(port string) error {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.reminder.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	s.logger.Info("server listening", zap.String("port", port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		s.logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}

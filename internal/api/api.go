// Package api exposes the onboarding and diary flows over HTTP. Handlers
// read manager state, mutate it through setters, and request step
// transitions; the managers stay the single source of truth.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/aura-dbt/backend/internal/middleware"
	"github.com/aura-dbt/backend/internal/service"
	"github.com/aura-dbt/backend/internal/session"
)

// Deps carries everything the handlers need. Export and Redis are optional;
// the corresponding routes degrade gracefully when absent.
type Deps struct {
	Auth     service.IAuthService
	Profiles service.IProfileStore
	Diaries  service.IDiaryStore
	Export   *service.ExportService
	Sessions *session.Registry
	Redis    *redis.Client
	Logger   *zap.Logger
}

// SetupAPI registers all routes under /api/v1.
func SetupAPI(router *gin.Engine, deps Deps) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	v1 := router.Group("/api/v1")

	authHandler := NewAuthHandler(deps.Auth, deps.Sessions)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Auth))
	{
		authHandler.RegisterProtectedRoutes(protected)

		onboardingHandler := NewOnboardingHandler(deps.Sessions, deps.Profiles, deps.Logger)
		onboardingHandler.RegisterRoutes(protected)

		diaryHandler := NewDiaryHandler(deps.Sessions, deps.Profiles, deps.Diaries, deps.Logger)
		diaryHandler.RegisterRoutes(protected)

		profileHandler := NewProfileHandler(deps.Profiles)
		profileHandler.RegisterRoutes(protected)

		dashboardHandler := NewDashboardHandler(deps.Diaries)
		dashboardHandler.RegisterRoutes(protected)

		if deps.Export != nil {
			exportHandler := NewExportHandler(deps.Export)
			exportGroup := protected.Group("")
			if deps.Redis != nil {
				exportGroup.Use(middleware.NewExportRateLimiter(deps.Redis).Middleware())
			}
			exportHandler.RegisterRoutes(exportGroup)
		}
	}
}

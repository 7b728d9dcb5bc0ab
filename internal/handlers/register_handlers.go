package handlers

import (
	"github.com/SafeStays/safe_stays_app/cmd/docs"
	"github.com/SafeStays/safe_stays_app/internal/core/services"
	"github.com/SafeStays/safe_stays_app/internal/middleware"
	"github.com/SafeStays/safe_stays_app/pkg/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	svc *services.ServiceContainer,
) {
	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// API v1 routes behind auth
	setupAPIV1Routes(r, cfg, svc)

	// Swagger routes
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to the
// per-entity route registrations.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	svc *services.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerAccountRoutes(v1, svc.LedgerSvc)
	registerLedgerRoutes(v1, svc.LedgerSvc)
	RegisterDonationRoutes(v1, svc.DonationSvc)
	registerFundingRoutes(v1, svc.AllocationSvc)
	registerRateRoutes(v1, svc.RateSvc)
	registerCharityRoutes(v1, svc.LedgerSvc, svc.DonationSvc, svc.RateSvc)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

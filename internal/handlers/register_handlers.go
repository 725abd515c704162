package handlers

import (
	"github.com/floatops/float_ledger_app/cmd/docs"
	portssvc "github.com/floatops/float_ledger_app/internal/core/ports/services"
	"github.com/floatops/float_ledger_app/internal/middleware"
	"github.com/floatops/float_ledger_app/internal/platform/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
)

// RegisterRoutes sets up all application routes, injecting dependencies using
// interfaces.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) error {
	r.Use(cors.Default())

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Token-guarded trigger for external schedulers, outside the user auth.
	registerExternalRolloverRoute(r, services.Rollover, cfg.RolloverToken)

	if err := setupAPIV1Routes(r, cfg, services); err != nil {
		return err
	}
	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific
// entity route registrations.
func setupAPIV1Routes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) error {
	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		return err
	}
	limiterInstance := limiter.New(memorystore.NewStore(), rate)

	v1 := r.Group("/api/v1",
		middleware.RateLimit(limiterInstance),
		middleware.Auth(cfg.JWTSecret),
	)

	registerUserRoutes(v1, services.User)
	registerTransactionRoutes(v1, services.Ledger)
	registerDashboardRoutes(v1, services.Dashboard)
	registerCorrectionRoutes(v1, services.Correction)
	registerRolloverRoutes(v1, services.Rollover)
	return nil
}

// setupSwaggerRoutes configures the swagger documentation routes.
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

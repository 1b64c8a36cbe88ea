package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/student-management-api/internal/handler"
	"github.com/noah-isme/student-management-api/internal/middleware"
	"github.com/noah-isme/student-management-api/internal/service"
	"github.com/noah-isme/student-management-api/pkg/config"
	"github.com/noah-isme/student-management-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/student-management-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/student-management-api/pkg/middleware/requestid"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	StudentHandler *handler.StudentHandler
	CourseHandler  *handler.CourseHandler
	MetricsHandler *handler.MetricsHandler
	Metrics        *service.MetricsService
	Logger         *zap.Logger
}

// New builds the gin engine with the shared middleware chain and every route.
func New(cfg *config.Config, deps Dependencies) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	if deps.Logger != nil {
		r.Use(logger.GinMiddleware(deps.Logger))
	}
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if cfg.Metrics.Enabled && deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	Register(r, cfg, deps)
	return r
}

// Register wires the HTTP routes into the engine.
func Register(r *gin.Engine, cfg *config.Config, deps Dependencies) {
	if deps.MetricsHandler != nil {
		r.GET("/health", deps.MetricsHandler.Health)
		r.GET("/ready", deps.MetricsHandler.Ready)
		if cfg.Metrics.Enabled {
			r.GET(cfg.Metrics.Path, deps.MetricsHandler.Prometheus)
		}
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(api)
	}
	if deps.CourseHandler != nil {
		deps.CourseHandler.Register(api)
	}
}

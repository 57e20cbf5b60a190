package v1

import (
	"go-agency-backend/config"
	"go-agency-backend/internal/delivery/http/middleware"
	"go-agency-backend/internal/delivery/http/response"
	"go-agency-backend/internal/domain"
	"go-agency-backend/internal/usecase"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	FormUC   domain.FormUsecase
	HealthUC usecase.HealthUsecase
	Config   *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		if deps.HealthUC == nil {
			response.Success(c, http.StatusOK, "System operational", nil)
			return
		}
		response.Success(c, http.StatusOK, "System operational", deps.HealthUC.Check(c.Request.Context()))
	})

	// Forms are public; posts are rate limited per client IP
	formLimiter := middleware.RateLimitMiddleware(middleware.FormRateLimitConfig(
		deps.Config.RateLimitFormThreshold,
		time.Duration(deps.Config.RateLimitWindowSeconds)*time.Second,
	))
	NewFormHandler(v1, deps.FormUC, formLimiter)

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

package router

import (
	"fmt"
	"strings"

	"github.com/nexify/nexify-api/internal/cache"
	"github.com/nexify/nexify-api/internal/config"
	"github.com/nexify/nexify-api/internal/http/handlers"
	"github.com/nexify/nexify-api/internal/http/response"
	"github.com/nexify/nexify-api/internal/logger"
	"github.com/nexify/nexify-api/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	handler := handlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "nexify"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/healthz", func(c *gin.Context) {
		response.Success(c, gin.H{"status": "ok"})
	})

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), handler.Login)
		}

		// 业务接口（需鉴权）
		authorized := apiV1.Group("")
		authorized.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		{
			authorized.GET("/me", handler.Me)

			authorized.GET("/campaigns", handler.ListCampaigns)
			authorized.POST("/campaigns", handler.CreateCampaign)
			authorized.GET("/campaigns/:id", handler.GetCampaign)
			authorized.PUT("/campaigns/:id", handler.UpdateCampaign)
			authorized.DELETE("/campaigns/:id", handler.DeleteCampaign)
			authorized.POST("/campaigns/:id/recalculate", handler.RecalculateCampaign)

			authorized.GET("/metrics", handler.ListMetrics)
			authorized.POST("/metrics", handler.CreateMetric)
			authorized.GET("/metrics/:id", handler.GetMetric)
			authorized.PUT("/metrics/:id", handler.UpdateMetric)
			authorized.DELETE("/metrics/:id", handler.DeleteMetric)

			authorized.GET("/affiliates", handler.ListAffiliates)
			authorized.POST("/affiliates", handler.CreateAffiliate)
			authorized.GET("/affiliates/:id", handler.GetAffiliate)
			authorized.PUT("/affiliates/:id", handler.UpdateAffiliate)
			authorized.DELETE("/affiliates/:id", handler.DeleteAffiliate)

			authorized.GET("/dashboard/overview", handler.DashboardOverview)
			authorized.GET("/dashboard/trends", handler.DashboardTrends)

			authorized.POST("/chatbot/query", handler.ChatbotQuery)
		}
	}

	// 未匹配路由统一返回业务 404
	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "route not found")
	})

	return r
}

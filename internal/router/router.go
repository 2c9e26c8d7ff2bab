package router

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/luckyscan/internal/authz"
	"github.com/luckyscan/internal/cache"
	"github.com/luckyscan/internal/config"
	adminhandlers "github.com/luckyscan/internal/http/handlers/admin"
	publichandlers "github.com/luckyscan/internal/http/handlers/public"
	"github.com/luckyscan/internal/http/response"
	"github.com/luckyscan/internal/logger"
	"github.com/luckyscan/internal/models"
	"github.com/luckyscan/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按公开/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "ls"
	}
	redisClient := cache.Client()
	loginRule := buildRateLimitRule(redisPrefix, "login", cfg.Security.LoginRateLimit, "error.login_too_many")
	playRule := buildRateLimitRule(redisPrefix, "play", cfg.Security.PlayRateLimit, "error.rate_limited")
	tokenRule := buildRateLimitRule(redisPrefix, "token", cfg.Security.TokenRateLimit, "error.rate_limited")

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口（扫码顾客）
		public := apiV1.Group("/public")
		{
			public.GET("/config", publicHandler.GetConfig)
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)
			public.GET("/tokens/:code/validate", RateLimitMiddleware(redisClient, tokenRule, KeyByIP), publicHandler.ValidateToken)
			public.POST("/promotions/:id/register", RateLimitMiddleware(redisClient, tokenRule, KeyByIP), publicHandler.RegisterCustomer)
			public.POST("/play", RateLimitMiddleware(redisClient, playRule, KeyByIP), publicHandler.Play)
			public.GET("/promotions/:id/leaderboard", publicHandler.GetLeaderboard)
		}

		// 后台接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("username")), adminHandler.Login)

			// 需要鉴权的接口
			authorized := admin.Use(StaffJWTAuthMiddleware(c.AuthService, cfg.JWT.SecretKey), StaffRBACMiddleware(c.AuthzService))
			{
				authorized.GET("/me", adminHandler.GetMe)
				authorized.PUT("/password", adminHandler.UpdatePassword)

				// 兑奖（员工可用）
				authorized.POST("/prizes/redeem", adminHandler.RedeemPrize)
				authorized.GET("/prizes/:code", adminHandler.LookupPrize)

				// 活动管理
				authorized.GET("/promotions", adminHandler.ListPromotions)
				authorized.POST("/promotions", adminHandler.CreatePromotion)
				authorized.GET("/promotions/:id", adminHandler.GetPromotion)
				authorized.PUT("/promotions/:id", adminHandler.UpdatePromotion)
				authorized.DELETE("/promotions/:id", adminHandler.DeletePromotion)
				authorized.POST("/promotions/:id/reset", adminHandler.ResetPromotion)

				// 奖品管理
				authorized.GET("/promotions/:id/prize-types", adminHandler.ListPrizeTypes)
				authorized.POST("/promotions/:id/prize-types", adminHandler.CreatePrizeType)
				authorized.PUT("/prize-types/:prize_id", adminHandler.UpdatePrizeType)
				authorized.DELETE("/prize-types/:prize_id", adminHandler.DeletePrizeType)

				// 券码管理
				authorized.POST("/promotions/:id/tokens/generate", adminHandler.GenerateTokens)
				authorized.GET("/promotions/:id/tokens", adminHandler.ListTokens)
				authorized.GET("/promotions/:id/token-batches", adminHandler.ListTokenBatches)
				authorized.GET("/promotions/:id/tokens/export", adminHandler.ExportTokens)

				// 参与者与中奖凭证
				authorized.GET("/promotions/:id/customers", adminHandler.ListCustomers)
				authorized.GET("/customers/:customer_id", adminHandler.GetCustomer)
				authorized.GET("/promotions/:id/assignments", adminHandler.ListAssignments)

				// 仪表盘
				authorized.GET("/promotions/:id/dashboard/stats", adminHandler.GetDashboardStats)
				authorized.GET("/promotions/:id/dashboard/revenue", adminHandler.GetDashboardRevenue)
				authorized.GET("/promotions/:id/dashboard/daily", adminHandler.GetDashboardDaily)
				authorized.GET("/promotions/:id/dashboard/hourly", adminHandler.GetDashboardHourly)

				// 账号与权限
				authorized.GET("/staff-users", adminHandler.ListStaffUsers)
				authorized.POST("/staff-users", adminHandler.CreateStaffUser)
				authorized.PUT("/staff-users/:id", adminHandler.UpdateStaffUser)
				authorized.DELETE("/staff-users/:id", adminHandler.DeleteStaffUser)
				authorized.GET("/authz/me", adminHandler.GetAuthzMe)
				authorized.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})
			}
		}
	}

	// 健康检查
	r.GET("/health", healthHandler)

	return r
}

func buildRateLimitRule(redisPrefix, name string, cfg config.RateLimitConfig, messageKey string) RateLimitRule {
	return RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:%s", redisPrefix, name),
		WindowSeconds: cfg.WindowSeconds,
		MaxRequests:   cfg.MaxAttempts,
		BlockSeconds:  cfg.BlockSeconds,
		MessageKey:    messageKey,
	}
}

func healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	database := "ok"
	if models.DB == nil {
		database = "unavailable"
	} else if sqlDB, err := models.DB.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		database = "unavailable"
	}
	redisState := "disabled"
	if cache.Enabled() {
		redisState = "ok"
		if err := cache.Ping(ctx); err != nil {
			redisState = "unavailable"
		}
	}
	if database != "ok" || redisState == "unavailable" {
		status = "degraded"
	}
	code := http.StatusOK
	if database != "ok" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status, "database": database, "redis": redisState})
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		if item.Path == "/api/v1/admin/login" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	if segments[1] == "promotions" && len(segments) >= 4 {
		return segments[3]
	}
	return segments[1]
}

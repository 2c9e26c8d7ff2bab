package router

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/luckyscan/internal/authz"
	"github.com/luckyscan/internal/config"
	"github.com/luckyscan/internal/http/response"
	"github.com/luckyscan/internal/i18n"
	"github.com/luckyscan/internal/logger"
	"github.com/luckyscan/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"
const staffIDContextKey = "staff_id"
const staffRoleContextKey = "staff_role"

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
			"X-CSRF-Token",
			"X-Customer-ID",
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// StaffJWTAuthMiddleware 后台 JWT 鉴权中间件
func StaffJWTAuthMiddleware(authService *service.AuthService, secretKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secretKey == "" {
			abortUnauthorized(c, "error.jwt_secret_missing")
			return
		}
		if authService == nil {
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "error.auth_header_missing")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			abortUnauthorized(c, "error.auth_header_invalid")
			return
		}

		claims, err := authService.ParseJWT(strings.TrimSpace(parts[1]))
		if err != nil || claims == nil || claims.StaffID == 0 {
			abortUnauthorized(c, "error.token_invalid")
			return
		}

		state, err := authService.CheckClaims(c.Request.Context(), claims)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTokenRevoked):
				abortUnauthorized(c, "error.token_revoked")
			case errors.Is(err, service.ErrAccountDisabled):
				abortUnauthorized(c, "error.account_disabled")
			default:
				logger.Warnw("staff_auth_check_failed", "staff_id", claims.StaffID, "error", err)
				abortUnauthorized(c, "error.token_invalid")
			}
			return
		}

		c.Set(staffIDContextKey, claims.StaffID)
		c.Set("username", state.Username)
		c.Set(staffRoleContextKey, state.Role)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, key string) {
	msg := i18n.T(i18n.ResolveLocale(c), key)
	response.Unauthorized(c, msg)
	c.Abort()
}

// StaffRBACMiddleware 后台 RBAC 鉴权中间件
func StaffRBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authzService == nil {
			logger.Errorw("staff_rbac_service_unavailable")
			abortUnauthorized(c, "error.unauthorized")
			return
		}

		staffIDRaw, exists := c.Get(staffIDContextKey)
		if !exists {
			abortUnauthorized(c, "error.unauthorized")
			return
		}
		staffID, _ := staffIDRaw.(uint)
		if staffID == 0 {
			abortUnauthorized(c, "error.unauthorized")
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}

		allowed, err := authzService.EnforceStaff(staffID, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("staff_rbac_enforce_failed",
				"staff_id", staffID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			abortUnauthorized(c, "error.unauthorized")
			return
		}
		if !allowed {
			logger.Warnw("staff_rbac_permission_denied",
				"staff_id", staffID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"resource", authz.NormalizeObject(resource),
			)
			msg := i18n.T(i18n.ResolveLocale(c), "error.forbidden")
			response.Forbidden(c, msg)
			c.Abort()
			return
		}

		c.Next()
	}
}

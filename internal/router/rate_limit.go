package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/luckyscan/internal/http/response"
	"github.com/luckyscan/internal/i18n"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc 生成限流 key 的函数
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 限流规则
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	BlockSeconds  int
	MessageKey    string
}

// KEYS[1] 计数 key，KEYS[2] 封禁 key；ARGV 依次为窗口秒数、最大次数、封禁秒数
// 处于封禁期时返回 {-1, 剩余秒数}
var rateLimitScript = redis.NewScript(`
local blocked = redis.call("TTL", KEYS[2])
if blocked > 0 then
	return {-1, blocked}
end
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) and tonumber(ARGV[3]) > 0 then
	redis.call("SET", KEYS[2], "1", "EX", ARGV[3])
	return {current, tonumber(ARGV[3])}
end
local ttl = redis.call("TTL", KEYS[1])
return {current, ttl}
`)

// RateLimitMiddleware Redis 频率限制中间件
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	if client == nil || rule.WindowSeconds <= 0 || rule.MaxRequests <= 0 {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return rateLimitHandler(client, rule, keyFunc)
}

func rateLimitHandler(scripter redis.Scripter, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rateLimitKey(c, rule, keyFunc)
		keys := []string{key, key + ":block"}
		result, err := rateLimitScript.Run(c.Request.Context(), scripter, keys, rule.WindowSeconds, rule.MaxRequests, rule.BlockSeconds).Result()
		if err != nil {
			msg := i18n.T(i18n.ResolveLocale(c), "error.rate_limit_unavailable")
			response.Error(c, response.CodeInternal, msg)
			c.Abort()
			return
		}

		verdict, ok := evaluateRateLimit(result, rule)
		if !ok {
			msg := i18n.T(i18n.ResolveLocale(c), "error.rate_limit_unavailable")
			response.Error(c, response.CodeInternal, msg)
			c.Abort()
			return
		}
		if !verdict.Allowed {
			msgKey := strings.TrimSpace(rule.MessageKey)
			if msgKey == "" {
				msgKey = "error.rate_limited"
			}
			msg := i18n.Sprintf(i18n.ResolveLocale(c), msgKey, verdict.WaitSeconds)
			response.TooManyRequests(c, msg, verdict.WaitSeconds)
			c.Abort()
			return
		}

		c.Next()
	}
}

func rateLimitKey(c *gin.Context, rule RateLimitRule, keyFunc RateLimitKeyFunc) string {
	key := ""
	if keyFunc != nil {
		key = strings.TrimSpace(keyFunc(c))
	}
	if key == "" {
		key = c.ClientIP()
	}
	if rule.Prefix != "" {
		key = fmt.Sprintf("%s:%s", rule.Prefix, key)
	}
	return key
}

// rateLimitVerdict 限流脚本结果
type rateLimitVerdict struct {
	Allowed     bool
	Blocked     bool // 命中封禁 key
	WaitSeconds int
}

// evaluateRateLimit 解析脚本返回的 {count, ttl}，count 为 -1 表示处于封禁期
func evaluateRateLimit(result interface{}, rule RateLimitRule) (rateLimitVerdict, bool) {
	values, ok := result.([]interface{})
	if !ok || len(values) < 2 {
		return rateLimitVerdict{}, false
	}
	count, ok := toInt64(values[0])
	if !ok {
		return rateLimitVerdict{}, false
	}
	if count >= 0 && count <= int64(rule.MaxRequests) {
		return rateLimitVerdict{Allowed: true}, true
	}
	ttlSeconds, _ := toInt64(values[1])
	waitSeconds := int(ttlSeconds)
	if waitSeconds < 1 {
		waitSeconds = rule.WindowSeconds
	}
	if waitSeconds < 1 {
		waitSeconds = 1
	}
	return rateLimitVerdict{Blocked: count < 0, WaitSeconds: waitSeconds}, true
}

// KeyByIP 使用 IP 作为限流 key
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByIPAndJSONField 使用 IP + JSON 字段作为限流 key
func KeyByIPAndJSONField(field string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		value := strings.ToLower(strings.TrimSpace(readJSONField(c, field)))
		if value == "" {
			return c.ClientIP()
		}
		return fmt.Sprintf("%s|%s", value, c.ClientIP())
	}
}

func readJSONField(c *gin.Context, field string) string {
	if c == nil || c.Request == nil || c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
	if len(body) == 0 {
		return ""
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	value, ok := payload[field]
	if !ok {
		return ""
	}
	if text, ok := value.(string); ok {
		return strings.TrimSpace(text)
	}
	return ""
}

func toInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int16:
		return int64(v), true
	case int8:
		return int64(v), true
	case uint64:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint8:
		return int64(v), true
	case float64:
		return int64(v), true
	case float32:
		return int64(v), true
	default:
		return 0, false
	}
}

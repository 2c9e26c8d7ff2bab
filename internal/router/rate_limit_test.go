package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/luckyscan/internal/config"
	"github.com/luckyscan/internal/http/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// scriptedRedis 记录限流脚本调用并返回预设结果
type scriptedRedis struct {
	redis.Scripter
	result interface{}
	err    error
	keys   []string
	args   []interface{}
	calls  int
}

func (s *scriptedRedis) EvalSha(ctx context.Context, sha1 string, keys []string, args ...interface{}) *redis.Cmd {
	s.calls++
	s.keys = keys
	s.args = args
	return redis.NewCmdResult(s.result, s.err)
}

func newRateLimitedEngine(scripter redis.Scripter, rule RateLimitRule) (*gin.Engine, *int) {
	gin.SetMode(gin.TestMode)
	served := 0
	r := gin.New()
	r.POST("/api/v1/public/play", rateLimitHandler(scripter, rule, KeyByIP), func(c *gin.Context) {
		served++
		response.Success(c, gin.H{"ok": true})
	})
	return r, &served
}

func performPlay(r *gin.Engine) (*httptest.ResponseRecorder, response.Response) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/public/play", strings.NewReader(`{"token":"ABC123"}`))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "1.2.3.4:5678"
	r.ServeHTTP(w, req)
	var env response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func testPlayRule() RateLimitRule {
	return buildRateLimitRule("luckyscan", "play", config.RateLimitConfig{
		WindowSeconds: 60,
		MaxAttempts:   20,
		BlockSeconds:  300,
	}, "error.rate_limited")
}

func TestKeyByIPAndJSONField(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", strings.NewReader(`{"username":" Cassa "}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = "1.2.3.4:5678"

	key := KeyByIPAndJSONField("username")(c)
	if key != "cassa|1.2.3.4" {
		t.Fatalf("key want cassa|1.2.3.4 got %s", key)
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		t.Fatalf("read body after key extraction failed: %v", err)
	}
	if !strings.Contains(string(body), "Cassa") {
		t.Fatalf("request body should be restored after reading field")
	}
}

func TestRateLimitMiddlewareWithoutClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, testPlayRule(), KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok":true`) {
		t.Fatalf("expected handler response body, got %s", w.Body.String())
	}
}

func TestBuildRateLimitRule(t *testing.T) {
	cfg := config.RateLimitConfig{WindowSeconds: 60, MaxAttempts: 30, BlockSeconds: 300}
	cases := []struct {
		name   string
		msgKey string
		prefix string
	}{
		{name: "play", msgKey: "error.rate_limited", prefix: "luckyscan:rate:play"},
		{name: "token", msgKey: "error.rate_limited", prefix: "luckyscan:rate:token"},
		{name: "login", msgKey: "error.login_too_many", prefix: "luckyscan:rate:login"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rule := buildRateLimitRule("luckyscan", tc.name, cfg, tc.msgKey)
			if rule.Prefix != tc.prefix {
				t.Fatalf("prefix want %s got %s", tc.prefix, rule.Prefix)
			}
			if rule.WindowSeconds != 60 || rule.MaxRequests != 30 || rule.BlockSeconds != 300 {
				t.Fatalf("limits not copied from config: %+v", rule)
			}
			if rule.MessageKey != tc.msgKey {
				t.Fatalf("message key want %s got %s", tc.msgKey, rule.MessageKey)
			}
		})
	}
}

func TestEvaluateRateLimit(t *testing.T) {
	rule := RateLimitRule{WindowSeconds: 60, MaxRequests: 20, BlockSeconds: 300}
	cases := []struct {
		name    string
		result  interface{}
		ok      bool
		allowed bool
		blocked bool
		wait    int
	}{
		{name: "within window", result: []interface{}{int64(3), int64(42)}, ok: true, allowed: true},
		{name: "at limit", result: []interface{}{int64(20), int64(10)}, ok: true, allowed: true},
		{name: "blocked key", result: []interface{}{int64(-1), int64(120)}, ok: true, blocked: true, wait: 120},
		{name: "blocked without ttl", result: []interface{}{int64(-1), int64(-2)}, ok: true, blocked: true, wait: 60},
		{name: "overflow starts block", result: []interface{}{int64(21), int64(300)}, ok: true, wait: 300},
		{name: "not a list", result: "OK", ok: false},
		{name: "short list", result: []interface{}{int64(1)}, ok: false},
		{name: "bad count", result: []interface{}{"x", int64(1)}, ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verdict, ok := evaluateRateLimit(tc.result, rule)
			if ok != tc.ok {
				t.Fatalf("ok want %v got %v", tc.ok, ok)
			}
			if !ok {
				return
			}
			if verdict.Allowed != tc.allowed || verdict.Blocked != tc.blocked {
				t.Fatalf("verdict want allowed=%v blocked=%v got %+v", tc.allowed, tc.blocked, verdict)
			}
			if !tc.allowed && verdict.WaitSeconds != tc.wait {
				t.Fatalf("wait want %d got %d", tc.wait, verdict.WaitSeconds)
			}
		})
	}
}

func TestRateLimitHandlerRejectsBlockedKey(t *testing.T) {
	fake := &scriptedRedis{result: []interface{}{int64(-1), int64(120)}}
	r, served := newRateLimitedEngine(fake, testPlayRule())

	w, env := performPlay(r)
	if env.StatusCode != response.CodeTooManyRequests {
		t.Fatalf("status_code want 429 got %d body=%s", env.StatusCode, w.Body.String())
	}
	if *served != 0 {
		t.Fatalf("blocked request must not reach the handler")
	}
	if got := w.Header().Get("Retry-After"); got != "120" {
		t.Fatalf("Retry-After want 120 got %q", got)
	}
	data, _ := env.Data.(map[string]interface{})
	if data["retry_after"] != float64(120) {
		t.Fatalf("retry_after want 120 got %#v", env.Data)
	}

	if len(fake.keys) != 2 || fake.keys[0] != "luckyscan:rate:play:1.2.3.4" || fake.keys[1] != "luckyscan:rate:play:1.2.3.4:block" {
		t.Fatalf("unexpected script keys: %v", fake.keys)
	}
	if len(fake.args) != 3 || fake.args[0] != 60 || fake.args[1] != 20 || fake.args[2] != 300 {
		t.Fatalf("script args want window/max/block got %v", fake.args)
	}
}

func TestRateLimitHandlerOverflowUsesBlockSeconds(t *testing.T) {
	fake := &scriptedRedis{result: []interface{}{int64(21), int64(300)}}
	r, served := newRateLimitedEngine(fake, testPlayRule())

	w, env := performPlay(r)
	if env.StatusCode != response.CodeTooManyRequests || *served != 0 {
		t.Fatalf("overflow should be rejected, status=%d served=%d", env.StatusCode, *served)
	}
	if got := w.Header().Get("Retry-After"); got != "300" {
		t.Fatalf("overflow should wait the block period, got %q", got)
	}
	if !strings.Contains(env.Msg, "300") {
		t.Fatalf("message should mention the wait seconds, got %q", env.Msg)
	}
}

func TestRateLimitHandlerPassesWithinLimit(t *testing.T) {
	fake := &scriptedRedis{result: []interface{}{int64(1), int64(60)}}
	r, served := newRateLimitedEngine(fake, testPlayRule())

	_, env := performPlay(r)
	if env.StatusCode != response.CodeOK || *served != 1 {
		t.Fatalf("request within limit should pass, status=%d served=%d", env.StatusCode, *served)
	}
	if fake.calls != 1 {
		t.Fatalf("script should run once per request, got %d", fake.calls)
	}
}

func TestRateLimitHandlerScriptFailure(t *testing.T) {
	fake := &scriptedRedis{err: errors.New("connection refused")}
	r, served := newRateLimitedEngine(fake, testPlayRule())

	_, env := performPlay(r)
	if env.StatusCode != response.CodeInternal || *served != 0 {
		t.Fatalf("script failure should fail closed, status=%d served=%d", env.StatusCode, *served)
	}
}

func TestToInt64(t *testing.T) {
	cases := []struct {
		name  string
		input interface{}
		want  int64
		ok    bool
	}{
		{name: "int64", input: int64(10), want: 10, ok: true},
		{name: "int", input: int(11), want: 11, ok: true},
		{name: "uint8", input: uint8(12), want: 12, ok: true},
		{name: "float64", input: float64(13.9), want: 13, ok: true},
		{name: "negative", input: int64(-1), want: -1, ok: true},
		{name: "string", input: "bad", want: 0, ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := toInt64(tc.input)
			if ok != tc.ok {
				t.Fatalf("ok want %v got %v", tc.ok, ok)
			}
			if got != tc.want {
				t.Fatalf("value want %d got %d", tc.want, got)
			}
		})
	}
}

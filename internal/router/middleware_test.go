package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/luckyscan/internal/config"
	"github.com/luckyscan/internal/constants"
	"github.com/luckyscan/internal/i18n"
	"github.com/luckyscan/internal/service"

	"github.com/gin-gonic/gin"
)

type envelope struct {
	StatusCode int    `json:"status_code"`
	Msg        string `json:"msg"`
}

func serveAdminPing(t *testing.T, handler gin.HandlerFunc, authorization string) envelope {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(handler)
	r.GET("/api/v1/admin/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status_code": 0, "msg": "success"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/me?lang=en", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("http status want 200 got %d", w.Code)
	}
	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return resp
}

func TestResolveAllowedOrigin(t *testing.T) {
	landing := "https://gioca.luckyscan.it"
	backoffice := "https://admin.luckyscan.it"

	if got := resolveAllowedOrigin(landing, []string{"*"}, false); got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}
	if got := resolveAllowedOrigin(backoffice, []string{"*"}, true); got != backoffice {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}
	if got := resolveAllowedOrigin(landing, []string{landing, backoffice}, false); got != landing {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}
	if got := resolveAllowedOrigin("https://phishing.example.com", []string{landing}, false); got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.POST("/api/v1/public/play", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/public/play", nil)
	req.Header.Set(requestIDHeader, "scan-0001")
	r.ServeHTTP(w, req)

	if w.Header().Get(requestIDHeader) != "scan-0001" {
		t.Fatalf("response request id want scan-0001 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "scan-0001" {
		t.Fatalf("context request id want scan-0001 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodPost, "/api/v1/public/play", nil))
	generated := w2.Header().Get(requestIDHeader)
	if generated == "" || generated == "scan-0001" {
		t.Fatalf("a fresh request id should be generated, got %q", generated)
	}
}

func TestStaffJWTAuthMiddlewareRejections(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{SecretKey: "test-secret-key-for-staff-sessions-0001", ExpireHours: 1}}
	authService := service.NewAuthService(cfg, nil)

	cases := []struct {
		name          string
		handler       gin.HandlerFunc
		authorization string
		msgKey        string
	}{
		{name: "missing secret", handler: StaffJWTAuthMiddleware(nil, ""), msgKey: "error.jwt_secret_missing"},
		{name: "missing header", handler: StaffJWTAuthMiddleware(authService, cfg.JWT.SecretKey), msgKey: "error.auth_header_missing"},
		{name: "not bearer", handler: StaffJWTAuthMiddleware(authService, cfg.JWT.SecretKey), authorization: "Basic Y2Fzc2E6eA==", msgKey: "error.auth_header_invalid"},
		{name: "garbage token", handler: StaffJWTAuthMiddleware(authService, cfg.JWT.SecretKey), authorization: "Bearer not-a-jwt", msgKey: "error.token_invalid"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := serveAdminPing(t, tc.handler, tc.authorization)
			if resp.StatusCode != 401 {
				t.Fatalf("status_code want 401 got %d", resp.StatusCode)
			}
			if want := i18n.T(constants.LocaleEnUS, tc.msgKey); resp.Msg != want {
				t.Fatalf("msg want %q got %q", want, resp.Msg)
			}
		})
	}
}

func TestStaffRBACMiddlewareWithoutStaffContext(t *testing.T) {
	resp := serveAdminPing(t, StaffRBACMiddleware(nil), "")
	if resp.StatusCode != 401 {
		t.Fatalf("rbac without authz service want 401 got %d", resp.StatusCode)
	}
}

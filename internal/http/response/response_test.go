package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestContext(requestID string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/public/play", nil)
	if requestID != "" {
		c.Set("request_id", requestID)
	}
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) (Response, map[string]interface{}) {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("http status want 200 got %d", w.Code)
	}
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	data, _ := resp.Data.(map[string]interface{})
	return resp, data
}

func TestFailWithRejectionWritesReason(t *testing.T) {
	c, w := newTestContext("req-1")
	Fail(c, NewRejection(CodeConflict, "Codice già utilizzato", "TOKEN_USED"))

	resp, data := decodeResponse(t, w)
	if resp.StatusCode != CodeConflict || resp.Msg != "Codice già utilizzato" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	if data["reason"] != "TOKEN_USED" || data["request_id"] != "req-1" {
		t.Fatalf("data should carry reason and request_id, got %#v", data)
	}
}

func TestFailWithoutReasonOnlyCarriesRequestID(t *testing.T) {
	c, w := newTestContext("req-2")
	appErr := WrapError(CodeInternal, "play failed", errors.New("database is locked"))
	Fail(c, appErr)

	resp, data := decodeResponse(t, w)
	if resp.StatusCode != CodeInternal || resp.Msg != "play failed" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	if _, ok := data["reason"]; ok {
		t.Fatalf("wrapped storage errors must not expose a reason, got %#v", data)
	}
	if data["request_id"] != "req-2" {
		t.Fatalf("request_id missing: %#v", data)
	}
	if !errors.Is(appErr, appErr.Err) || appErr.Error() != "play failed: database is locked" {
		t.Fatalf("app error should wrap the cause, got %q", appErr.Error())
	}
}

func TestTooManyRequestsSetsRetryAfter(t *testing.T) {
	c, w := newTestContext("")
	TooManyRequests(c, "Troppe richieste", 0)

	resp, data := decodeResponse(t, w)
	if resp.StatusCode != CodeTooManyRequests {
		t.Fatalf("status_code want 429 got %d", resp.StatusCode)
	}
	if got := w.Header().Get("Retry-After"); got != "1" {
		t.Fatalf("Retry-After should be at least 1, got %q", got)
	}
	if data["retry_after"] != float64(1) {
		t.Fatalf("retry_after want 1 got %#v", data)
	}
}

func TestConflictKeepsExistingRecord(t *testing.T) {
	c, w := newTestContext("")
	Conflict(c, "Premio già ritirato", gin.H{"assignment": gin.H{"prize_code": "WIN-ABC123-0F0F"}})

	resp, data := decodeResponse(t, w)
	if resp.StatusCode != CodeConflict {
		t.Fatalf("status_code want 409 got %d", resp.StatusCode)
	}
	assignment, _ := data["assignment"].(map[string]interface{})
	if assignment["prize_code"] != "WIN-ABC123-0F0F" {
		t.Fatalf("conflict should return the stored assignment, got %#v", data)
	}
}

func TestBuildPagination(t *testing.T) {
	got := BuildPagination(2, 20, 41)
	if got.TotalPage != 3 || got.Page != 2 || got.Total != 41 {
		t.Fatalf("unexpected pagination: %+v", got)
	}
	if empty := BuildPagination(1, 0, 10); empty.TotalPage != 0 {
		t.Fatalf("zero page size should yield zero pages, got %+v", empty)
	}
}

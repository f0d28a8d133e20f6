package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/shared/telemetry"
)

func newContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	resp := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(resp)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/resume/analyses/a-1", nil)
	c.Set("requestId", "req-1")
	return c, resp
}

func TestErrorBodyAndLog(t *testing.T) {
	var logs strings.Builder
	restore := telemetry.SetOutput(&logs)
	defer restore()

	c, resp := newContext(t)
	Error(c, http.StatusNotFound, "not_found", "analysis not found", map[string]string{"id": "a-1"})

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "not_found" || body.Error.RequestID != "req-1" || body.Error.Details == nil {
		t.Fatalf("unexpected body %+v", body)
	}
	if !strings.Contains(logs.String(), `"msg":"http.error"`) {
		t.Fatalf("expected http.error log line, got %s", logs.String())
	}
	if !c.IsAborted() {
		t.Fatalf("expected context aborted")
	}
}

func TestServerErrorsDropDetails(t *testing.T) {
	restore := telemetry.SetOutput(&strings.Builder{})
	defer restore()

	c, resp := newContext(t)
	Error(c, http.StatusInternalServerError, "internal_error", "failed", "pq: relation missing")
	if strings.Contains(resp.Body.String(), "relation") {
		t.Fatalf("expected details dropped, got %s", resp.Body.String())
	}
}

func TestAttachmentQuotesFileName(t *testing.T) {
	c, resp := newContext(t)
	Attachment(c, `my "cv".html`, "text/html; charset=utf-8", []byte("<html></html>"))

	if got := resp.Header().Get("Content-Disposition"); got != `attachment; filename="my \"cv\".html"` {
		t.Fatalf("unexpected disposition %q", got)
	}
	if resp.Header().Get("Content-Type") != "text/html; charset=utf-8" || resp.Body.String() != "<html></html>" {
		t.Fatalf("unexpected response %q %q", resp.Header().Get("Content-Type"), resp.Body.String())
	}
}

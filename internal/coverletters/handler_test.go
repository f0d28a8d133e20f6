package coverletters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T, userID string) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := NewService(NewMemoryRepo(), nil)
	if err := svc.EnsureDefaults(context.Background()); err != nil {
		t.Fatalf("defaults: %v", err)
	}
	router := gin.New()
	api := router.Group("/api")
	api.Use(func(c *gin.Context) {
		c.Set("userId", userID)
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(api)
	return router, svc
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestGenerateEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, "user-1")
	body := `{"template_id":"general","job_title":"Engineer","company_name":"Acme","applicant_name":"Jane","skills":["Go"]}`
	resp := doJSON(router, http.MethodPost, "/api/cover-letter/generate", body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var letter Letter
	if err := json.NewDecoder(resp.Body).Decode(&letter); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(letter.Content, "Engineer position at Acme") {
		t.Fatalf("unexpected content %q", letter.Content)
	}

	resp = doJSON(router, http.MethodGet, "/api/cover-letter/letters", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var list struct {
		Items []Letter `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list.Items) != 1 || list.Items[0].ID != letter.ID {
		t.Fatalf("expected the generated letter, got %+v", list.Items)
	}
}

func TestGenerateEndpointErrors(t *testing.T) {
	router, _ := newTestRouter(t, "user-1")
	cases := []struct {
		name   string
		body   string
		status int
	}{
		{name: "malformed", body: `{`, status: http.StatusBadRequest},
		{name: "missing fields", body: `{"template_id":"general"}`, status: http.StatusBadRequest},
		{name: "unknown template", body: `{"template_id":"nope","job_title":"E","company_name":"A","applicant_name":"J"}`, status: http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(router, http.MethodPost, "/api/cover-letter/generate", tc.body)
			if resp.Code != tc.status {
				t.Fatalf("expected status %d, got %d: %s", tc.status, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestTemplateEndpoints(t *testing.T) {
	router, _ := newTestRouter(t, "user-1")

	resp := doJSON(router, http.MethodPost, "/api/cover-letter/templates", `{"id":"test-template","name":"Test Template","content":"Dear {hiring_manager}"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	resp = doJSON(router, http.MethodPost, "/api/cover-letter/templates", `{"id":"test-template","name":"Again","content":"x"}`)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}

	resp = doJSON(router, http.MethodGet, "/api/cover-letter/templates", "")
	var items []Template
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("expected 4 templates, got %d", len(items))
	}

	resp = doJSON(router, http.MethodPut, "/api/cover-letter/templates/test-template", `{"name":"Updated","content":"Hi"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	resp = doJSON(router, http.MethodPut, "/api/cover-letter/templates/general", `{"name":"Updated","content":"Hi"}`)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", resp.Code)
	}

	resp = doJSON(router, http.MethodDelete, "/api/cover-letter/templates/test-template", "")
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}
	resp = doJSON(router, http.MethodGet, "/api/cover-letter/templates/test-template", "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

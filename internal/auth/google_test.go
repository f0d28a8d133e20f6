package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/audit"
	"resume-analyzer/internal/users"
)

type fakeLinker struct {
	email    string
	provider string
	user     users.User
	err      error
}

func (f *fakeLinker) UpsertExternal(_ context.Context, email, _ string, provider string) (users.User, error) {
	f.email = email
	f.provider = provider
	return f.user, f.err
}

func (f *fakeLinker) IssueToken(user users.User) (users.Token, error) {
	return users.Token{AccessToken: "jwt-for-" + user.ID, TokenType: "bearer"}, nil
}

func newGoogleRouter(svc *GoogleService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	svc.RegisterRoutes(router.Group("/api"))
	return router
}

func TestGoogleStartNotConfigured(t *testing.T) {
	svc := NewGoogleService("", "", "", "http://ui", nil, nil)
	router := newGoogleRouter(svc)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/auth/google/start", nil))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", resp.Code)
	}
}

func TestGoogleStartRedirectsWithState(t *testing.T) {
	svc := NewGoogleService("client", "secret", "http://api/callback", "http://ui", &fakeLinker{}, nil)
	router := newGoogleRouter(svc)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/auth/google/start", nil))
	if resp.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", resp.Code)
	}
	loc, err := url.Parse(resp.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	state := loc.Query().Get("state")
	if state == "" {
		t.Fatalf("expected state in redirect, got %s", loc)
	}
	if loc.Query().Get("code_challenge_method") != "S256" || loc.Query().Get("code_challenge") == "" {
		t.Fatalf("expected PKCE challenge in redirect, got %s", loc)
	}
	if _, ok := svc.stateStore.consume(state, time.Now()); !ok {
		t.Fatalf("expected state to be stored")
	}
}

func TestGoogleCallbackRejectsBadState(t *testing.T) {
	svc := NewGoogleService("client", "secret", "http://api/callback", "http://ui", &fakeLinker{}, nil)
	router := newGoogleRouter(svc)

	cases := []string{
		"/api/auth/google/callback",
		"/api/auth/google/callback?state=unknown&code=abc",
	}
	for _, path := range cases {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected status 400, got %d", path, resp.Code)
		}
	}
}

func TestGoogleCallbackIssuesLocalToken(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/token":
			if err := r.ParseForm(); err != nil || r.PostForm.Get("code_verifier") != "verifier-1" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token": "google-access",
				"token_type":   "Bearer",
				"expires_in":   3600,
			})
		case "/userinfo":
			if r.Header.Get("Authorization") != "Bearer google-access" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":             "g-123",
				"email":          "ada@example.com",
				"verified_email": true,
				"name":           "Ada",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer provider.Close()

	linker := &fakeLinker{user: users.User{ID: "u-1", Email: "ada@example.com", IsActive: true}}
	auditRepo := audit.NewMemoryRepo()
	svc := NewGoogleService("client", "secret", "http://api/callback", "http://ui/login?from=google", linker, audit.NewLogger(auditRepo))
	svc.oauthConfig.Endpoint.TokenURL = provider.URL + "/token"
	svc.userInfoURL = provider.URL + "/userinfo"
	svc.stateStore.put("good-state", pendingLogin{verifier: "verifier-1", expires: time.Now().Add(time.Minute)})
	router := newGoogleRouter(svc)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?state=good-state&code=abc", nil))
	if resp.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d: %s", resp.Code, resp.Body.String())
	}
	location := resp.Header().Get("Location")
	loc, err := url.Parse(location)
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	if loc.Query().Get("from") != "google" || loc.Query().Get("access_token") != "" {
		t.Fatalf("expected query kept and token kept out of it, got %q", location)
	}
	if !strings.Contains(loc.Fragment, "access_token=jwt-for-u-1") {
		t.Fatalf("expected token in fragment, got %q", location)
	}
	if linker.email != "ada@example.com" || linker.provider != users.ProviderGoogle {
		t.Fatalf("unexpected linker call %+v", linker)
	}
	entries, _ := auditRepo.ListAll(context.Background())
	if len(entries) != 1 || entries[0].Action != audit.ActionGoogleLogin {
		t.Fatalf("expected google login audit entry, got %+v", entries)
	}

	// state is single use
	replay := httptest.NewRecorder()
	router.ServeHTTP(replay, httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?state=good-state&code=abc", nil))
	if replay.Code != http.StatusBadRequest {
		t.Fatalf("expected replayed state to fail, got %d", replay.Code)
	}
}

func TestStateStoreExpiry(t *testing.T) {
	store := newStateStore()
	now := time.Now()
	store.put("old", pendingLogin{verifier: "v", expires: now.Add(-time.Second)})
	store.put("fresh", pendingLogin{verifier: "v", expires: now.Add(time.Minute)})

	if _, ok := store.items["old"]; ok {
		t.Fatalf("expected expired entry pruned on put")
	}
	if _, ok := store.consume("fresh", now.Add(2*time.Minute)); ok {
		t.Fatalf("expected expired state rejected")
	}
	if _, ok := store.consume("fresh", now); ok {
		t.Fatalf("expected state removed after first consume")
	}
}

func TestTokenRedirect(t *testing.T) {
	got, err := tokenRedirect("http://ui/cb?x=1", users.Token{AccessToken: "abc", TokenType: "bearer", ExpiresIn: 1800})
	if err != nil {
		t.Fatalf("token redirect: %v", err)
	}
	if got != "http://ui/cb?x=1#access_token=abc&expires_in=1800&token_type=bearer" {
		t.Fatalf("unexpected url %q", got)
	}
	if _, err := tokenRedirect("/relative", users.Token{}); err == nil {
		t.Fatalf("expected error for relative redirect")
	}
}

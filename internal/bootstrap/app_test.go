package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-analyzer/internal/shared/config"
)

func testConfig(t *testing.T) config.Config {
	return config.Config{
		Env:                      "test",
		AppVersion:               "test",
		ObjectStoreType:          "local",
		LocalStoreDir:            t.TempDir(),
		JWTSecret:                "test-secret",
		AccessTokenExpireMinutes: 30,
		BcryptCost:               10,
		MaxUploadBytes:           1 << 20,
		MaxExtractedSkills:       20,
		EventsBackend:            "none",
	}
}

func serve(app *App, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	return resp
}

func jsonRequest(method, path, body, token string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func login(t *testing.T, app *App) string {
	t.Helper()
	resp := serve(app, jsonRequest(http.MethodPost, "/api/users/register",
		`{"email":"ada@example.com","password":"correct-horse","full_name":"Ada"}`, ""))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	form := url.Values{"username": {"ada@example.com"}, "password": {"correct-horse"}, "grant_type": {"password"}}
	req := httptest.NewRequest(http.MethodPost, "/api/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp = serve(app, req)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var tok struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tok))
	assert.Equal(t, "bearer", tok.TokenType)
	return tok.AccessToken
}

func uploadRequest(t *testing.T, token string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "resume.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("Ada Lovelace\nEngineer with 6 years of experience in Python and SQL.\nMaster of Science."))
	require.NoError(t, err)
	require.NoError(t, w.WriteField("job_requirements", "Python, SQL, Django"))
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/resume/analyze-resume/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestBuildServesPublicEndpoints(t *testing.T) {
	app, err := Build(context.Background(), testConfig(t))
	require.NoError(t, err)
	t.Cleanup(app.Close)

	resp := serve(app, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"database":"memory"`)

	resp = serve(app, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = serve(app, httptest.NewRequest(http.MethodGet, "/api/privacy/privacy-policy", nil))
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = serve(app, httptest.NewRequest(http.MethodGet, "/api/users/me", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = serve(app, jsonRequest(http.MethodGet, "/api/cover-letter/templates", "", "not-a-token"))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAnalyzeThenDeleteData(t *testing.T) {
	app, err := Build(context.Background(), testConfig(t))
	require.NoError(t, err)
	t.Cleanup(app.Close)
	token := login(t, app)

	resp := serve(app, jsonRequest(http.MethodGet, "/api/users/me", "", token))
	require.Equal(t, http.StatusOK, resp.Code)
	var me struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))

	resp = serve(app, uploadRequest(t, token))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var result struct {
		AnalysisID    string   `json:"analysis_id"`
		ResumeID      string   `json:"resume_id"`
		MatchedSkills []string `json:"matched_skills"`
		SkillGaps     []string `json:"skill_gaps"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, []string{"python", "sql"}, result.MatchedSkills)
	assert.Equal(t, []string{"django"}, result.SkillGaps)

	resp = serve(app, jsonRequest(http.MethodGet, "/api/cover-letter/templates", "", token))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"general"`)

	resp = serve(app, jsonRequest(http.MethodPost, "/api/privacy/export-data", "", token))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = serve(app, jsonRequest(http.MethodPost, "/api/privacy/delete-data", "", token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	ctx := context.Background()
	stored, err := app.ResumesRepo.ListByUser(ctx, me.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)
	history, err := app.AnalysesRepo.ListByUser(ctx, me.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, history)

	resp = serve(app, jsonRequest(http.MethodGet, "/api/resume/analyses/"+result.AnalysisID, "", token))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	verify, err := app.Audit.Verify(context.Background())
	require.NoError(t, err)
	assert.True(t, verify.Valid)
}

func TestUploadAfterDeleteDataIsRejected(t *testing.T) {
	app, err := Build(context.Background(), testConfig(t))
	require.NoError(t, err)
	t.Cleanup(app.Close)
	token := login(t, app)

	resp := serve(app, jsonRequest(http.MethodGet, "/api/users/me", "", token))
	require.Equal(t, http.StatusOK, resp.Code)
	var me struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))

	resp = serve(app, jsonRequest(http.MethodPost, "/api/privacy/delete-data", "", token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = serve(app, uploadRequest(t, token))
	assert.Equal(t, http.StatusUnauthorized, resp.Code, resp.Body.String())
	resp = serve(app, jsonRequest(http.MethodGet, "/api/resume/resumes", "", token))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	stored, err := app.ResumesRepo.ListByUser(context.Background(), me.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

package reports

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-analyzer/internal/analyses"
	"resume-analyzer/internal/analyses/recommendations"
)

type fakePDF struct {
	html []byte
}

func (f *fakePDF) RenderPDF(_ context.Context, html []byte) ([]byte, error) {
	f.html = html
	return []byte("%PDF-1.4 fake"), nil
}

type stubAnalyses map[string]analyses.Analysis

func (s stubAnalyses) Get(_ context.Context, userID, analysisID string) (analyses.Analysis, error) {
	a, ok := s[analysisID]
	if !ok || a.UserID != userID {
		return analyses.Analysis{}, analyses.ErrNotFound
	}
	return a, nil
}

func sampleData() Data {
	return Data{
		AnalysisID:         "a-1",
		Skills:             []string{"python", "sql"},
		CompatibilityScore: 66.67,
		MatchedSkills:      []string{"python", "sql"},
		SkillGaps:          []string{"django"},
		Recommendations:    []Item{{Title: "Consider developing proficiency in django", Action: "Build a <small> project"}},
		GeneratedAt:        time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRenderHTMLEscapesAndIncludesSections(t *testing.T) {
	out, err := RenderHTML(sampleData())
	require.NoError(t, err)
	html := string(out)
	assert.Contains(t, html, "66.67%")
	assert.Contains(t, html, "python, sql")
	assert.Contains(t, html, "django")
	assert.Contains(t, html, "Build a &lt;small&gt; project")
	assert.NotContains(t, html, "<small>")
}

func TestRenderDOCXProducesValidPackage(t *testing.T) {
	out, err := RenderDOCX(sampleData())
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	require.NoError(t, err)
	names := map[string]*zip.File{}
	for _, f := range zr.File {
		names[f.Name] = f
	}
	require.Contains(t, names, "[Content_Types].xml")
	require.Contains(t, names, "_rels/.rels")
	require.Contains(t, names, "word/document.xml")

	rc, err := names["word/document.xml"].Open()
	require.NoError(t, err)
	defer rc.Close()
	doc, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Contains(t, string(doc), "66.67%")
	assert.Contains(t, string(doc), "Build a &lt;small&gt; project")
}

func TestDecodeRequestAcceptsStringAndObjectRecommendations(t *testing.T) {
	raw := []byte(`{"compatibility_score": 80, "skills": ["go"], "recommendations": ["Add metrics", {"title": "Learn k8s", "action": "Take a course"}]}`)
	data, err := DecodeRequest(raw)
	require.NoError(t, err)
	require.Len(t, data.Recommendations, 2)
	assert.Equal(t, "Add metrics", data.Recommendations[0].Title)
	assert.Equal(t, "Take a course", data.Recommendations[1].Action)
}

func TestDecodeRequestRejectsInvalidPayloads(t *testing.T) {
	cases := map[string]string{
		"missing score":   `{"skills": ["go"]}`,
		"score too high":  `{"compatibility_score": 120}`,
		"skills not list": `{"compatibility_score": 10, "skills": "go"}`,
		"not json":        `{`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeRequest([]byte(body))
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
			assert.NotEmpty(t, ve.Errors)
		})
	}
}

func TestGeneratorFormats(t *testing.T) {
	pdf := &fakePDF{}
	gen := NewGenerator(pdf)

	file, err := gen.Render(context.Background(), "", sampleData())
	require.NoError(t, err)
	assert.Equal(t, "resume_analysis_report.pdf", file.Name)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Contains(t, string(pdf.html), "Resume Analysis Report")

	file, err = gen.Render(context.Background(), "DOCX", sampleData())
	require.NoError(t, err)
	assert.Equal(t, "resume_analysis_report.docx", file.Name)

	_, err = gen.Render(context.Background(), "xlsx", sampleData())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = NewGenerator(nil).Render(context.Background(), "pdf", sampleData())
	assert.ErrorIs(t, err, ErrPDFUnavailable)
}

func TestFromAnalysisCopiesRecommendations(t *testing.T) {
	data := FromAnalysis(analyses.Analysis{
		ID:              "a-1",
		Score:           50,
		ExtractedSkills: []string{"go"},
		Recommendations: []recommendations.Recommendation{{ID: "X", Title: "Do this", Action: "Now", Category: recommendations.CategorySkills}},
	})
	assert.Equal(t, []string{"go"}, data.Skills)
	require.Len(t, data.Recommendations, 1)
	assert.Equal(t, "Do this", data.Recommendations[0].Title)
}

func newReportRouter(reader AnalysisReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api")
	api.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Next()
	})
	NewHandler(reader, NewGenerator(&fakePDF{})).RegisterRoutes(api)
	return router
}

func TestAnalysisReportEndpoint(t *testing.T) {
	router := newReportRouter(stubAnalyses{
		"a-1": {ID: "a-1", UserID: "user-1", Score: 70},
		"a-2": {ID: "a-2", UserID: "user-2", Score: 10},
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/resume/analyses/a-1/report?format=html", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "resume_analysis_report.html")

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/resume/analyses/a-2/report", nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/resume/analyses/a-1/report?format=rtf", nil))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGenerateReportEndpoint(t *testing.T) {
	router := newReportRouter(stubAnalyses{})

	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/resume/generate-report/", strings.NewReader(`{"compatibility_score": 42, "skills": ["go"]}`))
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/pdf", resp.Header().Get("Content-Type"))

	resp = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/resume/generate-report/?format=docx", strings.NewReader(`{"skills": ["go"]}`))
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "validation_error")
}

package analyses

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/parser"
	"resume-analyzer/internal/scoring"
	"resume-analyzer/internal/shared/server/middleware"
	"resume-analyzer/internal/shared/server/respond"
	"resume-analyzer/internal/shared/telemetry"
	"resume-analyzer/internal/shared/validation"
)

// multipartOverhead leaves room for the form fields around the file part.
const multipartOverhead = 1 << 20

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resume/analyze-resume/", h.analyzeUpload)
	rg.POST("/resume/resumes/:id/analyze", h.analyzeStored)
	rg.GET("/resume/analyses", h.list)
	rg.GET("/resume/analyses/:id", h.get)
	rg.PUT("/resume/analyses/:id", h.reanalyze)
}

type jobRequest struct {
	JobDescription  string   `json:"job_description" form:"job_description"`
	JobRequirements []string `json:"job_requirements" form:"job_requirements"`
}

func (h *Handler) analyzeUpload(c *gin.Context) {
	if h.Svc.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Svc.MaxUploadBytes+multipartOverhead)
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds upload limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", []validation.FieldIssue{
			{Field: "file", Issue: "required"},
		})
		return
	}
	if h.Svc.MaxUploadBytes > 0 && fileHeader.Size > h.Svc.MaxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds upload limit", nil)
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file could not be read", nil)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file could not be read", nil)
		return
	}

	ctx := c.Request.Context()
	result, err := h.Svc.Analyze(ctx, AnalyzeInput{
		UserID:          middleware.UserIDFromContext(c),
		FileName:        fileHeader.Filename,
		Data:            data,
		JobDescription:  c.PostForm("job_description"),
		JobRequirements: formList(c.PostFormArray("job_requirements")),
	})
	if err != nil {
		writeAnalyzeError(c, err)
		return
	}
	c.Set(middleware.ResumeIDKey, result.ResumeID)
	c.Set(middleware.AnalysisIDKey, result.AnalysisID)
	respond.Created(c, result)
}

func (h *Handler) analyzeStored(c *gin.Context) {
	resumeID := c.Param("id")
	c.Set(middleware.ResumeIDKey, resumeID)
	var req jobRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}
	ctx := c.Request.Context()
	result, err := h.Svc.AnalyzeResume(ctx, middleware.UserIDFromContext(c), resumeID, req.JobDescription, formList(req.JobRequirements))
	if err != nil {
		writeAnalyzeError(c, err)
		return
	}
	c.Set(middleware.AnalysisIDKey, result.AnalysisID)
	respond.Created(c, result)
}

func (h *Handler) reanalyze(c *gin.Context) {
	analysisID := c.Param("id")
	c.Set(middleware.AnalysisIDKey, analysisID)
	var req jobRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}
	ctx := c.Request.Context()
	result, err := h.Svc.Reanalyze(ctx, middleware.UserIDFromContext(c), analysisID, req.JobDescription, formList(req.JobRequirements))
	if err != nil {
		writeAnalyzeError(c, err)
		return
	}
	c.Set(middleware.ResumeIDKey, result.ResumeID)
	respond.OK(c, result)
}

func (h *Handler) get(c *gin.Context) {
	analysisID := c.Param("id")
	c.Set(middleware.AnalysisIDKey, analysisID)
	analysis, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), analysisID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch analysis", nil)
		}
		return
	}
	respond.OK(c, analysis)
}

func (h *Handler) list(c *gin.Context) {
	limit := defaultListLimit
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	items, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list analyses", nil)
		return
	}
	respond.OK(c, gin.H{"items": items, "limit": min(max(limit, 1), maxListLimit), "offset": max(offset, 0)})
}

func writeAnalyzeError(c *gin.Context, err error) {
	var parseErr *parser.ParseError
	var scoreErr *scoring.ScoreError
	switch {
	case errors.Is(err, ErrFileTooLarge), isTooLarge(err):
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds upload limit", nil)
	case errors.As(err, &parseErr):
		if parseErr.Kind == parser.KindUnsupported {
			respond.Error(c, http.StatusBadRequest, "unsupported_file_type", "supported formats: "+strings.Join(parser.SupportedFormats(), ", "), nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "parse_error", parseErr.Error(), nil)
	case errors.Is(err, ErrEmptyResume):
		respond.Error(c, http.StatusBadRequest, "empty_resume", "resume contains no extractable text", nil)
	case errors.As(err, &scoreErr):
		telemetry.WarnCtx(c.Request.Context(), "analysis.score_rejected", map[string]any{
			"field":  scoreErr.Field,
			"reason": scoreErr.Reason,
		})
		respond.Error(c, http.StatusUnprocessableEntity, "scoring_error", "analysis could not be scored", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resource not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "analysis failed", nil)
	}
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// formList trims entries and drops blanks. A single comma separated value is
// split.
func formList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

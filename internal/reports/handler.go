package reports

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/analyses"
	"resume-analyzer/internal/shared/server/middleware"
	"resume-analyzer/internal/shared/server/respond"
)

const maxRequestBytes = 1 << 20

// AnalysisReader loads a user's analysis.
type AnalysisReader interface {
	Get(ctx context.Context, userID, analysisID string) (analyses.Analysis, error)
}

type Handler struct {
	Analyses AnalysisReader
	Gen      *Generator
}

func NewHandler(reader AnalysisReader, gen *Generator) *Handler {
	return &Handler{Analyses: reader, Gen: gen}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/resume/analyses/:id/report", h.analysisReport)
	rg.POST("/resume/generate-report/", h.generate)
}

func (h *Handler) analysisReport(c *gin.Context) {
	analysisID := c.Param("id")
	c.Set(middleware.AnalysisIDKey, analysisID)
	format, err := NormalizeFormat(c.Query("format"))
	if err != nil {
		writeFormatError(c)
		return
	}
	analysis, err := h.Analyses.Get(c.Request.Context(), middleware.UserIDFromContext(c), analysisID)
	if err != nil {
		if errors.Is(err, analyses.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load analysis", nil)
		return
	}
	h.send(c, format, FromAnalysis(analysis))
}

func (h *Handler) generate(c *gin.Context) {
	format, err := NormalizeFormat(c.Query("format"))
	if err != nil {
		writeFormatError(c)
		return
	}
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBytes))
	if err != nil {
		respond.Error(c, http.StatusRequestEntityTooLarge, "request_too_large", "request body too large", nil)
		return
	}
	data, err := DecodeRequest(raw)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid report request", ve.Errors)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read report request", nil)
		return
	}
	h.send(c, format, data)
}

func (h *Handler) send(c *gin.Context, format string, data Data) {
	file, err := h.Gen.Render(c.Request.Context(), format, data)
	if err != nil {
		if errors.Is(err, ErrPDFUnavailable) {
			respond.Error(c, http.StatusServiceUnavailable, "pdf_unavailable", "PDF rendering is not available; try format=html or format=docx", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate report", nil)
		return
	}
	respond.Attachment(c, file.Name, file.ContentType, file.Body)
}

func writeFormatError(c *gin.Context) {
	respond.Error(c, http.StatusBadRequest, "unsupported_format", "format must be one of html, pdf, docx", nil)
}

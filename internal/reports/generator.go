package reports

import (
	"context"
	"errors"
	"time"

	"resume-analyzer/internal/shared/metrics"
	"resume-analyzer/internal/shared/telemetry"
)

// ErrPDFUnavailable is returned when no PDF renderer is configured.
var ErrPDFUnavailable = errors.New("pdf rendering is not available")

// Generator renders report files. PDF is nil when no browser is available.
type Generator struct {
	PDF PDFRenderer
	now func() time.Time
}

func NewGenerator(pdf PDFRenderer) *Generator {
	return &Generator{PDF: pdf, now: time.Now}
}

// Render produces the report in format (html, pdf or docx; empty means pdf).
func (g *Generator) Render(ctx context.Context, format string, data Data) (File, error) {
	format, err := NormalizeFormat(format)
	if err != nil {
		return File{}, err
	}
	if data.GeneratedAt.IsZero() {
		now := time.Now
		if g.now != nil {
			now = g.now
		}
		data.GeneratedAt = now().UTC()
	}

	var body []byte
	switch format {
	case FormatHTML:
		body, err = RenderHTML(data)
	case FormatDOCX:
		body, err = RenderDOCX(data)
	case FormatPDF:
		if g.PDF == nil {
			return File{}, ErrPDFUnavailable
		}
		var html []byte
		html, err = RenderHTML(data)
		if err == nil {
			body, err = g.PDF.RenderPDF(ctx, html)
		}
	}
	if err != nil {
		telemetry.Error("report.render_failed", map[string]any{
			"format":      format,
			"analysis_id": data.AnalysisID,
			"err":         err,
		})
		return File{}, err
	}

	metrics.IncReport(format)
	return File{
		Name:        baseFileName + "." + format,
		ContentType: contentType(format),
		Body:        body,
	}, nil
}

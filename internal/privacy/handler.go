package privacy

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/audit"
	"resume-analyzer/internal/shared/server/middleware"
	"resume-analyzer/internal/shared/server/respond"
	"resume-analyzer/internal/users"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterPublicRoutes attaches the policy documents, which need no token.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/privacy")
	g.GET("/privacy-policy", func(c *gin.Context) {
		respond.OK(c, gin.H{"privacy_policy": PrivacyPolicy()})
	})
	g.GET("/data-retention", func(c *gin.Context) {
		respond.OK(c, gin.H{"data_retention": DataRetention()})
	})
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/privacy")
	g.POST("/export-data", h.export)
	g.GET("/export-status/:id", h.status)
	g.GET("/download-export/:id", h.download)
	g.POST("/delete-data", h.deleteData)
	g.GET("/audit-log", h.auditLog)
}

func (h *Handler) export(c *gin.Context) {
	st, err := h.Svc.Export(c.Request.Context(), middleware.UserIDFromContext(c), middleware.RequestIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.Created(c, gin.H{
		"status":    "success",
		"message":   "Data export completed",
		"export_id": st.ID,
		"export":    st,
	})
}

func (h *Handler) status(c *gin.Context) {
	st, err := h.Svc.Status(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, st)
}

func (h *Handler) download(c *gin.Context) {
	rc, art, err := h.Svc.Download(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), c.DefaultQuery("format", FormatJSON))
	if err != nil {
		writeError(c, err)
		return
	}
	defer rc.Close()

	respond.StreamAttachment(c, art.FileName, art.ContentType, rc)
}

func (h *Handler) deleteData(c *gin.Context) {
	res, err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), middleware.RequestIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, res)
}

func (h *Handler) auditLog(c *gin.Context) {
	limit := defaultAuditLimit
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	entries, err := h.Svc.AuditLog(c.Request.Context(), middleware.UserIDFromContext(c), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	respond.OK(c, gin.H{"items": entries})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidFormat):
		respond.Error(c, http.StatusBadRequest, "invalid_format", "format must be json or zip", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "export not found", nil)
	case errors.Is(err, users.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "privacy operation failed", nil)
	}
}

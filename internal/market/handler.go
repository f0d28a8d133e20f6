package market

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/shared/server/respond"
	"resume-analyzer/internal/shared/validation"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterPublicRoutes attaches the read-only lookups.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/market/salary/:job_title", h.salaries)
	rg.GET("/market/demand/:job_title", h.demand)
	rg.GET("/market/career-path/:role", h.careerPaths)
	rg.GET("/market/trends/:industry", h.trends)
	rg.GET("/market/similar-titles/:job_title", h.similarTitles)
	rg.GET("/industry/", h.listSkillSets)
	rg.GET("/industry/:name", h.getSkillSet)
}

// RegisterRoutes attaches the write and analysis routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/market/salary", h.createSalary)
	rg.POST("/market/demand", h.createDemand)
	rg.POST("/market/career-path", h.createCareerPath)
	rg.POST("/market/trends", h.createTrend)
	rg.POST("/market/competitiveness", h.competitiveness)
	rg.POST("/market/analyze", h.competitiveness)
	rg.POST("/industry/", h.createSkillSet)
	rg.PUT("/industry/:name", h.updateSkillSet)
	rg.DELETE("/industry/:name", h.deleteSkillSet)
}

func (h *Handler) salaries(c *gin.Context) {
	items, err := h.Svc.Salaries(c.Request.Context(), SalaryQuery{
		JobTitle:        c.Param("job_title"),
		IndustryName:    c.Query("industry_name"),
		Location:        c.Query("location"),
		ExperienceLevel: c.Query("experience_level"),
	})
	listOr404(c, items, len(items), err, "no salary data found for the specified criteria")
}

func (h *Handler) demand(c *gin.Context) {
	items, err := h.Svc.Demand(c.Request.Context(), DemandQuery{
		JobTitle:     c.Param("job_title"),
		IndustryName: c.Query("industry_name"),
		Location:     c.Query("location"),
	})
	listOr404(c, items, len(items), err, "no job market demand data found for the specified criteria")
}

func (h *Handler) careerPaths(c *gin.Context) {
	items, err := h.Svc.CareerPaths(c.Request.Context(), c.Param("role"), c.Query("industry_name"))
	listOr404(c, items, len(items), err, "no career path data found for the specified criteria")
}

func (h *Handler) trends(c *gin.Context) {
	limit := defaultTrendLimit
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > maxTrendLimit {
			respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be between 1 and 20", nil)
			return
		}
		limit = parsed
	}
	items, err := h.Svc.Trends(c.Request.Context(), c.Param("industry"), limit)
	listOr404(c, items, len(items), err, "no trends found for industry: "+c.Param("industry"))
}

func (h *Handler) similarTitles(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	items, err := h.Svc.SimilarTitles(c.Request.Context(), c.Param("job_title"), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, items)
}

func (h *Handler) listSkillSets(c *gin.Context) {
	items, err := h.Svc.SkillSets(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, items)
}

func (h *Handler) getSkillSet(c *gin.Context) {
	item, err := h.Svc.SkillSet(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, item)
}

func (h *Handler) createSalary(c *gin.Context) {
	var req SalaryRange
	if !bind(c, &req) {
		return
	}
	saved, err := h.Svc.SaveSalary(c.Request.Context(), req)
	created(c, saved, err)
}

func (h *Handler) createDemand(c *gin.Context) {
	var req JobDemand
	if !bind(c, &req) {
		return
	}
	saved, err := h.Svc.SaveDemand(c.Request.Context(), req)
	created(c, saved, err)
}

func (h *Handler) createCareerPath(c *gin.Context) {
	var req CareerPath
	if !bind(c, &req) {
		return
	}
	saved, err := h.Svc.SaveCareerPath(c.Request.Context(), req)
	created(c, saved, err)
}

func (h *Handler) createTrend(c *gin.Context) {
	var req IndustryTrend
	if !bind(c, &req) {
		return
	}
	saved, err := h.Svc.SaveTrend(c.Request.Context(), req)
	created(c, saved, err)
}

func (h *Handler) createSkillSet(c *gin.Context) {
	var req IndustrySkillSet
	if !bind(c, &req) {
		return
	}
	saved, err := h.Svc.SaveSkillSet(c.Request.Context(), req)
	created(c, saved, err)
}

type updateSkillSetRequest struct {
	Skills      []string `json:"skills"`
	Description string   `json:"description"`
}

func (h *Handler) updateSkillSet(c *gin.Context) {
	var req updateSkillSetRequest
	if !bind(c, &req) {
		return
	}
	updated, err := h.Svc.UpdateSkillSet(c.Request.Context(), c.Param("name"), req.Skills, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, updated)
}

func (h *Handler) deleteSkillSet(c *gin.Context) {
	if err := h.Svc.DeleteSkillSet(c.Request.Context(), c.Param("name")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type competitivenessRequest struct {
	Candidate Candidate `json:"candidate"`
	Job       Job       `json:"job"`
}

func (h *Handler) competitiveness(c *gin.Context) {
	var req competitivenessRequest
	if !bind(c, &req) {
		return
	}
	result, err := h.Svc.Competitiveness(c.Request.Context(), req.Candidate, req.Job)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, result)
}

func bind(c *gin.Context, dest any) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return false
	}
	return true
}

func created(c *gin.Context, payload any, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	respond.Created(c, payload)
}

func listOr404(c *gin.Context, payload any, n int, err error, notFoundMsg string) {
	if err != nil {
		writeError(c, err)
		return
	}
	if n == 0 {
		respond.Error(c, http.StatusNotFound, "not_found", notFoundMsg, nil)
		return
	}
	respond.OK(c, payload)
}

func writeError(c *gin.Context, err error) {
	switch {
	case validation.IsValidationError(err):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request", validation.Details(err))
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resource not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "market data request failed", nil)
	}
}

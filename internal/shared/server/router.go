package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/analyses"
	googleauth "resume-analyzer/internal/auth"
	"resume-analyzer/internal/coverletters"
	"resume-analyzer/internal/market"
	"resume-analyzer/internal/privacy"
	"resume-analyzer/internal/reports"
	"resume-analyzer/internal/resumes"
	"resume-analyzer/internal/services/health"
	"resume-analyzer/internal/shared/config"
	"resume-analyzer/internal/shared/metrics"
	"resume-analyzer/internal/shared/server/middleware"
	"resume-analyzer/internal/shared/server/respond"
	"resume-analyzer/internal/users"
)

// RouterDeps carries the handlers mounted by NewRouter. Nil handlers are
// skipped.
type RouterDeps struct {
	Config          config.Config
	Health          *health.Service
	Tokens          middleware.TokenVerifier
	Accounts        middleware.AccountChecker
	RateLimiter     *middleware.RateLimiter
	UserHandler     *users.Handler
	GoogleAuth      *googleauth.GoogleService
	AnalysisHandler *analyses.Handler
	ResumeHandler   *resumes.Handler
	ReportHandler   *reports.Handler
	MarketHandler   *market.Handler
	CoverLetters    *coverletters.Handler
	PrivacyHandler  *privacy.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/", func(c *gin.Context) {
		respond.OK(c, gin.H{
			"name":    "resume-analyzer",
			"version": deps.Config.AppVersion,
			"docs":    "/api",
		})
	})
	r.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.OK(c, gin.H{"ok": true})
			return
		}
		st := deps.Health.Check(c.Request.Context())
		status := http.StatusOK
		if !st.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, st)
	})
	r.GET("/metrics", metrics.Handler())

	limiter := deps.RateLimiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(nil)
	}
	rateLimit := middleware.RateLimit(middleware.RateLimitConfig{
		Rules:    middleware.DefaultRateLimitRules(),
		GroupFor: middleware.DefaultRateLimitGroup,
		Limiter:  limiter,
	})

	public := r.Group("/api", rateLimit)
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterPublicRoutes(public)
	}
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(public)
	}
	if deps.MarketHandler != nil {
		deps.MarketHandler.RegisterPublicRoutes(public)
	}
	if deps.PrivacyHandler != nil {
		deps.PrivacyHandler.RegisterPublicRoutes(public)
	}

	protected := r.Group("/api", middleware.Auth(deps.Tokens), middleware.ActiveAccount(deps.Accounts), rateLimit)
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(protected)
	}
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(protected)
	}
	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterRoutes(protected)
	}
	if deps.ReportHandler != nil {
		deps.ReportHandler.RegisterRoutes(protected)
	}
	if deps.MarketHandler != nil {
		deps.MarketHandler.RegisterRoutes(protected)
	}
	if deps.CoverLetters != nil {
		deps.CoverLetters.RegisterRoutes(protected)
	}
	if deps.PrivacyHandler != nil {
		deps.PrivacyHandler.RegisterRoutes(protected)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}

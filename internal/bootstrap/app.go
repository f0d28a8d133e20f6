package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/analyses"
	"resume-analyzer/internal/audit"
	googleauth "resume-analyzer/internal/auth"
	"resume-analyzer/internal/coverletters"
	"resume-analyzer/internal/events"
	"resume-analyzer/internal/llm"
	"resume-analyzer/internal/market"
	"resume-analyzer/internal/privacy"
	"resume-analyzer/internal/reports"
	"resume-analyzer/internal/resumes"
	"resume-analyzer/internal/services/health"
	"resume-analyzer/internal/shared/auth"
	"resume-analyzer/internal/shared/cache"
	"resume-analyzer/internal/shared/config"
	"resume-analyzer/internal/shared/server"
	"resume-analyzer/internal/shared/storage/db"
	"resume-analyzer/internal/shared/storage/object"
	localstore "resume-analyzer/internal/shared/storage/object/local"
	s3store "resume-analyzer/internal/shared/storage/object/s3"
	"resume-analyzer/internal/shared/telemetry"
	"resume-analyzer/internal/skills"
	"resume-analyzer/internal/users"
)

const cachePrefix = "resume-analyzer:"

// App holds shared dependencies and the router built from them.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Cache  cache.Cache
	Events events.Publisher
	LLM    llm.Client
	Audit  *audit.Logger
	Tokens *auth.TokenService

	UsersRepo    users.Repo
	ResumesRepo  resumes.Repo
	AnalysesRepo analyses.Repo

	UsersService       *users.Service
	AnalysesService    *analyses.Service
	MarketService      *market.Service
	CoverLetterService *coverletters.Service
	PrivacyService     *privacy.Service
	ReportGenerator    *reports.Generator
	GoogleAuth         *googleauth.GoogleService
	HealthService      *health.Service

	closers []io.Closer
}

// Build prepares shared dependencies and wires routes.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	telemetry.SetLevel(telemetry.ParseLevel(cfg.LogLevel))
	telemetry.SetStaticFields(map[string]any{"service": "resume-analyzer", "env": cfg.Env, "version": cfg.AppVersion})

	app := &App{Config: cfg}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.DB = sqlDB
	if sqlDB != nil {
		app.closers = append(app.closers, sqlDB)
	}

	if app.Store, err = buildStore(ctx, cfg); err != nil {
		app.Close()
		return nil, err
	}
	if app.Cache, err = app.buildCache(ctx); err != nil {
		app.Close()
		return nil, err
	}
	if app.Events, err = app.buildEvents(ctx); err != nil {
		app.Close()
		return nil, err
	}
	if app.LLM, err = app.buildLLM(ctx); err != nil {
		app.Close()
		return nil, err
	}
	if err := buildServices(ctx, app); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// Close releases connections opened by Build.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			log.Printf("bootstrap: close: %v", err)
		}
	}
	a.closers = nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() || cfg.Env == "test" {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.DefaultServerOptions().WithPool(cfg.DBPool)
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if cfg.IsDevLike() {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func (a *App) buildCache(ctx context.Context) (cache.Cache, error) {
	if strings.TrimSpace(a.Config.RedisAddr) == "" {
		return cache.NewMemory(), nil
	}
	r, err := cache.NewRedis(ctx, a.Config.RedisAddr, a.Config.RedisPassword, a.Config.RedisDB, cachePrefix)
	if err != nil {
		if a.Config.IsDevLike() {
			log.Printf("bootstrap: redis unavailable; using in-process cache: %v", err)
			return cache.NewMemory(), nil
		}
		return nil, err
	}
	a.closers = append(a.closers, r)
	return r, nil
}

func (a *App) buildEvents(ctx context.Context) (events.Publisher, error) {
	switch a.Config.EventsBackend {
	case "sqs":
		return events.NewSQSPublisher(ctx, a.Config.AWSRegion, a.Config.EventsSQSQueueURL)
	case "amqp":
		p, err := events.NewAMQPPublisher(a.Config.AMQPURL, a.Config.AMQPExchange)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, p)
		return p, nil
	default:
		return events.Nop{}, nil
	}
}

func (a *App) buildLLM(ctx context.Context) (llm.Client, error) {
	if strings.TrimSpace(a.Config.GeminiAPIKey) == "" {
		return llm.PlaceholderClient{}, nil
	}
	c, err := llm.NewGeminiClient(ctx, a.Config.GeminiAPIKey, a.Config.GeminiModel)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, c)
	return c, nil
}

func buildServices(ctx context.Context, app *App) error {
	cfg := app.Config

	var (
		userRepo     users.Repo
		resumeRepo   resumes.Repo
		analysisRepo analyses.Repo
		marketRepo   market.Repo
		letterRepo   coverletters.Repo
		exportRepo   privacy.ExportRepo
		auditRepo    audit.Repo
	)
	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		resumeRepo = &resumes.PGRepo{DB: app.DB}
		analysisRepo = &analyses.PGRepo{DB: app.DB}
		marketRepo = &market.PGRepo{DB: app.DB}
		letterRepo = &coverletters.PGRepo{DB: app.DB}
		exportRepo = &privacy.PGRepo{DB: app.DB}
		auditRepo = &audit.PGRepo{DB: app.DB}
	} else {
		memResumes := resumes.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
		resumeRepo = memResumes
		analysisRepo = analyses.NewMemoryRepo(memResumes)
		marketRepo = market.NewMemoryRepo()
		letterRepo = coverletters.NewMemoryRepo()
		exportRepo = privacy.NewMemoryRepo()
		auditRepo = audit.NewMemoryRepo()
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.AccessTokenExpireMinutes)
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}
	hasher, err := auth.NewPasswordHasher(cfg.BcryptCost, cfg.PasswordPepper)
	if err != nil {
		return err
	}
	auditLog := audit.NewLogger(auditRepo)

	userSvc := users.NewService(userRepo, hasher, tokens, auditLog)
	extractor := skills.NewExtractor(skills.DefaultTaxonomy(), cfg.MaxExtractedSkills)
	analysisSvc := analyses.NewService(analysisRepo, resumeRepo, app.Store, extractor, nil, app.Events, cfg.MaxUploadBytes)
	marketSvc := market.NewService(marketRepo, app.Cache)
	letterSvc := coverletters.NewService(letterRepo, app.LLM)
	if err := letterSvc.EnsureDefaults(ctx); err != nil {
		return fmt.Errorf("cover letter templates: %w", err)
	}
	privacySvc := privacy.NewService(privacy.Deps{
		Users:    userRepo,
		Resumes:  resumeRepo,
		Analyses: analysisRepo,
		Letters:  letterRepo,
		Exports:  exportRepo,
		Store:    app.Store,
		Audit:    auditLog,
		Events:   app.Events,
	})
	reportGen := reports.NewGenerator(reports.ChromePDF{ExecPath: cfg.ChromePath})
	googleAuthSvc := googleauth.NewGoogleService(
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
		cfg.UIRedirectURL,
		userSvc,
		auditLog,
	)
	healthSvc := health.NewService(nil, cfg.AppVersion)
	if app.DB != nil {
		healthSvc.DB = app.DB
	}

	app.Tokens = tokens
	app.Audit = auditLog
	app.UsersRepo = userRepo
	app.ResumesRepo = resumeRepo
	app.AnalysesRepo = analysisRepo
	app.UsersService = userSvc
	app.AnalysesService = analysisSvc
	app.MarketService = marketSvc
	app.CoverLetterService = letterSvc
	app.PrivacyService = privacySvc
	app.ReportGenerator = reportGen
	app.GoogleAuth = googleAuthSvc
	app.HealthService = healthSvc

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		Health:          healthSvc,
		Tokens:          tokens,
		Accounts:        userSvc,
		UserHandler:     users.NewHandler(userSvc),
		GoogleAuth:      googleAuthSvc,
		AnalysisHandler: analyses.NewHandler(analysisSvc),
		ResumeHandler:   resumes.NewHandler(resumes.NewService(resumeRepo)),
		ReportHandler:   reports.NewHandler(analysisSvc, reportGen),
		MarketHandler:   market.NewHandler(marketSvc),
		CoverLetters:    coverletters.NewHandler(letterSvc),
		PrivacyHandler:  privacy.NewHandler(privacySvc),
	})
	if app.Router == nil {
		return errors.New("failed to initialize router")
	}
	return nil
}

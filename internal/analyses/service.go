package analyses

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-analyzer/internal/analyses/recommendations"
	"resume-analyzer/internal/events"
	"resume-analyzer/internal/jobdesc"
	"resume-analyzer/internal/parser"
	"resume-analyzer/internal/resumes"
	"resume-analyzer/internal/scoring"
	"resume-analyzer/internal/shared/metrics"
	"resume-analyzer/internal/shared/storage/object"
	"resume-analyzer/internal/shared/telemetry"
	"resume-analyzer/internal/skills"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Service contains business logic for analyses.
type Service struct {
	Repo           Repo
	Resumes        resumes.Repo
	Store          object.ObjectStore
	Skills         *skills.Extractor
	JobDesc        *jobdesc.Parser
	Scorer         *scoring.Scorer
	Events         events.Publisher
	MaxUploadBytes int64
}

// NewService wires the analysis pipeline. A nil scorer uses the default weights.
func NewService(repo Repo, resumeRepo resumes.Repo, store object.ObjectStore, extractor *skills.Extractor, scorer *scoring.Scorer, publisher events.Publisher, maxUploadBytes int64) *Service {
	if extractor == nil {
		extractor = skills.NewExtractor(skills.DefaultTaxonomy(), skills.DefaultMaxSkills)
	}
	if scorer == nil {
		scorer = scoring.Default()
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		Repo:           repo,
		Resumes:        resumeRepo,
		Store:          store,
		Skills:         extractor,
		JobDesc:        jobdesc.NewParser(extractor),
		Scorer:         scorer,
		Events:         publisher,
		MaxUploadBytes: maxUploadBytes,
	}
}

// AnalyzeInput is an uploaded resume plus the optional job it is scored against.
type AnalyzeInput struct {
	UserID          string
	FileName        string
	Data            []byte
	JobDescription  string
	JobRequirements []string
}

// evaluation holds every intermediate of one pipeline run.
type evaluation struct {
	extraction   skills.Result
	years        float64
	education    scoring.Degree
	requirements jobdesc.Requirements
	input        scoring.Input
	score        scoring.Result
	recs         []recommendations.Recommendation
}

// Analyze parses an uploaded resume, scores it and stores the resume and the
// analysis in one transaction.
func (s *Service) Analyze(ctx context.Context, in AnalyzeInput) (Result, error) {
	started := time.Now()
	if strings.TrimSpace(in.UserID) == "" || strings.TrimSpace(in.FileName) == "" {
		return Result{}, fmt.Errorf("%w: user and file name are required", ErrInvalidInput)
	}
	if s.MaxUploadBytes > 0 && int64(len(in.Data)) > s.MaxUploadBytes {
		return Result{}, ErrFileTooLarge
	}

	format, err := parser.FormatOf(in.FileName)
	if err != nil {
		s.fail(ctx, in.UserID, "", "parse", err)
		return Result{}, err
	}
	text, err := parser.ParseAs(ctx, in.Data, format)
	if err != nil {
		metrics.IncParseFailure(strings.TrimPrefix(format, "."))
		s.fail(ctx, in.UserID, "", "parse", err)
		return Result{}, err
	}
	if text == "" {
		s.fail(ctx, in.UserID, "", "empty", ErrEmptyResume)
		return Result{}, ErrEmptyResume
	}

	eval, err := s.evaluate(text, in.JobDescription, in.JobRequirements)
	if err != nil {
		s.fail(ctx, in.UserID, "", "scoring", err)
		return Result{}, err
	}

	resume := resumes.Resume{
		ID:         uuid.NewString(),
		UserID:     in.UserID,
		FileName:   in.FileName,
		FileType:   format,
		SizeBytes:  int64(len(in.Data)),
		RawText:    text,
		ParsedData: parsedData(eval),
	}
	if s.Store != nil {
		key, size, _, err := s.Store.Save(ctx, in.UserID, in.FileName, bytes.NewReader(in.Data))
		if err != nil {
			s.fail(ctx, in.UserID, resume.ID, "storage", err)
			return Result{}, fmt.Errorf("store resume: %w", err)
		}
		resume.StorageKey = key
		resume.SizeBytes = size
	}

	analysis := newAnalysis(in.UserID, resume.ID, in.JobDescription, eval)
	if err := s.Repo.CreateWithResume(ctx, &resume, analysis); err != nil {
		s.discardObject(ctx, resume.StorageKey)
		s.fail(ctx, in.UserID, resume.ID, "persist", err)
		return Result{}, fmt.Errorf("save analysis: %w", err)
	}

	s.completed(ctx, analysis, started)
	return toResult(analysis, eval), nil
}

// AnalyzeResume scores a stored resume against a new job description.
func (s *Service) AnalyzeResume(ctx context.Context, userID, resumeID, jobDescription string, requirements []string) (Result, error) {
	started := time.Now()
	if s.Resumes == nil {
		return Result{}, errors.New("resumes repo not configured")
	}
	resume, err := s.Resumes.Get(ctx, userID, resumeID)
	if err != nil {
		if errors.Is(err, resumes.ErrNotFound) {
			return Result{}, ErrNotFound
		}
		return Result{}, err
	}
	eval, err := s.evaluate(resume.RawText, jobDescription, requirements)
	if err != nil {
		s.fail(ctx, userID, resumeID, "scoring", err)
		return Result{}, err
	}
	analysis := newAnalysis(userID, resume.ID, jobDescription, eval)
	if err := s.Repo.CreateWithResume(ctx, nil, analysis); err != nil {
		s.fail(ctx, userID, resumeID, "persist", err)
		return Result{}, fmt.Errorf("save analysis: %w", err)
	}
	s.completed(ctx, analysis, started)
	return toResult(analysis, eval), nil
}

// Reanalyze recomputes an existing analysis, optionally against a new job.
// With no job input the stored job description is reused.
func (s *Service) Reanalyze(ctx context.Context, userID, analysisID, jobDescription string, requirements []string) (Result, error) {
	started := time.Now()
	existing, err := s.Repo.Get(ctx, userID, analysisID)
	if err != nil {
		return Result{}, err
	}
	if existing.ResumeID == "" || s.Resumes == nil {
		return Result{}, fmt.Errorf("%w: analysis has no stored resume", ErrInvalidInput)
	}
	resume, err := s.Resumes.Get(ctx, userID, existing.ResumeID)
	if err != nil {
		if errors.Is(err, resumes.ErrNotFound) {
			return Result{}, ErrNotFound
		}
		return Result{}, err
	}
	if strings.TrimSpace(jobDescription) == "" && len(requirements) == 0 {
		jobDescription = existing.JobDescription
	}
	eval, err := s.evaluate(resume.RawText, jobDescription, requirements)
	if err != nil {
		s.fail(ctx, userID, resume.ID, "scoring", err)
		return Result{}, err
	}
	updated := newAnalysis(userID, resume.ID, jobDescription, eval)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if err := s.Repo.Update(ctx, updated); err != nil {
		return Result{}, err
	}
	s.completed(ctx, updated, started)
	return toResult(updated, eval), nil
}

// Get returns one of the user's analyses.
func (s *Service) Get(ctx context.Context, userID, analysisID string) (Analysis, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(analysisID) == "" {
		return Analysis{}, ErrNotFound
	}
	return s.Repo.Get(ctx, userID, analysisID)
}

// List returns the user's analyses ordered newest-first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Summary, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	items, err := s.Repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(items))
	for _, item := range items {
		out = append(out, toSummary(item))
	}
	return out, nil
}

func (s *Service) evaluate(text, jobDescription string, requirements []string) (evaluation, error) {
	var eval evaluation
	eval.extraction = s.Skills.Extract(text)
	eval.years = skills.DetectYears(text)
	eval.education = skills.DetectEducation(text)

	req, err := s.JobDesc.Parse(jobDescription, requirements)
	if err != nil {
		return evaluation{}, fmt.Errorf("%w: job description: %v", ErrInvalidInput, err)
	}
	eval.requirements = req

	eval.input = scoring.Input{
		CandidateSkills:    eval.extraction.Skills,
		RequiredSkills:     req.Skills,
		CandidateYears:     eval.years,
		RequiredYears:      req.Years,
		CandidateEducation: eval.education,
		RequiredEducation:  req.Education,
	}
	eval.score, err = s.Scorer.Score(eval.input)
	if err != nil {
		return evaluation{}, err
	}

	eval.recs = recommendations.GenerateRecommendations(recommendations.Input{
		SkillGaps:       eval.score.SkillGaps,
		MissingKeywords: missingKeywords(req.Keywords, text),
		HasRequirements: len(req.Skills) > 0 || req.Years > 0 || req.Education != scoring.DegreeNone,
		SkillScore:      eval.score.SkillScore,
		ExperienceScore: eval.score.ExperienceScore,
		EducationScore:  eval.score.EducationScore,
		ResumeText:      text,
	})
	return eval, nil
}

// missingKeywords returns the job's action keywords absent from the resume.
func missingKeywords(jobKeywords []string, resumeText string) []string {
	if len(jobKeywords) == 0 {
		return nil
	}
	present := make(map[string]bool)
	for _, kw := range jobdesc.FindKeywords(resumeText) {
		present[kw] = true
	}
	out := make([]string, 0, len(jobKeywords))
	for _, kw := range jobKeywords {
		if !present[kw] {
			out = append(out, kw)
		}
	}
	return out
}

func newAnalysis(userID, resumeID, jobDescription string, eval evaluation) Analysis {
	return Analysis{
		ID:              uuid.NewString(),
		UserID:          userID,
		ResumeID:        resumeID,
		JobDescription:  jobDescription,
		RequiredSkills:  eval.requirements.Skills,
		ExtractedSkills: eval.extraction.Skills,
		Score:           eval.score.Score,
		SkillScore:      eval.score.SkillScore,
		ExperienceScore: eval.score.ExperienceScore,
		EducationScore:  eval.score.EducationScore,
		MatchedSkills:   eval.score.MatchedSkills,
		SkillGaps:       eval.score.SkillGaps,
		Recommendations: eval.recs,
	}
}

func parsedData(eval evaluation) resumes.ParsedData {
	return resumes.ParsedData{
		Skills:          eval.extraction.Skills,
		Categories:      eval.extraction.ByCategory,
		Confidence:      eval.extraction.Confidence,
		Overall:         eval.extraction.Overall,
		YearsExperience: eval.years,
		Education:       string(eval.education),
	}
}

func toResult(a Analysis, eval evaluation) Result {
	return Result{
		AnalysisID:           a.ID,
		ResumeID:             a.ResumeID,
		Skills:               eval.extraction.Skills,
		SkillCategories:      eval.extraction.ByCategory,
		Confidence:           eval.extraction.Confidence,
		YearsExperience:      eval.years,
		Education:            string(eval.education),
		CompatibilityScore:   a.Score,
		SkillScore:           a.SkillScore,
		ExperienceScore:      a.ExperienceScore,
		EducationScore:       a.EducationScore,
		MatchedSkills:        a.MatchedSkills,
		SkillGaps:            a.SkillGaps,
		Recommendations:      a.Recommendations,
		RecommendationGroups: recommendations.Group(a.Recommendations),
		ScoreExplanation:     explainScore(eval.score, eval.input),
	}
}

func (s *Service) completed(ctx context.Context, a Analysis, started time.Time) {
	elapsed := time.Since(started)
	metrics.IncAnalysis()
	metrics.ObserveAnalysisDuration(elapsed)
	telemetry.InfoCtx(ctx, "analysis.completed", map[string]any{
		"user_id":     a.UserID,
		"resume_id":   a.ResumeID,
		"analysis_id": a.ID,
		"score":       a.Score,
		"duration_ms": elapsed.Milliseconds(),
	})
	evt := events.New(events.TypeAnalysisCompleted, a.UserID, a.ID, map[string]any{
		"resume_id":           a.ResumeID,
		"compatibility_score": a.Score,
		"skill_gaps":          len(a.SkillGaps),
	})
	evt.RequestID = telemetry.RequestID(ctx)
	events.PublishBestEffort(ctx, s.Events, evt)
}

func (s *Service) fail(ctx context.Context, userID, resumeID, reason string, err error) {
	metrics.IncAnalysisFailed(reason)
	telemetry.ErrorCtx(ctx, "analysis.failed", map[string]any{
		"user_id":   userID,
		"resume_id": resumeID,
		"reason":    reason,
		"err":       err,
	})
}

func (s *Service) discardObject(ctx context.Context, key string) {
	if s.Store == nil || key == "" {
		return
	}
	if err := s.Store.Delete(ctx, key); err != nil && !errors.Is(err, object.ErrNotFound) {
		telemetry.WarnCtx(ctx, "analysis.cleanup_failed", map[string]any{
			"storage_key": key,
			"err":         err,
		})
	}
}

package coverletters

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"resume-analyzer/internal/llm"
	"resume-analyzer/internal/shared/telemetry"
	"resume-analyzer/internal/shared/validation"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type Service struct {
	Repo Repo
	LLM  llm.Client
}

// NewService returns a Service. A nil client disables the generated paragraph.
func NewService(repo Repo, client llm.Client) *Service {
	if client == nil {
		client = llm.PlaceholderClient{}
	}
	return &Service{Repo: repo, LLM: client}
}

// EnsureDefaults installs the system templates that are missing.
func (s *Service) EnsureDefaults(ctx context.Context) error {
	return s.Repo.EnsureSystemTemplates(ctx, SystemTemplates())
}

func (s *Service) Templates(ctx context.Context, userID string) ([]Template, error) {
	return s.Repo.ListTemplates(ctx, userID)
}

func (s *Service) Template(ctx context.Context, userID, id string) (Template, error) {
	return s.Repo.GetTemplate(ctx, userID, id)
}

// CreateTemplate stores a user template. Its id is the slug of the given id,
// or of the name when no id is given.
func (s *Service) CreateTemplate(ctx context.Context, userID string, in TemplateInput) (Template, error) {
	if err := validation.Struct(in); err != nil {
		return Template{}, err
	}
	source := in.ID
	if strings.TrimSpace(source) == "" {
		source = in.Name
	}
	id := slug.Make(source)
	if id == "" {
		return Template{}, fmt.Errorf("%w: template id is empty", ErrInvalidInput)
	}
	t := Template{ID: id, Name: strings.TrimSpace(in.Name), Content: in.Content, Industry: in.Industry, UserID: userID}
	if err := s.Repo.CreateTemplate(ctx, t); err != nil {
		return Template{}, err
	}
	return s.Repo.GetTemplate(ctx, userID, id)
}

func (s *Service) UpdateTemplate(ctx context.Context, userID, id string, in TemplateInput) (Template, error) {
	if err := validation.Struct(in); err != nil {
		return Template{}, err
	}
	if err := s.ownedTemplate(ctx, userID, id); err != nil {
		return Template{}, err
	}
	return s.Repo.UpdateTemplate(ctx, Template{ID: id, UserID: userID, Name: strings.TrimSpace(in.Name), Content: in.Content, Industry: in.Industry})
}

func (s *Service) DeleteTemplate(ctx context.Context, userID, id string) error {
	if err := s.ownedTemplate(ctx, userID, id); err != nil {
		return err
	}
	return s.Repo.DeleteTemplate(ctx, userID, id)
}

func (s *Service) ownedTemplate(ctx context.Context, userID, id string) error {
	existing, err := s.Repo.GetTemplate(ctx, userID, id)
	if err != nil {
		return err
	}
	if existing.System {
		return ErrReadOnly
	}
	return nil
}

// Generate fills the template with the request and stores the letter.
func (s *Service) Generate(ctx context.Context, userID string, req GenerateRequest) (Letter, error) {
	if err := validation.Struct(req); err != nil {
		return Letter{}, err
	}
	tmpl, err := s.Repo.GetTemplate(ctx, userID, req.TemplateID)
	if err != nil {
		return Letter{}, err
	}

	paragraph, generated := s.paragraph(ctx, req)
	tone := orDefault(req.Tone, defaultTone)
	letter := Letter{
		ID:          uuid.NewString(),
		UserID:      userID,
		TemplateID:  tmpl.ID,
		JobTitle:    req.JobTitle,
		CompanyName: req.CompanyName,
		Content:     fill(tmpl.Content, fieldsFor(req, paragraph)),
		Meta: map[string]string{
			"tone":      tone,
			"company":   req.CompanyName,
			"job_title": req.JobTitle,
			"generated": fmt.Sprint(generated),
		},
	}
	if err := s.Repo.CreateLetter(ctx, letter); err != nil {
		return Letter{}, err
	}
	telemetry.InfoCtx(ctx, "cover_letter.generated", map[string]any{
		"user_id":     userID,
		"template_id": tmpl.ID,
		"letter_id":   letter.ID,
		"generated":   generated,
	})
	return letter, nil
}

// paragraph asks the model for the customized content when a job description
// is present. Any failure falls back to the fixed paragraph.
func (s *Service) paragraph(ctx context.Context, req GenerateRequest) (string, bool) {
	if strings.TrimSpace(req.JobDescription) == "" {
		return fallbackParagraph, false
	}
	text, err := s.LLM.Generate(ctx, llm.CoverLetterParagraphPrompt(llm.ParagraphInput{
		JobTitle:       req.JobTitle,
		CompanyName:    req.CompanyName,
		Background:     req.Background,
		Skills:         req.Skills,
		JobDescription: req.JobDescription,
		Tone:           req.Tone,
	}))
	if err != nil {
		if !errors.Is(err, llm.ErrNotConfigured) {
			telemetry.WarnCtx(ctx, "cover_letter.llm_failed", map[string]any{"err": err})
		}
		return fallbackParagraph, false
	}
	return text, true
}

func (s *Service) Letters(ctx context.Context, userID string, limit, offset int) ([]Letter, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)
	return s.Repo.ListLetters(ctx, userID, limit, max(offset, 0))
}

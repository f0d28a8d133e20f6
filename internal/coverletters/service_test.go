package coverletters

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-analyzer/internal/shared/validation"
)

type stubLLM struct {
	text    string
	err     error
	prompts []string
}

func (s *stubLLM) Generate(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.text, s.err
}

func newTestService(t *testing.T, client *stubLLM) (*Service, *MemoryRepo) {
	t.Helper()
	repo := NewMemoryRepo()
	var svc *Service
	if client == nil {
		svc = NewService(repo, nil)
	} else {
		svc = NewService(repo, client)
	}
	require.NoError(t, svc.EnsureDefaults(context.Background()))
	return svc, repo
}

func baseRequest(templateID string) GenerateRequest {
	return GenerateRequest{
		TemplateID:    templateID,
		JobTitle:      "Backend Engineer",
		CompanyName:   "Acme",
		ApplicantName: "Jane Doe",
		Skills:        []string{"Go", " ", "PostgreSQL"},
	}
}

func TestEnsureDefaultsIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t, nil)
	require.NoError(t, svc.EnsureDefaults(context.Background()))

	items, err := svc.Templates(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "creative", items[0].ID)
	for _, item := range items {
		assert.True(t, item.System)
	}
}

func TestGenerateFillsEveryPlaceholder(t *testing.T) {
	for _, id := range []string{"general", "technical", "creative"} {
		t.Run(id, func(t *testing.T) {
			svc, _ := newTestService(t, nil)
			letter, err := svc.Generate(context.Background(), "user-1", baseRequest(id))
			require.NoError(t, err)
			assert.NotContains(t, letter.Content, "{")
			assert.Contains(t, letter.Content, "Dear Hiring Manager,")
			assert.Contains(t, letter.Content, "Jane Doe")
			assert.Contains(t, letter.Content, fallbackParagraph)
			assert.Contains(t, letter.Content, "• Go\n• PostgreSQL\n")
			assert.Equal(t, "professional", letter.Meta["tone"])
			assert.Equal(t, "false", letter.Meta["generated"])
		})
	}
}

func TestGenerateUsesDefaults(t *testing.T) {
	svc, _ := newTestService(t, nil)
	letter, err := svc.Generate(context.Background(), "user-1", baseRequest("technical"))
	require.NoError(t, err)
	assert.Contains(t, letter.Content, "advertised on your website")
	assert.Contains(t, letter.Content, "similar roles in relevant fields")
	assert.Contains(t, letter.Content, "because of your innovative work and company culture")
}

func TestGenerateUsesModelParagraph(t *testing.T) {
	client := &stubLLM{text: "I shipped payment APIs at scale."}
	svc, _ := newTestService(t, client)
	req := baseRequest("general")
	req.JobDescription = "Build payment APIs in Go"
	req.Tone = "enthusiastic"

	letter, err := svc.Generate(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.Contains(t, letter.Content, "I shipped payment APIs at scale.")
	assert.NotContains(t, letter.Content, fallbackParagraph)
	assert.Equal(t, "true", letter.Meta["generated"])
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "Build payment APIs in Go")
	assert.Contains(t, client.prompts[0], "Tone: enthusiastic")
}

func TestGenerateFallsBackWhenModelFails(t *testing.T) {
	client := &stubLLM{err: errors.New("quota")}
	svc, _ := newTestService(t, client)
	req := baseRequest("general")
	req.JobDescription = "Build APIs"

	letter, err := svc.Generate(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.Contains(t, letter.Content, fallbackParagraph)
}

func TestGenerateSkipsModelWithoutJobDescription(t *testing.T) {
	client := &stubLLM{text: "unused"}
	svc, _ := newTestService(t, client)
	_, err := svc.Generate(context.Background(), "user-1", baseRequest("general"))
	require.NoError(t, err)
	assert.Empty(t, client.prompts)
}

func TestGenerateErrors(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Generate(ctx, "user-1", baseRequest("missing"))
	assert.ErrorIs(t, err, ErrNotFound)

	req := baseRequest("general")
	req.CompanyName = ""
	_, err = svc.Generate(ctx, "user-1", req)
	assert.True(t, validation.IsValidationError(err), "expected validation error, got %v", err)
}

func TestTemplateLifecycle(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	created, err := svc.CreateTemplate(ctx, "user-1", TemplateInput{Name: "My Startup Letter!", Content: "Hi {hiring_manager}, {applicant_name}"})
	require.NoError(t, err)
	assert.Equal(t, "my-startup-letter", created.ID)
	assert.False(t, created.System)

	_, err = svc.CreateTemplate(ctx, "user-1", TemplateInput{Name: "My startup letter", Content: "x"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Template(ctx, "user-2", created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := svc.UpdateTemplate(ctx, "user-1", created.ID, TemplateInput{Name: "Renamed", Content: "Hello {applicant_name}"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	letter, err := svc.Generate(ctx, "user-1", baseRequest(created.ID))
	require.NoError(t, err)
	assert.Equal(t, "Hello Jane Doe", letter.Content)

	_, err = svc.UpdateTemplate(ctx, "user-2", created.ID, TemplateInput{Name: "x", Content: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.DeleteTemplate(ctx, "user-1", created.ID))
	assert.ErrorIs(t, svc.DeleteTemplate(ctx, "user-1", created.ID), ErrNotFound)

	letters, err := svc.Letters(ctx, "user-1", 0, 0)
	require.NoError(t, err)
	require.Len(t, letters, 1)
	assert.Empty(t, letters[0].TemplateID)
}

func TestSystemTemplatesAreReadOnly(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.UpdateTemplate(ctx, "user-1", "general", TemplateInput{Name: "x", Content: "x"})
	assert.ErrorIs(t, err, ErrReadOnly)
	assert.ErrorIs(t, svc.DeleteTemplate(ctx, "user-1", "general"), ErrReadOnly)
	_, err = svc.CreateTemplate(ctx, "user-1", TemplateInput{ID: "General", Name: "Mine", Content: "x"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateTemplateRejectsEmptySlug(t *testing.T) {
	svc, _ := newTestService(t, nil)
	_, err := svc.CreateTemplate(context.Background(), "user-1", TemplateInput{Name: "!!!", Content: "x"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLettersScopedAndDeletedByUser(t *testing.T) {
	svc, repo := newTestService(t, nil)
	ctx := context.Background()
	for _, user := range []string{"user-1", "user-1", "user-2"} {
		_, err := svc.Generate(ctx, user, baseRequest("general"))
		require.NoError(t, err)
	}
	_, err := svc.CreateTemplate(ctx, "user-1", TemplateInput{Name: "Mine", Content: "x"})
	require.NoError(t, err)

	letters, err := svc.Letters(ctx, "user-1", 1, 0)
	require.NoError(t, err)
	assert.Len(t, letters, 1)

	n, err := repo.DeleteByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	letters, err = svc.Letters(ctx, "user-1", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, letters)
	templates, err := svc.Templates(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, templates, 3)

	letters, err = svc.Letters(ctx, "user-2", 0, 0)
	require.NoError(t, err)
	assert.Len(t, letters, 1)
}

func TestSkillsSection(t *testing.T) {
	assert.Equal(t, "", skillsSection(nil))
	assert.Equal(t, "• Go\n", skillsSection([]string{" Go ", ""}))
	assert.Equal(t, "{unknown}", fill("{unknown}", fields{}))
}

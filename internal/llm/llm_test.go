package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
)

func TestCoverLetterParagraphPrompt(t *testing.T) {
	got := CoverLetterParagraphPrompt(ParagraphInput{
		JobTitle:       "Backend Engineer",
		CompanyName:    "Acme",
		Skills:         []string{"Go", "SQL"},
		JobDescription: "Build APIs",
	})
	for _, want := range []string{"Backend Engineer", "Acme", "Go, SQL", "Build APIs", "Tone: professional"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected prompt to contain %q", want)
		}
	}
	if strings.Contains(got, "{") {
		t.Fatalf("expected every placeholder replaced, got %q", got)
	}
}

func TestPlaceholderClient(t *testing.T) {
	if _, err := (PlaceholderClient{}).Generate(context.Background(), "hi"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{genai.Text(" Hello "), genai.Text("world ")}},
	}}}
	got, err := responseText(resp)
	if err != nil {
		t.Fatalf("responseText: %v", err)
	}
	if got != "Hello world" {
		t.Fatalf("expected joined text, got %q", got)
	}
	if _, err := responseText(&genai.GenerateContentResponse{}); err == nil {
		t.Fatalf("expected error for empty response")
	}
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	if _, err := NewGeminiClient(context.Background(), " ", ""); err == nil {
		t.Fatalf("expected error without api key")
	}
}

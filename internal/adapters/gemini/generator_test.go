package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"

	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/generator"
)

func textResponse(parts ...genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
	}
}

func TestGenerate_ConcatenatesTextParts(t *testing.T) {
	t.Parallel()

	g := &Generator{generate: func(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error) {
		if prompt != "hello" {
			t.Fatalf("prompt=%q", prompt)
		}
		return textResponse(genai.Text("[{\"activity\":"), genai.Blob{MIMEType: "image/png"}, genai.Text("\"Museum\"}]")), nil
	}}

	got, err := g.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Generate() err=%v", err)
	}
	if got != `[{"activity":"Museum"}]` {
		t.Fatalf("Generate()=%q", got)
	}
}

func TestGenerate_WrapsTransportErrors(t *testing.T) {
	t.Parallel()

	g := &Generator{generate: func(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error) {
		return nil, context.DeadlineExceeded
	}}
	_, err := g.Generate(context.Background(), "x")
	if !errors.Is(err, generator.ErrUnavailable) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Generate() err=%v", err)
	}
}

func TestGenerate_EmptyCandidatesIsUnavailable(t *testing.T) {
	t.Parallel()

	g := &Generator{generate: func(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error) {
		return &genai.GenerateContentResponse{}, nil
	}}
	_, err := g.Generate(context.Background(), "x")
	if !errors.Is(err, generator.ErrUnavailable) || !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("Generate() err=%v", err)
	}
}

func TestNew_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	if _, err := New(context.Background(), " ", ""); err == nil {
		t.Fatalf("expected error without api key")
	}
}

func TestClose_NilClient(t *testing.T) {
	t.Parallel()

	if err := (&Generator{}).Close(); err != nil {
		t.Fatalf("Close() err=%v", err)
	}
}

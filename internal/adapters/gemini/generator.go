package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/generator"
)

const DefaultModel = "gemini-1.5-flash"

// ErrEmptyResponse indicates the model returned no text (no candidates or a blocked prompt).
var ErrEmptyResponse = errors.New("gemini returned no text")

type generateFunc func(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error)

// Generator implements generator.Generator with Google's Gemini API.
type Generator struct {
	client   *genai.Client
	generate generateFunc
}

// New creates a Gemini client for the given model (DefaultModel when empty).
func New(ctx context.Context, apiKey, modelName string) (*Generator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.7)

	return &Generator{
		client: client,
		generate: func(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error) {
			return model.GenerateContent(ctx, genai.Text(prompt))
		},
	}, nil
}

// Generate sends prompt and returns the concatenated text of the first candidate.
// Transport and API failures wrap generator.ErrUnavailable.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %w", generator.ErrUnavailable, err)
	}
	text, err := responseText(resp)
	if err != nil {
		return "", fmt.Errorf("%w: %w", generator.ErrUnavailable, err)
	}
	return text, nil
}

func (g *Generator) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}
